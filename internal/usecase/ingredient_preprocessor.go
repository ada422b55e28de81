package usecase

import (
	"log"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Compiled regex patterns for ingredient cleanup
var (
	// Bullets and list numbering the model sometimes prepends ("- ", "* ", "1. ", "2) ")
	listMarkerPattern = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)])\s+`)

	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// edgePunctuation is trimmed from both ends of an ingredient name
const edgePunctuation = ",.;:!?\"'`"

// maxIngredientLength bounds a single ingredient name
const maxIngredientLength = 80

// IngredientPreprocessor cleans ingredient names produced by the language model
type IngredientPreprocessor struct {
	enableDebugLogging bool
}

// NewIngredientPreprocessor creates a new ingredient preprocessor
func NewIngredientPreprocessor(enableDebugLogging bool) *IngredientPreprocessor {
	return &IngredientPreprocessor{
		enableDebugLogging: enableDebugLogging,
	}
}

// NormalizeIngredient returns a cleaned ingredient name, or "" when nothing usable remains.
// Case is preserved; matching is case-insensitive downstream.
func (p *IngredientPreprocessor) NormalizeIngredient(name string) string {
	if name == "" {
		return ""
	}

	original := name

	// Step 1: Unicode compatibility normalization (full-width letters, ligatures)
	cleaned := norm.NFKC.String(name)

	// Step 2: Drop control characters
	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, cleaned)

	// Step 3: Remove list markers
	cleaned = listMarkerPattern.ReplaceAllString(cleaned, "")

	// Step 4: Normalize whitespace and trim edge punctuation
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(strings.TrimSpace(cleaned), edgePunctuation)
	cleaned = strings.TrimSpace(cleaned)

	// Step 5: Limit length, cutting at a word boundary when possible
	if len(cleaned) > maxIngredientLength {
		cleaned = cleaned[:maxIngredientLength]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxIngredientLength/2 {
			cleaned = cleaned[:lastSpace]
		}
		cleaned = strings.ToValidUTF8(cleaned, "")
	}

	if p.enableDebugLogging && cleaned != original {
		log.Printf("[PREPROCESS] Input: %q → Output: %q", original, cleaned)
	}

	return cleaned
}

// NormalizeQuantity trims and collapses whitespace in a quantity string
func (p *IngredientPreprocessor) NormalizeQuantity(qty string) string {
	qty = norm.NFKC.String(qty)
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(qty, " "))
}
