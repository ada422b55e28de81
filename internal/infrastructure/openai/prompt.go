package openai

import (
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are an AI assistant that extracts a list of grocery ingredients and their quantities " +
	"needed for cooking from a user's request. Respond ONLY with a JSON list of objects, each with " +
	`'ingredient' and 'quantity' fields. Example: [{"ingredient": "rice", "quantity": "500g"}, ...]`

func userPrompt(utterance string) string {
	return fmt.Sprintf("What ingredients do I need to %s?", utterance)
}

func buildMessages(utterance string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: userPrompt(utterance),
		},
	}
}
