package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aislemate/backend/config"
)

var version = "dev"

// app carries state shared by subcommands
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "aislemate",
		Short: "Turn a cooking request into an in-store shopping list",
		Long: `aislemate asks a language model which ingredients a dish needs and matches
them against the store inventory, printing product, price, discount and aisle.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.loadConfig()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./config.yaml)")
	flags.String("catalog", "", "inventory CSV path (overrides catalog.path)")
	flags.Int("max", 0, "maximum products per ingredient (overrides matching.max_results_per_item)")
	flags.Bool("debug", false, "enable matcher debug logging")

	_ = a.v.BindPFlag("catalog.path", flags.Lookup("catalog"))
	_ = a.v.BindPFlag("matching.max_results_per_item", flags.Lookup("max"))
	_ = a.v.BindPFlag("matching.enable_debug_logging", flags.Lookup("debug"))

	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(dealsCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func (a *app) loadConfig() error {
	cfg, err := config.LoadWithViper(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "aislemate %s\n", version)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Diagnostics go to stderr so command output stays clean
	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stderr)
}
