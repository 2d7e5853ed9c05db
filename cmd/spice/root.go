package main

import (
	"fmt"
	"os"

	"spicetracker/lib/serviceutil"
	"spicetracker/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
	dumpHttp   string
)

var rootCmd = &cobra.Command{
	Use:   "spice",
	Short: "spice records the decks of tournament archetypes and reports cards never seen in them before.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(debug)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json5", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dumpHttp, "dump-http", "", "write every http exchange to this directory (requires --debug)")
}

func Execute() {
	ctx := serviceutil.SignalContext()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
