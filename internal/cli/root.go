package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var (
	configFlag string
	debugFlag  bool
)

// rootCmd is the base command. Running it without a subcommand starts the
// live plot display.
var rootCmd = &cobra.Command{
	Use:   "serscope",
	Short: "Serial telemetry logger and live terminal plotter",
	Long: `serscope polls a serial device for telemetry values, logs them to a
delimited file, and plots every discovered channel live in the terminal.

Running serscope without a subcommand starts the live plot display.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return plotCommand()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path (default: .serscope.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log raw device responses")
}

// Config returns the --config flag value.
func Config() string {
	return configFlag
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
