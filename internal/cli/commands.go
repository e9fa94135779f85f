package cli

import (
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	plotFlags PollFlags
	logFlags  PollFlags
	rawFlags  PollFlags
	initFlags PollFlags
	rawCount  int
	initForce bool
)

// plotCmd polls the device and shows the live terminal plot.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Poll the device and plot channels live",
	Long: `Poll the serial device and plot every discovered channel in the terminal.

Polling starts immediately. Hover the plot with the mouse to inspect values;
press ? inside the display for all keybindings.

Examples:
  serscope plot
  serscope plot --port /dev/ttyUSB0 --request GETALL
  serscope plot --cell V1:10 --cell V2:20 --file run.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlot(&plotFlags)
	},
}

// logCmd polls and logs without the display.
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Poll and log to file without the display",
	Long: `Poll the serial device and append rows to the log file, printing a
status line per cycle instead of the live plot. Runs until interrupted.

Useful for long unattended captures or terminals without mouse support.

Examples:
  serscope log --file run.csv
  serscope log --port COM3 --cell V1:10 --file run.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLog(&logFlags)
	},
}

// rawCmd dumps raw device responses for troubleshooting.
var rawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Dump raw device responses",
	Long: `Send the configured request each cycle and print the raw response
bytes without parsing. Use this to see exactly what the device returns when
channels are not being discovered.

Examples:
  serscope raw --port /dev/ttyUSB0 --request GETALL
  serscope raw --count 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRaw(&rawFlags, rawCount)
	},
}

// initCmd creates a new .serscope.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .serscope.yaml configuration",
	Long: `Initialize a new serscope configuration file.

Creates a .serscope.yaml file in the current directory. Guides you through
port and polling configuration with interactive prompts, or takes everything
from flags with --port.

Examples:
  serscope init
  serscope init --port /dev/ttyUSB0 --cell V1:10
  serscope init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd, initForce)
	},
}

func init() {
	// The bare "serscope" invocation takes the same flags as plot.
	AddPollFlags(rootCmd, &plotFlags)
	AddPollFlags(plotCmd, &plotFlags)
	AddPollFlags(logCmd, &logFlags)
	AddPollFlags(rawCmd, &rawFlags)
	rawCmd.Flags().IntVar(&rawCount, "count", 0, "stop after this many reads (0 runs until interrupted)")

	AddPollFlags(initCmd, &initFlags)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")

	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(rawCmd)
	rootCmd.AddCommand(initCmd)
}

// plotCommand is the default action when no subcommand is given.
func plotCommand() error {
	return runPlot(&plotFlags)
}
