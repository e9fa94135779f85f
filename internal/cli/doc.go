// Package cli implements the serscope command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to workflow functions for the actual work:
//
//	serscope            - Live plot display (same as "serscope plot")
//	serscope plot       - Poll the device and plot channels in the terminal
//	serscope log        - Poll and log to file without the display
//	serscope raw        - Dump raw device responses for troubleshooting
//	serscope init       - Create a .serscope.yaml config
//	serscope version    - Print version information
//
// # Configuration
//
// Settings come from .serscope.yaml (or ~/.config/serscope/config.yaml),
// merged with command-line flags. Flags win over the file. The Flags type
// and AddPollFlags provide the standard device and polling flags shared by
// plot, log, and raw.
//
// # Session Setup
//
// openSession handles the phases shared by the polling commands:
//
//  1. Load and validate config
//  2. Open the serial port
//  3. Open the log file (if configured)
//  4. Build the registry, clock, and poller
//
// The session must be closed to flush the log file and release the port.
package cli
