package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/serscope/serscope/internal/config"
	"github.com/serscope/serscope/internal/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// runInit creates a new .serscope.yaml configuration file. With --port it
// runs non-interactively from flags; otherwise it prompts.
func runInit(cmd *cobra.Command, force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		if initFlags.Port != "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	initFlags.Merge(cfg)

	if initFlags.Port == "" {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}
	if cfg.Poll.Request == "" && len(cfg.Poll.Cells) == 0 {
		// Keep the written file valid; validation requires a poll target.
		cfg.Poll.Request = "GETALL"
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to serialize config",
			"This is a bug; please report it")
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+configPath,
			"Check directory permissions")
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println("Run 'serscope' to start the live plot.")
	return nil
}

// promptConfig collects the device settings interactively.
func promptConfig(cfg *config.Config) error {
	port := cfg.Serial.Port
	baud := strconv.Itoa(cfg.Serial.Baud)
	request := cfg.Poll.Request
	cells := strings.Join(cfg.Poll.Cells, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Serial port").
				Description("Device path, e.g. /dev/ttyUSB0 or COM3").
				Placeholder("/dev/ttyUSB0").
				Value(&port).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("serial port is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Baud rate").
				Placeholder("115200").
				Value(&baud).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n <= 0 {
						return fmt.Errorf("baud rate must be a positive number")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Request command (optional)").
				Description("Sent every cycle; channels are discovered from the response").
				Placeholder("GETALL (leave empty to list cells instead)").
				Value(&request),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Cells (optional)").
				Description("Comma-separated Name:Addr or Addr entries, queried individually").
				Placeholder("V1:10, V2:20").
				Value(&cells),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Run non-interactively with --port and --request or --cell")
	}

	cfg.Serial.Port = strings.TrimSpace(port)
	cfg.Serial.Baud, _ = strconv.Atoi(strings.TrimSpace(baud))
	cfg.Poll.Request = strings.TrimSpace(request)

	cfg.Poll.Cells = nil
	for _, c := range strings.Split(cells, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cfg.Poll.Cells = append(cfg.Poll.Cells, c)
		}
	}
	if cfg.Poll.Request != "" {
		cfg.Poll.Cells = nil
	}

	return nil
}
