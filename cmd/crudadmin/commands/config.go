package commands

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/crudadmin/internal/config"
	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/internal/logging"
	"github.com/fivetwenty-io/crudadmin/pkg/adminclient"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in the crudadmin config file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration from flags, environment and config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			return newPrinter(cmd).properties(cfg, [][]string{
				{"API URL", formatConfigValue(cfg.APIURL)},
				{"Listen", cfg.Listen},
				{"Output", cfg.Output},
				{"Log Level", cfg.LogLevel},
				{"Log Format", cfg.LogFormat},
				{"Debug", strconv.FormatBool(cfg.Debug)},
				{"HTTP Timeout", cfg.HTTPTimeout.String()},
				{"Retry Max", strconv.Itoa(cfg.RetryMax)},
				{"NATS URL", formatConfigValue(cfg.NATSURL)},
				{"Event Subject Prefix", cfg.SubjectPrefix},
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: fmt.Sprintf(`Set a configuration value in the config file.

Known keys: %v`, config.Keys),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, raw := args[0], args[1]

			value, err := parseConfigValue(key, raw)
			if err != nil {
				return err
			}

			path, settings, err := readConfigFile()
			if err != nil {
				return err
			}

			settings[key] = value

			err = config.Save(path, settings)
			if err != nil {
				return err
			}

			return outputConfigUpdateResult(cmd, "Set", key, raw)
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !config.IsKnownKey(key) {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			path, settings, err := readConfigFile()
			if err != nil {
				return err
			}

			delete(settings, key)

			err = config.Save(path, settings)
			if err != nil {
				return err
			}

			return outputConfigUpdateResult(cmd, "Unset", key, "")
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove the config file and every setting in it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}

			err = os.Remove(path)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			return outputConfigUpdateResult(cmd, "Cleared", "all configuration", "")
		},
	}
}

// configFilePath returns the file in use, or the default location.
func configFilePath() (string, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		return path, nil
	}

	return config.DefaultPath()
}

func readConfigFile() (string, map[string]interface{}, error) {
	path, err := configFilePath()
	if err != nil {
		return "", nil, err
	}

	settings, err := config.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	return path, settings, nil
}

// parseConfigValue validates raw for key and converts it to the type stored
// in the config file.
func parseConfigValue(key, raw string) (interface{}, error) {
	if !config.IsKnownKey(key) {
		return nil, fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	switch key {
	case config.KeyAPIURL:
		endpoint, err := adminclient.NormalizeEndpoint(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", constants.ErrInvalidAPIURL, err)
		}

		return endpoint, nil
	case config.KeyOutput:
		if !slices.Contains([]string{constants.FormatTable, constants.FormatJSON, constants.FormatYAML}, raw) {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidOutput, raw)
		}
	case config.KeyLogLevel:
		_, err := logging.ParseLevel(raw)
		if err != nil {
			return nil, err
		}
	case config.KeyLogFormat:
		if raw != logging.FormatConsole && raw != logging.FormatJSON {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidLogFormat, raw)
		}
	case config.KeyDebug:
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}

		return value, nil
	case config.KeyRetryMax:
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return nil, fmt.Errorf("invalid value for %s: %q", key, raw)
		}

		return value, nil
	case config.KeyHTTPTimeout:
		_, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}

	return raw, nil
}

func outputConfigUpdateResult(cmd *cobra.Command, action, key, value string) error {
	p := newPrinter(cmd)

	if p.format == constants.FormatJSON || p.format == constants.FormatYAML {
		result := map[string]string{
			"action": action,
			"key":    key,
		}

		if value != "" {
			result["value"] = value
		}

		return p.print(result, nil)
	}

	if value != "" {
		p.line("%s %s = %s", action, key, value)
	} else {
		p.line("%s %s", action, key)
	}

	return nil
}

func formatConfigValue(value string) string {
	if value == "" {
		return "-"
	}

	return value
}
