package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lumos-rgb/lumos/internal/config"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the configuration file",
	// Skip validation so a broken config can still be repaired.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := viper.ConfigFileUsed()
		if path == "" {
			path = defaultConfigPath()
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := defaultConfigPath()
		if path == "" {
			return errors.New("cannot determine config location; pass --config")
		}
		if fileExists(path) && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration value",
	Long: `Set one value in the config file, keeping comments and other settings.

Keys:
  ` + strings.Join(config.Keys, "\n  ") + `

Examples:
  lumos config set backend.address ws://192.168.1.20:9901
  lumos config set highlight.selector "#FF79C6"
  lumos config set cache.ttl 30m`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configPathCmd, configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	path := viper.ConfigFileUsed()
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return errors.New("cannot determine config location; pass --config")
	}

	previous, readErr := os.ReadFile(path) //nolint:gosec // G304: config path
	if err := config.SetValue(path, key, value); err != nil {
		return err
	}

	if err := validateConfigFile(path); err != nil {
		// Put the file back as it was.
		if readErr == nil {
			_ = os.WriteFile(path, previous, 0o600)
		} else {
			_ = os.Remove(path)
		}
		return fmt.Errorf("%s=%s rejected: %w", key, value, err)
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return err
}

// validateConfigFile loads path over the defaults and validates it.
func validateConfigFile(path string) error {
	v := viper.New()
	d := config.Defaults()
	v.SetDefault("parser.max_input_length", d.Parser.MaxInputLength)
	v.SetDefault("backend.address", d.Backend.Address)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	var loaded config.Config
	if err := v.Unmarshal(&loaded); err != nil {
		return err
	}
	return config.Validate(loaded)
}
