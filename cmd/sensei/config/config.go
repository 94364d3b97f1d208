// Package configcmder provides the config command for managing persistent
// sensei configuration stored in the .sensei/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent sensei configuration.

Configuration is stored as config.toml in the .sensei/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  storage.sqlite_path, storage.postgres_dsn,
  llm.provider, llm.target, llm.model, llm.api_key,
  api.listen, client.api_target, assist.history_window,
  events.enabled, events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  sensei config set <key> <value>    Set a configuration value
  sensei config get <key>            Get a configuration value
  sensei config list                 List all configuration values

Examples:
  sensei config set llm.provider openai
  sensei config set llm.target https://api.openai.com
  sensei config get llm.model
  sensei config list`

const configShortDesc string = "Manage persistent sensei configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
