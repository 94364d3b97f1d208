// Package senseicmder
package senseicmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/quillardco/sensei/cmd/sensei/chat"
	configcmder "github.com/quillardco/sensei/cmd/sensei/config"
	initcmder "github.com/quillardco/sensei/cmd/sensei/init"
	servecmder "github.com/quillardco/sensei/cmd/sensei/serve"
	versioncmder "github.com/quillardco/sensei/cmd/version"
)

const senseiLongDesc string = `Sensei is a conversation-aware coding assistant service.

It answers coding questions over HTTP, carrying a bounded window of prior
turns as model context and classifying every model reply into a structured
solution or a plain answer.

Run services using:
  sensei serve         Run the API server
  sensei chat          Interactive chat against a running server`

const senseiShortDesc string = "Sensei - Conversation-Aware Coding Assistant"

func NewSenseiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensei",
		Short: senseiShortDesc,
		Long:  senseiLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .sensei/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
