package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/techdesk-io/techdesk/internal/interfaces/cli/admin"
	"github.com/techdesk-io/techdesk/internal/interfaces/cli/migrate"
	"github.com/techdesk-io/techdesk/internal/interfaces/cli/server"
	"github.com/techdesk-io/techdesk/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "techdesk",
		Short:        "Techdesk - field service ticket intake",
		Long:         `Techdesk receives service tickets with photos, stores them and mails a summary to the service desk.`,
		Version:      version.String(),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		admin.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
