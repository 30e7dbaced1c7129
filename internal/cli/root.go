package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the interactive client
func NewRootCmd() *cobra.Command {
	var addr string

	rootCmd := &cobra.Command{
		Use:   "hangedcli",
		Short: "Interactive terminal client for the hanged game server",
		Long: `hangedcli connects to a hanged game server over TCP and relays
your input lines to it. Commands start with '/'; try /help once connected.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(addr, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().StringVarP(&addr, "addr", "a", "localhost:2050", "server address (host:port)")

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
