package cmd

import (
	"github.com/spf13/cobra"

	"github.com/SARVESHVARADKAR123/livechat/internal/config"
)

// NewRootCmd creates the operator command for a livechat deployment. Settings
// come from the same environment (and .env) the server reads.
func NewRootCmd() *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           "livechatctl",
		Short:         "livechat operator tools",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			cfg = config.Load()
		},
	}

	current := func() *config.Config { return cfg }
	rootCmd.AddCommand(
		newTokenCmd(current),
		newMigrateCmd(current),
	)
	return rootCmd
}
