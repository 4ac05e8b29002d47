package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"i3pin/internal/version"
)

// newRootCmd creates the root i3pin command with all subcommands attached.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "i3pin",
		Short:         "Keep application windows on their i3 workspaces",
		Long:          "i3pin watches windows of one application and remembers which workspace\neach one lived on, so a window reopened with the same identity is moved\nback to where its predecessor was last seen.",
		Version:       fmt.Sprintf("i3pin %s", version.String()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newDashCmd(),
	)

	return cmd
}
