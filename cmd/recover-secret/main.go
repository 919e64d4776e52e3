// Package main is the recover-secret command, which reconstructs the secret of
// a threshold sharing from share files.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eluv-io/shamir-recover/cmd/recover-secret/recovercmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use: "recover-secret",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	rootCmd.AddCommand(recovercmd.Cmd())

	// cobra has already printed the error
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
