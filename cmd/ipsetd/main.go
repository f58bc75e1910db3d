package main

import (
	"os"

	"github.com/spf13/cobra"
)

var mainCommand = &cobra.Command{
	Use:   "ipsetd",
	Short: "Manage membership of addresses in kernel address sets",
	// subcommands report their own errors
	SilenceErrors: true,
	SilenceUsage:  true,
}

var paramConfig string

func init() {
	mainCommand.PersistentFlags().StringVarP(&paramConfig, "config", "c", "config.yaml", "config file")
}

func main() {
	if err := mainCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
