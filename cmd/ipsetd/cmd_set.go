package main

import (
	"context"
	"os"

	"github.com/yaotthaha/ipsetd/constant"
	"github.com/yaotthaha/ipsetd/core"
	"github.com/yaotthaha/ipsetd/ipset"
	"github.com/yaotthaha/ipsetd/log"
	"github.com/yaotthaha/ipsetd/option"

	"github.com/spf13/cobra"
)

var addCommand = &cobra.Command{
	Use:   "add <set> <address>",
	Short: "Add an address to a set, creating the set if missing",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(setCommand(ipset.CommandAdd, args[0], args[1]))
	},
}

var delCommand = &cobra.Command{
	Use:   "del <set> <address>",
	Short: "Delete an address from a set",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(setCommand(ipset.CommandDelete, args[0], args[1]))
	},
}

var (
	paramBackend   string
	paramNftTable  string
	paramNftFamily string
	paramDebug     bool
)

func init() {
	for _, cmd := range []*cobra.Command{addCommand, delCommand} {
		cmd.Flags().StringVarP(&paramBackend, "backend", "b", constant.BackendNetlink, "set backend: netlink, nftables")
		cmd.Flags().StringVar(&paramNftTable, "nft-table", "filter", "nftables table holding the sets")
		cmd.Flags().StringVar(&paramNftFamily, "nft-family", "inet", "nftables table family: inet, ip, ip6")
		cmd.Flags().BoolVarP(&paramDebug, "debug", "d", false, "enable debug log")
		mainCommand.AddCommand(cmd)
	}
}

func setCommand(cmd ipset.Command, setName string, address string) int {
	logger := log.NewLogger()
	logger.SetFormatFunc(log.DisableTimestampFormatFunc)
	logger.SetDebug(paramDebug)
	backendOptions := option.BackendOptions{Type: paramBackend}
	if paramBackend == constant.BackendNftables {
		backendOptions.NftablesOptions = &option.NftablesOptions{
			Table:  paramNftTable,
			Family: paramNftFamily,
		}
	}
	service, err := core.NewService(backendOptions)
	if err != nil {
		logger.Fatal(err)
		return 1
	}
	manager := ipset.NewManager(service, log.NewContextLogger(logger))
	// the manager already logged the failure
	err = manager.Do(log.AddContextTag(context.Background()), cmd, setName, address)
	if err != nil {
		return 1
	}
	return 0
}
