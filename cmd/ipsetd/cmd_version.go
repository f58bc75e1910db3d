package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yaotthaha/ipsetd/adapter"
	"github.com/yaotthaha/ipsetd/constant"
	"github.com/yaotthaha/ipsetd/source"

	"github.com/spf13/cobra"
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		showVersion()
	},
}

func init() {
	mainCommand.AddCommand(versionCommand)
}

func getAllSources() string {
	source.Register()
	sources := adapter.GetAllSource()
	if len(sources) == 0 {
		return "No Sources"
	}
	sort.Strings(sources)
	return "Sources: " + strings.Join(sources, ", ")
}

func showVersion() {
	fmt.Println(constant.GetVersion())
	fmt.Println("")
	fmt.Println("Backends: " + strings.Join([]string{constant.BackendNetlink, constant.BackendNftables, constant.BackendMemory}, ", "))
	fmt.Println(getAllSources())
}
