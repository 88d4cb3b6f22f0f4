package main

import (
	"errors"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Long:  `Print the module version and the Go toolchain memtally was built with.`,
		Args:  cobra.NoArgs,
		RunE:  version,
	}
}

func version(cmd *cobra.Command, _ []string) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("could not read embedded build info ('go build -buildvcs=true')")
	}

	cmd.Printf("memtally %s (%s)\n", info.Main.Version, info.GoVersion)

	return nil
}
