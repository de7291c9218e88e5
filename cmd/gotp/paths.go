package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gotp/gotp"
)

func pathsCommand() *cli.Command {
	return &cli.Command{
		Name:  "paths",
		Usage: "Show program search paths",
		Description: `Shows the program directories that would be scanned. When -p paths are
given, shows those. Otherwise shows the directories from the gotp config
file and GOTP_PATH.

Examples:
  gotp paths
  GOTP_PATH=/backup/cell5 gotp paths`,
		Action: func(c *cli.Context) error {
			paths := c.StringSlice("path")
			if len(paths) == 0 {
				paths = gotp.DiscoverEnvPaths()
			}
			if len(paths) == 0 {
				fmt.Fprintln(os.Stderr, "no search paths found")
				return nil
			}
			for _, p := range paths {
				fmt.Fprintln(c.App.Writer, p)
			}
			return nil
		},
	}
}
