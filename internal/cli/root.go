// Package cli assembles the bufr2geojson command line: one-shot conversion,
// output validation, and the long-running watch service.
package cli

import (
	"github.com/urfave/cli/v3"
)

// version is overridden at build time with ldflags.
var version = "dev"

// New builds the root command with all subcommands attached.
func New() *cli.Command {
	return &cli.Command{
		Name:    "bufr2geojson",
		Usage:   "Convert decoded BUFR element dumps into WMO profile GeoJSON features",
		Version: version,
		Commands: []*cli.Command{
			transformCmd(),
			validateCmd(),
			watchCmd(),
		},
	}
}
