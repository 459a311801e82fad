// Command bufr2geojson converts decoded BUFR element dumps into WMO profile
// GeoJSON features, one document per observed parameter.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/obskit/bufr2geojson/internal/cli"
)

func main() {
	if err := cli.New().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
