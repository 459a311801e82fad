package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/obskit/bufr2geojson/internal/adapter/ecdump"
	"github.com/obskit/bufr2geojson/internal/observability"
	"github.com/obskit/bufr2geojson/internal/pipeline"
	"github.com/obskit/bufr2geojson/internal/sink"
)

func transformCmd() *cli.Command {
	return &cli.Command{
		Name:      "transform",
		Usage:     "Convert one decoded element dump into profile GeoJSON features",
		ArgsUsage: "<dump-file>",
		Description: `Convert a decoded BUFR element dump (JSON, as produced by ecCodes-style
decoders or the gendump tool) into one GeoJSON document per observed
parameter.

Each document is written to the output directory as <identifier>.geojson.
Identifiers are deterministic, so converting the same dump twice overwrites
in place.

Examples:

  Convert a surface observation dump:
    bufr2geojson transform --output-dir out/ surface.json

  Also flatten the features into out/surface.csv:
    bufr2geojson transform -o out/ --csv surface.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output-dir",
				Aliases:  []string{"o"},
				Required: true,
				Usage:    "Directory receiving one <identifier>.geojson document per feature",
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Also flatten all features into <dump-stem>.csv in the output directory",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: 4,
				Usage: "Number of messages converted concurrently",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "Log verbosity: debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "Log encoding: text or json",
			},
		},
		Action: runTransform,
	}
}

func runTransform(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one dump file argument, got %d", cmd.Args().Len())
	}
	input := cmd.Args().First()
	outDir := cmd.String("output-dir")

	logger := observability.NewLogger(cmd.String("log-level"), cmd.String("log-format"))

	runner, err := pipeline.NewRunner(ecdump.NewDecoder(), logger, cmd.Int("workers"))
	if err != nil {
		return err
	}

	geo, err := sink.NewGeoJSONWriter(outDir, logger)
	if err != nil {
		return err
	}
	sinks := []pipeline.FeatureSink{geo}

	var flat *sink.CSVFlattener
	if cmd.Bool("csv") {
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		flat = sink.NewCSVFlattener(filepath.Join(outDir, stem+".csv"))
		sinks = append(sinks, flat)
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	summary, runErr := runner.Run(ctx, filepath.Base(input), f, sinks...)
	if flat != nil {
		if err := flat.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("close csv: %w", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	printSummary(cmd, summary, outDir, flat)
	return nil
}

func printSummary(cmd *cli.Command, s *pipeline.Summary, outDir string, flat *sink.CSVFlattener) {
	out := cmd.Root().Writer
	fmt.Fprintf(out, "Converted %s: %d message(s), %d feature(s) written to %s\n",
		s.Source, s.MessagesProcessed, s.FeaturesWritten, outDir)
	if s.MessagesFailed > 0 {
		fmt.Fprintf(out, "  %d message(s) had failures: %d subset(s) failed, %d record(s) incomplete, %d schema failure(s)\n",
			s.MessagesFailed, s.SubsetsFailed, s.RecordsFailed, s.SchemaFailures)
	}
	if s.RecordsDropped > 0 {
		fmt.Fprintf(out, "  %d observation(s) dropped for missing values\n", s.RecordsDropped)
	}
	if flat != nil {
		fmt.Fprintf(out, "  Features flattened to %s\n", flat.Path())
	}
}
