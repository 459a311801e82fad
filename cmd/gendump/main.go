// Command gendump composes deterministic element-dump fixtures in the
// companion decoder's JSON format and converts them with the real pipeline,
// so the printed feature identifiers and values can be pasted straight into
// test assertions.
//
// Usage:
//
//	go run ./cmd/gendump -out-dir testdata
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/obskit/bufr2geojson/internal/adapter/ecdump"
	"github.com/obskit/bufr2geojson/internal/bufr"
	"github.com/obskit/bufr2geojson/internal/pipeline"
	"github.com/obskit/bufr2geojson/internal/sink"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "directory receiving the generated dump files")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}

	names := []string{"surface.json", "ship.json", "profile.json"}
	dumps := map[string]ecdump.Dump{
		"surface.json": surfaceDump(),
		"ship.json":    shipDump(),
		"profile.json": profileDump(),
	}

	for _, name := range names {
		path := filepath.Join(*outDir, name)
		if err := writeDump(path, dumps[name]); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		log.Printf("wrote %s", path)
	}

	return printStats(*outDir, names)
}

// printStats converts each dump through the real pipeline and reports the
// features it yields.
func printStats(dir string, names []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	runner, err := pipeline.NewRunner(ecdump.NewDecoder(), logger, 1)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		collection := sink.NewCollection()
		summary, err := runner.Run(context.Background(), name, f, collection)
		f.Close()
		if err != nil {
			return fmt.Errorf("converting %s: %w", name, err)
		}

		fmt.Printf("\n%s: %d message(s), %d feature(s)\n",
			name, summary.MessagesProcessed, summary.FeaturesWritten)
		for _, feat := range collection.Features() {
			switch {
			case feat.Properties.Value != nil:
				fmt.Printf("  %s = %g %s\n", feat.ID, *feat.Properties.Value, feat.Properties.Units)
			case feat.Properties.Description != nil:
				fmt.Printf("  %s = %q\n", feat.ID, *feat.Properties.Description)
			}
		}
	}
	return nil
}

func writeDump(path string, d ecdump.Dump) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func num(code, key string, value float64, units string, scale int) ecdump.ElementDump {
	return ecdump.ElementDump{Code: code, Key: key, Value: &value, Units: units, Scale: scale}
}

func text(code, key, s string) ecdump.ElementDump {
	return ecdump.ElementDump{Code: code, Key: key, Text: s, Units: "CCITT IA5"}
}

func marker(code string) ecdump.ElementDump {
	return ecdump.ElementDump{Code: code, Key: "replication"}
}

// surfaceDump is a manned synoptic station reporting the common surface
// parameters: station descriptives, instantaneous temperature and pressure,
// a decoded present-weather entry and a period-bound wind gust.
func surfaceDump() ecdump.Dump {
	return ecdump.Dump{
		Source: "A_ISIA21EIDB202100_C_EDZW_20220320210902.bin",
		Messages: []ecdump.MessageDump{{
			Header: bufr.Header{
				Edition:            4,
				MasterTableVersion: 37,
				OriginatingCentre:  78,
				DataCategory:       0,
				TypicalDate:        "20220320",
				TypicalTime:        "210000",
				Sequence:           "307080",
			},
			Subsets: []ecdump.SubsetDump{{Elements: []ecdump.ElementDump{
				num("001001", "blockNumber", 11, "Numeric", 0),
				num("001002", "stationNumber", 839, "Numeric", 0),
				text("001015", "stationOrSiteName", "WIEN/HOHE WARTE"),
				num("002001", "stationType", 1, "CODE TABLE", 0),
				num("004001", "year", 2022, "a", 0),
				num("004002", "month", 3, "mon", 0),
				num("004003", "day", 20, "d", 0),
				num("004004", "hour", 21, "h", 0),
				num("004005", "minute", 0, "min", 0),
				num("005001", "latitude", 48.24861, "deg", 5),
				num("006001", "longitude", 16.35639, "deg", 5),
				num("007030", "heightOfStationGroundAboveMeanSeaLevel", 198, "m", 1),
				num("007032", "heightOfSensorAboveLocalGroundOrDeckOfMarinePlatform", 2, "m", 2),
				num("012101", "airTemperature", 294.15, "K", 2),
				num("012103", "dewpointTemperature", 287.65, "K", 2),
				num("010004", "nonCoordinatePressure", 100940, "Pa", -1),
				num("020003", "presentWeather", 61, "CODE TABLE", 0),
				num("004025", "timePeriod", -10, "min", 0),
				num("011041", "maximumWindGustSpeed", 8.7, "m/s", 1),
			}}},
		}},
	}
}

// shipDump is an automatic ship report identified by call sign. The sea
// temperature qualifiers precede their observation so they attach to it.
func shipDump() ecdump.Dump {
	return ecdump.Dump{
		Source: "A_ISSD01LFPW202100_C_EDZW_20220320211004.bin",
		Messages: []ecdump.MessageDump{{
			Header: bufr.Header{
				Edition:            4,
				MasterTableVersion: 37,
				OriginatingCentre:  85,
				DataCategory:       1,
				TypicalDate:        "20220320",
				TypicalTime:        "210000",
				Sequence:           "308009",
			},
			Subsets: []ecdump.SubsetDump{{Elements: []ecdump.ElementDump{
				text("001011", "shipOrMobileLandStationIdentifier", "DBLK"),
				num("002001", "stationType", 0, "CODE TABLE", 0),
				num("004001", "year", 2022, "a", 0),
				num("004002", "month", 3, "mon", 0),
				num("004003", "day", 20, "d", 0),
				num("004004", "hour", 21, "h", 0),
				num("004005", "minute", 0, "min", 0),
				num("005002", "latitude", 54.52, "deg", 2),
				num("006002", "longitude", 7.89, "deg", 2),
				num("002038", "methodOfSeaSurfaceTemperatureMeasurement", 2, "CODE TABLE", 0),
				num("022067", "instrumentTypeForWaterTemperatureProfileMeasurement", 401, "CODE TABLE", 0),
				num("022043", "seaSurfaceTemperature", 283.45, "K", 2),
				num("012101", "airTemperature", 280.15, "K", 2),
			}}},
		}},
	}
}

// profileDump is a two-level sounding: explicit WIGOS identity, a delayed
// replication over the levels, and per-level balloon drift.
func profileDump() ecdump.Dump {
	return ecdump.Dump{
		Source: "A_IUSD02LOWM202300_C_EDZW_20220320230704.bin",
		Messages: []ecdump.MessageDump{{
			Header: bufr.Header{
				Edition:            4,
				MasterTableVersion: 37,
				OriginatingCentre:  78,
				DataCategory:       2,
				TypicalDate:        "20220320",
				TypicalTime:        "230000",
				Sequence:           "309052",
			},
			Subsets: []ecdump.SubsetDump{{Elements: []ecdump.ElementDump{
				num("001125", "wigosIdentifierSeries", 0, "Numeric", 0),
				num("001126", "wigosIssuerOfIdentifier", 20000, "Numeric", 0),
				num("001127", "wigosIssueNumber", 0, "Numeric", 0),
				text("001128", "wigosLocalIdentifierCharacter", "11035"),
				num("004001", "year", 2022, "a", 0),
				num("004002", "month", 3, "mon", 0),
				num("004003", "day", 20, "d", 0),
				num("004004", "hour", 23, "h", 0),
				num("004005", "minute", 0, "min", 0),
				num("005001", "latitude", 48.24861, "deg", 5),
				num("006001", "longitude", 16.35639, "deg", 5),
				marker("103000"),
				num("031001", "delayedDescriptorReplicationFactor", 2, "Numeric", 0),
				num("005015", "latitudeDisplacement", 0.01, "deg", 5),
				num("007004", "pressure", 85000, "Pa", -1),
				num("012101", "airTemperature", 265.35, "K", 2),
				num("005015", "latitudeDisplacement", 0.052, "deg", 5),
				num("007004", "pressure", 70000, "Pa", -1),
				num("012101", "airTemperature", 255.15, "K", 2),
			}}},
		}},
	}
}
