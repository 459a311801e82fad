package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/obskit/bufr2geojson/internal/geojson"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check converted GeoJSON documents for schema conformance and internal consistency",
		ArgsUsage: "<output-dir>",
		Description: `Validate every .geojson document in a directory, in three phases:

  1. Document Parsing       - each file is well-formed JSON
  2. Profile Schema         - each document conforms to the WMO profile schema
  3. Internal Consistency   - identifiers, filenames, coordinates and times
                              agree with each other

Exits non-zero when any phase reports errors.

Example:

  bufr2geojson validate out/`,
		Action: runValidate,
	}
}

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// document is one output file under validation.
type document struct {
	path    string
	raw     []byte
	feature geojson.Feature
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one output directory argument, got %d", cmd.Args().Len())
	}
	dir := cmd.Args().First()

	paths, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .geojson documents in %s", dir)
	}
	sort.Strings(paths)

	validator, err := geojson.NewSchemaValidator()
	if err != nil {
		return err
	}

	docs, parsePhase := loadDocuments(paths)
	phases := []*phase{
		parsePhase,
		validateSchema(validator, docs),
		validateConsistency(docs),
	}

	out := cmd.Root().Writer
	fmt.Fprintf(out, "=== GeoJSON Output Validation ===\n\n")
	fmt.Fprintf(out, "Documents: %d\n\n", len(paths))

	totalErrors := 0
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			totalErrors += len(p.errors)
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if totalErrors == 0 {
		fmt.Fprintf(out, "\nAll validations passed.\n")
		return nil
	}
	fmt.Fprintf(out, "\nValidation FAILED.\n")
	return fmt.Errorf("validation failed: %d error(s) found", totalErrors)
}

// ── Phase 1: Document Parsing ──

func loadDocuments(paths []string) ([]document, *phase) {
	p := &phase{name: "Phase 1: Document Parsing"}
	var docs []document
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			p.errorf("%s: %v", filepath.Base(path), err)
			continue
		}
		var f geojson.Feature
		if err := json.Unmarshal(raw, &f); err != nil {
			p.errorf("%s: %v", filepath.Base(path), err)
			continue
		}
		docs = append(docs, document{path: path, raw: raw, feature: f})
	}
	return docs, p
}

// ── Phase 2: Profile Schema Conformance ──

func validateSchema(v *geojson.SchemaValidator, docs []document) *phase {
	p := &phase{name: "Phase 2: Profile Schema Conformance"}
	for i := range docs {
		if err := v.ValidateBytes(docs[i].feature.ID, docs[i].raw); err != nil {
			p.errorf("%s: %v", filepath.Base(docs[i].path), err)
		}
	}
	return p
}

// ── Phase 3: Internal Consistency ──
// Checks the relationships the schema cannot express: identifier agreement,
// filename convention, duplicate detection, coordinate ranges and the
// phenomenonTime/resultTime link.

func validateConsistency(docs []document) *phase {
	p := &phase{name: "Phase 3: Internal Consistency"}

	seen := map[string]string{}
	for i := range docs {
		name := filepath.Base(docs[i].path)
		f := &docs[i].feature

		pf := func(format string, args ...any) {
			p.errorf("%s: "+format, append([]any{name}, args...)...)
		}

		if f.ID == "" {
			pf("id is empty")
		} else if !strings.HasPrefix(f.ID, "WIGOS_") {
			pf("id %q does not start with WIGOS_", f.ID)
		}
		if f.Properties.Identifier != f.ID {
			pf("properties.identifier %q does not match id %q", f.Properties.Identifier, f.ID)
		}
		if want := f.ID + ".geojson"; name != want {
			pf("filename does not match id (want %s)", want)
		}
		if prev, dup := seen[f.ID]; dup {
			pf("duplicate id %q (also in %s)", f.ID, prev)
		} else {
			seen[f.ID] = name
		}

		if (f.Properties.Value == nil) == (f.Properties.Description == nil) {
			pf("exactly one of value and description must be set")
		}

		checkGeometry(pf, &f.Geometry)
		checkTimes(pf, &f.Properties)
	}
	return p
}

func checkGeometry(pf func(string, ...any), g *geojson.Geometry) {
	if g.Type != "Point" {
		pf("geometry type %q is not Point", g.Type)
	}
	if len(g.Coordinates) < 2 || len(g.Coordinates) > 3 {
		pf("geometry has %d coordinates (want 2 or 3)", len(g.Coordinates))
		return
	}
	lon, lat := g.Coordinates[0], g.Coordinates[1]
	if lon < -180 || lon > 180 {
		pf("longitude %g out of range [-180, 180]", lon)
	}
	if lat < -90 || lat > 90 {
		pf("latitude %g out of range [-90, 90]", lat)
	}
}

// checkTimes verifies resultTime is the end of the phenomenon extent: equal
// to phenomenonTime for instants, equal to the interval end otherwise.
func checkTimes(pf func(string, ...any), props *geojson.Properties) {
	if props.PhenomenonTime == "" {
		pf("phenomenonTime is empty")
		return
	}
	end := props.PhenomenonTime
	if _, after, found := strings.Cut(props.PhenomenonTime, "/"); found {
		end = after
	}
	if _, err := time.Parse(time.RFC3339, end); err != nil {
		pf("phenomenonTime end %q is not an RFC 3339 instant", end)
	}
	if props.ResultTime != end {
		pf("resultTime %q does not match phenomenonTime end %q", props.ResultTime, end)
	}
}
