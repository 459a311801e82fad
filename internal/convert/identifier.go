package convert

import (
	"fmt"
	"strings"
)

// IdentifierGenerator assigns feature identifiers within one conversion run.
// An identifier is a pure function of the station, the phenomenon time, the
// parameter name and the ordinal of that triple in stream order, so
// re-converting the same input reproduces the same identifiers and repeated
// ingestion overwrites rather than duplicates downstream. Coordinates never
// participate: a relocated station keeps its identity.
//
// Not safe for concurrent use; the pipeline assembles features sequentially
// in batch order, one generator per run.
type IdentifierGenerator struct {
	seq map[string]int
}

func NewIdentifierGenerator() *IdentifierGenerator {
	return &IdentifierGenerator{seq: make(map[string]int)}
}

// Next returns the identifier for the next record reporting name at
// phenomenonTime from station wsi.
func (g *IdentifierGenerator) Next(wsi, phenomenonTime, name string) string {
	key := wsi + "\x00" + phenomenonTime + "\x00" + name
	n := g.seq[key]
	g.seq[key] = n + 1
	return fmt.Sprintf("WIGOS_%s_%s_%s_%d", wsi, compactTime(phenomenonTime), name, n)
}

// compactTime strips the punctuation ISO 8601 allows to drop, keeping
// identifiers safe as filenames: "2022-03-20T21:00:00Z" becomes
// "20220320T210000Z". Interval separators become hyphens.
func compactTime(t string) string {
	return timeCompactor.Replace(t)
}

var timeCompactor = strings.NewReplacer("-", "", ":", "", "/", "-")
