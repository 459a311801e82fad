package convert

import (
	"fmt"
	"strings"

	"github.com/obskit/bufr2geojson/internal/bufr"
)

// MalformedReplicationError reports a replication marker whose declared span
// or count cannot be satisfied by the remaining stream. Fatal to the
// enclosing subset; other subsets in the message continue.
type MalformedReplicationError struct {
	Subset int
	Marker bufr.Descriptor
	Reason string
}

func (e *MalformedReplicationError) Error() string {
	return fmt.Sprintf("subset %d: malformed replication %s: %s", e.Subset, e.Marker, e.Reason)
}

// IncompleteContextError reports mandatory coordinate or time fields missing
// when a record reaches assembly. Fatal to the record's group; sibling
// records with complete contexts still assemble.
type IncompleteContextError struct {
	Missing []string
}

func (e *IncompleteContextError) Error() string {
	return fmt.Sprintf("incomplete observation context: missing %s", strings.Join(e.Missing, ", "))
}

// UnsupportedDescriptorError reports a descriptor the engine deliberately
// refuses to interpret (coordinate increments, stacked time displacements).
// Fatal to the enclosing subset: silently mislocating observations is worse
// than dropping them.
type UnsupportedDescriptorError struct {
	Code   bufr.Descriptor
	Key    string
	Reason string
}

func (e *UnsupportedDescriptorError) Error() string {
	return fmt.Sprintf("unsupported descriptor %s (%s): %s", e.Code, e.Key, e.Reason)
}
