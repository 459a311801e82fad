package geojson

import (
	"fmt"
	"strings"
)

// SchemaConformanceError reports a feature that failed validation against
// the observation profile schema. The feature is withheld from output; the
// rest of the batch continues.
type SchemaConformanceError struct {
	FeatureID string
	Causes    []string
}

func (e *SchemaConformanceError) Error() string {
	return fmt.Sprintf("feature %s violates the profile schema: %s",
		e.FeatureID, strings.Join(e.Causes, "; "))
}
