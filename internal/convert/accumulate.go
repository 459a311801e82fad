package convert

import (
	"log/slog"

	"github.com/obskit/bufr2geojson/internal/bufr"
)

// accumulator walks a resolved group tree and produces observation records.
// The current-record pointer and the pending metadata queue are scoped to
// one group walk; nested groups start clean and never leak state back.
type accumulator struct {
	logger  *slog.Logger
	dropped int
}

func (a *accumulator) walk(g *Group, inherited Context, subset int) ([]Record, error) {
	ctx := inherited
	var records []Record
	current := -1
	var pending []MetadataItem
	prevKey := ""

	for _, item := range g.Items {
		if item.Group != nil {
			nested, err := a.walk(item.Group, ctx, subset)
			if err != nil {
				return nil, err
			}
			records = append(records, nested...)
			continue
		}

		el := normalizeUnits(*item.Element)
		switch el.Role() {
		case bufr.RoleCoordinate:
			next, err := ctx.Apply(el, prevKey)
			if err != nil {
				return nil, err
			}
			ctx = next

		case bufr.RoleMetadata:
			value, desc := resolveElement(el)
			if value == nil && desc == nil {
				a.logger.Debug("missing qualifier skipped",
					"subset", subset, "key", el.Key)
				break
			}
			md := MetadataItem{Name: el.Key, Value: value, Units: el.Units, Description: desc}
			if current >= 0 {
				records[current].Metadata = append(records[current].Metadata, md)
			} else {
				pending = append(pending, md)
			}

		case bufr.RolePrimary:
			value, desc := resolveElement(el)
			if value == nil && desc == nil {
				a.dropped++
				a.logger.Debug("missing value dropped",
					"subset", subset, "key", el.Key, "descriptor", el.Code.String())
				break
			}
			rec := Record{
				Subset:      subset,
				Pos:         item.Pos,
				Code:        el.Code,
				Name:        el.Key,
				Value:       value,
				Units:       el.Units,
				Description: desc,
				Context:     ctx,
			}
			rec.Metadata = append(rec.Metadata, pending...)
			pending = nil
			records = append(records, rec)
			current = len(records) - 1

		case bufr.RoleReplication, bufr.RoleCount:
			// resolver bookkeeping, nothing to report
		}
		prevKey = el.Key
	}

	if len(pending) > 0 {
		a.logger.Debug("unattached metadata dropped at group end",
			"subset", subset, "count", len(pending))
	}
	return records, nil
}
