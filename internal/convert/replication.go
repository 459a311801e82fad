package convert

import (
	"fmt"

	"github.com/obskit/bufr2geojson/internal/bufr"
)

// Group is an ordered run of elements and nested replication groups. The
// root group covers a whole subset; each repetition of a replicated span
// becomes one child group.
type Group struct {
	Items []Item
}

// Item is one stream item at a group's level: either a plain element with
// its position in the subset's flat stream, or a nested group.
type Item struct {
	Element *bufr.Element
	Pos     int
	Group   *Group
}

// ResolveReplication partitions a subset's flat element stream into a group
// tree. A replication marker 1XXYYY opens YYY repetitions of a span XX items
// wide; YYY of zero defers the count to the class 31 element immediately
// following the marker. At any level a nested replication construct counts
// as a single item of the enclosing span.
//
// A marker whose span or count cannot be satisfied by the remaining stream
// yields a MalformedReplicationError, abandoning the subset.
func ResolveReplication(sub bufr.Subset) (*Group, error) {
	root := &Group{}
	_, _, err := consumeItems(sub.Elements, 0, root, -1, sub.Index)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// consumeItems moves exactly n items from elems into g, where pos is the
// stream position of elems[0]. It returns the remaining elements and the
// position of the first of them. n < 0 consumes everything.
func consumeItems(elems []bufr.Element, pos int, g *Group, n int, subset int) ([]bufr.Element, int, error) {
	for taken := 0; n < 0 || taken < n; taken++ {
		if len(elems) == 0 {
			if n < 0 {
				return elems, pos, nil
			}
			return nil, pos, &MalformedReplicationError{
				Subset: subset,
				Reason: fmt.Sprintf("span needs %d more items but the stream is exhausted", n-taken),
			}
		}

		el := elems[0]
		if !el.Code.IsReplication() {
			g.Items = append(g.Items, Item{Element: &el, Pos: pos})
			elems = elems[1:]
			pos++
			continue
		}

		marker := el
		span := marker.Code.X()
		count := marker.Code.Y()
		elems = elems[1:]
		pos++

		if count == 0 {
			if len(elems) == 0 || !elems[0].Code.IsDelayedCount() {
				return nil, pos, &MalformedReplicationError{
					Subset: subset,
					Marker: marker.Code,
					Reason: "delayed replication without a class 31 count",
				}
			}
			counter := elems[0]
			elems = elems[1:]
			pos++
			if counter.Value == nil {
				return nil, pos, &MalformedReplicationError{
					Subset: subset,
					Marker: marker.Code,
					Reason: "delayed replication count is missing",
				}
			}
			count = int(*counter.Value)
			if count < 0 {
				return nil, pos, &MalformedReplicationError{
					Subset: subset,
					Marker: marker.Code,
					Reason: fmt.Sprintf("negative replication count %d", count),
				}
			}
		}

		for rep := 0; rep < count; rep++ {
			child := &Group{}
			var err error
			elems, pos, err = consumeItems(elems, pos, child, span, subset)
			if err != nil {
				if me, ok := err.(*MalformedReplicationError); ok && me.Marker == 0 {
					me.Marker = marker.Code
				}
				return nil, pos, err
			}
			g.Items = append(g.Items, Item{Group: child})
		}
	}
	return elems, pos, nil
}
