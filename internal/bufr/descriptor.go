package bufr

import (
	"fmt"
	"strconv"
)

// Descriptor is a BUFR FXXYYY descriptor packed as a single integer,
// e.g. 012101 (air temperature) or 107003 (replicate 7 descriptors 3 times).
type Descriptor int

// ParseDescriptor parses a six-digit FXXYYY string such as "012101".
func ParseDescriptor(s string) (Descriptor, error) {
	if len(s) != 6 {
		return 0, fmt.Errorf("descriptor %q: want 6 digits", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("descriptor %q: %w", s, err)
	}
	d := Descriptor(n)
	if d.F() > 3 {
		return 0, fmt.Errorf("descriptor %q: F=%d out of range", s, d.F())
	}
	return d, nil
}

// F returns the descriptor type: 0 element, 1 replication, 2 operator, 3 sequence.
func (d Descriptor) F() int { return int(d) / 100000 }

// X returns the element class (or, for replication, the governed span).
func (d Descriptor) X() int { return (int(d) / 1000) % 100 }

// Y returns the entry within the class (or, for replication, the repetition
// count, with 0 meaning delayed replication).
func (d Descriptor) Y() int { return int(d) % 1000 }

// String formats the descriptor back to its canonical six-digit form.
func (d Descriptor) String() string { return fmt.Sprintf("%06d", int(d)) }

// IsReplication reports whether the descriptor opens a replicated span.
func (d Descriptor) IsReplication() bool { return d.F() == 1 }

// IsDelayedCount reports whether the descriptor carries a delayed replication
// count (class 31).
func (d Descriptor) IsDelayedCount() bool { return d.F() == 0 && d.X() == 31 }
