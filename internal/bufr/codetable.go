package bufr

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"strconv"
)

// Trimmed extract of the WMO BUFRCREX code/flag tables covering the
// descriptors surface observations commonly report. Rows whose code figure
// is non-numeric in the published tables describe ranges and are dropped at
// load time, matching how the full table is consumed.
//
//go:embed tables/codeflags.csv
var codeFlagCSV []byte

type codeKey struct {
	descriptor Descriptor
	figure     int
}

var codeTable = mustLoadCodeTable(codeFlagCSV)

func mustLoadCodeTable(raw []byte) map[codeKey]string {
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = 3
	records, err := r.ReadAll()
	if err != nil {
		panic(fmt.Sprintf("bufr: parse embedded code/flag table: %v", err))
	}
	table := make(map[codeKey]string, len(records))
	for i, rec := range records {
		if i == 0 {
			continue
		}
		d, err := ParseDescriptor(rec[0])
		if err != nil {
			continue
		}
		figure, err := strconv.Atoi(rec[1])
		if err != nil {
			// range rows ("1-9" etc) carry no single code figure
			continue
		}
		table[codeKey{d, figure}] = rec[2]
	}
	return table
}

// LookupCode resolves a CODE TABLE element value to its WMO entry name.
// The second return is false when the embedded tables carry no entry.
func LookupCode(d Descriptor, figure int) (string, bool) {
	name, ok := codeTable[codeKey{descriptor: d, figure: figure}]
	return name, ok
}
