package normalize

import (
	"github.com/gyeh/claimstats/internal/model"
)

// HeaderMapping maps source column positions to canonical column names.
type HeaderMapping struct {
	ByIndex map[int]string    // source column index -> canonical name
	Source  map[string]string // canonical name -> original header text
}

// MapHeaders matches header cells to canonical columns using each column's
// aliases plus any extra aliases (keyed by canonical name). The last header
// matching a column wins; unmatched headers are ignored.
func MapHeaders(headers []string, extra map[string][]string) HeaderMapping {
	lookup := make(map[string]string)
	for _, col := range model.AllColumns {
		for _, a := range col.Aliases {
			lookup[NormalizeName(a)] = col.Name
		}
		for _, a := range extra[col.Name] {
			lookup[NormalizeName(a)] = col.Name
		}
	}

	m := HeaderMapping{
		ByIndex: make(map[int]string),
		Source:  make(map[string]string),
	}
	// A later header matching the same column replaces the earlier one.
	at := make(map[string]int)
	for i, h := range headers {
		name, ok := lookup[NormalizeName(h)]
		if !ok {
			continue
		}
		if prev, taken := at[name]; taken {
			delete(m.ByIndex, prev)
		}
		at[name] = i
		m.ByIndex[i] = name
		m.Source[name] = h
	}
	return m
}

// Missing returns the required canonical columns absent from the mapping,
// in canonical order.
func (m HeaderMapping) Missing() []string {
	var missing []string
	for _, name := range model.RequiredColumns() {
		if _, ok := m.Source[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Apply builds a RawClaim from one row of cells using the mapping.
func (m HeaderMapping) Apply(rowNumber int, cells []string) model.RawClaim {
	values := make(map[string]string, len(m.ByIndex))
	for i, name := range m.ByIndex {
		if i < len(cells) {
			values[name] = cells[i]
		}
	}
	return model.RawClaim{RowNumber: rowNumber, Values: values}
}
