package domain

import (
	"sort"
	"time"
)

// Column names whose presence on a table changes filter behavior.
const (
	ColLake     = "lake"
	ColPrice    = "price_per_night"
	ColCapacity = "capacity"
	ColLat      = "lat"
	ColLng      = "lng"
	ColType     = "type"
	ColCategory = "category"
	ColTasting  = "tasting"
)

// Table is one loaded collection: typed rows in source order plus the set of
// columns that appeared anywhere in the source records. Derived tables share
// the column set, so "column absent from the collection" stays distinguishable
// from "field absent on one row" after filtering.
type Table[T any] struct {
	Rows []T

	cols map[string]struct{}
}

func NewTable[T any](rows []T, columns []string) Table[T] {
	t := Table[T]{Rows: rows}
	if len(columns) > 0 {
		t.cols = make(map[string]struct{}, len(columns))
		for _, c := range columns {
			t.cols[c] = struct{}{}
		}
	}
	return t
}

// WithRows derives a table carrying the same column set but the given rows.
func (t Table[T]) WithRows(rows []T) Table[T] {
	return Table[T]{Rows: rows, cols: t.cols}
}

func (t Table[T]) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Columns returns the column set sorted, mainly for status output.
func (t Table[T]) Columns() []string {
	out := make([]string, 0, len(t.cols))
	for c := range t.cols {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (t Table[T]) Len() int    { return len(t.Rows) }
func (t Table[T]) Empty() bool { return len(t.Rows) == 0 }

// Dataset is one immutable load of all five collections. A collection that
// failed to load is present as an empty table with the failure recorded in
// Issues; one bad file never blocks the others. Readers always hold a
// complete Dataset: refresh builds a fresh one and swaps a pointer.
type Dataset struct {
	Stays       Table[Stay]
	Wineries    Table[Winery]
	Attractions Table[Attraction]
	Venues      Table[Venue]
	Itineraries Table[Itinerary]

	Issues   []string
	LoadedAt time.Time
	Version  string // cache-key component, changes with every reload
}
