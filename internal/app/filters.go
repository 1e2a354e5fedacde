package app

import (
	"sort"

	"staysip/internal/domain"
)

// The filters below share one convention: a filter whose column is absent
// from the source file returns the table untouched instead of emptying it.
// Hand-edited files drop whole columns all the time and that must degrade to
// "filter does nothing", not "nothing matches".

// FilterByRegion keeps rows whose lake matches the selected region. The All
// sentinel and an empty selection disable the filter.
func FilterByRegion[T domain.Regional](t domain.Table[T], region string) domain.Table[T] {
	if region == "" || region == domain.OptionAll || !t.HasColumn(domain.ColLake) {
		return t
	}
	return filterRows(t, func(r T) bool {
		lk := r.LakeName()
		return lk != nil && *lk == region
	})
}

// FilterByMaxPrice keeps stays priced at or under the cap. Rows without a
// price drop out, matching how a missing value can never satisfy a compare.
func FilterByMaxPrice(t domain.Table[domain.Stay], cap float64) domain.Table[domain.Stay] {
	if !t.HasColumn(domain.ColPrice) {
		return t
	}
	return filterRows(t, func(s domain.Stay) bool {
		return s.PricePerNight != nil && *s.PricePerNight <= cap
	})
}

// FilterByExactMatch keeps rows whose column value equals want, compared
// case-sensitively. The All sentinel and an empty want disable the filter.
func FilterByExactMatch[T any](t domain.Table[T], col string, get func(T) *string, want string) domain.Table[T] {
	if want == "" || want == domain.OptionAll || !t.HasColumn(col) {
		return t
	}
	return filterRows(t, func(r T) bool {
		v := get(r)
		return v != nil && *v == want
	})
}

// FilterByBooleanFlag keeps rows whose flag is explicitly true. When enabled
// is false the filter is off and the table passes through.
func FilterByBooleanFlag[T any](t domain.Table[T], col string, get func(T) *bool, enabled bool) domain.Table[T] {
	if !enabled || !t.HasColumn(col) {
		return t
	}
	return filterRows(t, func(r T) bool {
		v := get(r)
		return v != nil && *v
	})
}

// FilterByMinCapacity keeps venues that can seat at least guests people. Rows
// without a capacity drop out.
func FilterByMinCapacity(t domain.Table[domain.Venue], guests int) domain.Table[domain.Venue] {
	if !t.HasColumn(domain.ColCapacity) {
		return t
	}
	return filterRows(t, func(v domain.Venue) bool {
		return v.Capacity != nil && *v.Capacity >= guests
	})
}

// DistinctOptions returns the sorted distinct values of a column with the All
// sentinel prepended, ready to serve as a selector option list. Nulls are
// skipped; the sort is plain byte order, so "Cabin" and "cabin" stay apart.
func DistinctOptions[T any](t domain.Table[T], col string, get func(T) *string) []string {
	opts := []string{domain.OptionAll}
	if !t.HasColumn(col) {
		return opts
	}
	seen := make(map[string]struct{})
	for _, r := range t.Rows {
		if v := get(r); v != nil {
			seen[*v] = struct{}{}
		}
	}
	vals := make([]string, 0, len(seen))
	for v := range seen {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return append(opts, vals...)
}

func filterRows[T any](t domain.Table[T], keep func(T) bool) domain.Table[T] {
	if t.Empty() {
		return t
	}
	out := make([]T, 0, len(t.Rows))
	for _, r := range t.Rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return t.WithRows(out)
}
