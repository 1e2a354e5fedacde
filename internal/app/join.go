package app

import "staysip/internal/domain"

// ResolveItineraryRefs materializes an itinerary's id lists against the
// snapshot's collections. Ids that match nothing are dropped without comment;
// the audit command is where they get reported.
func ResolveItineraryRefs(it domain.Itinerary, ds *domain.Dataset) domain.ItineraryRefs {
	return domain.ItineraryRefs{
		Stays:       subsetByIDs(ds.Stays, it.Stays),
		Wineries:    subsetByIDs(ds.Wineries, it.Wineries),
		Attractions: subsetByIDs(ds.Attractions, it.Attractions),
	}
}

// subsetByIDs keeps rows whose id appears in ids, preserving the table's own
// order. An empty or absent id list yields an empty table.
func subsetByIDs[T domain.Keyed](t domain.Table[T], ids []string) domain.Table[T] {
	if len(ids) == 0 {
		return t.WithRows(nil)
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return filterRows(t, func(r T) bool {
		_, ok := want[r.Key()]
		return ok
	})
}
