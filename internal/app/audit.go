package app

import (
	"fmt"
	"strings"

	"staysip/internal/domain"
)

// Finding is one data-quality problem surfaced by an audit pass.
type Finding struct {
	Collection string `json:"collection"`
	ID         string `json:"id,omitempty"`
	Problem    string `json:"problem"`
}

// AuditDataset reports the problems the serving path hides on purpose:
// missing or duplicate ids, unknown lakes, half-present coordinates, negative
// prices, non-positive capacities and day counts, and itinerary refs that
// resolve to nothing.
func AuditDataset(ds *domain.Dataset) []Finding {
	var out []Finding

	knownLakes := make(map[string]struct{})
	for _, l := range domain.Lakes()[1:] { // skip the All sentinel
		knownLakes[l] = struct{}{}
	}

	out = append(out, placeFindings("stays", ds.Stays, knownLakes)...)
	out = append(out, placeFindings("wineries", ds.Wineries, knownLakes)...)
	out = append(out, placeFindings("attractions", ds.Attractions, knownLakes)...)
	out = append(out, placeFindings("wedding_venues", ds.Venues, knownLakes)...)

	for _, st := range ds.Stays.Rows {
		if st.PricePerNight != nil && *st.PricePerNight < 0 {
			out = append(out, Finding{Collection: "stays", ID: st.ID, Problem: "negative price_per_night"})
		}
	}
	for _, v := range ds.Venues.Rows {
		if v.Capacity != nil && *v.Capacity <= 0 {
			out = append(out, Finding{Collection: "wedding_venues", ID: v.ID, Problem: "non-positive capacity"})
		}
	}

	out = append(out, itineraryFindings(ds, knownLakes)...)
	return out
}

// placeFindings runs the checks every located collection shares.
func placeFindings[T domain.Placed](collection string, t domain.Table[T], knownLakes map[string]struct{}) []Finding {
	var out []Finding
	seen := make(map[string]struct{}, t.Len())
	for _, r := range t.Rows {
		p := r.Site()
		if p.ID == "" {
			out = append(out, Finding{Collection: collection, Problem: "missing id"})
			continue
		}
		if _, dup := seen[p.ID]; dup {
			out = append(out, Finding{Collection: collection, ID: p.ID, Problem: "duplicate id"})
		}
		seen[p.ID] = struct{}{}

		if p.Lake != nil {
			if _, ok := knownLakes[*p.Lake]; !ok {
				out = append(out, Finding{Collection: collection, ID: p.ID, Problem: fmt.Sprintf("unknown lake %q", *p.Lake)})
			}
		}
		if (p.Lat == nil) != (p.Lng == nil) {
			out = append(out, Finding{Collection: collection, ID: p.ID, Problem: "incomplete coordinates"})
		}
	}
	return out
}

func itineraryFindings(ds *domain.Dataset, knownLakes map[string]struct{}) []Finding {
	var out []Finding
	stays := idSet(ds.Stays)
	wineries := idSet(ds.Wineries)
	attractions := idSet(ds.Attractions)

	seen := make(map[string]struct{}, ds.Itineraries.Len())
	for _, it := range ds.Itineraries.Rows {
		if it.ID == "" {
			out = append(out, Finding{Collection: "itineraries", Problem: "missing id"})
			continue
		}
		if _, dup := seen[it.ID]; dup {
			out = append(out, Finding{Collection: "itineraries", ID: it.ID, Problem: "duplicate id"})
		}
		seen[it.ID] = struct{}{}

		if it.Lake != nil {
			if _, ok := knownLakes[*it.Lake]; !ok {
				out = append(out, Finding{Collection: "itineraries", ID: it.ID, Problem: fmt.Sprintf("unknown lake %q", *it.Lake)})
			}
		}
		if it.Days != nil && *it.Days <= 0 {
			out = append(out, Finding{Collection: "itineraries", ID: it.ID, Problem: "non-positive days"})
		}
		out = append(out, refFindings(it.ID, "stay", it.Stays, stays)...)
		out = append(out, refFindings(it.ID, "winery", it.Wineries, wineries)...)
		out = append(out, refFindings(it.ID, "attraction", it.Attractions, attractions)...)
	}
	return out
}

func refFindings(itinID, kind string, refs []string, known map[string]struct{}) []Finding {
	var out []Finding
	for _, id := range refs {
		if _, ok := known[id]; !ok {
			out = append(out, Finding{Collection: "itineraries", ID: itinID, Problem: fmt.Sprintf("%s ref %q not found", kind, id)})
		}
	}
	return out
}

func idSet[T domain.Keyed](t domain.Table[T]) map[string]struct{} {
	out := make(map[string]struct{}, t.Len())
	for _, r := range t.Rows {
		out[r.Key()] = struct{}{}
	}
	return out
}

// Link is one outbound URL worth probing, with enough context to report on.
type Link struct {
	Collection string
	ID         string
	URL        string
}

// CollectLinks gathers every external URL in the snapshot for the audit
// command's reachability pass: record links plus absolute image URLs.
// Relative image paths belong to the display surface and are skipped.
// Itineraries carry no links of their own.
func CollectLinks(ds *domain.Dataset) []Link {
	var out []Link
	out = appendLinks(out, "stays", ds.Stays)
	out = appendLinks(out, "wineries", ds.Wineries)
	out = appendLinks(out, "attractions", ds.Attractions)
	out = appendLinks(out, "wedding_venues", ds.Venues)
	return out
}

func appendLinks[T domain.Placed](dst []Link, collection string, t domain.Table[T]) []Link {
	for _, r := range t.Rows {
		p := r.Site()
		for _, u := range []*string{p.Link, p.Image} {
			if u != nil && strings.HasPrefix(*u, "http") {
				dst = append(dst, Link{Collection: collection, ID: p.ID, URL: *u})
			}
		}
	}
	return dst
}
