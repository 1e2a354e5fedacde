package jsonfile

import (
	"strconv"
	"strings"

	"staysip/internal/domain"
)

/********** record mappers **********/

func mapPlace(m map[string]any) domain.Place {
	return domain.Place{
		ID:      idAt(m),
		Name:    strAt(m, "name"),
		Lake:    strAt(m, "lake"),
		Lat:     floatAt(m, "lat"),
		Lng:     floatAt(m, "lng"),
		Image:   strAt(m, "image"),
		Link:    strAt(m, "link"),
		Address: strAt(m, "address"),
	}
}

func mapStay(m map[string]any) domain.Stay {
	return domain.Stay{
		Place:         mapPlace(m),
		Type:          strAt(m, "type"),
		PricePerNight: floatAt(m, "price_per_night"),
		Beds:          intAt(m, "beds"),
		Guests:        intAt(m, "guests"),
		Tags:          stringsAt(m, "tags"),
	}
}

func mapWinery(m map[string]any) domain.Winery {
	return domain.Winery{
		Place:   mapPlace(m),
		Tasting: boolAt(m, "tasting"),
		Tour:    boolAt(m, "tour"),
		Notes:   strAt(m, "notes"),
	}
}

func mapAttraction(m map[string]any) domain.Attraction {
	return domain.Attraction{
		Place:    mapPlace(m),
		Category: strAt(m, "category"),
		Notes:    strAt(m, "notes"),
	}
}

func mapVenue(m map[string]any) domain.Venue {
	return domain.Venue{
		Place:    mapPlace(m),
		Type:     strAt(m, "type"),
		Capacity: intAt(m, "capacity"),
		Notes:    strAt(m, "notes"),
	}
}

func mapItinerary(m map[string]any) domain.Itinerary {
	return domain.Itinerary{
		ID:          idAt(m),
		Title:       strAt(m, "title"),
		Days:        intAt(m, "days"),
		Lake:        strAt(m, "lake"),
		Summary:     strAt(m, "summary"),
		Stays:       stringsAt(m, "stays"),
		Wineries:    stringsAt(m, "wineries"),
		Attractions: stringsAt(m, "attractions"),
	}
}

/********** coercion helpers **********/

// idAt returns the record id as a string. Hand-edited files sometimes carry
// numeric ids, so numbers are formatted rather than dropped.
func idAt(m map[string]any) string {
	switch v := m["id"].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func strAt(m map[string]any, key string) *string {
	if s, ok := m[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

// floatAt reads a number that may arrive as a JSON number or as a string
// like "150" or "8,5".
func floatAt(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		f := v
		return &f
	case int:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

func intAt(m map[string]any, key string) *int {
	if f := floatAt(m, key); f != nil {
		n := int(*f)
		return &n
	}
	return nil
}

func boolAt(m map[string]any, key string) *bool {
	switch v := m[key].(type) {
	case bool:
		b := v
		return &b
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return &b
		}
	case float64:
		b := v != 0
		return &b
	}
	return nil
}

func stringsAt(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		switch t := it.(type) {
		case string:
			if t != "" {
				out = append(out, t)
			}
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
