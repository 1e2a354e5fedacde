package domain

// Itinerary references listings by id. The attractions list is optional in
// the source data; nil resolves to an empty subset, not an error.
type Itinerary struct {
	ID          string   `json:"id"`
	Title       *string  `json:"title,omitempty"`
	Days        *int     `json:"days,omitempty"`
	Lake        *string  `json:"lake,omitempty"`
	Summary     *string  `json:"summary,omitempty"`
	Stays       []string `json:"stays,omitempty"`
	Wineries    []string `json:"wineries,omitempty"`
	Attractions []string `json:"attractions,omitempty"`
}

func (i Itinerary) Key() string       { return i.ID }
func (i Itinerary) LakeName() *string { return i.Lake }

// ItineraryRefs is the join result: one subset table per referenced kind,
// each preserving its source table's row order and column set. Ids with no
// matching row are dropped without comment; cmd/audit reports them offline.
type ItineraryRefs struct {
	Stays       Table[Stay]
	Wineries    Table[Winery]
	Attractions Table[Attraction]
}

// ItineraryView pairs an itinerary with its resolved references for display.
type ItineraryView struct {
	Itinerary
	ResolvedStays       []Stay       `json:"resolved_stays"`
	ResolvedWineries    []Winery     `json:"resolved_wineries"`
	ResolvedAttractions []Attraction `json:"resolved_attractions"`
}
