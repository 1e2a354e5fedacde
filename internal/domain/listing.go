package domain

// Lake names are the region vocabulary shared by every collection.
const (
	LakeKeuka  = "Keuka"
	LakeSeneca = "Seneca"
	LakeCayuga = "Cayuga"

	// OptionAll is the universal selector sentinel: filters treat it as
	// "no restriction" and option lists always carry it first.
	OptionAll = "All"
)

// Lakes returns the region selector options in display order.
func Lakes() []string {
	return []string{OptionAll, LakeKeuka, LakeSeneca, LakeCayuga}
}

// Place is the location core shared by the four listing kinds. Optional
// source fields stay nil when a record omits them; text renders empty and
// counts render "?" on the display side, while numeric filters skip nil rows
// (see the app filters for the column-presence rules).
type Place struct {
	ID      string   `json:"id"`
	Name    *string  `json:"name,omitempty"`
	Lake    *string  `json:"lake,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Image   *string  `json:"image,omitempty"`
	Link    *string  `json:"link,omitempty"`
	Address *string  `json:"address,omitempty"`
}

func (p Place) Key() string       { return p.ID }
func (p Place) LakeName() *string { return p.Lake }
func (p Place) Site() Place       { return p }

type Stay struct {
	Place
	Type          *string  `json:"type,omitempty"`
	PricePerNight *float64 `json:"price_per_night,omitempty"`
	Beds          *int     `json:"beds,omitempty"`
	Guests        *int     `json:"guests,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

type Winery struct {
	Place
	Tasting *bool   `json:"tasting,omitempty"`
	Tour    *bool   `json:"tour,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

type Attraction struct {
	Place
	Category *string `json:"category,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

type Venue struct {
	Place
	Type     *string `json:"type,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// Keyed, Regional and Placed are the record capabilities the generic table
// operations constrain on; Place provides all three for the listing kinds and
// Itinerary provides the first two.
type Keyed interface{ Key() string }

type Regional interface{ LakeName() *string }

type Placed interface {
	Regional
	Site() Place
}
