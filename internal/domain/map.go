package domain

// Category labels that tag aggregated map rows by listing kind.
const (
	CategoryStay       = "Stay"
	CategoryWinery     = "Winery"
	CategoryAttraction = "Attraction"
	CategoryVenue      = "Wedding Venue"
)

// MapPoint is one plottable row of the aggregated map table.
type MapPoint struct {
	Name     *string `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Category string  `json:"category"`
	Lake     *string `json:"lake,omitempty"`
}

// MapTable is the concatenation of all coordinate-bearing rows, in the fixed
// order stays, wineries, attractions, venues.
type MapTable struct {
	Points []MapPoint `json:"points"`
}

// MapView is the renderer's initial viewport.
type MapView struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

// DefaultMapView centers on the Finger Lakes region.
func DefaultMapView() MapView {
	return MapView{Lat: 42.6, Lng: -77.1, Zoom: 8}
}
