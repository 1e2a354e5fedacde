package domain

import "context"

// DatasetSource loads one typed table per collection. Implementations cache
// per source file and must return *LoadError for sources they cannot parse.
type DatasetSource interface {
	Stays(ctx context.Context) (Table[Stay], error)
	Wineries(ctx context.Context) (Table[Winery], error)
	Attractions(ctx context.Context) (Table[Attraction], error)
	Venues(ctx context.Context) (Table[Venue], error)
	Itineraries(ctx context.Context) (Table[Itinerary], error)

	// Purge drops every cached table so the next load re-reads the files.
	Purge()
}

// Cache is the optional query-result cache. Reset clears the whole keyspace;
// it runs on every dataset refresh.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Reset(ctx context.Context) error
}

// Query criteria. Region is a lake name or OptionAll (empty string reads as
// OptionAll); nil numeric bounds disable that comparison; selector fields use
// OptionAll as the no-op sentinel.

type StayQuery struct {
	Region   string
	MaxPrice *float64
	Type     string
}

type WineryQuery struct {
	Region      string
	TastingOnly bool
}

type AttractionQuery struct {
	Region   string
	Category string
}

type VenueQuery struct {
	Region      string
	MinCapacity *int
}

type ItineraryQuery struct{ Region string }

type MapQuery struct{ Region string }

// Read models. These carry plain slices rather than Tables so they survive a
// JSON round-trip through the query cache.

type StayResult struct {
	Items       []Stay   `json:"items"`
	TypeOptions []string `json:"type_options"`
}

type WineryResult struct {
	Items []Winery `json:"items"`
}

type AttractionResult struct {
	Items           []Attraction `json:"items"`
	CategoryOptions []string     `json:"category_options"`
}

type VenueResult struct {
	Items []Venue `json:"items"`
}

type ItineraryResult struct {
	Items []ItineraryView `json:"items"`
}

type MapResult struct {
	Points       []MapPoint `json:"points"`
	HasLocations bool       `json:"has_locations"`
	View         MapView    `json:"view"`
}
