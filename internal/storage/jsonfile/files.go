package jsonfile

// Conventional file names inside the data directory, one per collection.
const (
	StaysFile       = "stays.json"
	WineriesFile    = "wineries.json"
	AttractionsFile = "attractions.json"
	VenuesFile      = "wedding_venues.json"
	ItinerariesFile = "itineraries.json"
)
