package app

import "staysip/internal/domain"

// BuildMapTable flattens every locatable record in the region into one list
// of categorized points. The bool reports whether anything was found; callers
// turn a false into the "No locations to show." notice.
func BuildMapTable(ds *domain.Dataset, region string) (domain.MapTable, bool) {
	var pts []domain.MapPoint
	pts = appendPoints(pts, FilterByRegion(ds.Stays, region), domain.CategoryStay)
	pts = appendPoints(pts, FilterByRegion(ds.Wineries, region), domain.CategoryWinery)
	pts = appendPoints(pts, FilterByRegion(ds.Attractions, region), domain.CategoryAttraction)
	pts = appendPoints(pts, FilterByRegion(ds.Venues, region), domain.CategoryVenue)
	return domain.MapTable{Points: pts}, len(pts) > 0
}

// appendPoints adds one point per row that carries both coordinates. A table
// whose file never had lat/lng columns contributes nothing.
func appendPoints[T domain.Placed](pts []domain.MapPoint, t domain.Table[T], category string) []domain.MapPoint {
	if !t.HasColumn(domain.ColLat) || !t.HasColumn(domain.ColLng) {
		return pts
	}
	for _, r := range t.Rows {
		p := r.Site()
		if p.Lat == nil || p.Lng == nil {
			continue
		}
		pts = append(pts, domain.MapPoint{
			Name:     p.Name,
			Lat:      *p.Lat,
			Lng:      *p.Lng,
			Category: category,
			Lake:     p.Lake,
		})
	}
	return pts
}
