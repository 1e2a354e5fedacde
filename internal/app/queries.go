package app

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"staysip/internal/domain"
)

// QueryService answers every read the HTTP surface exposes. Reads are served
// from an immutable Dataset snapshot that Reload swaps in atomically, so no
// reader ever takes a lock, and assembled results are optionally memoized in
// the shared cache under keys prefixed with the snapshot version.
type QueryService struct {
	src      domain.DatasetSource
	cache    domain.Cache
	cacheTTL time.Duration

	current atomic.Pointer[domain.Dataset]
}

func NewQueryService(src domain.DatasetSource, c domain.Cache, ttl time.Duration) *QueryService {
	s := &QueryService{src: src, cache: c, cacheTTL: ttl}
	// empty snapshot until the first Reload; every filter degrades to
	// "nothing matches" rather than a nil deref
	s.current.Store(&domain.Dataset{})
	return s
}

// Snapshot returns the dataset readers are currently served from.
func (s *QueryService) Snapshot() *domain.Dataset {
	return s.current.Load()
}

// Reload rebuilds the snapshot from the source and swaps it in. Collections
// load independently: a broken file becomes an empty table plus an issue
// string, and the other four are unaffected. After the swap the shared cache
// is reset so no response assembled from the old snapshot survives. The only
// error returned is the context's own.
func (s *QueryService) Reload(ctx context.Context) (*domain.Dataset, error) {
	ds := &domain.Dataset{LoadedAt: time.Now().UTC()}
	ds.Version = strconv.FormatInt(ds.LoadedAt.UnixNano(), 36)

	ds.Stays = loadOrEmpty(ctx, s.src.Stays, &ds.Issues)
	ds.Wineries = loadOrEmpty(ctx, s.src.Wineries, &ds.Issues)
	ds.Attractions = loadOrEmpty(ctx, s.src.Attractions, &ds.Issues)
	ds.Venues = loadOrEmpty(ctx, s.src.Venues, &ds.Issues)
	ds.Itineraries = loadOrEmpty(ctx, s.src.Itineraries, &ds.Issues)

	if err := ctx.Err(); err != nil {
		return s.current.Load(), err
	}

	s.current.Store(ds)
	if s.cache != nil {
		if err := s.cache.Reset(ctx); err != nil {
			log.Warn().Err(err).Msg("cache reset after reload failed")
		}
	}
	log.Info().
		Str("version", ds.Version).
		Int("stays", ds.Stays.Len()).
		Int("wineries", ds.Wineries.Len()).
		Int("attractions", ds.Attractions.Len()).
		Int("venues", ds.Venues.Len()).
		Int("itineraries", ds.Itineraries.Len()).
		Strs("issues", ds.Issues).
		Msg("dataset reloaded")
	return ds, nil
}

// Refresh drops the source's file cache and then reloads, so even a file
// whose mtime never moved gets re-read.
func (s *QueryService) Refresh(ctx context.Context) (*domain.Dataset, error) {
	s.src.Purge()
	return s.Reload(ctx)
}

func loadOrEmpty[T any](ctx context.Context, load func(context.Context) (domain.Table[T], error), issues *[]string) domain.Table[T] {
	t, err := load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("collection failed to load")
		*issues = append(*issues, err.Error())
		return domain.Table[T]{}
	}
	return t
}

// Lakes returns the region selector options, All first.
func (s *QueryService) Lakes() []string {
	return domain.Lakes()
}

func (s *QueryService) Stays(ctx context.Context, q domain.StayQuery) (domain.StayResult, error) {
	ds := s.current.Load()
	key := fmt.Sprintf("%s:stays:%s:%s:%s", ds.Version, q.Region, fmtFloat(q.MaxPrice), q.Type)
	var out domain.StayResult
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	t := FilterByRegion(ds.Stays, q.Region)
	if q.MaxPrice != nil {
		t = FilterByMaxPrice(t, *q.MaxPrice)
	}
	// type options reflect region and budget, not the type filter itself
	opts := DistinctOptions(t, domain.ColType, func(st domain.Stay) *string { return st.Type })
	t = FilterByExactMatch(t, domain.ColType, func(st domain.Stay) *string { return st.Type }, q.Type)

	out = domain.StayResult{Items: rowsOf(t), TypeOptions: opts}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *QueryService) Wineries(ctx context.Context, q domain.WineryQuery) (domain.WineryResult, error) {
	ds := s.current.Load()
	key := fmt.Sprintf("%s:wineries:%s:%t", ds.Version, q.Region, q.TastingOnly)
	var out domain.WineryResult
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	t := FilterByRegion(ds.Wineries, q.Region)
	t = FilterByBooleanFlag(t, domain.ColTasting, func(w domain.Winery) *bool { return w.Tasting }, q.TastingOnly)

	out = domain.WineryResult{Items: rowsOf(t)}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *QueryService) Attractions(ctx context.Context, q domain.AttractionQuery) (domain.AttractionResult, error) {
	ds := s.current.Load()
	key := fmt.Sprintf("%s:attractions:%s:%s", ds.Version, q.Region, q.Category)
	var out domain.AttractionResult
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	t := FilterByRegion(ds.Attractions, q.Region)
	// category options reflect the region filter only
	opts := DistinctOptions(t, domain.ColCategory, func(a domain.Attraction) *string { return a.Category })
	t = FilterByExactMatch(t, domain.ColCategory, func(a domain.Attraction) *string { return a.Category }, q.Category)

	out = domain.AttractionResult{Items: rowsOf(t), CategoryOptions: opts}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *QueryService) Venues(ctx context.Context, q domain.VenueQuery) (domain.VenueResult, error) {
	ds := s.current.Load()
	key := fmt.Sprintf("%s:venues:%s:%s", ds.Version, q.Region, fmtInt(q.MinCapacity))
	var out domain.VenueResult
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	t := FilterByRegion(ds.Venues, q.Region)
	if q.MinCapacity != nil {
		t = FilterByMinCapacity(t, *q.MinCapacity)
	}

	out = domain.VenueResult{Items: rowsOf(t)}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *QueryService) Itineraries(ctx context.Context, q domain.ItineraryQuery) (domain.ItineraryResult, error) {
	ds := s.current.Load()
	key := fmt.Sprintf("%s:itineraries:%s", ds.Version, q.Region)
	var out domain.ItineraryResult
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	t := FilterByRegion(ds.Itineraries, q.Region)
	items := make([]domain.ItineraryView, 0, t.Len())
	for _, it := range t.Rows {
		items = append(items, viewOf(it, ds))
	}

	out = domain.ItineraryResult{Items: items}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// Itinerary returns one itinerary with its references resolved, or
// ErrNotFound. Single lookups skip the cache; the list endpoint is the hot
// path.
func (s *QueryService) Itinerary(ctx context.Context, id string) (domain.ItineraryView, error) {
	ds := s.current.Load()
	for _, it := range ds.Itineraries.Rows {
		if it.ID == id {
			return viewOf(it, ds), nil
		}
	}
	return domain.ItineraryView{}, domain.ErrNotFound
}

func (s *QueryService) Map(ctx context.Context, q domain.MapQuery) (domain.MapResult, error) {
	ds := s.current.Load()
	key := fmt.Sprintf("%s:map:%s", ds.Version, q.Region)
	var out domain.MapResult
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	mt, has := BuildMapTable(ds, q.Region)
	pts := mt.Points
	if pts == nil {
		pts = []domain.MapPoint{}
	}
	out = domain.MapResult{Points: pts, HasLocations: has, View: domain.DefaultMapView()}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// Status describes the current snapshot for the status endpoint.
type Status struct {
	Version  string         `json:"version"`
	LoadedAt time.Time      `json:"loaded_at"`
	Counts   map[string]int `json:"counts"`
	Issues   []string       `json:"issues"`
}

func (s *QueryService) Status() Status {
	ds := s.current.Load()
	st := Status{
		Version:  ds.Version,
		LoadedAt: ds.LoadedAt,
		Counts: map[string]int{
			"stays":          ds.Stays.Len(),
			"wineries":       ds.Wineries.Len(),
			"attractions":    ds.Attractions.Len(),
			"wedding_venues": ds.Venues.Len(),
			"itineraries":    ds.Itineraries.Len(),
		},
		Issues: ds.Issues,
	}
	if st.Issues == nil {
		st.Issues = []string{}
	}
	return st
}

func viewOf(it domain.Itinerary, ds *domain.Dataset) domain.ItineraryView {
	refs := ResolveItineraryRefs(it, ds)
	return domain.ItineraryView{
		Itinerary:           it,
		ResolvedStays:       rowsOf(refs.Stays),
		ResolvedWineries:    rowsOf(refs.Wineries),
		ResolvedAttractions: rowsOf(refs.Attractions),
	}
}

// rowsOf never hands a nil slice to a JSON encoder, so list responses encode
// as [] rather than null.
func rowsOf[T any](t domain.Table[T]) []T {
	if t.Rows == nil {
		return []T{}
	}
	return t.Rows
}

func fmtFloat(p *float64) string {
	if p == nil {
		return "any"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func fmtInt(p *int) string {
	if p == nil {
		return "any"
	}
	return strconv.Itoa(*p)
}
