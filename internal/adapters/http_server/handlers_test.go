package httpserver_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "staysip/internal/adapters/http_server"
	"staysip/internal/app"
	"staysip/internal/domain"
)

// ---- fakes ----

type fakeSource struct {
	stays       domain.Table[domain.Stay]
	wineries    domain.Table[domain.Winery]
	attractions domain.Table[domain.Attraction]
	venues      domain.Table[domain.Venue]
	itineraries domain.Table[domain.Itinerary]
	purged      int
}

func (f *fakeSource) Stays(ctx context.Context) (domain.Table[domain.Stay], error) {
	return f.stays, nil
}
func (f *fakeSource) Wineries(ctx context.Context) (domain.Table[domain.Winery], error) {
	return f.wineries, nil
}
func (f *fakeSource) Attractions(ctx context.Context) (domain.Table[domain.Attraction], error) {
	return f.attractions, nil
}
func (f *fakeSource) Venues(ctx context.Context) (domain.Table[domain.Venue], error) {
	return f.venues, nil
}
func (f *fakeSource) Itineraries(ctx context.Context) (domain.Table[domain.Itinerary], error) {
	return f.itineraries, nil
}
func (f *fakeSource) Purge() { f.purged++ }

func ptr[T any](v T) *T { return &v }

func stay(id, lake string, price float64, typ string) domain.Stay {
	return domain.Stay{
		Place:         domain.Place{ID: id, Name: ptr(id), Lake: ptr(lake), Lat: ptr(42.5), Lng: ptr(-77.0)},
		Type:          ptr(typ),
		PricePerNight: ptr(price),
	}
}

func fullSource() *fakeSource {
	return &fakeSource{
		stays: domain.NewTable([]domain.Stay{
			stay("s1", "Keuka", 150, "Cabin"),
			stay("s2", "Keuka", 350, "Inn"),
			stay("s3", "Keuka", 300, "cabin"),
		}, []string{"id", "name", "lake", "type", "price_per_night", "lat", "lng"}),
		itineraries: domain.NewTable([]domain.Itinerary{
			{ID: "t1", Title: ptr("Keuka Weekend"), Lake: ptr("Keuka"), Stays: []string{"s1"}},
		}, []string{"id", "title", "lake", "stays"}),
	}
}

func newTestServer(t *testing.T, src domain.DatasetSource, rps int) *httptest.Server {
	t.Helper()
	svc := app.NewQueryService(src, nil, time.Minute)
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	srv := httpserver.New(rps)
	srv.MountHandlers(&httpserver.Handlers{Q: svc})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, dst any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode: %v", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp
}

// ---- tests ----

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, fullSource(), 0)
	resp := getJSON(t, ts.URL+"/healthz", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

func TestStaysEndpointAndETag(t *testing.T) {
	ts := newTestServer(t, fullSource(), 0)

	var body struct {
		Items       []domain.Stay `json:"items"`
		TypeOptions []string      `json:"type_options"`
		Notice      string        `json:"notice"`
	}
	resp := getJSON(t, ts.URL+"/v1/stays?lake=Keuka&max_price=300", &body)
	if resp.StatusCode != 200 {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if len(body.Items) != 2 || body.Items[0].ID != "s1" || body.Items[1].ID != "s3" {
		t.Fatalf("items: %+v", body.Items)
	}
	if len(body.TypeOptions) != 3 || body.TypeOptions[0] != "All" {
		t.Fatalf("type options: %v", body.TypeOptions)
	}
	if body.Notice != "" {
		t.Fatalf("unexpected notice: %q", body.Notice)
	}

	etag := resp.Header.Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("etag: %q", etag)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/stays?lake=Keuka&max_price=300", nil)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", resp2.StatusCode)
	}
}

func TestStaysBadMaxPrice(t *testing.T) {
	ts := newTestServer(t, fullSource(), 0)

	resp := getJSON(t, ts.URL+"/v1/stays?max_price=abc", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type: %s", ct)
	}
}

func TestEmptyResultsCarryNotice(t *testing.T) {
	ts := newTestServer(t, fullSource(), 0)

	var body struct {
		Items  []domain.Stay `json:"items"`
		Notice string        `json:"notice"`
	}
	getJSON(t, ts.URL+"/v1/stays?lake=Cayuga", &body)
	if len(body.Items) != 0 {
		t.Fatalf("items: %+v", body.Items)
	}
	if body.Notice != "No results. Try broadening filters." {
		t.Fatalf("notice: %q", body.Notice)
	}
}

func TestItineraryLookup(t *testing.T) {
	ts := newTestServer(t, fullSource(), 0)

	var view struct {
		ID            string        `json:"id"`
		ResolvedStays []domain.Stay `json:"resolved_stays"`
	}
	resp := getJSON(t, ts.URL+"/v1/itineraries/t1", &view)
	if resp.StatusCode != 200 || view.ID != "t1" {
		t.Fatalf("lookup: %d %+v", resp.StatusCode, view)
	}
	if len(view.ResolvedStays) != 1 || view.ResolvedStays[0].ID != "s1" {
		t.Fatalf("resolved stays: %+v", view.ResolvedStays)
	}

	resp = getJSON(t, ts.URL+"/v1/itineraries/ghost", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestItinerariesEmptyNotice(t *testing.T) {
	ts := newTestServer(t, &fakeSource{}, 0)

	var body struct {
		Notice string `json:"notice"`
	}
	getJSON(t, ts.URL+"/v1/itineraries", &body)
	if body.Notice != "Add itineraries in data/itineraries.json" {
		t.Fatalf("notice: %q", body.Notice)
	}
}

func TestMapEndpoint(t *testing.T) {
	ts := newTestServer(t, fullSource(), 0)

	var body struct {
		Points       []domain.MapPoint `json:"points"`
		HasLocations bool              `json:"has_locations"`
		View         domain.MapView    `json:"view"`
		Notice       string            `json:"notice"`
	}
	getJSON(t, ts.URL+"/v1/map?lake=Keuka", &body)
	if !body.HasLocations || len(body.Points) != 3 {
		t.Fatalf("points: %+v", body)
	}
	if body.View.Lat != 42.6 || body.View.Lng != -77.1 || body.View.Zoom != 8 {
		t.Fatalf("view: %+v", body.View)
	}

	var empty struct {
		HasLocations bool   `json:"has_locations"`
		Notice       string `json:"notice"`
	}
	getJSON(t, ts.URL+"/v1/map?lake=Seneca", &empty)
	if empty.HasLocations || empty.Notice != "No locations to show." {
		t.Fatalf("empty map: %+v", empty)
	}
}

func TestLakesEndpoint(t *testing.T) {
	ts := newTestServer(t, fullSource(), 0)

	var body struct {
		Lakes []string `json:"lakes"`
	}
	getJSON(t, ts.URL+"/v1/lakes", &body)
	if len(body.Lakes) != 4 || body.Lakes[0] != "All" {
		t.Fatalf("lakes: %v", body.Lakes)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	src := fullSource()
	ts := newTestServer(t, src, 0)

	resp, err := http.Post(ts.URL+"/v1/refresh", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var st struct {
		Version string         `json:"version"`
		Counts  map[string]int `json:"counts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Version == "" || st.Counts["stays"] != 3 {
		t.Fatalf("refresh response: %+v", st)
	}
	if src.purged != 1 {
		t.Fatalf("purge calls: %d", src.purged)
	}
}

func TestRateLimitKicksIn(t *testing.T) {
	ts := newTestServer(t, fullSource(), 1) // burst of 2

	var limited bool
	for i := 0; i < 3; i++ {
		resp := getJSON(t, ts.URL+"/healthz", nil)
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Fatal("expected a 429 within three rapid requests")
	}
}
