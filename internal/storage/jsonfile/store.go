package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"staysip/internal/adapters/observability"
	"staysip/internal/domain"
)

// maxEntries comfortably covers the five conventional collections.
const maxEntries = 16

type entry struct {
	modTime time.Time
	table   any
}

// Store reads listing collections from flat JSON files in a single data
// directory. Parsed tables are kept in a small LRU keyed by file name and are
// reused as long as the file's mtime is unchanged, so repeated reads of an
// untouched file never hit the disk twice.
type Store struct {
	dir   string
	cache *expirable.LRU[string, entry]
}

func New(dir string) *Store {
	return &Store{
		dir: dir,
		// ttl 0 disables age-based expiry; freshness is governed by the
		// mtime check alone.
		cache: expirable.NewLRU[string, entry](maxEntries, nil, 0),
	}
}

func (s *Store) Stays(ctx context.Context) (domain.Table[domain.Stay], error) {
	return loadTable(ctx, s, StaysFile, mapStay)
}

func (s *Store) Wineries(ctx context.Context) (domain.Table[domain.Winery], error) {
	return loadTable(ctx, s, WineriesFile, mapWinery)
}

func (s *Store) Attractions(ctx context.Context) (domain.Table[domain.Attraction], error) {
	return loadTable(ctx, s, AttractionsFile, mapAttraction)
}

func (s *Store) Venues(ctx context.Context) (domain.Table[domain.Venue], error) {
	return loadTable(ctx, s, VenuesFile, mapVenue)
}

func (s *Store) Itineraries(ctx context.Context) (domain.Table[domain.Itinerary], error) {
	return loadTable(ctx, s, ItinerariesFile, mapItinerary)
}

// Purge drops every cached table so the next read goes back to disk even if
// a file changed without its mtime moving.
func (s *Store) Purge() {
	s.cache.Purge()
}

func loadTable[T any](ctx context.Context, s *Store, file string, mapRec func(map[string]any) T) (domain.Table[T], error) {
	if err := ctx.Err(); err != nil {
		return domain.Table[T]{}, err
	}

	path := filepath.Join(s.dir, file)
	fi, err := os.Stat(path)
	if err != nil {
		observability.ObserveLoad(collection(file), "error")
		return domain.Table[T]{}, loadFailure(file, err)
	}
	if e, ok := s.cache.Get(file); ok && e.modTime.Equal(fi.ModTime()) {
		observability.ObserveCache("tables", "hit")
		return e.table.(domain.Table[T]), nil
	}
	observability.ObserveCache("tables", "miss")

	data, err := os.ReadFile(path)
	if err != nil {
		observability.ObserveLoad(collection(file), "error")
		return domain.Table[T]{}, loadFailure(file, err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		observability.ObserveLoad(collection(file), "error")
		return domain.Table[T]{}, parseFailure(file, data, err)
	}

	cols := make(map[string]struct{})
	rows := make([]T, 0, len(raw))
	for _, rec := range raw {
		for k := range rec {
			cols[k] = struct{}{}
		}
		rows = append(rows, mapRec(rec))
	}
	t := domain.NewTable(rows, keys(cols))

	s.cache.Add(file, entry{modTime: fi.ModTime(), table: t})
	observability.ObserveLoad(collection(file), "ok")
	observability.SetRecords(collection(file), len(rows))
	return t, nil
}

func loadFailure(file string, err error) *domain.LoadError {
	msg := err.Error()
	if errors.Is(err, fs.ErrNotExist) {
		msg = "file not found"
	}
	return &domain.LoadError{File: file, Msg: msg}
}

func parseFailure(file string, data []byte, err error) *domain.LoadError {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		line, col := lineCol(data, syn.Offset)
		return &domain.LoadError{File: file, Line: line, Col: col, Msg: syn.Error()}
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		line, col := lineCol(data, typ.Offset)
		return &domain.LoadError{File: file, Line: line, Col: col, Msg: typ.Error()}
	}
	return &domain.LoadError{File: file, Msg: err.Error()}
}

// lineCol converts a byte offset reported by the JSON decoder into 1-based
// line and column numbers.
func lineCol(data []byte, off int64) (int, int) {
	if off > int64(len(data)) {
		off = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:off] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func collection(file string) string {
	return strings.TrimSuffix(file, ".json")
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
