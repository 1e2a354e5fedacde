package app_test

import (
	"reflect"
	"testing"

	"staysip/internal/app"
	"staysip/internal/domain"
)

func TestFilterByRegionAllIsIdentity(t *testing.T) {
	tab := stayTable(
		stayRow("s1", "Keuka", ptr(150.0), "Cabin"),
		stayRow("s2", "Seneca", ptr(350.0), "Inn"),
		stayRow("s3", "Cayuga", ptr(300.0), "cabin"),
	)

	for _, region := range []string{domain.OptionAll, ""} {
		got := app.FilterByRegion(tab, region)
		if !reflect.DeepEqual(itemIDs(got.Rows), []string{"s1", "s2", "s3"}) {
			t.Fatalf("region %q should be identity, got %v", region, itemIDs(got.Rows))
		}
	}

	keuka := app.FilterByRegion(tab, "Keuka")
	if !reflect.DeepEqual(itemIDs(keuka.Rows), []string{"s1"}) {
		t.Fatalf("keuka: %v", itemIDs(keuka.Rows))
	}
}

func TestFilterByRegionWithoutLakeColumn(t *testing.T) {
	tab := domain.NewTable([]domain.Stay{
		stayRow("s1", "", nil, ""),
		stayRow("s2", "", nil, ""),
	}, []string{"id", "name"})

	got := app.FilterByRegion(tab, "Keuka")
	if got.Len() != 2 {
		t.Fatalf("missing lake column must pass through, got %d rows", got.Len())
	}
}

func TestFilterByRegionDropsNullLakes(t *testing.T) {
	tab := stayTable(
		stayRow("s1", "Keuka", nil, ""),
		stayRow("s2", "", nil, ""), // null lake in a table that has the column
	)
	got := app.FilterByRegion(tab, "Keuka")
	if !reflect.DeepEqual(itemIDs(got.Rows), []string{"s1"}) {
		t.Fatalf("rows: %v", itemIDs(got.Rows))
	}
}

func TestFilterByMaxPriceIdempotent(t *testing.T) {
	tab := stayTable(
		stayRow("s1", "Keuka", ptr(150.0), "Cabin"),
		stayRow("s2", "Keuka", ptr(350.0), "Inn"),
		stayRow("s3", "Keuka", ptr(300.0), "cabin"),
		stayRow("s4", "Keuka", nil, "Cabin"),
	)

	once := app.FilterByMaxPrice(tab, 300)
	twice := app.FilterByMaxPrice(once, 300)

	if !reflect.DeepEqual(itemIDs(once.Rows), []string{"s1", "s3"}) {
		t.Fatalf("once: %v", itemIDs(once.Rows))
	}
	if !reflect.DeepEqual(itemIDs(once.Rows), itemIDs(twice.Rows)) {
		t.Fatalf("not idempotent: %v vs %v", itemIDs(once.Rows), itemIDs(twice.Rows))
	}
	for _, s := range once.Rows {
		if s.PricePerNight == nil || *s.PricePerNight > 300 {
			t.Fatalf("row over cap survived: %+v", s)
		}
	}
}

func TestFilterByMaxPriceWithoutColumn(t *testing.T) {
	tab := domain.NewTable([]domain.Stay{stayRow("s1", "Keuka", nil, "")}, []string{"id", "lake"})
	if got := app.FilterByMaxPrice(tab, 100); got.Len() != 1 {
		t.Fatalf("missing price column must pass through, got %d rows", got.Len())
	}
}

func TestFilterByExactMatchIsCaseSensitive(t *testing.T) {
	tab := stayTable(
		stayRow("s1", "Keuka", nil, "Cabin"),
		stayRow("s2", "Keuka", nil, "cabin"),
		stayRow("s3", "Keuka", nil, "Inn"),
	)
	getType := func(s domain.Stay) *string { return s.Type }

	got := app.FilterByExactMatch(tab, domain.ColType, getType, "cabin")
	if !reflect.DeepEqual(itemIDs(got.Rows), []string{"s2"}) {
		t.Fatalf("rows: %v", itemIDs(got.Rows))
	}
	if all := app.FilterByExactMatch(tab, domain.ColType, getType, domain.OptionAll); all.Len() != 3 {
		t.Fatalf("All must disable the filter, got %d rows", all.Len())
	}
}

func TestFilterByBooleanFlag(t *testing.T) {
	tab := wineryTable(
		wineryRow("w1", "Seneca", true),
		wineryRow("w2", "Seneca", false),
	)
	getTasting := func(w domain.Winery) *bool { return w.Tasting }

	on := app.FilterByBooleanFlag(tab, domain.ColTasting, getTasting, true)
	if !reflect.DeepEqual(itemIDs(on.Rows), []string{"w1"}) {
		t.Fatalf("enabled: %v", itemIDs(on.Rows))
	}
	off := app.FilterByBooleanFlag(tab, domain.ColTasting, getTasting, false)
	if off.Len() != 2 {
		t.Fatalf("disabled flag must pass through, got %d rows", off.Len())
	}
}

func TestFilterByMinCapacity(t *testing.T) {
	tab := venueTable(
		venueRow("v1", "Cayuga", 50),
		venueRow("v2", "Cayuga", 100),
		venueRow("v3", "Cayuga", 300),
		domain.Venue{Place: place("v4", "Cayuga")}, // no capacity value
	)
	got := app.FilterByMinCapacity(tab, 100)
	if !reflect.DeepEqual(itemIDs(got.Rows), []string{"v2", "v3"}) {
		t.Fatalf("rows: %v", itemIDs(got.Rows))
	}
}

func TestDistinctOptions(t *testing.T) {
	tab := stayTable(
		stayRow("s1", "Keuka", nil, "Cabin"),
		stayRow("s2", "Keuka", nil, "Inn"),
		stayRow("s3", "Keuka", nil, "cabin"),
		stayRow("s4", "Keuka", nil, ""), // null type is skipped
		stayRow("s5", "Keuka", nil, "Cabin"),
	)

	got := app.DistinctOptions(tab, domain.ColType, func(s domain.Stay) *string { return s.Type })
	if !reflect.DeepEqual(got, []string{"All", "Cabin", "Inn", "cabin"}) {
		t.Fatalf("options: %v", got)
	}

	bare := domain.NewTable([]domain.Stay{stayRow("s1", "", nil, "")}, []string{"id"})
	if got := app.DistinctOptions(bare, domain.ColType, func(s domain.Stay) *string { return s.Type }); !reflect.DeepEqual(got, []string{"All"}) {
		t.Fatalf("missing column should yield just All, got %v", got)
	}
}
