package trace

import (
	"testing"
	"time"

	"agrisetu/models"

	"go.mongodb.org/mongo-driver/bson"
)

func day(n int) time.Time {
	return time.Date(2025, 6, n, 0, 0, 0, 0, time.UTC)
}

func testCrop() models.Crop {
	return models.Crop{
		CropID:         "CROP-X-1",
		TraceabilityID: "CC-X-1",
		Name:           "Wheat",
		Variety:        "Sharbati",
		Category:       "grains",
		FarmerID:       "uFarmer",
		HarvestDate:    day(1),
	}
}

func collection(id string, date time.Time, chainEntries int, buyerID string) models.Collection {
	col := models.Collection{
		CollectionID:   id,
		AggregatorID:   "uAgg",
		SourceCrop:     "CROP-X-1",
		CollectionDate: date,
		UpdatedAt:      date,
	}
	for i := 0; i < chainEntries; i++ {
		col.Traceability.Chain = append(col.Traceability.Chain, models.ChainEntry{
			Stage:     "collection",
			Actor:     "uAgg",
			Timestamp: date,
		})
	}
	if buyerID != "" {
		col.Buyer.BuyerID = buyerID
	}
	return col
}

func TestBuildChainFarmOnly(t *testing.T) {
	chain := BuildChain(testCrop(), models.UserSummary{Name: "Ravi"}, nil, nil)
	if len(chain) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(chain))
	}
	if chain[0].Stage != "Farm Production" || chain[0].Actor != "Ravi" {
		t.Errorf("unexpected first stage %+v", chain[0])
	}
}

func TestBuildChainLength(t *testing.T) {
	// 1 farm stage + per collection: 1 quality stage + entries + optional sale.
	cases := []struct {
		name        string
		collections []models.Collection
		want        int
	}{
		{
			"single collection, two entries",
			[]models.Collection{collection("AGG-1", day(2), 2, "")},
			1 + 1 + 2,
		},
		{
			"sold collection adds sale stage",
			[]models.Collection{collection("AGG-1", day(2), 2, "uBuyer")},
			1 + 1 + 2 + 1,
		},
		{
			"two collections",
			[]models.Collection{
				collection("AGG-1", day(2), 2, "uBuyer"),
				collection("AGG-2", day(3), 3, ""),
			},
			1 + (1 + 2 + 1) + (1 + 3),
		},
	}

	actors := map[string]models.UserSummary{
		"uAgg":   {Name: "AgroHub"},
		"uBuyer": {Name: "FreshMart"},
	}

	for _, c := range cases {
		chain := BuildChain(testCrop(), models.UserSummary{Name: "Ravi"}, c.collections, actors)
		if len(chain) != c.want {
			t.Errorf("%s: chain length = %d, want %d", c.name, len(chain), c.want)
		}
	}
}

func TestBuildChainOrdersCollectionsByDate(t *testing.T) {
	later := collection("AGG-LATER", day(10), 1, "")
	earlier := collection("AGG-EARLY", day(2), 1, "")

	actors := map[string]models.UserSummary{"uAgg": {Name: "AgroHub"}}
	chain := BuildChain(testCrop(), models.UserSummary{Name: "Ravi"}, []models.Collection{later, earlier}, actors)

	// farm, then earlier collection's stages, then later's
	if !chain[1].Timestamp.Equal(day(2)) {
		t.Errorf("expected earlier collection first, got timestamp %v", chain[1].Timestamp)
	}
	if !chain[3].Timestamp.Equal(day(10)) {
		t.Errorf("expected later collection after, got timestamp %v", chain[3].Timestamp)
	}
}

func TestBuildChainDoesNotMutateInput(t *testing.T) {
	cols := []models.Collection{
		collection("AGG-B", day(10), 0, ""),
		collection("AGG-A", day(2), 0, ""),
	}
	BuildChain(testCrop(), models.UserSummary{}, cols, nil)
	if cols[0].CollectionID != "AGG-B" {
		t.Error("BuildChain reordered the caller's slice")
	}
}

func TestBuildChainSaleStage(t *testing.T) {
	saleDate := day(5)
	col := collection("AGG-1", day(2), 1, "uBuyer")
	col.Buyer.SaleDate = &saleDate
	col.Buyer.SalePrice = 42.5
	col.Buyer.PaymentStatus = "completed"

	actors := map[string]models.UserSummary{
		"uAgg":   {Name: "AgroHub"},
		"uBuyer": {Name: "FreshMart", Address: models.Address{District: "Pune"}},
	}
	chain := BuildChain(testCrop(), models.UserSummary{Name: "Ravi"}, []models.Collection{col}, actors)

	sale := chain[len(chain)-1]
	if sale.Stage != "Sale" || sale.Actor != "FreshMart" {
		t.Fatalf("unexpected sale stage %+v", sale)
	}
	if !sale.Timestamp.Equal(saleDate) {
		t.Errorf("sale timestamp = %v, want %v", sale.Timestamp, saleDate)
	}
	if sale.Details["salePrice"] != 42.5 || sale.Details["paymentStatus"] != "completed" {
		t.Errorf("sale details %+v", sale.Details)
	}
}

func TestCollectionLookupFilter(t *testing.T) {
	filter := CollectionLookupFilter("BATCH-XYZ")

	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != 3 {
		t.Fatalf("expected 3-way $or, got %v", filter)
	}

	fields := map[string]bool{}
	for _, clause := range or {
		m, ok := clause.(bson.M)
		if !ok || len(m) != 1 {
			t.Fatalf("unexpected clause %v", clause)
		}
		for field, val := range m {
			if val != "BATCH-XYZ" {
				t.Errorf("field %s matched %v, want the lookup id", field, val)
			}
			fields[field] = true
		}
	}
	for _, field := range []string{"traceability.originalqrcode", "traceability.batchnumber", "collectionid"} {
		if !fields[field] {
			t.Errorf("filter does not match on %s", field)
		}
	}
}

func TestCacheKeys(t *testing.T) {
	keys := CacheKeys("CC-X-1", "", "BATCH-1", "CC-X-1", "AGG-9")
	want := []string{"trace:CC-X-1", "trace:BATCH-1", "trace:AGG-9"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}
