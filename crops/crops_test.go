package crops

import (
	"testing"

	"agrisetu/models"

	"go.mongodb.org/mongo-driver/bson"
)

func testAddress() models.Address {
	return models.Address{
		Village:     "Rampur",
		District:    "Varanasi",
		State:       "Uttar Pradesh",
		Pincode:     "221001",
		Coordinates: &models.GeoPoint{Latitude: 25.3, Longitude: 82.9},
	}
}

func TestCategoryFromName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Rice", "grains"},
		{"wheat", "grains"},
		{"Tomato", "vegetables"},
		{"spinach", "vegetables"},
		{"Mango", "fruits"},
		{"chickpea", "pulses"},
		{"Turmeric", "spices"},
		{"cotton", "cash_crops"},
		{"  Banana  ", "fruits"},
		{"dragonfruit", "grains"}, // unknown falls back to grains
		{"", "grains"},
	}
	for _, c := range cases {
		if got := CategoryFromName(c.name); got != c.want {
			t.Errorf("CategoryFromName(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestViewCountFilter(t *testing.T) {
	anon := ViewCountFilter("CROP-1", "")
	if _, ok := anon["farmerid"]; ok {
		t.Error("anonymous filter must not exclude any farmer")
	}
	if anon["cropid"] != "CROP-1" || anon["isactive"] != true {
		t.Errorf("unexpected anonymous filter %v", anon)
	}

	authed := ViewCountFilter("CROP-1", "USR-9")
	ne, ok := authed["farmerid"].(bson.M)
	if !ok || ne["$ne"] != "USR-9" {
		t.Errorf("authenticated filter must exclude the owner, got %v", authed)
	}
}

func TestLocationFromAddress(t *testing.T) {
	addr := testAddress()
	loc := locationFromAddress(addr)
	if loc.Village != addr.Village || loc.District != addr.District || loc.State != addr.State {
		t.Errorf("location %+v does not mirror address %+v", loc, addr)
	}
	if loc.Coordinates == nil || loc.Coordinates.Latitude != addr.Coordinates.Latitude {
		t.Error("coordinates not carried over")
	}
}
