package orders

import "testing"

func TestTotalAmount(t *testing.T) {
	cases := []struct {
		quantity, price, want float64
	}{
		{10, 25, 250},
		{0.5, 100, 50},
		{3, 33.33, 99.99},
		{0, 50, 0},
	}
	for _, c := range cases {
		if got := TotalAmount(c.quantity, c.price); got != c.want {
			t.Errorf("TotalAmount(%v, %v) = %v, want %v", c.quantity, c.price, got, c.want)
		}
	}
}

func TestRatingField(t *testing.T) {
	const farmer, buyer, stranger = "uFarmer", "uBuyer", "uOther"

	cases := []struct {
		name       string
		userID     string
		ratingType string
		wantField  string
		wantErr    bool
	}{
		{"farmer rates buyer", farmer, "buyer", "buyerrating", false},
		{"buyer rates farmer", buyer, "farmer", "farmerrating", false},
		{"farmer cannot rate self", farmer, "farmer", "", true},
		{"buyer cannot rate self", buyer, "buyer", "", true},
		{"stranger cannot rate", stranger, "farmer", "", true},
		{"unknown rating type", buyer, "aggregator", "", true},
	}
	for _, c := range cases {
		field, err := RatingField(c.userID, farmer, buyer, c.ratingType)
		if (err != nil) != c.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", c.name, err, c.wantErr)
			continue
		}
		if field != c.wantField {
			t.Errorf("%s: field = %q, want %q", c.name, field, c.wantField)
		}
	}
}
