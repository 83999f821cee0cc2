package analytics

import "testing"

func TestSuccessRate(t *testing.T) {
	cases := []struct {
		sold, total int64
		want        string
	}{
		{0, 0, "0"},
		{0, 10, "0.0"},
		{5, 10, "50.0"},
		{1, 3, "33.3"},
		{10, 10, "100.0"},
	}
	for _, c := range cases {
		if got := SuccessRate(c.sold, c.total); got != c.want {
			t.Errorf("SuccessRate(%d, %d) = %q, want %q", c.sold, c.total, got, c.want)
		}
	}
}
