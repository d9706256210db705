package eval

import (
	"math"
	"testing"
)

func TestHitAtK(t *testing.T) {
	tests := []struct {
		name  string
		recs  []int64
		truth []int64
		k     int
		want  bool
	}{
		{name: "hit within k", recs: []int64{1, 2, 3}, truth: []int64{3}, k: 3, want: true},
		{name: "hit outside k", recs: []int64{1, 2, 3}, truth: []int64{3}, k: 2, want: false},
		{name: "empty recs", recs: nil, truth: []int64{1}, k: 5, want: false},
		{name: "empty truth", recs: []int64{1}, truth: nil, k: 5, want: false},
		{name: "k beyond recs length", recs: []int64{1}, truth: []int64{1}, k: 10, want: true},
		{name: "non-positive k", recs: []int64{1}, truth: []int64{1}, k: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitAtK(tt.recs, tt.truth, tt.k); got != tt.want {
				t.Errorf("HitAtK() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHitAtK_MonotonicInK(t *testing.T) {
	recs := []int64{1, 2, 3, 4, 5}
	truth := []int64{4}
	prev := false
	for k := 1; k <= 5; k++ {
		got := HitAtK(recs, truth, k)
		if prev && !got {
			t.Fatalf("hit at k=%d but not at k=%d", k-1, k)
		}
		prev = got
	}
	if !prev {
		t.Fatal("expected a hit at k=5")
	}
}

func TestPrecisionAtK(t *testing.T) {
	tests := []struct {
		name  string
		recs  []int64
		truth []int64
		k     int
		want  float64
	}{
		{name: "two of five hit", recs: []int64{1, 2, 3, 4, 5}, truth: []int64{2, 5}, k: 5, want: 0.4},
		{name: "denominator stays k when recs short", recs: []int64{1}, truth: []int64{1}, k: 10, want: 0.1},
		{name: "no hits", recs: []int64{1, 2}, truth: []int64{9}, k: 2, want: 0},
		{name: "empty truth", recs: []int64{1}, truth: nil, k: 1, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrecisionAtK(tt.recs, tt.truth, tt.k)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PrecisionAtK() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoverageOf(t *testing.T) {
	tests := []struct {
		name          string
		usersWithRecs int
		totalUsers    int
		want          float64
	}{
		{name: "half the users reached", usersWithRecs: 2, totalUsers: 4, want: 0.5},
		{name: "every user reached", usersWithRecs: 3, totalUsers: 3, want: 1},
		{name: "no users reached", usersWithRecs: 0, totalUsers: 4, want: 0},
		{name: "no users evaluated", usersWithRecs: 0, totalUsers: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoverageOf(tt.usersWithRecs, tt.totalUsers)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CoverageOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCatalogCoverageOf(t *testing.T) {
	tests := []struct {
		name        string
		recommended []int64
		catalogSize int
		want        float64
	}{
		{name: "duplicates counted once", recommended: []int64{1, 1, 2}, catalogSize: 4, want: 0.5},
		{name: "empty recommendations", recommended: nil, catalogSize: 4, want: 0},
		{name: "zero catalog", recommended: []int64{1}, catalogSize: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CatalogCoverageOf(tt.recommended, tt.catalogSize)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CatalogCoverageOf() = %v, want %v", got, tt.want)
			}
		})
	}
}
