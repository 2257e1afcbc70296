package audio

import (
	"reflect"
	"testing"
)

func TestRingKeepsNewestSamplesInOrder(t *testing.T) {
	cases := []struct {
		name   string
		writes [][]float32
		want   []float32
	}{
		{"empty", nil, []float32{0, 0, 0, 0}},
		{"partial", [][]float32{{1, 2}}, []float32{0, 0, 1, 2}},
		{"exact", [][]float32{{1, 2, 3, 4}}, []float32{1, 2, 3, 4}},
		{"wrap", [][]float32{{1, 2, 3}, {4, 5}}, []float32{2, 3, 4, 5}},
		{"oversized", [][]float32{{1, 2, 3, 4, 5, 6}}, []float32{3, 4, 5, 6}},
		{"many small", [][]float32{{1}, {2}, {3}, {4}, {5}, {6}, {7}}, []float32{4, 5, 6, 7}},
	}
	for _, tc := range cases {
		r := newRing(4)
		for _, w := range tc.writes {
			r.write(w)
		}
		if got := r.snapshot(); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestRingSnapshotIsACopy(t *testing.T) {
	r := newRing(2)
	r.write([]float32{1, 2})
	snap := r.snapshot()
	snap[0] = 99
	if got := r.snapshot(); got[0] != 1 {
		t.Fatalf("snapshot aliases the ring: %v", got)
	}
}

func TestDownmix(t *testing.T) {
	in := []float32{1, 3, -1, 1, 0.5, 0.5}
	if got := downmix(in, 2); !reflect.DeepEqual(got, []float32{2, 0, 0.5}) {
		t.Fatalf("stereo downmix got %v", got)
	}
	if got := downmix(in, 1); !reflect.DeepEqual(got, in) {
		t.Fatalf("mono input should pass through")
	}
	// a trailing partial frame is dropped
	if got := downmix([]float32{1, 1, 1}, 2); len(got) != 1 {
		t.Fatalf("got %v", got)
	}
}
