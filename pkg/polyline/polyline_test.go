package polyline

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-5 }

func TestEncodeDecodeRoundTrip(t *testing.T) {
	coords := [][2]float64{
		{38.5, -120.2},
		{40.7, -120.95},
		{43.252, -126.453},
	}
	decoded := Decode(Encode(coords))
	if len(decoded) != len(coords) {
		t.Fatalf("expected %d points, got %d", len(coords), len(decoded))
	}
	for i, c := range coords {
		if !almostEqual(decoded[i][0], c[0]) || !almostEqual(decoded[i][1], c[1]) {
			t.Fatalf("point %d round-tripped to %v, want %v", i, decoded[i], c)
		}
	}
}

func TestKnownEncoding(t *testing.T) {
	coords := [][2]float64{
		{38.5, -120.2},
		{40.7, -120.95},
		{43.252, -126.453},
	}
	got := Encode(coords)
	want := "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEmptyCoords(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Fatalf("expected empty string for no coordinates, got %q", got)
	}
	if got := Decode(""); len(got) != 0 {
		t.Fatalf("expected no points decoding an empty string, got %+v", got)
	}
}

func TestSinglePoint(t *testing.T) {
	coords := [][2]float64{{39.9526, -75.1652}}
	decoded := Decode(Encode(coords))
	if len(decoded) != 1 {
		t.Fatalf("expected 1 decoded point, got %d", len(decoded))
	}
	if !almostEqual(decoded[0][0], coords[0][0]) || !almostEqual(decoded[0][1], coords[0][1]) {
		t.Fatalf("got %v, want %v", decoded[0], coords[0])
	}
}
