package geo

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestCenteredSquare(t *testing.T) {
	b := CenteredSquare(4, 1, 3)
	if b.Min != V(-2, -2, 1) || b.Max != V(2, 2, 3) {
		t.Errorf("box = %+v, want [-2,-2,1]..[2,2,3]", b)
	}
	w := b.Width()
	if !approxEqual(w.X, 4, tolerance) || !approxEqual(w.Z, 2, tolerance) {
		t.Errorf("width = %+v", w)
	}
	if c := b.Center(); c != V(0, 0, 2) {
		t.Errorf("center = %+v, want (0,0,2)", c)
	}
}

func TestBoxFinite(t *testing.T) {
	if InfiniteBox().Finite() {
		t.Error("infinite box reported finite")
	}
	if !CenteredSquare(1, 0, 1).Finite() {
		t.Error("unit box reported infinite")
	}
}

func TestBoxIntersect(t *testing.T) {
	a := CenteredSquare(4, 0, 10)
	got := InfiniteBox().Intersect(a)
	if got != a {
		t.Errorf("intersect with infinite = %+v, want %+v", got, a)
	}

	b := Box{Min: V(1, 1, 5), Max: V(3, 3, 20)}
	got = a.Intersect(b)
	if got.Min != V(1, 1, 5) || got.Max != V(2, 2, 10) {
		t.Errorf("intersect = %+v", got)
	}

	far := Box{Min: V(5, 5, 0), Max: V(6, 6, 1)}
	if !a.Intersect(far).Empty() {
		t.Error("disjoint boxes should intersect to an empty box")
	}
}

func TestBoxContains(t *testing.T) {
	b := CenteredSquare(2, 0, 1)
	if !b.Contains(V(0, 0, 0.5), 0) {
		t.Error("center not contained")
	}
	if b.Contains(V(1.1, 0, 0.5), 0) {
		t.Error("outside point contained")
	}
	if !b.Contains(V(1.0000001, 0, 0.5), 1e-6) {
		t.Error("point within tolerance not contained")
	}
}

func TestMidPoint(t *testing.T) {
	m := MidPoint(V(0, 2, 4), V(2, 4, 8))
	if m != V(1, 3, 6) {
		t.Errorf("midpoint = %+v, want (1,3,6)", m)
	}
}
