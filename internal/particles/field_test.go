package particles

import (
	"math"
	"testing"
)

func TestBuildCounts(t *testing.T) {
	for _, n := range []int{1, 2, 7, 64} {
		f, err := Build(n, 16.0/9.0, 720)
		if err != nil {
			t.Fatalf("Build(%d): %v", n, err)
		}
		if f.Len() != n*n {
			t.Errorf("n=%d: expected %d points, got %d", n, n*n, f.Len())
		}
		if len(f.positions) != 3*n*n || len(f.uvs) != 2*n*n {
			t.Errorf("n=%d: position/uv arrays have %d/%d values", n, len(f.positions), len(f.uvs))
		}
	}
}

func TestBuildCorrespondence(t *testing.T) {
	const n = 9
	f, err := Build(n, 2, 100)
	if err != nil {
		t.Fatal(err)
	}
	width, height := f.Extent()
	if width != 200 || height != 100 {
		t.Fatalf("expected extent 200x100, got %gx%g", width, height)
	}

	for k := 0; k < f.Len(); k++ {
		row, col := k/n, k%n
		u, v := f.UV(k)
		if math.Abs(float64(u)-float64(col)/n) > 1e-6 || math.Abs(float64(v)-float64(row)/n) > 1e-6 {
			t.Fatalf("k=%d: uv (%g,%g) does not match cell (%d,%d)", k, u, v, row, col)
		}
		x, y, z := f.Position(k)
		wantX := (float64(col)+0.5)/n*width - width/2
		wantY := (float64(row)+0.5)/n*height - height/2
		if math.Abs(float64(x)-wantX) > 1e-3 || math.Abs(float64(y)-wantY) > 1e-3 {
			t.Fatalf("k=%d: position (%g,%g) does not match cell (%d,%d)", k, x, y, row, col)
		}
		if z != 0 {
			t.Fatalf("k=%d: rest position must be flat, got z=%g", k, z)
		}
	}
}

func TestBuildUVRange(t *testing.T) {
	f, err := Build(480, 1.5, 720)
	if err != nil {
		t.Fatal(err)
	}
	for k := 0; k < f.Len(); k++ {
		u, v := f.UV(k)
		if u < 0 || u >= 1 || v < 0 || v >= 1 {
			t.Fatalf("k=%d: uv (%g,%g) outside [0,1)", k, u, v)
		}
	}
}

func TestBuildCentered(t *testing.T) {
	f, err := Build(10, 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	var sx, sy float64
	for k := 0; k < f.Len(); k++ {
		x, y, _ := f.Position(k)
		sx += float64(x)
		sy += float64(y)
	}
	if math.Abs(sx) > 1e-3 || math.Abs(sy) > 1e-3 {
		t.Errorf("expected centroid at origin, got sums (%g,%g)", sx, sy)
	}
}

func TestBuildDeterministic(t *testing.T) {
	a, _ := Build(12, 1.3, 300)
	b, _ := Build(12, 1.3, 300)
	for i := range a.positions {
		if a.positions[i] != b.positions[i] {
			t.Fatalf("position value %d differs", i)
		}
	}
	for i := range a.uvs {
		if a.uvs[i] != b.uvs[i] {
			t.Fatalf("uv value %d differs", i)
		}
	}
}

func TestBuildInvalid(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		aspect float64
		height float64
	}{
		{"ZeroGrid", 0, 1, 1},
		{"NegativeGrid", -3, 1, 1},
		{"ZeroAspect", 4, 0, 1},
		{"NegativeHeight", 4, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.n, tt.aspect, tt.height); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTexel(t *testing.T) {
	f, _ := Build(4, 1, 1)
	x, y := f.Texel(0) // bottom-left cell
	if x != 0 || y != 3 {
		t.Errorf("expected texel (0,3), got (%d,%d)", x, y)
	}
	x, y = f.Texel(f.Len() - 1) // top-right cell
	if x != 3 || y != 0 {
		t.Errorf("expected texel (3,0), got (%d,%d)", x, y)
	}
}

func TestTexelFollowsUV(t *testing.T) {
	f, err := Build(7, 1.5, 10)
	if err != nil {
		t.Fatal(err)
	}
	n := f.Size()
	for k := 0; k < f.Len(); k++ {
		u, v := f.UV(k)
		x, y := f.Texel(k)
		if x != k%n || y != n-1-k/n {
			t.Fatalf("point %d: texel (%d,%d) does not match its cell", k, x, y)
		}
		if float32(x)/float32(n) != u || float32(n-1-y)/float32(n) != v {
			t.Fatalf("point %d: texel (%d,%d) does not match uv (%g,%g)", k, x, y, u, v)
		}
	}
}
