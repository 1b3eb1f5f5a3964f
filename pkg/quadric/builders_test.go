package quadric

import (
	"math"
	"testing"

	"github.com/df07/go-quadric-raycast/pkg/core"
)

func TestBuilders_Matrices(t *testing.T) {
	tests := []struct {
		name     string
		form     Form
		expected [4][4]float64
	}{
		{
			name: "paraboloid",
			form: Paraboloid(2, 3),
			expected: [4][4]float64{
				{2, 0, 0, 0},
				{0, 3, 0, 0},
				{0, 0, 0, -1},
				{0, 0, 0, 0},
			},
		},
		{
			name: "sphere",
			form: Sphere(2),
			expected: [4][4]float64{
				{1, 0, 0, 0},
				{0, 1, 0, 0},
				{0, 0, 1, 0},
				{0, 0, 0, -4},
			},
		},
		{
			name: "ellipsoid keeps +r²",
			form: Ellipsoid(1, 2, 3, 2),
			expected: [4][4]float64{
				{1, 0, 0, 0},
				{0, 2, 0, 0},
				{0, 0, 3, 0},
				{0, 0, 0, 4},
			},
		},
		{
			name: "ellipsoid surface uses -r²",
			form: EllipsoidSurface(1, 2, 3, 2),
			expected: [4][4]float64{
				{1, 0, 0, 0},
				{0, 2, 0, 0},
				{0, 0, 3, 0},
				{0, 0, 0, -4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.form.Matrix(); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestBuilders_Deterministic(t *testing.T) {
	ray := core.NewRay(core.NewVec3(0.1, 0.2, 10), core.NewVec3(0.05, -0.1, -1))

	pairs := []struct {
		name  string
		build func() Form
	}{
		{"paraboloid", func() Form { return Paraboloid(1, 1) }},
		{"sphere", func() Form { return Sphere(2) }},
		{"ellipsoid", func() Form { return Ellipsoid(1, 2, 3, 4) }},
		{"ellipsoid surface", func() Form { return EllipsoidSurface(1, 2, 3, 4) }},
	}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			first, second := p.build(), p.build()
			if first.Matrix() != second.Matrix() {
				t.Fatal("Expected bit-identical matrices")
			}

			r1, r2 := first.IntersectRay(ray), second.IntersectRay(ray)
			if len(r1) != len(r2) {
				t.Fatalf("Expected identical root counts, got %v and %v", r1, r2)
			}
			for i := range r1 {
				if r1[i] != r2[i] && !(math.IsNaN(r1[i]) && math.IsNaN(r2[i])) {
					t.Errorf("Root %d differs: %v vs %v", i, r1[i], r2[i])
				}
			}
		})
	}
}

func TestBuilders_EllipsoidSignConvention(t *testing.T) {
	origin := core.NewVec3(0, 0, 0)
	direction := core.NewVec3(1, 0, 0)

	// a·x² + r² = 0 has no real solutions along the x axis
	if roots := Ellipsoid(1, 1, 1, 1).Intersect(origin, direction); len(roots) != 0 {
		t.Errorf("Expected literal ellipsoid to have no real hits, got %v", roots)
	}

	// 4x² = 4 → x = ±1
	roots := EllipsoidSurface(4, 1, 1, 2).Intersect(origin, direction)
	if len(roots) != 2 {
		t.Fatalf("Expected 2 roots, got %v", roots)
	}
	if math.Abs(math.Abs(roots[0])-1) > rootTolerance || math.Abs(math.Abs(roots[1])-1) > rootTolerance {
		t.Errorf("Expected roots ±1, got %v", roots)
	}
}

func TestBuilders_ParaboloidFromAbove(t *testing.T) {
	// Reference driver setup: origin (0,0,10), straight down hits the vertex
	paraboloid := Paraboloid(1, 1)
	roots := paraboloid.Intersect(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))
	if len(roots) != 1 || math.Abs(roots[0]-10) > rootTolerance {
		t.Errorf("Expected single root t=10, got %v", roots)
	}
}
