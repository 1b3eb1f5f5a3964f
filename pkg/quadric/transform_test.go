package quadric

import (
	"math"
	"testing"

	"github.com/df07/go-quadric-raycast/pkg/core"
)

func vecNear(a, b core.Vec3, tol float64) bool {
	return a.Subtract(b).Length() <= tol
}

func TestTransform_InverseRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		transform Transform
	}{
		{"identity", Identity()},
		{"translation", Translate(core.NewVec3(1, -2, 3))},
		{"scale", Scale(core.NewVec3(2, 0.5, 4))},
		{"rotation x", RotateX(0.3)},
		{"rotation y", RotateY(-1.1)},
		{"rotation z", RotateZ(math.Pi / 3)},
		{"composed", Scale(core.NewVec3(1, 2, 3)).Then(RotateZ(0.7)).Then(Translate(core.NewVec3(5, 0, -1)))},
	}

	points := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 2, 3),
		core.NewVec3(-4, 0.5, 7),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := tt.transform.Inverse()
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			for _, p := range points {
				back := inv.ApplyPoint(tt.transform.ApplyPoint(p))
				if !vecNear(back, p, 1e-9) {
					t.Errorf("Expected %v after round trip, got %v", p, back)
				}
			}
		})
	}
}

func TestTransform_RotateZ(t *testing.T) {
	got := RotateZ(math.Pi / 2).ApplyVector(core.NewVec3(1, 0, 0))
	if !vecNear(got, core.NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("Expected (0,1,0), got %v", got)
	}
}

func TestTransform_ThenOrder(t *testing.T) {
	// Scale first, then translate: the translation is not scaled
	tr := Scale(core.NewVec3(2, 2, 2)).Then(Translate(core.NewVec3(1, 0, 0)))
	got := tr.ApplyPoint(core.NewVec3(1, 1, 1))
	if !vecNear(got, core.NewVec3(3, 2, 2), 1e-12) {
		t.Errorf("Expected (3,2,2), got %v", got)
	}

	// Vectors ignore translation
	if v := tr.ApplyVector(core.NewVec3(1, 0, 0)); !vecNear(v, core.NewVec3(2, 0, 0), 1e-12) {
		t.Errorf("Expected (2,0,0), got %v", v)
	}
}

func TestTransform_SingularInverse(t *testing.T) {
	if _, err := Scale(core.NewVec3(1, 0, 1)).Inverse(); err == nil {
		t.Error("Expected error inverting a singular transform")
	}
	if _, err := Place(Sphere(1), Scale(core.NewVec3(0, 0, 0))); err == nil {
		t.Error("Expected error placing a surface with a singular transform")
	}
}

func TestPlaced_TranslatedSphere(t *testing.T) {
	center := core.NewVec3(3, -1, 2)
	placed, err := Place(Sphere(1), Translate(center))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	origin := core.NewVec3(3, -1, 10)
	direction := core.NewVec3(0, 0, -1)

	roots := placed.Intersect(origin, direction)
	if len(roots) != 2 {
		t.Fatalf("Expected 2 roots, got %v", roots)
	}

	// Same answer as shifting the ray by hand
	manual := Sphere(1).Intersect(origin.Subtract(center), direction)
	for i := range roots {
		if math.Abs(roots[i]-manual[i]) > rootTolerance {
			t.Errorf("Root %d: expected %f, got %f", i, manual[i], roots[i])
		}
	}

	nearest, ok := Nearest(placed, core.NewRay(origin, direction), 0, 100)
	if !ok || math.Abs(nearest-7) > rootTolerance {
		t.Errorf("Expected nearest hit at t=7, got %f (hit=%t)", nearest, ok)
	}
}

func TestPlaced_WorldPointsLieOnSurface(t *testing.T) {
	toWorld := Scale(core.NewVec3(1, 2, 0.5)).Then(RotateY(0.4)).Then(Translate(core.NewVec3(0, 0, -3)))
	local := EllipsoidSurface(1, 1, 1, 1)
	placed, err := Place(local, toWorld)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	inv, _ := toWorld.Inverse()
	ray := core.NewRay(core.NewVec3(0.1, 0.2, 5), core.NewVec3(0, 0, -1))
	roots := placed.Intersect(ray.Origin, ray.Direction)
	if len(roots) != 2 {
		t.Fatalf("Expected 2 roots, got %v", roots)
	}
	for _, root := range roots {
		p := inv.ApplyPoint(ray.At(root))
		if f := local.Evaluate(p); math.Abs(f) > 1e-6 {
			t.Errorf("World hit at t=%f maps to %v with f=%g", root, p, f)
		}
	}

	if placed.Surface() == nil {
		t.Error("Expected wrapped surface")
	}
	if placed.ToWorld() != toWorld {
		t.Error("Expected ToWorld to return the placement transform")
	}
}

func TestTransform_DeterminantAndAxes(t *testing.T) {
	if det := Scale(core.NewVec3(2, 3, 4)).Determinant(); math.Abs(det-24) > 1e-12 {
		t.Errorf("Expected determinant 24, got %f", det)
	}
	if det := RotateX(0.9).Then(Translate(core.NewVec3(1, 2, 3))).Determinant(); math.Abs(det-1) > 1e-12 {
		t.Errorf("Expected rigid transform determinant 1, got %f", det)
	}

	// Right-handed rotations: X takes y to z, Y takes z to x
	if got := RotateX(math.Pi / 2).ApplyVector(core.NewVec3(0, 1, 0)); !vecNear(got, core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected RotateX to map y to z, got %v", got)
	}
	if got := RotateY(math.Pi / 2).ApplyVector(core.NewVec3(0, 0, 1)); !vecNear(got, core.NewVec3(1, 0, 0), 1e-12) {
		t.Errorf("Expected RotateY to map z to x, got %v", got)
	}

	// Translation applies to points only
	tr := Translate(core.NewVec3(1, 2, 3))
	if got := tr.ApplyPoint(core.NewVec3(0, 0, 0)); got != core.NewVec3(1, 2, 3) {
		t.Errorf("Expected (1,2,3), got %v", got)
	}
	if got := tr.ApplyVector(core.NewVec3(1, 1, 1)); got != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected vector unchanged, got %v", got)
	}
}
