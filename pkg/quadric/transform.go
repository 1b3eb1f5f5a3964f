package quadric

import (
	"fmt"
	"math"

	"github.com/df07/go-quadric-raycast/pkg/core"
	"github.com/ungerik/go3d/float64/mat3"
	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"
)

// singularThreshold bounds |det| of an invertible linear part
const singularThreshold = 1e-12

// Transform is an affine map stored as a homogeneous 4x4 matrix
type Transform struct {
	m mat4.T
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{m: mat4.Ident}
}

// Translate returns a translation by v
func Translate(v core.Vec3) Transform {
	m := mat4.Ident
	tv := v.Go3D()
	m.SetTranslation(&tv)
	return Transform{m: m}
}

// Scale returns a per-axis scaling
func Scale(v core.Vec3) Transform {
	m := mat4.Ident
	sv := v.Go3D()
	m.ScaleVec3(&sv)
	return Transform{m: m}
}

// RotateX returns a rotation about the X axis (angle in radians)
func RotateX(angle float64) Transform {
	m := mat4.Ident
	m.AssignXRotation(angle)
	return Transform{m: m}
}

// RotateY returns a rotation about the Y axis (angle in radians)
func RotateY(angle float64) Transform {
	m := mat4.Ident
	m.AssignYRotation(angle)
	return Transform{m: m}
}

// RotateZ returns a rotation about the Z axis (angle in radians)
func RotateZ(angle float64) Transform {
	m := mat4.Ident
	m.AssignZRotation(angle)
	return Transform{m: m}
}

// Then returns the transform that applies t first and next second
func (t Transform) Then(next Transform) Transform {
	var out Transform
	out.m.AssignMul(&next.m, &t.m)
	return out
}

// ApplyPoint maps a point, including translation
func (t Transform) ApplyPoint(p core.Vec3) core.Vec3 {
	v := p.Go3D()
	return core.FromGo3D(t.m.MulVec3W(&v, 1))
}

// ApplyVector maps a free vector; translation does not apply
func (t Transform) ApplyVector(d core.Vec3) core.Vec3 {
	v := d.Go3D()
	return core.FromGo3D(t.m.MulVec3W(&v, 0))
}

// linear returns the upper-left 3x3 block
func (t Transform) linear() mat3.T {
	var l mat3.T
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			l[col][row] = t.m[col][row]
		}
	}
	return l
}

// Determinant returns the determinant of the linear part
func (t Transform) Determinant() float64 {
	l := t.linear()
	return l.Determinant()
}

// Inverse returns the inverse transform, or an error if the linear part is singular
func (t Transform) Inverse() (Transform, error) {
	l := t.linear()
	det := l.Determinant()
	if math.Abs(det) < singularThreshold {
		return Transform{}, fmt.Errorf("transform is singular (det=%g)", det)
	}
	if _, err := l.Invert(); err != nil {
		return Transform{}, fmt.Errorf("transform is singular: %w", err)
	}

	out := Transform{m: mat4.Ident}
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			out.m[col][row] = l[col][row]
		}
	}

	translation := vec3.T{t.m[3][0], t.m[3][1], t.m[3][2]}
	back := out.m.MulVec3W(&translation, 0)
	back = back.Scaled(-1)
	out.m.SetTranslation(&back)
	return out, nil
}

// Placed positions a surface in world space. Rays are mapped into the
// surface's local frame; the quadric matrix itself is never transformed.
type Placed struct {
	surface Surface
	toWorld Transform
	toLocal Transform
}

// Place wraps surface with the given local-to-world transform
func Place(surface Surface, toWorld Transform) (*Placed, error) {
	toLocal, err := toWorld.Inverse()
	if err != nil {
		return nil, fmt.Errorf("cannot place surface: %w", err)
	}
	return &Placed{
		surface: surface,
		toWorld: toWorld,
		toLocal: toLocal,
	}, nil
}

// Surface returns the wrapped local-space surface
func (p *Placed) Surface() Surface {
	return p.surface
}

// ToWorld returns the local-to-world transform
func (p *Placed) ToWorld() Transform {
	return p.toWorld
}

// Intersect returns world-space ray parameters. Affine maps preserve the
// ray parameter, so local roots are returned unchanged.
func (p *Placed) Intersect(origin, direction core.Vec3) []float64 {
	return p.surface.Intersect(
		p.toLocal.ApplyPoint(origin),
		p.toLocal.ApplyVector(direction),
	)
}
