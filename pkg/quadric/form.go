package quadric

import (
	"math"

	"github.com/df07/go-quadric-raycast/pkg/core"
	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec4"
)

// DegenerateEpsilon is the bound on |a| below which the ray equation is
// treated as linear.
const DegenerateEpsilon = 1e-8

// Surface is anything a ray can be intersected with, yielding ray parameters
type Surface interface {
	Intersect(origin, direction core.Vec3) []float64
}

// Form is a quadric surface pᵗQp = 0 for homogeneous points p = (x, y, z, 1).
// Q is symmetric by convention only. A Form never changes after construction
// and is safe for concurrent use.
type Form struct {
	q mat4.T // column-major, q[col][row]
}

// NewForm creates a quadric from a row-major 4x4 matrix
func NewForm(rows [4][4]float64) Form {
	var q mat4.T
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			q[c][r] = rows[r][c]
		}
	}
	return Form{q: q}
}

// At returns the matrix entry at (row, col)
func (f Form) At(row, col int) float64 {
	return f.q[col][row]
}

// Matrix returns a row-major copy of Q
func (f Form) Matrix() [4][4]float64 {
	var rows [4][4]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			rows[r][c] = f.q[c][r]
		}
	}
	return rows
}

// Coefficients returns a, b, c of f(t) = a·t² + b·t + c for the ray o + t·n.
// b sums both contraction orders, so an asymmetric Q yields the same
// polynomial as its symmetric part.
func (f Form) Coefficients(origin, direction core.Vec3) (a, b, c float64) {
	o := origin.Point4()
	n := direction.Direction4()

	qn := f.q.MulVec4(&n)
	qo := f.q.MulVec4(&o)

	a = dot4(&n, &qn)
	b = dot4(&o, &qn) + dot4(&n, &qo)
	c = dot4(&o, &qo)
	return a, b, c
}

// Intersect returns the ray parameters t where origin + t·direction lies on
// the surface: none, one (linear case) or two roots.
//
// When |a| < DegenerateEpsilon the single root -c/b is returned without a
// guard on b, so a ray that is degenerate in both terms yields Inf or NaN.
// The two quadratic roots are not sorted; their order follows sign(a).
func (f Form) Intersect(origin, direction core.Vec3) []float64 {
	a, b, c := f.Coefficients(origin, direction)

	if math.Abs(a) < DegenerateEpsilon {
		return []float64{c / (-b)}
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return []float64{}
	}

	sa := math.Copysign(1, a)
	sqrtD := math.Sqrt(discriminant)
	return []float64{
		(-b - sa*sqrtD) / (2 * a),
		(-b + sa*sqrtD) / (2 * a),
	}
}

// IntersectRay is Intersect for a core.Ray
func (f Form) IntersectRay(ray core.Ray) []float64 {
	return f.Intersect(ray.Origin, ray.Direction)
}

// Evaluate returns pᵗQp for the point p; zero on the surface
func (f Form) Evaluate(p core.Vec3) float64 {
	h := p.Point4()
	qh := f.q.MulVec4(&h)
	return dot4(&h, &qh)
}

// Symmetrized returns the form with matrix (Q + Qᵗ)/2. The zero-set and the
// ray polynomial are unchanged.
func (f Form) Symmetrized() Form {
	var s mat4.T
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			s[col][row] = 0.5 * (f.q[col][row] + f.q[row][col])
		}
	}
	return Form{q: s}
}

// IsSymmetric reports whether |Q[i][j] - Q[j][i]| <= tol for all entries
func (f Form) IsSymmetric(tol float64) bool {
	for col := 0; col < 4; col++ {
		for row := col + 1; row < 4; row++ {
			if math.Abs(f.q[col][row]-f.q[row][col]) > tol {
				return false
			}
		}
	}
	return true
}

func dot4(a, b *vec4.T) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}
