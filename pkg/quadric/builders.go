package quadric

// Paraboloid returns the surface z = a·x² + b·y².
//
// The linear z term sits only at (2,3); the matrix is not mirrored. The ray
// polynomial is unaffected, see Form.Coefficients.
func Paraboloid(a, b float64) Form {
	return NewForm([4][4]float64{
		{a, 0, 0, 0},
		{0, b, 0, 0},
		{0, 0, 0, -1},
		{0, 0, 0, 0},
	})
}

// Sphere returns x² + y² + z² - r² = 0, centered at the origin
func Sphere(r float64) Form {
	return NewForm([4][4]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, -r * r},
	})
}

// Ellipsoid returns a·x² + b·y² + c·z² + r² = 0.
//
// The constant term is +r², unlike Sphere; for positive a, b, c the zero-set
// is empty. Use EllipsoidSurface for a·x² + b·y² + c·z² = r².
func Ellipsoid(a, b, c, r float64) Form {
	return NewForm([4][4]float64{
		{a, 0, 0, 0},
		{0, b, 0, 0},
		{0, 0, c, 0},
		{0, 0, 0, r * r},
	})
}

// EllipsoidSurface returns a·x² + b·y² + c·z² - r² = 0
func EllipsoidSurface(a, b, c, r float64) Form {
	return NewForm([4][4]float64{
		{a, 0, 0, 0},
		{0, b, 0, 0},
		{0, 0, c, 0},
		{0, 0, 0, -r * r},
	})
}
