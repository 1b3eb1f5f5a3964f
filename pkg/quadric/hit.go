package quadric

import (
	"math"

	"github.com/df07/go-quadric-raycast/pkg/core"
)

// Nearest returns the smallest finite root of surface along ray that lies in
// [tMin, tMax]. NaN and infinite roots from degenerate rays are skipped.
func Nearest(surface Surface, ray core.Ray, tMin, tMax float64) (float64, bool) {
	best := math.Inf(1)
	found := false
	for _, t := range surface.Intersect(ray.Origin, ray.Direction) {
		if !core.IsFinite(t) {
			continue
		}
		if t < tMin || t > tMax {
			continue
		}
		if t < best {
			best = t
			found = true
		}
	}
	return best, found
}
