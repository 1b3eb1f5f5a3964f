package sampler

import (
	"math"
	"math/rand"

	"github.com/df07/go-quadric-raycast/pkg/core"
)

// SphereGrid returns unit directions on a (theta, phi) grid with theta in
// [0, π] and phi in [0, 2π], endpoints included. Directions are ordered
// phi-major. Step counts below 2 are raised to 2.
func SphereGrid(thetaSteps, phiSteps int) []core.Vec3 {
	thetaSteps = max(thetaSteps, 2)
	phiSteps = max(phiSteps, 2)

	dirs := make([]core.Vec3, 0, thetaSteps*phiSteps)
	for j := 0; j < phiSteps; j++ {
		phi := 2 * math.Pi * float64(j) / float64(phiSteps-1)
		sinPhi, cosPhi := math.Sincos(phi)
		for i := 0; i < thetaSteps; i++ {
			theta := math.Pi * float64(i) / float64(thetaSteps-1)
			sinTheta, cosTheta := math.Sincos(theta)
			dirs = append(dirs, core.NewVec3(sinTheta*cosPhi, sinTheta*sinPhi, cosTheta))
		}
	}
	return dirs
}

// RandomSphere returns count directions uniformly distributed on the unit
// sphere. A negative count yields no directions.
func RandomSphere(count int, random *rand.Rand) []core.Vec3 {
	dirs := make([]core.Vec3, max(count, 0))
	for i := range dirs {
		z := 1 - 2*random.Float64()
		r := math.Sqrt(max(0, 1-z*z))
		phi := 2 * math.Pi * random.Float64()
		sinPhi, cosPhi := math.Sincos(phi)
		dirs[i] = core.NewVec3(r*cosPhi, r*sinPhi, z)
	}
	return dirs
}
