package sampler

// CastStats summarizes one Cast call
type CastStats struct {
	Rays      int // directions cast
	Roots     int // roots returned by the surface
	Kept      int // points within MaxDistance
	NonFinite int // NaN or infinite roots from degenerate rays
	TooFar    int // finite roots with |t| >= MaxDistance
	Misses    int // rays with no roots at all
}

// add merges the counters of another chunk
func (s *CastStats) add(other CastStats) {
	s.Rays += other.Rays
	s.Roots += other.Roots
	s.Kept += other.Kept
	s.NonFinite += other.NonFinite
	s.TooFar += other.TooFar
	s.Misses += other.Misses
}
