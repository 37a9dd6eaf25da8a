package sim

import (
	"math/rand"
	"time"
)

// Probability constants for the possession model, NBA-flavored.
const (
	probHomeAdvantage  = 0.55 // home team wins 55% of possessions
	probThreePointer   = 0.35 // 35% of shots are 3-pointers
	probFieldGoalMade  = 0.45 // 45% two-point percentage
	probThreePointMade = 0.35 // 35% three-point percentage
	probFreeThrowMade  = 0.75 // 75% free-throw percentage
	probFoul           = 0.15 // 15% chance of a foul per possession
	probShootingFoul   = 0.6  // 60% of fouls are shooting fouls
	probAssist         = 0.6  // 60% of made shots are assisted
	probTurnover       = 0.12 // 12% chance of a turnover per possession
)

// Possession pacing constants.
const (
	minPossessionSeconds = 10
	maxPossessionSeconds = 25
	minPossessionsPerMin = 3
	maxPossessionsPerMin = 5
)

// Sampler wraps a random source behind the draws the possession model needs.
// Inject a seeded rand.Rand for deterministic tests.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a Sampler seeded from the current time.
func NewSampler() *Sampler {
	return NewSamplerFromSource(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSeededSampler returns a deterministic Sampler for the given seed.
func NewSeededSampler(seed int64) *Sampler {
	return NewSamplerFromSource(rand.New(rand.NewSource(seed)))
}

// NewSamplerFromSource wraps an explicit random source.
func NewSamplerFromSource(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Chance performs an independent Bernoulli trial with probability p.
func (s *Sampler) Chance(p float64) bool {
	return s.rng.Float64() < p
}

// Index picks a uniform random index in [0, n).
func (s *Sampler) Index(n int) int {
	return s.rng.Intn(n)
}

// IntBetween picks a uniform random integer in [low, high].
func (s *Sampler) IntBetween(low, high int) int {
	return low + s.rng.Intn(high-low+1)
}

// Shuffle randomly reorders n elements via the provided swap function.
func (s *Sampler) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// Draws used by the possession model, named after what they decide.

func (s *Sampler) HomePossession() bool    { return s.Chance(probHomeAdvantage) }
func (s *Sampler) Turnover() bool          { return s.Chance(probTurnover) }
func (s *Sampler) Foul() bool              { return s.Chance(probFoul) }
func (s *Sampler) ShootingFoul() bool      { return s.Chance(probShootingFoul) }
func (s *Sampler) ThreePointAttempt() bool { return s.Chance(probThreePointer) }
func (s *Sampler) ThreePointMade() bool    { return s.Chance(probThreePointMade) }
func (s *Sampler) FieldGoalMade() bool     { return s.Chance(probFieldGoalMade) }
func (s *Sampler) FreeThrowMade() bool     { return s.Chance(probFreeThrowMade) }
func (s *Sampler) Assisted() bool          { return s.Chance(probAssist) }

// PossessionSeconds draws how long one possession consumes (10-25s).
func (s *Sampler) PossessionSeconds() int {
	return s.IntBetween(minPossessionSeconds, maxPossessionSeconds)
}

// PossessionsPerMinute draws how many possessions fit in a real-time minute (3-5).
func (s *Sampler) PossessionsPerMinute() int {
	return s.IntBetween(minPossessionsPerMin, maxPossessionsPerMin)
}
