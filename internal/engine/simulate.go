package engine

import (
	"math/rand/v2"
	"sync"
)

// Simulation draws the occasional background reward: with PointChance a
// bonus of 1..MaxPoints points, and independently with StreakChance one
// extra streak day.
type Simulation struct {
	PointChance  float64
	StreakChance float64
	MaxPoints    int64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulation returns a simulation using rng, or a randomly seeded
// generator when rng is nil.
func NewSimulation(pointChance, streakChance float64, maxPoints int64, rng *rand.Rand) *Simulation {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if maxPoints < 1 {
		maxPoints = 1
	}
	return &Simulation{
		PointChance:  pointChance,
		StreakChance: streakChance,
		MaxPoints:    maxPoints,
		rng:          rng,
	}
}

// Draw returns the bonus for one tick. ok is false when nothing was won.
func (s *Simulation) Draw() (Bonus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b Bonus
	if s.rng.Float64() < s.PointChance {
		b.Points = s.rng.Int64N(s.MaxPoints) + 1
	}
	if s.rng.Float64() < s.StreakChance {
		b.Streak = 1
	}
	return b, b.Points > 0 || b.Streak > 0
}

// Tick draws once and applies any win through t.
func (s *Simulation) Tick(t *Tracker) (Bonus, bool, error) {
	b, ok := s.Draw()
	if !ok {
		return Bonus{}, false, nil
	}
	if _, err := t.Bonus(b); err != nil {
		return Bonus{}, false, err
	}
	return b, true, nil
}
