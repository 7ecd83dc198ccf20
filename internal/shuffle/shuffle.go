package shuffle

import (
	"math/rand"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_shuffler.go github.com/ShyGirl95/Avalon/internal/shuffle Shuffler

// Shuffler provides random permutations and picks for the engine. Role
// assignment and bot decisions go through this interface so tests can pin
// the randomness down.
type Shuffler interface {
	// Perm returns a random permutation of the integers [0, n)
	Perm(n int) []int

	// Intn returns a random integer in [0, n)
	Intn(n int) int
}

// Config for the random shuffler
type Config struct {
	// Optional seed for testing
	Seed int64
}

// Random implements Shuffler using math/rand
type Random struct {
	random *rand.Rand
}

// New creates a new random shuffler
func New(cfg *Config) *Random {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)

	return &Random{
		random: rand.New(source),
	}
}

// Perm returns a random permutation of the integers [0, n)
func (r *Random) Perm(n int) []int {
	if n < 0 {
		n = 0
	}
	return r.random.Perm(n)
}

// Intn returns a random integer in [0, n). Callers must pass n > 0.
func (r *Random) Intn(n int) int {
	return r.random.Intn(n)
}
