package ai

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// ErrNoCredentials is returned when the roster is empty.
var ErrNoCredentials = errors.New("no AI credentials configured")

// Roster holds interchangeable API credentials. Each call site draws a fresh
// random order so load spreads across keys.
type Roster struct {
	keys []string

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRoster(keys []string) *Roster {
	return &Roster{
		keys: keys,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Shuffled returns a new slice with the credentials in random order. The
// underlying roster is never reordered.
func (r *Roster) Shuffled() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)

	r.mu.Lock()
	r.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	r.mu.Unlock()

	return out
}

// Try invokes call with each credential in order; the first success wins.
// When every candidate fails the last error is returned. Try itself carries
// no randomness, so callers control (and tests fix) the attempt order.
func Try(keys []string, call func(key string) (string, error)) (string, error) {
	if len(keys) == 0 {
		return "", ErrNoCredentials
	}

	var lastErr error
	for _, key := range keys {
		result, err := call(key)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return "", lastErr
}
