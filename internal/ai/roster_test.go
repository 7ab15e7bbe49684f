package ai

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryFirstSuccessWins(t *testing.T) {
	var attempts []string

	result, err := Try([]string{"bad-1", "bad-2", "good", "never"}, func(key string) (string, error) {
		attempts = append(attempts, key)
		if key == "good" {
			return "answer", nil
		}
		return "", fmt.Errorf("key %s rejected", key)
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", result)

	// The winning key stops the walk; later keys are never tried.
	assert.Equal(t, []string{"bad-1", "bad-2", "good"}, attempts)
}

func TestTryReturnsLastError(t *testing.T) {
	_, err := Try([]string{"a", "b"}, func(key string) (string, error) {
		return "", fmt.Errorf("key %s rejected", key)
	})
	require.Error(t, err)
	assert.EqualError(t, err, "key b rejected")
}

func TestTryEmptyRoster(t *testing.T) {
	_, err := Try(nil, func(key string) (string, error) {
		t.Fatal("call must not run without credentials")
		return "", nil
	})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestShuffledIsAPermutation(t *testing.T) {
	keys := []string{"k1", "k2", "k3", "k4", "k5"}
	roster := NewRoster(keys)

	out := roster.Shuffled()
	require.Len(t, out, len(keys))

	sorted := append([]string(nil), out...)
	sort.Strings(sorted)
	assert.Equal(t, keys, sorted)

	// The roster itself keeps its original order.
	assert.Equal(t, []string{"k1", "k2", "k3", "k4", "k5"}, roster.keys)
}

func TestShuffledReturnsIndependentCopies(t *testing.T) {
	roster := NewRoster([]string{"k1", "k2"})

	first := roster.Shuffled()
	first[0] = "mutated"

	second := roster.Shuffled()
	assert.NotContains(t, second, "mutated")
}
