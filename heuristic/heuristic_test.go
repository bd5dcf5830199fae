package heuristic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("random", func(t *testing.T) {
		h, err := New(Random, 1, nil, nil)
		require.NoError(t, err)
		assert.IsType(t, &RandomChoice{}, h)
	})
	t.Run("user", func(t *testing.T) {
		h, err := New(Interactive, 0, strings.NewReader(""), &strings.Builder{})
		require.NoError(t, err)
		assert.IsType(t, &InteractiveChoice{}, h)
	})
	t.Run("unknown", func(t *testing.T) {
		_, err := New(Kind("montecarlo"), 0, nil, nil)
		require.Error(t, err)
	})
}

func TestRandomChoice(t *testing.T) {
	candidates := []string{"a", "b", "c", "d"}

	t.Run("seeded runs repeat", func(t *testing.T) {
		first := NewRandom(42)
		second := NewRandom(42)
		for i := 0; i < 50; i++ {
			assert.Equal(t, first.ChooseFrom(candidates), second.ChooseFrom(candidates))
		}
	})

	t.Run("choices stay in range", func(t *testing.T) {
		h := NewRandom(7)
		for i := 0; i < 100; i++ {
			got := h.ChooseFrom(candidates)
			assert.GreaterOrEqual(t, got, 0)
			assert.Less(t, got, len(candidates))
		}
	})

	t.Run("empty candidates", func(t *testing.T) {
		assert.Equal(t, 0, NewRandom(1).ChooseFrom(nil))
	})
}

func TestInteractiveChoice(t *testing.T) {
	candidates := []string{"a", "b", "c"}

	t.Run("accepts valid input", func(t *testing.T) {
		var prompts strings.Builder
		h := NewInteractive(strings.NewReader("2\n"), &prompts)
		assert.Equal(t, 2, h.ChooseFrom(candidates))
		assert.Equal(t, "Choose a state (0-2): ", prompts.String())
	})

	t.Run("re-prompts on bad input", func(t *testing.T) {
		var prompts strings.Builder
		h := NewInteractive(strings.NewReader("seven\n9\n1\n"), &prompts)
		assert.Equal(t, 1, h.ChooseFrom(candidates))
		assert.Equal(t, 3, strings.Count(prompts.String(), "Choose a state"))
	})

	t.Run("exhausted input falls back to first", func(t *testing.T) {
		h := NewInteractive(strings.NewReader(""), &strings.Builder{})
		assert.Equal(t, 0, h.ChooseFrom(candidates))
	})

	t.Run("empty candidates skip the prompt", func(t *testing.T) {
		var prompts strings.Builder
		h := NewInteractive(strings.NewReader("0\n"), &prompts)
		assert.Equal(t, 0, h.ChooseFrom(nil))
		assert.Empty(t, prompts.String())
	})
}
