package picker

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickNonRepeatingCycles(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 11))
	asked := AskedSet{}
	candidates := []int{0, 1, 2, 3, 4}

	for cycle := 0; cycle < 4; cycle++ {
		seen := map[int]bool{}
		for i := 0; i < len(candidates); i++ {
			idx, ok := PickNonRepeating(asked, "quiz", candidates, rnd)
			require.True(t, ok)
			assert.False(t, seen[idx], "cycle %d repeated %d", cycle, idx)
			seen[idx] = true
		}
		assert.Len(t, seen, len(candidates))
	}
}

func TestPickNonRepeatingCategoriesIndependent(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	asked := AskedSet{}
	PickNonRepeating(asked, "vocab", []int{0}, rnd)
	idx, ok := PickNonRepeating(asked, "missing", []int{0}, rnd)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, []int{0}, asked["vocab"])
	assert.Equal(t, []int{0}, asked["missing"])
}

func TestPickNonRepeatingSkipsAsked(t *testing.T) {
	rnd := rand.New(rand.NewPCG(3, 4))
	asked := AskedSet{"grammar": {0, 2}}
	for i := 0; i < 10; i++ {
		a := AskedSet{"grammar": append([]int(nil), asked["grammar"]...)}
		idx, _ := PickNonRepeating(a, "grammar", []int{0, 1, 2}, rnd)
		assert.Equal(t, 1, idx)
	}
}

func TestPickNonRepeatingEmpty(t *testing.T) {
	_, ok := PickNonRepeating(AskedSet{}, "quiz", nil, rand.New(rand.NewPCG(1, 1)))
	assert.False(t, ok)
}

func TestMaskWord(t *testing.T) {
	tests := []struct {
		word, want string
	}{
		{"go", "go"},
		{"a", "a"},
		{"", ""},
		{"slide", "s l _ d e"},
		{"ice cream", "i c e   c r _ _ m"},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskWord(tt.word))
		})
	}
}

func TestMaskWordKeepsEnds(t *testing.T) {
	for _, w := range []string{"apple", "butterfly", "teacher", "Swing", "ruler"} {
		got := MaskWord(w)
		assert.Equal(t, got, MaskWord(w), "deterministic")
		parts := strings.Split(got, " ")
		require.Len(t, parts, len(w))
		assert.Equal(t, w[:1], parts[0])
		assert.Equal(t, w[len(w)-1:], parts[len(parts)-1])

		blanks := strings.Count(got, "_")
		assert.GreaterOrEqual(t, blanks, 1)
		assert.LessOrEqual(t, blanks, 3)
	}
}
