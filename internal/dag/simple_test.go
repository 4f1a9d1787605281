package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindCycles_None(t *testing.T) {
	adj := map[string][]string{
		"a": {"b", "c"},
		"b": {"c"},
		"c": {"c"},
	}
	assert.Empty(t, FindCycles(adj))
}

func TestFindCycles_Normalized(t *testing.T) {
	adj := map[string][]string{
		"c": {"a"},
		"a": {"b"},
		"b": {"c", "a"},
	}

	assert.Equal(t, [][]string{
		{"a", "b", "a"},
		{"a", "b", "c", "a"},
	}, FindCycles(adj))
}

func TestFindCycles_DanglingNeighbor(t *testing.T) {
	adj := map[string][]string{
		"a": {"zzz"},
		"b": {"a", "b"},
	}
	assert.Empty(t, FindCycles(adj))
}

func TestNormalizeCycle(t *testing.T) {
	assert.Equal(t, []string{"a", "x", "m", "a"}, normalizeCycle([]string{"m", "a", "x"}))
}
