package bom

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareRefs(t *testing.T) {
	refs := []string{"R10", "C1", "R2", "R1", "U1A", "R02", "U1", "R100", "IC3"}
	slices.SortStableFunc(refs, CompareRefs)

	assert.Equal(t, []string{"C1", "IC3", "R1", "R2", "R02", "R10", "R100", "U1", "U1A"}, refs)
}

func TestCompareRefsEqual(t *testing.T) {
	assert.Zero(t, CompareRefs("R1", "R1"))
	assert.Negative(t, CompareRefs("R", "R1"))
	assert.Positive(t, CompareRefs("R1", "R"))
}
