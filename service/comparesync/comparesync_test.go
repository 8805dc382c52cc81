package comparesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCompareSuffix(t *testing.T) {
	assert.True(t, hasCompareSuffix("SW_compare"))
	assert.True(t, hasCompareSuffix("SW_compare_test"))
	assert.False(t, hasCompareSuffix("SW"))
	assert.False(t, hasCompareSuffix("SW_test"))
	assert.False(t, hasCompareSuffix("compare_SW"))
}
