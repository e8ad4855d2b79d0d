package numberutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToIntWithDefault(t *testing.T) {
	assert.Equal(t, 5, ToIntWithDefault("5", 10))
	assert.Equal(t, -3, ToIntWithDefault("-3", 10))
	assert.Equal(t, 10, ToIntWithDefault("", 10))
	assert.Equal(t, 10, ToIntWithDefault("five", 10))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-1, 0, 3))
	assert.Equal(t, 2, Clamp(2, 0, 3))
	assert.Equal(t, 3, Clamp(7, 0, 3))
}
