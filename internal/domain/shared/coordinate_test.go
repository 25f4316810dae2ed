package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinate(t *testing.T) {
	c, err := ParseCoordinate("51.9, 4.5")
	require.NoError(t, err)
	assert.Equal(t, Coordinate{Lat: 51.9, Lon: 4.5}, c)

	_, err = ParseCoordinate("100,0")
	assert.Error(t, err)

	_, err = ParseCoordinate("Rotterdam")
	assert.Error(t, err)
}

func TestLooksLikeCoordinate(t *testing.T) {
	assert.True(t, LooksLikeCoordinate("10,20"))
	assert.True(t, LooksLikeCoordinate("100, -300"))
	assert.False(t, LooksLikeCoordinate("Rotterdam"))
	assert.False(t, LooksLikeCoordinate("Port Said, Egypt"))
	assert.False(t, LooksLikeCoordinate("1,2,3"))
}
