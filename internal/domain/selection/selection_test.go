package selection_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/selection"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
)

func coord(lat, lon float64) shared.Coordinate {
	return shared.Coordinate{Lat: lat, Lon: lon}
}

func TestSelection_StartsEmpty(t *testing.T) {
	s := selection.New()

	assert.Equal(t, selection.StateEmpty, s.State())
	_, ok := s.Origin()
	assert.False(t, ok)
	_, ok = s.Destination()
	assert.False(t, ok)
}

func TestSelection_PickSequence(t *testing.T) {
	s := selection.New()

	assert.Equal(t, selection.StateOriginSet, s.Pick(coord(10, 10)))
	assert.Equal(t, selection.StateComplete, s.Pick(coord(20, 20)))

	origin, destination, ok := s.Pair()
	require.True(t, ok)
	assert.Equal(t, coord(10, 10), origin)
	assert.Equal(t, coord(20, 20), destination)
}

func TestSelection_PickWhileCompleteStartsOver(t *testing.T) {
	s := selection.New()
	s.Pick(coord(10, 10))
	s.Pick(coord(20, 20))

	state := s.Pick(coord(30, 30))

	assert.Equal(t, selection.StateOriginSet, state)
	origin, _ := s.Origin()
	assert.Equal(t, coord(30, 30), origin)
	_, ok := s.Destination()
	assert.False(t, ok)
}

func TestSelection_UseAsOriginOverwritesInPlace(t *testing.T) {
	s := selection.New()
	s.Pick(coord(10, 10))
	s.Pick(coord(20, 20))

	state := s.UseAsOrigin(coord(51.9, 4.5))

	assert.Equal(t, selection.StateComplete, state)
	origin, _ := s.Origin()
	destination, _ := s.Destination()
	assert.Equal(t, coord(51.9, 4.5), origin)
	assert.Equal(t, coord(20, 20), destination)
}

func TestSelection_UseAsOriginFromEmpty(t *testing.T) {
	s := selection.New()

	assert.Equal(t, selection.StateOriginSet, s.UseAsOrigin(coord(1, 2)))
}

func TestSelection_UseAsDestinationWhileComplete(t *testing.T) {
	s := selection.New()
	s.Pick(coord(10, 10))
	s.Pick(coord(20, 20))

	state, err := s.UseAsDestination(coord(1.29, 103.85))

	require.NoError(t, err)
	assert.Equal(t, selection.StateComplete, state)
	destination, _ := s.Destination()
	assert.Equal(t, coord(1.29, 103.85), destination)
}

func TestSelection_UseAsDestinationWithoutOriginIsRejected(t *testing.T) {
	s := selection.New()

	state, err := s.UseAsDestination(coord(1.29, 103.85))

	var incomplete *shared.SelectionIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, selection.StateEmpty, state)
	_, ok := s.Destination()
	assert.False(t, ok)
}

func TestSelection_ClearFromAnyState(t *testing.T) {
	for _, picks := range [][]shared.Coordinate{
		nil,
		{coord(1, 1)},
		{coord(1, 1), coord(2, 2)},
	} {
		s := selection.New()
		for _, c := range picks {
			s.Pick(c)
		}

		assert.Equal(t, selection.StateEmpty, s.Clear())
		assert.Equal(t, selection.StateEmpty, s.State())
	}
}

func TestSelection_DestinationNeverWithoutOrigin(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := selection.New()

	for i := 0; i < 2000; i++ {
		c := coord(rng.Float64()*180-90, rng.Float64()*360-180)
		switch rng.Intn(4) {
		case 0:
			s.Pick(c)
		case 1:
			s.UseAsOrigin(c)
		case 2:
			_, _ = s.UseAsDestination(c)
		case 3:
			s.Clear()
		}

		_, hasOrigin := s.Origin()
		_, hasDestination := s.Destination()
		if hasDestination {
			require.True(t, hasOrigin, "destination set without origin after step %d", i)
		}
	}
}
