package adaptive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasignals/pkg/errors"
)

func TestResolve(t *testing.T) {
	r := Default()

	t.Run("full history keeps nominal periods", func(t *testing.T) {
		s, err := r.Resolve(100, Shallow(34, 10))
		require.NoError(t, err)
		assert.False(t, s.Degraded())
		assert.Equal(t, []int{5, 34}, s.Periods(5, 34))
	})

	t.Run("short history scales every period", func(t *testing.T) {
		s, err := r.Resolve(14, Shallow(34, 14))
		require.NoError(t, err)
		assert.True(t, s.Degraded())
		assert.Equal(t, []int{5, 11, 4}, s.Periods(12, 26, 9))
	})

	t.Run("min period clamps tiny results", func(t *testing.T) {
		s, err := r.Resolve(10, Shallow(34, 10))
		require.NoError(t, err)
		assert.Equal(t, 2, s.Period(5))
		assert.Equal(t, 10, s.Period(34))
	})

	t.Run("below floor is insufficient", func(t *testing.T) {
		_, err := r.Resolve(9, Shallow(34, 10))
		assert.True(t, errors.Is(err, errors.ErrInsufficientData))
	})

	t.Run("shallow floor applies when indicator floor is lower", func(t *testing.T) {
		_, err := r.Resolve(4, Shallow(20, 3))
		assert.True(t, errors.Is(err, errors.ErrInsufficientData))

		_, err = r.Resolve(5, Shallow(20, 3))
		assert.NoError(t, err)
	})

	t.Run("fixed requirement never degrades", func(t *testing.T) {
		_, err := r.Resolve(199, Fixed(200))
		assert.True(t, errors.Is(err, errors.ErrInsufficientData))

		s, err := r.Resolve(200, Fixed(200))
		require.NoError(t, err)
		assert.Equal(t, 200, s.Period(200))
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())
	assert.Error(t, Resolver{MinPeriod: 0, ShallowFloor: 5}.Validate())
	assert.Error(t, Resolver{MinPeriod: 3, ShallowFloor: 2}.Validate())
}
