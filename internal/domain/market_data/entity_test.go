package market_data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeriesTailAndCloses(t *testing.T) {
	s := Series{
		{OpenTime: 1, Close: 10},
		{OpenTime: 2, Close: 11},
		{OpenTime: 3, Close: 12.5},
	}

	assert.Equal(t, []float64{10, 11, 12.5}, s.Closes())
	assert.Equal(t, []float64{11, 12.5}, s.Tail(2).Closes())
	assert.Len(t, s.Tail(0), 3)
	assert.Len(t, s.Tail(10), 3)
	assert.Empty(t, Series{}.Closes())
}

func TestBreadthLen(t *testing.T) {
	var nilBreadth *Breadth
	assert.Equal(t, 0, nilBreadth.Len())
	assert.False(t, nilBreadth.HasVolume())

	b := &Breadth{Advances: []float64{1, 2, 3}, Declines: []float64{1, 2}}
	assert.Equal(t, 2, b.Len())
	assert.False(t, b.HasVolume())

	b.AdvancingVolume = []float64{1, 2}
	b.DecliningVolume = []float64{3, 4, 5}
	assert.True(t, b.HasVolume())
}
