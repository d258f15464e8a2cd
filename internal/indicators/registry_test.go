package indicators

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasignals/pkg/errors"
)

func TestDefaultRegistry(t *testing.T) {
	reg := Default()

	assert.Equal(t, []string{"ema_20", "rsi", "macd", "adx", "atr", "bollinger"}, reg.Core())
	assert.Equal(t, len(reg.Names()), reg.Len())

	seen := make(map[string]bool)
	for _, def := range reg.List() {
		assert.False(t, seen[def.Name], "duplicate %s", def.Name)
		seen[def.Name] = true
		assert.NotEmpty(t, def.Description, def.Name)
		assert.NotEmpty(t, def.Category, def.Name)
	}

	def, ok := reg.Get("macd")
	require.True(t, ok)
	assert.Equal(t, CategoryMomentum, def.Category)
	assert.Equal(t, Params{"fast": 12, "slow": 26, "signal": 9}, def.Defaults)

	for _, d := range reg.ByCategory(CategoryBreadth) {
		assert.Equal(t, CategoryBreadth, d.Category)
	}
	assert.Len(t, reg.ByCategory(CategoryBreadth), 3)
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	def := Definition{Name: "close", Category: CategoryMomentum, Compute: func(in *Input, p Params) Result {
		return value(in.Close[in.Len()-1])
	}}

	require.NoError(t, reg.Register(def))
	assert.True(t, errors.Is(reg.Register(def), errors.ErrInvalidInput))
	assert.True(t, errors.Is(reg.Register(Definition{Name: "no_compute"}), errors.ErrInvalidInput))
	assert.Panics(t, func() { reg.MustRegister(def) })

	got, _ := reg.Get("close")
	assert.NotNil(t, got.Defaults)
}

func TestParams(t *testing.T) {
	p := Params{"period": 10}.Merge(Params{"stddev": 1.5})
	assert.Equal(t, Params{"period": 10, "stddev": 1.5}, p)

	period, err := p.Period("period", 20)
	require.NoError(t, err)
	assert.Equal(t, 10, period)

	period, err = p.Period("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, period)

	_, err = Params{"period": 1.5}.Period("period", 3)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	_, err = p.Period("missing", 0)
	assert.True(t, errors.Is(err, errors.ErrInternal))

	_, err = Params{"stddev": 0}.Positive("stddev", 2)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	assert.Equal(t, 3.0, Params{}.Float("k", 3))
}

func TestResultJSON(t *testing.T) {
	present := record(1.5, map[string]float64{"a": 1}).withLabel("trend", "up").withSignal("bullish")
	data, err := json.Marshal(present)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, present, decoded)

	data, err = json.Marshal(insufficient("rsi(%d)", 14))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	require.NoError(t, json.Unmarshal([]byte("null"), &decoded))
	assert.True(t, decoded.Absent())
	_, ok := decoded.Field("a")
	assert.False(t, ok)
	assert.Equal(t, "", decoded.Label("trend"))
}
