package candlefile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasignals/internal/domain/market_data"
	"tasignals/pkg/errors"
)

const csvCandles = `open_time,open,high,low,close,volume,taker_buy_volume
1700000000000,100.5,101.25,99.75,101,1500.5,700
1700003600000,101,102,100.5,101.75,1200,
1700007200000,101.75,103,101.5,102.5,1800.25,1000
`

func TestReadCSV(t *testing.T) {
	series, err := ReadCSV(strings.NewReader(csvCandles))
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.Equal(t, market_data.OHLCV{
		OpenTime:       1700000000000,
		Open:           100.5,
		High:           101.25,
		Low:            99.75,
		Close:          101,
		Volume:         1500.5,
		TakerBuyVolume: 700,
	}, series[0])
	assert.Equal(t, 0.0, series[1].TakerBuyVolume)
	assert.NoError(t, series.Validate())
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing column", "open_time,open,high,low,close\n1,1,1,1,1\n"},
		{"bad number", "open_time,open,high,low,close,volume\n1,abc,1,1,1,1\n"},
		{"bad time", "open_time,open,high,low,close,volume\nsoon,1,1,1,1,1\n"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadJSON(t *testing.T) {
	t.Run("objects with quoted numbers", func(t *testing.T) {
		input := `[
			{"open_time": 1, "open": "10.5", "high": "11", "low": 10, "close": "10.75", "volume": "300"},
			{"open_time": 2, "open": 10.75, "high": 12, "low": 10.5, "close": 11.5, "volume": 250, "taker_buy_volume": "125"}
		]`
		series, err := ReadJSON(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, 10.5, series[0].Open)
		assert.Equal(t, 0.0, series[0].TakerBuyVolume)
		assert.Equal(t, 125.0, series[1].TakerBuyVolume)
	})

	t.Run("exchange klines", func(t *testing.T) {
		input := `[[1700000000000,"42000.10","42100.00","41950.50","42050.00","12.5",1700003599999,"525000.0",310,"7.25","304000.0","0"]]`
		series, err := ReadJSON(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, series, 1)
		assert.Equal(t, int64(1700000000000), series[0].OpenTime)
		assert.InDelta(t, 42000.10, series[0].Open, 1e-9)
		assert.Equal(t, 12.5, series[0].Volume)
		assert.Equal(t, 7.25, series[0].TakerBuyVolume)
	})

	t.Run("short kline", func(t *testing.T) {
		_, err := ReadJSON(strings.NewReader(`[[1,"1","1"]]`))
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})
}

func TestSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ETHUSDT.csv"), []byte(csvCandles), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ETHUSDT_4h.json"),
		[]byte(`[{"open_time": 5, "open": 1, "high": 1, "low": 1, "close": 1, "volume": 1}]`), 0o600))

	src := NewSource(dir)
	ctx := context.Background()

	series, err := src.GetOHLCV(ctx, market_data.Query{Symbol: "ETHUSDT", Limit: 2})
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, int64(1700003600000), series[0].OpenTime)

	series, err = src.GetOHLCV(ctx, market_data.Query{Symbol: "ETHUSDT", Timeframe: "4h"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), series[0].OpenTime)

	_, err = src.GetOHLCV(ctx, market_data.Query{Symbol: "DOGEUSDT"})
	assert.True(t, errors.Is(err, errors.ErrUnavailable))

	assert.Equal(t, "ETHUSDT_4h", SymbolFromPath(filepath.Join(dir, "ETHUSDT_4h.json")))
}

func TestNewFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ETHUSDT.csv"), []byte(csvCandles), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ETHUSDT.json"),
		[]byte(`[{"open_time": 5, "open": 1, "high": 1, "low": 1, "close": 1, "volume": 1}]`), 0o600))

	src, symbol := NewFileSource(filepath.Join(dir, "ETHUSDT.json"))
	assert.Equal(t, "ETHUSDT", symbol)

	series, err := src.GetOHLCV(context.Background(), market_data.Query{Symbol: symbol})
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, int64(5), series[0].OpenTime)

	src, symbol = NewFileSource(filepath.Join(dir, "ETHUSDT.csv"))
	series, err = src.GetOHLCV(context.Background(), market_data.Query{Symbol: symbol, Limit: 1})
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, int64(1700007200000), series[0].OpenTime)

	src, symbol = NewFileSource(filepath.Join(dir, "MISSING.csv"))
	_, err = src.GetOHLCV(context.Background(), market_data.Query{Symbol: symbol})
	assert.True(t, errors.Is(err, errors.ErrUnavailable))
}
