// Package candlefile reads candle histories from CSV and JSON files.
//
// CSV files need a header row naming at least open_time, open, high, low,
// close and volume; taker_buy_volume is optional. JSON files hold an array of
// either candle objects with the same keys or exchange kline arrays
// ([open_time, open, high, low, close, volume, close_time, quote_volume,
// trades, taker_buy_volume, ...]). Numbers may be quoted.
package candlefile

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tasignals/internal/domain/market_data"
	"tasignals/pkg/errors"
)

var requiredColumns = []string{"open_time", "open", "high", "low", "close", "volume"}

// LoadFile reads a .csv or .json candle file
func LoadFile(path string) (market_data.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open candle file %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".json":
		return ReadJSON(f)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unsupported candle file %s", path)
	}
}

// SymbolFromPath derives a symbol from a file name: data/BTCUSDT.csv -> BTCUSDT
func SymbolFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadCSV parses candles from CSV with a header row
func ReadCSV(r io.Reader) (market_data.Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "csv header misses column %s", name)
		}
	}
	takerCol, hasTaker := cols["taker_buy_volume"]

	var series market_data.Series
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read csv line %d", line)
		}

		openTime, err := strconv.ParseInt(strings.TrimSpace(record[cols["open_time"]]), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "line %d: open_time %q", line, record[cols["open_time"]])
		}
		values := make([]float64, len(requiredColumns)-1)
		for i, name := range requiredColumns[1:] {
			v, err := parseDecimal(record[cols[name]])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: %s", line, name)
			}
			values[i] = v
		}
		candle := market_data.OHLCV{
			OpenTime: openTime,
			Open:     values[0],
			High:     values[1],
			Low:      values[2],
			Close:    values[3],
			Volume:   values[4],
		}
		if hasTaker && takerCol < len(record) && strings.TrimSpace(record[takerCol]) != "" {
			if candle.TakerBuyVolume, err = parseDecimal(record[takerCol]); err != nil {
				return nil, errors.Wrapf(err, "line %d: taker_buy_volume", line)
			}
		}
		series = append(series, candle)
	}
	return series, nil
}

type jsonCandle struct {
	OpenTime       int64               `json:"open_time"`
	Open           decimal.Decimal     `json:"open"`
	High           decimal.Decimal     `json:"high"`
	Low            decimal.Decimal     `json:"low"`
	Close          decimal.Decimal     `json:"close"`
	Volume         decimal.Decimal     `json:"volume"`
	TakerBuyVolume decimal.NullDecimal `json:"taker_buy_volume"`
}

// ReadJSON parses an array of candle objects or kline arrays
func ReadJSON(r io.Reader) (market_data.Series, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode candle json")
	}

	series := make(market_data.Series, 0, len(raw))
	for i, item := range raw {
		var (
			c   market_data.OHLCV
			err error
		)
		if bytes.HasPrefix(bytes.TrimSpace(item), []byte("[")) {
			c, err = parseKline(item)
		} else {
			c, err = parseObject(item)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "candle %d", i)
		}
		series = append(series, c)
	}
	return series, nil
}

func parseObject(item json.RawMessage) (market_data.OHLCV, error) {
	var jc jsonCandle
	if err := json.Unmarshal(item, &jc); err != nil {
		return market_data.OHLCV{}, errors.Wrapf(errors.ErrInvalidInput, "candle object: %v", err)
	}
	c := market_data.OHLCV{
		OpenTime: jc.OpenTime,
		Open:     jc.Open.InexactFloat64(),
		High:     jc.High.InexactFloat64(),
		Low:      jc.Low.InexactFloat64(),
		Close:    jc.Close.InexactFloat64(),
		Volume:   jc.Volume.InexactFloat64(),
	}
	if jc.TakerBuyVolume.Valid {
		c.TakerBuyVolume = jc.TakerBuyVolume.Decimal.InexactFloat64()
	}
	return c, nil
}

// parseKline reads the exchange kline layout
func parseKline(item json.RawMessage) (market_data.OHLCV, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return market_data.OHLCV{}, errors.Wrapf(errors.ErrInvalidInput, "kline: %v", err)
	}
	if len(fields) < 6 {
		return market_data.OHLCV{}, errors.Wrapf(errors.ErrInvalidInput, "kline has %d fields, need 6", len(fields))
	}

	var c market_data.OHLCV
	if err := json.Unmarshal(fields[0], &c.OpenTime); err != nil {
		return market_data.OHLCV{}, errors.Wrapf(errors.ErrInvalidInput, "kline open time: %v", err)
	}
	targets := []*float64{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume}
	for i, target := range targets {
		var d decimal.Decimal
		if err := d.UnmarshalJSON(fields[i+1]); err != nil {
			return market_data.OHLCV{}, errors.Wrapf(errors.ErrInvalidInput, "kline field %d: %v", i+1, err)
		}
		*target = d.InexactFloat64()
	}
	if len(fields) > 9 {
		var d decimal.Decimal
		if err := d.UnmarshalJSON(fields[9]); err == nil {
			c.TakerBuyVolume = d.InexactFloat64()
		}
	}
	return c, nil
}

func parseDecimal(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "number %q", s)
	}
	return d.InexactFloat64(), nil
}

// Source serves symbols from <dir>/<symbol>.csv or <dir>/<symbol>.json
type Source struct {
	Dir        string
	Extensions []string
}

// NewSource creates a file source rooted at dir
func NewSource(dir string) *Source {
	return &Source{Dir: dir, Extensions: []string{".csv", ".json"}}
}

// NewFileSource serves exactly one candle file under the symbol derived from its name
func NewFileSource(path string) (*Source, string) {
	src := &Source{Dir: filepath.Dir(path), Extensions: []string{filepath.Ext(path)}}
	return src, SymbolFromPath(path)
}

// GetOHLCV implements market_data.Source. The timeframe, when set, is tried
// first as <symbol>_<timeframe>.
func (s *Source) GetOHLCV(ctx context.Context, query market_data.Query) (market_data.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query.Symbol == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "symbol is required")
	}

	var names []string
	if query.Timeframe != "" {
		names = append(names, query.Symbol+"_"+query.Timeframe)
	}
	names = append(names, query.Symbol)

	for _, name := range names {
		for _, ext := range s.Extensions {
			path := filepath.Join(s.Dir, name+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			series, err := LoadFile(path)
			if err != nil {
				return nil, err
			}
			return series.Tail(query.Limit), nil
		}
	}
	return nil, errors.Wrapf(errors.ErrUnavailable, "no candle file for %s in %s", query.Symbol, s.Dir)
}
