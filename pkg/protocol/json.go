package protocol

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/robaho/go-symbols/internal/log"
	"github.com/robaho/go-symbols/pkg/sid"
	"github.com/robaho/go-symbols/pkg/symbol"
	"github.com/robaho/go-symbols/pkg/ticker"
)

// Record is the canonical JSON shape of a symbol. Underlying is omitted when
// the symbol has no underlying link.
type Record struct {
	Value      string  `json:"value"`
	ID         string  `json:"id"`
	Underlying *Record `json:"underlying,omitempty"`
}

func NewRecord(s *symbol.Symbol) *Record {
	r := &Record{Value: s.Value(), ID: s.ID().String()}
	if u := s.Underlying(); u != nil {
		r.Underlying = NewRecord(u)
	}
	return r
}

// Marshal always writes the canonical shape.
func Marshal(s *symbol.Symbol) ([]byte, error) {
	return json.Marshal(NewRecord(s))
}

// any of the accepted shapes, keys matched ignoring case
type rawRecord struct {
	Value      string      `mapstructure:"value"`
	ID         string      `mapstructure:"id"`
	Permtick   string      `mapstructure:"permtick"`
	Type       interface{} `mapstructure:"type"`
	Market     string      `mapstructure:"market"`
	Underlying interface{} `mapstructure:"underlying"`
}

// Decoder reads the historical JSON shapes of a symbol:
//
//	{"value": "SPY", "permtick": "SPY"}                legacy, resolved by Tickers
//	{"value": "SPY", "id": "SPY 2T", "underlying": …}  canonical
//	{"value": "EDZ16", "type": 5, "market": "globex"}  minimal, regenerated
type Decoder struct {
	// Tickers resolves legacy records. Without it they fail with symbol.ErrNotFound.
	Tickers *symbol.Registry
	// FutureExpiry dates a futures month ticker in a minimal record, the
	// default is the third Friday of the contract month.
	FutureExpiry func(f ticker.FutureTicker) time.Time
}

func (d *Decoder) Unmarshal(data []byte) (*symbol.Symbol, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, formatError("symbol json", err)
	}
	if v == nil {
		return nil, nil
	}
	return d.Decode(v)
}

// Decode reads a record already unmarshalled into generic JSON values.
func (d *Decoder) Decode(v interface{}) (*symbol.Symbol, error) {
	var raw rawRecord
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: &md,
		Result:   &raw,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, formatError("symbol record", err)
	}
	keys := make(map[string]bool, len(md.Keys))
	for _, k := range md.Keys {
		keys[k] = true
	}

	switch {
	case keys["id"]:
		return d.decodeCanonical(&raw)
	case keys["type"]:
		return d.decodeMinimal(&raw)
	case keys["permtick"]:
		return d.decodeLegacy(raw.Value, raw.Permtick)
	case raw.Value != "":
		return d.decodeLegacy(raw.Value, raw.Value)
	}
	return symbol.Empty, nil
}

func (d *Decoder) decodeCanonical(raw *rawRecord) (*symbol.Symbol, error) {
	id, err := sid.Parse(raw.ID)
	if err != nil {
		return nil, err
	}
	if raw.Underlying == nil {
		if id.HasUnderlying() {
			return symbol.NewWithUnderlying(id, raw.Value, symbol.FromID(id.Underlying())), nil
		}
		if id.IsEmpty() && raw.Value == "" {
			return symbol.Empty, nil
		}
		return symbol.NewWithUnderlying(id, raw.Value, nil), nil
	}
	underlying, err := d.Decode(raw.Underlying)
	if err != nil {
		return nil, errors.Wrap(err, "underlying")
	}
	// an Empty underlying is a placeholder, anything else must be the chained identity
	if !underlying.IsEmpty() && underlying.ID() != id.Underlying() {
		return nil, errors.Wrapf(sid.ErrFormat, "underlying %q does not match the chain of %q", underlying.ID(), id)
	}
	return symbol.NewWithUnderlying(id, raw.Value, underlying), nil
}

// formatError reports a malformed record as sid.ErrFormat, the decoder's
// own error is kept in the message and logged at debug
func formatError(what string, err error) error {
	log.Logger.Debug("malformed "+what, zap.Error(err))
	return errors.WithMessage(sid.ErrFormat, what+": "+err.Error())
}

func (d *Decoder) decodeLegacy(value, permtick string) (*symbol.Symbol, error) {
	log.Logger.Warn("legacy symbol record", zap.String("value", value), zap.String("permtick", permtick))
	if d.Tickers == nil {
		return nil, errors.Wrapf(symbol.ErrNotFound, "no ticker registry for %q", permtick)
	}
	s, err := d.Tickers.Get(permtick)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return s, nil
	}
	return symbol.NewWithUnderlying(s.ID(), value, s.Underlying()), nil
}

func (d *Decoder) decodeMinimal(raw *rawRecord) (*symbol.Symbol, error) {
	t, err := parseType(raw.Type)
	if err != nil {
		return nil, err
	}
	market := raw.Market
	if market == "" {
		market = sid.DefaultMarket(t)
	}
	text := strings.TrimSpace(raw.Value)

	switch t {
	case sid.Option, sid.IndexOption:
		o, ok := ticker.ParseOption(text)
		if !ok {
			return symbol.Create(strings.TrimPrefix(text, string(symbol.CanonicalOptionMarker)), t, market)
		}
		underlyingType, style := sid.Equity, sid.American
		if t == sid.IndexOption {
			underlyingType, style = sid.Index, sid.European
		}
		underlying, err := symbol.Create(o.Root, underlyingType, market)
		if err != nil {
			return nil, err
		}
		return symbol.CreateOptionWithUnderlying(underlying, market, style, o.Right, o.Strike, o.Expiry)
	case sid.Future, sid.CryptoFuture:
		f, ok := ticker.ParseFuture(text)
		if !ok {
			return symbol.Create(strings.TrimPrefix(text, string(symbol.CanonicalFutureMarker)), t, market)
		}
		if t == sid.CryptoFuture {
			return symbol.CreateCryptoFuture(f.Root, market, d.futureExpiry(f))
		}
		return symbol.CreateFuture(f.Root, market, d.futureExpiry(f))
	case sid.FutureOption:
		o, ok := ticker.ParseOSI(text)
		if !ok {
			return nil, errors.Wrapf(ticker.ErrUnsupportedConversion, "future option %q", text)
		}
		f, err := ticker.FutureFromText(o.Root)
		if err != nil {
			return nil, err
		}
		underlying, err := symbol.CreateFuture(f.Root, market, d.futureExpiry(f))
		if err != nil {
			return nil, err
		}
		return symbol.CreateOptionWithUnderlying(underlying, market, sid.American, o.Right, o.Strike, o.Expiry)
	case sid.Base:
		root, dataType, ok := cutLast(text, '.')
		if !ok {
			return symbol.CreateBase(text, nil, market)
		}
		underlying, err := symbol.CreateEquity(root, market)
		if err != nil {
			return nil, err
		}
		return symbol.CreateBase(dataType, underlying, market)
	}
	return symbol.Create(text, t, market)
}

func (d *Decoder) futureExpiry(f ticker.FutureTicker) time.Time {
	if d.FutureExpiry != nil {
		return d.FutureExpiry(f)
	}
	return f.Expiry(time.Now())
}

// JSON numbers arrive as float64, names and numeric strings are accepted too
func parseType(v interface{}) (sid.SecurityType, error) {
	switch x := v.(type) {
	case float64:
		t := sid.SecurityType(x)
		if float64(t) != x || !t.Valid() {
			return sid.Base, errors.Wrapf(sid.ErrFormat, "security type %v", x)
		}
		return t, nil
	case string:
		return sid.ParseSecurityType(x)
	}
	return sid.Base, errors.Wrapf(sid.ErrFormat, "security type %v", v)
}

func cutLast(s string, sep byte) (before, after string, found bool) {
	if i := strings.LastIndexByte(s, sep); i > 0 && i < len(s)-1 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}
