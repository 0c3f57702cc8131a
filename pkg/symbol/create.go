package symbol

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/robaho/go-symbols/pkg/sid"
	"github.com/robaho/go-symbols/pkg/ticker"
)

// Create builds a symbol from a ticker. Types whose contracts need an expiry
// (options and futures) get their canonical symbol, which stands for every
// contract on the ticker.
func Create(tickerText string, t sid.SecurityType, market string) (*Symbol, error) {
	alias := strings.ToUpper(tickerText)
	switch t {
	case sid.Equity, sid.Forex, sid.Cfd, sid.Crypto, sid.Index, sid.Commodity:
		id, err := sid.New(sid.Fields{Symbol: tickerText, Market: market, SecurityType: t}, sid.Empty)
		if err != nil {
			return nil, err
		}
		return &Symbol{id: id, value: alias}, nil
	case sid.Base:
		return CreateBase(tickerText, nil, market)
	case sid.Option:
		underlying, err := CreateEquity(tickerText, market)
		if err != nil {
			return nil, err
		}
		return CreateCanonicalOption(underlying, market)
	case sid.IndexOption:
		underlying, err := Create(tickerText, sid.Index, market)
		if err != nil {
			return nil, err
		}
		return CreateCanonicalOption(underlying, market)
	case sid.Future, sid.CryptoFuture:
		id, err := sid.New(sid.Fields{Symbol: tickerText, Market: market, SecurityType: t}, sid.Empty)
		if err != nil {
			return nil, err
		}
		return &Symbol{id: id, value: string(CanonicalFutureMarker) + alias}, nil
	}
	return nil, errors.Wrapf(sid.ErrFormat, "cannot create %s %q from a ticker alone", t, tickerText)
}

func CreateEquity(tickerText, market string) (*Symbol, error) {
	return Create(tickerText, sid.Equity, market)
}

func CreateForex(pair, market string) (*Symbol, error) {
	return Create(pair, sid.Forex, market)
}

func CreateCrypto(pair, market string) (*Symbol, error) {
	return Create(pair, sid.Crypto, market)
}

func CreateCfd(tickerText, market string) (*Symbol, error) {
	return Create(tickerText, sid.Cfd, market)
}

func CreateIndex(tickerText, market string) (*Symbol, error) {
	return Create(tickerText, sid.Index, market)
}

// CreateFuture builds a dated futures contract, aliased like EDZ16.
func CreateFuture(root, market string, expiry time.Time) (*Symbol, error) {
	id, err := sid.GenerateFuture(expiry, root, market)
	if err != nil {
		return nil, err
	}
	return &Symbol{id: id, value: ticker.GenerateFuture(id.Symbol(), expiry, true)}, nil
}

func CreateCryptoFuture(root, market string, expiry time.Time) (*Symbol, error) {
	id, err := sid.GenerateCryptoFuture(expiry, root, market)
	if err != nil {
		return nil, err
	}
	return &Symbol{id: id, value: ticker.GenerateFuture(id.Symbol(), expiry, true)}, nil
}

// CreateOption builds an equity option, creating the underlying equity.
func CreateOption(underlying, market string, style sid.OptionStyle, right sid.OptionRight, strike decimal.Decimal, expiry time.Time) (*Symbol, error) {
	parent, err := CreateEquity(underlying, market)
	if err != nil {
		return nil, err
	}
	return CreateOptionWithUnderlying(parent, market, style, right, strike, expiry)
}

// CreateOptionWithUnderlying builds an option on an existing symbol. The kind
// of option follows the parent: equity, index or future. The alias is the OSI
// ticker on the parent's alias.
func CreateOptionWithUnderlying(parent *Symbol, market string, style sid.OptionStyle, right sid.OptionRight, strike decimal.Decimal, expiry time.Time) (*Symbol, error) {
	if parent.IsCanonical() {
		return nil, errors.Wrapf(sid.ErrFormat, "cannot write an option on canonical %s", parent)
	}
	id, err := sid.GenerateOption(expiry, parent.ID(), market, strike, right, style)
	if err != nil {
		return nil, err
	}
	return &Symbol{
		id:         id,
		value:      ticker.GenerateOSI(parent.Value(), expiry, right, strike),
		underlying: parent,
	}, nil
}

// CreateCanonicalOption builds the symbol of every option on parent, aliased ?<parent>.
func CreateCanonicalOption(parent *Symbol, market string) (*Symbol, error) {
	id, err := sid.GenerateCanonicalOption(parent.ID(), market)
	if err != nil {
		return nil, err
	}
	return &Symbol{
		id:         id,
		value:      string(CanonicalOptionMarker) + parent.Value(),
		underlying: parent,
	}, nil
}

// CreateBase wraps custom data of the named type around underlying, aliased
// <underlying root>.<dataType>. A nil or Empty underlying makes a standalone
// custom data symbol aliased dataType. The data type name is the identifier's
// root ticker, so it is limited to sid.MaxTickerLength letters and digits:
// longer names or names with other characters, such as Tiingo_News, fail
// with sid.ErrFormat.
func CreateBase(dataType string, underlying *Symbol, market string) (*Symbol, error) {
	id, err := sid.GenerateBase(dataType, underlying.ID(), market)
	if err != nil {
		return nil, err
	}
	if underlying.IsEmpty() {
		return &Symbol{id: id, value: dataType}, nil
	}
	return &Symbol{
		id:         id,
		value:      underlying.ID().Symbol() + "." + dataType,
		underlying: underlying,
	}, nil
}

// Canonical returns the canonical symbol of a dated derivative, or the symbol
// itself when it is already canonical or not a derivative.
func (s *Symbol) Canonical() (*Symbol, error) {
	t := s.SecurityType()
	if !t.IsDerivative() || s.IsCanonical() {
		return s, nil
	}
	if t.IsOption() {
		return CreateCanonicalOption(s.Underlying(), s.ID().Market())
	}
	return Create(s.ID().Symbol(), t, s.ID().Market())
}

func defaultValue(id sid.SecurityIdentifier, underlying *Symbol) string {
	t := id.SecurityType()
	switch {
	case t.IsOption():
		root := id.Symbol()
		if underlying != nil {
			root = underlying.Value()
		}
		if id.IsCanonical() {
			return string(CanonicalOptionMarker) + root
		}
		return ticker.GenerateOSI(root, id.Date(), id.OptionRight(), id.StrikePrice())
	case t == sid.Future || t == sid.CryptoFuture:
		if id.IsCanonical() {
			return string(CanonicalFutureMarker) + id.Symbol()
		}
		return ticker.GenerateFuture(id.Symbol(), id.Date(), true)
	case t == sid.Base && underlying != nil:
		return underlying.ID().Symbol() + "." + id.Symbol()
	}
	return id.Symbol()
}
