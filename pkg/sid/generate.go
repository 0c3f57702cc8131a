package sid

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/robaho/go-symbols/pkg/market"
)

func generateSimple(symbol string, t SecurityType, market string) (SecurityIdentifier, error) {
	return New(Fields{Symbol: symbol, Market: market, SecurityType: t}, Empty)
}

func GenerateEquity(symbol, market string) (SecurityIdentifier, error) {
	return generateSimple(symbol, Equity, market)
}

func GenerateForex(symbol, market string) (SecurityIdentifier, error) {
	return generateSimple(symbol, Forex, market)
}

func GenerateCfd(symbol, market string) (SecurityIdentifier, error) {
	return generateSimple(symbol, Cfd, market)
}

func GenerateCrypto(symbol, market string) (SecurityIdentifier, error) {
	return generateSimple(symbol, Crypto, market)
}

func GenerateIndex(symbol, market string) (SecurityIdentifier, error) {
	return generateSimple(symbol, Index, market)
}

func GenerateCommodity(symbol, market string) (SecurityIdentifier, error) {
	return generateSimple(symbol, Commodity, market)
}

func GenerateFuture(expiry time.Time, symbol, market string) (SecurityIdentifier, error) {
	return generateDated(expiry, symbol, Future, market)
}

func GenerateCryptoFuture(expiry time.Time, symbol, market string) (SecurityIdentifier, error) {
	return generateDated(expiry, symbol, CryptoFuture, market)
}

func generateDated(expiry time.Time, symbol string, t SecurityType, market string) (SecurityIdentifier, error) {
	if expiry.IsZero() {
		return Empty, errors.Wrapf(ErrFormat, "%s %s requires an expiry", t, symbol)
	}
	return New(Fields{Symbol: symbol, Market: market, SecurityType: t, Date: expiry}, Empty)
}

// OptionType returns the option security type written on the given underlying type.
func OptionType(underlying SecurityType) (SecurityType, bool) {
	switch underlying {
	case Equity:
		return Option, true
	case Index:
		return IndexOption, true
	case Future:
		return FutureOption, true
	}
	return Base, false
}

// GenerateOption encodes a concrete option contract chained to its underlying.
// The option kind follows the underlying: equity, index or future.
func GenerateOption(expiry time.Time, underlying SecurityIdentifier, market string, strike decimal.Decimal, right OptionRight, style OptionStyle) (SecurityIdentifier, error) {
	t, ok := OptionType(underlying.SecurityType())
	if underlying.IsEmpty() || !ok {
		return Empty, errors.Wrapf(ErrFormat, "no option type for underlying %q", underlying)
	}
	if expiry.IsZero() {
		return Empty, errors.Wrapf(ErrFormat, "option on %s requires an expiry", underlying.Symbol())
	}
	if right == NoRight || style == NoStyle {
		return Empty, errors.Wrapf(ErrFormat, "option on %s requires a right and a style", underlying.Symbol())
	}
	return New(Fields{
		Symbol:       underlying.Symbol(),
		Market:       market,
		SecurityType: t,
		Date:         expiry,
		Strike:       strike,
		Right:        right,
		Style:        style,
	}, underlying)
}

// GenerateCanonicalOption encodes the class of all options on underlying:
// no date, no strike, no right and no style.
func GenerateCanonicalOption(underlying SecurityIdentifier, market string) (SecurityIdentifier, error) {
	t, ok := OptionType(underlying.SecurityType())
	if underlying.IsEmpty() || !ok {
		return Empty, errors.Wrapf(ErrFormat, "no option type for underlying %q", underlying)
	}
	return New(Fields{Symbol: underlying.Symbol(), Market: market, SecurityType: t}, underlying)
}

// GenerateCanonicalFuture encodes the class of all futures on a root.
func GenerateCanonicalFuture(symbol, market string) (SecurityIdentifier, error) {
	return generateSimple(symbol, Future, market)
}

// GenerateBase encodes custom data. The root is the data type name and the
// identifier is chained to underlying, whose date it shares. The name obeys
// the ticker limits.
func GenerateBase(dataType string, underlying SecurityIdentifier, market string) (SecurityIdentifier, error) {
	return New(Fields{
		Symbol:       dataType,
		Market:       market,
		SecurityType: Base,
		Date:         underlying.Date(),
	}, underlying)
}

// DefaultMarket is the market assumed when a record or command names a
// security type but no market.
func DefaultMarket(t SecurityType) string {
	switch t {
	case Forex, Cfd:
		return market.Oanda
	case Crypto:
		return market.Coinbase
	case CryptoFuture:
		return market.Binance
	case Future, FutureOption:
		return market.Globex
	}
	return market.USA
}
