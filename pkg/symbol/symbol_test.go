package symbol

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robaho/go-symbols/pkg/sid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func msftCall(t *testing.T) *Symbol {
	s, err := CreateOption("MSFT", "usa", sid.American, sid.Call, decimal.RequireFromString("47.50"), date(2006, 3, 18))
	require.NoError(t, err)
	return s
}

func TestCreateEquity(t *testing.T) {
	s, err := CreateEquity("SPY", "usa")
	require.NoError(t, err)
	assert.Equal(t, "SPY 2T", s.ID().String())
	assert.Equal(t, "SPY", s.Value())
	assert.Equal(t, sid.Equity, s.SecurityType())
	assert.Nil(t, s.Underlying())
	assert.False(t, s.IsCanonical())
}

func TestCreateOption(t *testing.T) {
	s := msftCall(t)
	assert.Equal(t, "MSFT 1036EIFSZ7IXY|MSFT 2T", s.ID().String())
	assert.Equal(t, "MSFT  060318C00047500", s.Value())
	require.NotNil(t, s.Underlying())
	assert.Equal(t, "MSFT", s.Underlying().Value())
	assert.Equal(t, sid.Equity, s.Underlying().SecurityType())

	equity, err := CreateEquity("MSFT", "usa")
	require.NoError(t, err)
	assert.True(t, s.HasUnderlying(equity))
}

func TestCreateFuture(t *testing.T) {
	s, err := CreateFuture("ES", "globex", date(2016, 12, 19))
	require.NoError(t, err)
	assert.Equal(t, "ES 1YNM88T", s.ID().String())
	assert.Equal(t, "ESZ16", s.Value())

	canonical, err := s.Canonical()
	require.NoError(t, err)
	assert.Equal(t, "/ES", canonical.Value())
	assert.True(t, canonical.IsCanonical())
}

func TestCanonicalMarkers(t *testing.T) {
	opt, err := Create("SPY", sid.Option, "usa")
	require.NoError(t, err)
	assert.Equal(t, "?SPY", opt.Value())
	assert.Equal(t, "SPY 2U|SPY 2T", opt.ID().String())
	assert.True(t, opt.IsCanonical())

	f := opt.ID().Fields()
	assert.True(t, f.Date.IsZero())
	assert.True(t, f.Strike.IsZero())
	assert.Equal(t, sid.NoRight, f.Right)
	assert.Equal(t, sid.NoStyle, f.Style)

	fut, err := Create("ES", sid.Future, "globex")
	require.NoError(t, err)
	assert.Equal(t, "/ES", fut.Value())
	assert.True(t, fut.IsCanonical())

	canonical, err := msftCall(t).Canonical()
	require.NoError(t, err)
	assert.Equal(t, "?MSFT", canonical.Value())
}

func TestOptionOnCanonicalFails(t *testing.T) {
	fut, err := Create("ES", sid.Future, "globex")
	require.NoError(t, err)
	_, err = CreateOptionWithUnderlying(fut, "globex", sid.American, sid.Call, decimal.NewFromInt(2000), date(2016, 12, 16))
	assert.True(t, errors.Is(err, sid.ErrFormat))
}

func TestFutureOption(t *testing.T) {
	fut, err := CreateFuture("ES", "globex", date(2016, 12, 16))
	require.NoError(t, err)
	s, err := CreateOptionWithUnderlying(fut, "globex", sid.European, sid.Put, decimal.NewFromInt(2250), date(2016, 12, 16))
	require.NoError(t, err)
	assert.Equal(t, sid.FutureOption, s.SecurityType())
	assert.Equal(t, "ESZ16 161216P02250000", s.Value())
	assert.True(t, s.HasUnderlying(fut))
}

func TestUnknownMarket(t *testing.T) {
	_, err := CreateEquity("SPY", "nowhere")
	assert.True(t, errors.Is(err, sid.ErrMarketNotFound))
	assert.Contains(t, err.Error(), "nowhere")
}

func TestNilAndEmpty(t *testing.T) {
	var null *Symbol
	assert.True(t, Empty.Equal(null))
	assert.True(t, null.Equal(Empty))
	assert.True(t, Equal(Empty, nil))
	assert.True(t, Equal(nil, Empty))
	assert.True(t, Equal(nil, nil))
	assert.True(t, null.IsEmpty())
	assert.Equal(t, Empty.Hash(), null.Hash())
	assert.Equal(t, "", null.String())

	spy, err := CreateEquity("SPY", "usa")
	require.NoError(t, err)
	assert.False(t, spy.Equal(nil))
	assert.False(t, Equal(nil, spy))
	assert.False(t, Empty.Equal(spy))
}

func TestIdentityIgnoresAlias(t *testing.T) {
	a := msftCall(t)
	b := New(a.ID(), "SOMETHING ELSE")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	m := map[sid.SecurityIdentifier]string{a.ID(): "first"}
	m[b.ID()] = "second"
	assert.Len(t, m, 1)
	assert.Equal(t, "second", m[a.ID()])
}

func TestCompareByAlias(t *testing.T) {
	a := New(sid.MustParse("SPY 2T"), "spy")
	b := New(sid.MustParse("AAPL 2T"), "SPY")
	assert.Equal(t, 0, a.Compare(b))
	assert.False(t, a.Equal(b))

	c := New(sid.MustParse("QQQ 2T"), "qqq")
	assert.Equal(t, -1, c.Compare(a))
	assert.Equal(t, 1, a.Compare(c))
	assert.Equal(t, -1, Empty.Compare(a))
}

func TestParseRebuildsChain(t *testing.T) {
	orig := msftCall(t)
	s, err := Parse(orig.ID().String())
	require.NoError(t, err)
	assert.True(t, orig.Equal(s))
	assert.Equal(t, orig.Value(), s.Value())
	require.NotNil(t, s.Underlying())
	assert.Equal(t, "MSFT", s.Underlying().Value())

	opt, err := Parse("SPY 2U|SPY 2T")
	require.NoError(t, err)
	assert.Equal(t, "?SPY", opt.Value())

	fut, err := Parse("ES 1YNM88T")
	require.NoError(t, err)
	assert.Equal(t, "ESZ16", fut.Value())

	_, err = Parse("not a token")
	assert.True(t, errors.Is(err, sid.ErrFormat))

	empty, err := Parse("")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestChainIntegrity(t *testing.T) {
	spy, err := CreateEquity("SPY", "usa")
	require.NoError(t, err)
	data, err := CreateBase("Sentiment", spy, "usa")
	require.NoError(t, err)
	assert.Equal(t, "SPY.Sentiment", data.Value())
	assert.Equal(t, sid.Base, data.SecurityType())
	assert.True(t, data.HasUnderlying(spy))
	assert.True(t, data.ID().Underlying() == spy.ID())

	rebuilt := FromID(data.ID())
	assert.True(t, rebuilt.Equal(data))
	assert.Equal(t, "SPY.SENTIMENT", rebuilt.Value())
	assert.True(t, rebuilt.Underlying().Equal(spy))

	opt := msftCall(t)
	data, err = CreateBase("Greeks", opt, "usa")
	require.NoError(t, err)
	assert.Equal(t, opt.ID().Date(), data.ID().Date())
	assert.True(t, data.Underlying().Underlying().Equal(opt.Underlying()))
}

func TestBaseTypeNameLimits(t *testing.T) {
	spy, err := CreateEquity("SPY", "usa")
	require.NoError(t, err)

	for _, name := range []string{"EstimizeRelease", "Tiingo_News", "Data Set", ""} {
		_, err := CreateBase(name, spy, "usa")
		assert.True(t, errors.Is(err, sid.ErrFormat), "%q: %v", name, err)
	}

	data, err := CreateBase("EstimizeRele", spy, "usa")
	require.NoError(t, err)
	assert.Equal(t, "ESTIMIZERELE", data.ID().Symbol())
	assert.Equal(t, "SPY.EstimizeRele", data.Value())
}

func TestUpdateMappedSymbol(t *testing.T) {
	nwsa, err := CreateEquity("NWSA", "usa")
	require.NoError(t, err)
	opt, err := CreateOptionWithUnderlying(nwsa, "usa", sid.American, sid.Call, decimal.NewFromInt(20), date(2013, 7, 19))
	require.NoError(t, err)
	data, err := CreateBase("Fundamentals", opt, "usa")
	require.NoError(t, err)

	mapped := data.UpdateMappedSymbol("FOXA")
	assert.True(t, mapped.Equal(data))
	assert.Equal(t, "FOXA.Fundamentals", mapped.Value())
	assert.Equal(t, "FOXA  130719C00020000", mapped.Underlying().Value())
	assert.Equal(t, "FOXA", mapped.Underlying().Underlying().Value())

	// the receiver chain is untouched
	assert.Equal(t, "NWSA  130719C00020000", data.Underlying().Value())
	assert.Equal(t, "NWSA", data.Underlying().Underlying().Value())
	assert.Equal(t, "NWSA", nwsa.Value())

	canonical, err := CreateCanonicalOption(nwsa, "usa")
	require.NoError(t, err)
	assert.Equal(t, "?FOXA", canonical.UpdateMappedSymbol("FOXA").Value())
}

func TestUpdateMappedSymbolSkipsNonMapping(t *testing.T) {
	eurusd, err := CreateForex("EURUSD", "oanda")
	require.NoError(t, err)
	assert.Same(t, eurusd, eurusd.UpdateMappedSymbol("GBPUSD"))

	btc, err := CreateCrypto("BTCUSD", "coinbase")
	require.NoError(t, err)
	data, err := CreateBase("Flows", btc, "coinbase")
	require.NoError(t, err)
	assert.Same(t, data, data.UpdateMappedSymbol("ETHUSD"))

	fut, err := CreateFuture("ES", "globex", date(2016, 12, 16))
	require.NoError(t, err)
	assert.False(t, fut.RequiresMapping())
	assert.Equal(t, "ESZ16", fut.UpdateMappedSymbol("NQ").Value())

	var null *Symbol
	assert.Nil(t, null.UpdateMappedSymbol("X"))
}
