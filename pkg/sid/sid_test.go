package sid

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEquityRoundTrip(t *testing.T) {
	id, err := GenerateEquity("SPY", "USA")
	require.NoError(t, err)
	assert.Equal(t, "SPY 2T", id.String())

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	f := parsed.Fields()
	assert.Equal(t, "SPY", f.Symbol)
	assert.Equal(t, "usa", f.Market)
	assert.Equal(t, Equity, f.SecurityType)
	assert.True(t, f.Date.IsZero())
	assert.False(t, parsed.HasDate())
	assert.True(t, f.Strike.IsZero())
	assert.Equal(t, NoRight, f.Right)
	assert.Equal(t, NoStyle, f.Style)
	assert.False(t, parsed.HasUnderlying())
}

func TestOptionGolden(t *testing.T) {
	msft, err := GenerateEquity("MSFT", "usa")
	require.NoError(t, err)

	opt, err := GenerateOption(date(2006, 3, 18), msft, "usa", decimal.RequireFromString("47.5"), Call, American)
	require.NoError(t, err)
	assert.Equal(t, "MSFT 1036EIFSZ7IXY|MSFT 2T", opt.String())

	assert.Equal(t, Option, opt.SecurityType())
	assert.Equal(t, date(2006, 3, 18), opt.Date())
	assert.True(t, opt.StrikePrice().Equal(decimal.RequireFromString("47.5")))
	assert.Equal(t, Call, opt.OptionRight())
	assert.Equal(t, American, opt.OptionStyle())
	assert.Equal(t, msft, opt.Underlying())
	assert.False(t, opt.IsCanonical())
}

func TestFieldsRoundTrip(t *testing.T) {
	spy, _ := GenerateEquity("SPY", "usa")
	es, _ := GenerateFuture(date(2016, 12, 19), "ES", "globex")
	spx, _ := GenerateIndex("SPX", "usa")

	cases := []struct {
		name       string
		fields     Fields
		underlying SecurityIdentifier
	}{
		{"equity", Fields{Symbol: "AAPL", Market: "usa", SecurityType: Equity}, Empty},
		{"forex", Fields{Symbol: "EURUSD", Market: "oanda", SecurityType: Forex}, Empty},
		{"crypto", Fields{Symbol: "BTCUSD", Market: "coinbase", SecurityType: Crypto}, Empty},
		{"future", Fields{Symbol: "ES", Market: "globex", SecurityType: Future, Date: date(2016, 12, 19)}, Empty},
		{"leading zero ticker", Fields{Symbol: "0700", Market: "hkfe", SecurityType: Equity}, Empty},
		{"max length ticker", Fields{Symbol: "ZZZZZZZZZZZZ", Market: "usa", SecurityType: Equity}, Empty},
		{"option", Fields{Symbol: "SPY", Market: "usa", SecurityType: Option, Date: date(2021, 1, 15), Strike: decimal.NewFromInt(300), Right: Put, Style: American}, spy},
		{"small strike", Fields{Symbol: "SPY", Market: "usa", SecurityType: Option, Date: date(2021, 1, 15), Strike: decimal.RequireFromString("0.0001"), Right: Call, Style: American}, spy},
		{"large strike", Fields{Symbol: "SPX", Market: "usa", SecurityType: IndexOption, Date: date(2030, 6, 21), Strike: decimal.NewFromInt(99999900000), Right: Call, Style: European}, spx},
		{"future option", Fields{Symbol: "ES", Market: "globex", SecurityType: FutureOption, Date: date(2016, 12, 16), Strike: decimal.NewFromInt(2250), Right: Call, Style: American}, es},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			id, err := New(c.fields, c.underlying)
			require.NoError(t, err)

			parsed, err := Parse(id.String())
			require.NoError(t, err)
			assert.Equal(t, id.String(), parsed.String())
			assert.Equal(t, c.underlying, parsed.Underlying())

			got := parsed.Fields()
			assert.Equal(t, c.fields.Symbol, got.Symbol)
			assert.Equal(t, c.fields.Market, got.Market)
			assert.Equal(t, c.fields.SecurityType, got.SecurityType)
			assert.True(t, c.fields.Date.Equal(got.Date), "date %v != %v", c.fields.Date, got.Date)
			assert.True(t, c.fields.Strike.Equal(got.Strike), "strike %v != %v", c.fields.Strike, got.Strike)
			assert.Equal(t, c.fields.Right, got.Right)
			assert.Equal(t, c.fields.Style, got.Style)
		})
	}
}

func TestTickerIsCaseFolded(t *testing.T) {
	lower, err := GenerateEquity("spy", "usa")
	require.NoError(t, err)
	upper, _ := GenerateEquity("SPY", "usa")
	assert.Equal(t, upper, lower)

	parsed, err := Parse("spy 2t")
	require.NoError(t, err)
	assert.Equal(t, upper, parsed)
}

func TestTickerLimits(t *testing.T) {
	_, err := GenerateEquity("ABCDEFGHIJKLM", "usa")
	assert.True(t, errors.Is(err, ErrFormat), "too long: %v", err)

	_, err = GenerateEquity("BRK.B", "usa")
	assert.True(t, errors.Is(err, ErrFormat), "bad character: %v", err)

	_, err = GenerateEquity("", "usa")
	assert.True(t, errors.Is(err, ErrFormat), "empty: %v", err)
}

func TestTickerBijection(t *testing.T) {
	seen := map[uint64]string{}
	for _, s := range []string{"0", "00", "000", "A", "0A", "A0", "Z", "10", "Z0", "ZZ"} {
		v, err := encodeTicker(s)
		require.NoError(t, err)
		if prev, ok := seen[v]; ok {
			t.Fatalf("%q and %q both encode to %d", prev, s, v)
		}
		seen[v] = s
		assert.Equal(t, s, decodeTicker(v))
	}
}

func TestUnknownMarket(t *testing.T) {
	_, err := GenerateEquity("SPY", "nowhere")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMarketNotFound))
	assert.Contains(t, err.Error(), `unknown market "nowhere" for security type Equity`)

	_, err = GenerateEquity("SPY", "")
	assert.True(t, errors.Is(err, ErrMarketNotFound))

	spy, _ := GenerateEquity("SPY", "usa")
	_, err = GenerateOption(date(2021, 1, 15), spy, " ", decimal.NewFromInt(100), Call, American)
	assert.True(t, errors.Is(err, ErrMarketNotFound))
}

func TestDecodeUnknownMarketCode(t *testing.T) {
	// market code 998 is not registered: 1 + 998*100 = 99801
	token := "SPY " + encodeBase36(99801)
	id, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "unknown-998", id.Market())
	assert.Equal(t, token, id.String())
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"SPY",
		"SPY  2T",
		"SPY 2T 3",
		" 2T",
		"SPY 2$",
		"SPY 2T|",
		"SPY ZZZZZZZZZZZZZZ",
		"SPY " + encodeBase36(12), // security type 12
		"SPY " + encodeBase36(1+3*rightOffset),
		"SPY " + encodeBase36(1+3*styleOffset),
		"SPY 1RSYUWJFP",        // zero strike with exponent digit 5
		"SPY 3XTW7CUVA|SPY 2T", // 0.001 written as 1e-3 instead of 10e-4
	}
	for _, s := range bad {
		_, err := Parse(s)
		assert.True(t, errors.Is(err, ErrFormat), "%q: %v", s, err)
		_, ok := TryParse(s)
		assert.False(t, ok, s)
	}
}

func TestStrikeHasOneToken(t *testing.T) {
	spy, _ := GenerateEquity("SPY", "usa")
	expiry := date(2021, 1, 15)
	for _, text := range []string{"0.001", "0.01", "47.5", "100", "123450", "1234500", "999999000"} {
		id, err := GenerateOption(expiry, spy, "usa", decimal.RequireFromString(text), Call, American)
		require.NoError(t, err, text)
		parsed, err := Parse(id.String())
		require.NoError(t, err, text)
		assert.Equal(t, id, parsed, text)
	}

	id, err := GenerateOption(expiry, spy, "usa", decimal.RequireFromString("0.001"), Call, American)
	require.NoError(t, err)
	assert.Equal(t, "SPY ZHJXHG11I|SPY 2T", id.String())
}

func TestParseEmpty(t *testing.T) {
	id, err := Parse("")
	require.NoError(t, err)
	assert.True(t, id.IsEmpty())
	assert.Equal(t, Empty, id)
	assert.Equal(t, "", id.Market())
}

func TestStrikeLimits(t *testing.T) {
	spy, _ := GenerateEquity("SPY", "usa")
	expiry := date(2021, 1, 15)

	_, err := GenerateOption(expiry, spy, "usa", decimal.RequireFromString("0.00001"), Call, American)
	assert.True(t, errors.Is(err, ErrFormat))

	_, err = GenerateOption(expiry, spy, "usa", decimal.RequireFromString("1234567"), Call, American)
	assert.True(t, errors.Is(err, ErrFormat))

	_, err = GenerateOption(expiry, spy, "usa", decimal.NewFromInt(-5), Call, American)
	assert.True(t, errors.Is(err, ErrFormat))

	id, err := GenerateOption(expiry, spy, "usa", decimal.RequireFromString("1234500"), Call, American)
	require.NoError(t, err)
	assert.True(t, id.StrikePrice().Equal(decimal.RequireFromString("1234500")))
}

func TestDateLimits(t *testing.T) {
	_, err := GenerateFuture(date(1899, 12, 30), "ES", "globex")
	assert.True(t, errors.Is(err, ErrFormat))
	_, err = GenerateFuture(date(2200, 1, 1), "ES", "globex")
	assert.True(t, errors.Is(err, ErrFormat))
	_, err = GenerateFuture(time.Time{}, "ES", "globex")
	assert.True(t, errors.Is(err, ErrFormat))

	// time of day and location are dropped
	ny := time.FixedZone("EST", -5*3600)
	id, err := GenerateFuture(time.Date(2016, 12, 19, 16, 30, 0, 0, ny), "ES", "globex")
	require.NoError(t, err)
	assert.Equal(t, "ES 1YNM88T", id.String())
	assert.Equal(t, date(2016, 12, 19), id.Date())
}

func TestCanonical(t *testing.T) {
	spy, _ := GenerateEquity("SPY", "usa")
	c, err := GenerateCanonicalOption(spy, "usa")
	require.NoError(t, err)
	assert.Equal(t, "SPY 2U|SPY 2T", c.String())
	assert.True(t, c.IsCanonical())
	assert.False(t, c.HasDate())
	assert.True(t, c.StrikePrice().IsZero())
	assert.Equal(t, NoRight, c.OptionRight())
	assert.Equal(t, NoStyle, c.OptionStyle())

	f, err := GenerateCanonicalFuture("ES", "globex")
	require.NoError(t, err)
	assert.True(t, f.IsCanonical())
	assert.False(t, spy.IsCanonical())

	_, err = GenerateCanonicalOption(Empty, "usa")
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestBaseSharesUnderlyingDate(t *testing.T) {
	es, _ := GenerateFuture(date(2016, 12, 19), "ES", "globex")
	base, err := GenerateBase("COT", es, "globex")
	require.NoError(t, err)
	assert.Equal(t, Base, base.SecurityType())
	assert.Equal(t, es.Date(), base.Date())
	assert.Equal(t, es, base.Underlying())
}

func TestDeepChain(t *testing.T) {
	es, _ := GenerateFuture(date(2016, 12, 19), "ES", "globex")
	opt, err := GenerateOption(date(2016, 12, 16), es, "globex", decimal.NewFromInt(2250), Put, American)
	require.NoError(t, err)
	base, err := GenerateBase("GREEKS", opt, "globex")
	require.NoError(t, err)

	parsed, err := Parse(base.String())
	require.NoError(t, err)
	assert.Equal(t, base, parsed)
	assert.Equal(t, opt, parsed.Underlying())
	assert.Equal(t, es, parsed.Underlying().Underlying())
	assert.Equal(t, FutureOption, parsed.Underlying().SecurityType())
}

func TestCompareIsOrdinal(t *testing.T) {
	a := MustParse("AAPL 2T")
	b := MustParse("SPY 2T")
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(MustParse("aapl 2t")))
}

func TestHashAndMapKey(t *testing.T) {
	a, _ := GenerateEquity("SPY", "usa")
	b := MustParse("spy 2t")
	assert.Equal(t, a.Hash(), b.Hash())

	m := map[SecurityIdentifier]int{a: 1}
	assert.Equal(t, 1, m[b])
}

func TestTextMarshaling(t *testing.T) {
	id, _ := GenerateEquity("SPY", "usa")
	text, err := id.MarshalText()
	require.NoError(t, err)

	var back SecurityIdentifier
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, id, back)
	assert.Error(t, back.UnmarshalText([]byte("garbage")))
}

func BenchmarkParse(b *testing.B) {
	token := "MSFT 1036EIFSZ7IXY|MSFT 2T"
	for i := 0; i < b.N; i++ {
		if _, err := Parse(token); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGenerateEquity(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := GenerateEquity("SPY", "usa"); err != nil {
			b.Fatal(err)
		}
	}
}
