package sid

import (
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/robaho/go-symbols/pkg/market"
)

// The properties integer is a sequence of fixed decimal digit ranges, least
// significant first:
//
//	type(2) market(3) days(5) right(1) style(1) strike exponent(1) strike mantissa(6)
//
// which tops out just under 10^19 and so always fits in a uint64.
const (
	typeOffset  uint64 = 1
	typeWidth   uint64 = 100
	marketWidth uint64 = 1000
	daysWidth   uint64 = 100000
	rightWidth  uint64 = 10
	styleWidth  uint64 = 10
	scaleWidth  uint64 = 10
	strikeWidth uint64 = 1000000

	marketOffset = typeOffset * typeWidth
	daysOffset   = marketOffset * marketWidth
	rightOffset  = daysOffset * daysWidth
	styleOffset  = rightOffset * rightWidth
	scaleOffset  = styleOffset * styleWidth
	strikeOffset = scaleOffset * scaleWidth
	propsLimit   = strikeOffset * strikeWidth

	minStrikeExponent = -4
	maxStrikeExponent = minStrikeExponent + int(scaleWidth) - 1
)

var maxStrikeMantissa = decimal.NewFromInt(int64(strikeWidth - 1))

// Epoch is day zero of the date field. Day zero itself is reserved for "no date".
var Epoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Separator joins a derivative's token to its underlying's token.
const Separator = '|'

// SecurityIdentifier is the encoded identity of an instrument. It is a
// comparable value: two identifiers are == exactly when their tokens are equal,
// so it can be used directly as a map key.
type SecurityIdentifier struct {
	token      string
	symbol     string
	properties uint64
}

// Empty is the identifier of no instrument, its token is "".
var Empty = SecurityIdentifier{}

// Fields is the decoded attribute tuple of a single link of an identifier.
type Fields struct {
	Symbol       string
	Market       string
	SecurityType SecurityType
	// Date is the expiry for dated contracts, the zero time means no date.
	Date   time.Time
	Strike decimal.Decimal
	Right  OptionRight
	Style  OptionStyle
}

// New encodes the fields, chaining the result to underlying when it is not Empty.
// An unregistered market fails with ErrMarketNotFound.
func New(f Fields, underlying SecurityIdentifier) (SecurityIdentifier, error) {
	symbol, err := normalizeTicker(f.Symbol)
	if err != nil {
		return Empty, err
	}
	if symbol == "" {
		return Empty, errors.Wrap(ErrFormat, "empty ticker")
	}
	if !f.SecurityType.Valid() {
		return Empty, errors.Wrapf(ErrFormat, "security type %d", int(f.SecurityType))
	}
	if !f.Right.Valid() || !f.Style.Valid() {
		return Empty, errors.Wrapf(ErrFormat, "option right %d style %d", int(f.Right), int(f.Style))
	}
	code, ok := market.Encode(f.Market)
	if !ok {
		return Empty, errors.Wrapf(ErrMarketNotFound, "unknown market %q for security type %s", f.Market, f.SecurityType)
	}
	days, err := encodeDate(f.Date)
	if err != nil {
		return Empty, err
	}
	mantissa, scale, err := encodeStrike(f.Strike)
	if err != nil {
		return Empty, err
	}

	props := uint64(f.SecurityType)*typeOffset +
		uint64(code)*marketOffset +
		days*daysOffset +
		uint64(f.Right)*rightOffset +
		uint64(f.Style)*styleOffset +
		scale*scaleOffset +
		mantissa*strikeOffset

	return build(symbol, props, underlying), nil
}

func build(symbol string, props uint64, underlying SecurityIdentifier) SecurityIdentifier {
	var sb strings.Builder
	sb.Grow(len(symbol) + 14 + len(underlying.token))
	sb.WriteString(symbol)
	sb.WriteByte(' ')
	sb.WriteString(encodeBase36(props))
	if !underlying.IsEmpty() {
		sb.WriteByte(Separator)
		sb.WriteString(underlying.token)
	}
	token := sb.String()
	return SecurityIdentifier{token: token, symbol: token[:len(symbol)], properties: props}
}

func encodeDate(date time.Time) (uint64, error) {
	if date.IsZero() {
		return 0, nil
	}
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	days := int64(d.Sub(Epoch) / (24 * time.Hour))
	if days <= 0 || days >= int64(daysWidth) {
		return 0, errors.Wrapf(ErrFormat, "date %s outside the encodable range", date.Format("2006-01-02"))
	}
	return uint64(days), nil
}

func encodeStrike(strike decimal.Decimal) (mantissa uint64, scale uint64, err error) {
	if strike.IsZero() {
		return 0, 0, nil
	}
	if strike.Sign() < 0 {
		return 0, 0, errors.Wrapf(ErrFormat, "negative strike %s", strike)
	}
	for e := minStrikeExponent; e <= maxStrikeExponent; e++ {
		m := strike.Shift(int32(-e))
		if !m.IsInteger() {
			continue
		}
		if m.GreaterThan(maxStrikeMantissa) {
			continue
		}
		return uint64(m.IntPart()), uint64(e - minStrikeExponent), nil
	}
	return 0, 0, errors.Wrapf(ErrFormat, "strike %s needs more than 6 significant digits", strike)
}

// Parse decodes a token. The empty string parses to Empty. Letters are case
// folded, so the result's String may differ from a lower case input.
func Parse(value string) (SecurityIdentifier, error) {
	if value == "" {
		return Empty, nil
	}
	head, rest, chained := strings.Cut(value, string(Separator))
	underlying := Empty
	if chained {
		var err error
		underlying, err = Parse(rest)
		if err != nil {
			return Empty, err
		}
		if underlying.IsEmpty() {
			return Empty, errors.Wrapf(ErrFormat, "empty underlying in %q", value)
		}
	}
	tickerPart, propsPart, ok := strings.Cut(head, " ")
	if !ok || strings.IndexByte(propsPart, ' ') >= 0 {
		return Empty, errors.Wrapf(ErrFormat, "token %q is not '<ticker> <properties>'", head)
	}
	symbol, err := normalizeTicker(tickerPart)
	if err != nil {
		return Empty, err
	}
	if symbol == "" {
		return Empty, errors.Wrapf(ErrFormat, "token %q has an empty ticker", head)
	}
	props, err := decodeBase36(propsPart)
	if err != nil {
		return Empty, err
	}
	if err := validate(props); err != nil {
		return Empty, errors.Wrapf(err, "token %q", head)
	}
	return build(symbol, props, underlying), nil
}

// TryParse is Parse without the error detail.
func TryParse(value string) (SecurityIdentifier, bool) {
	id, err := Parse(value)
	if err != nil {
		return Empty, false
	}
	return id, true
}

// MustParse panics on a malformed token; for tests and constants.
func MustParse(value string) SecurityIdentifier {
	id, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return id
}

func validate(props uint64) error {
	if props >= propsLimit {
		return errors.Wrap(ErrFormat, "properties out of range")
	}
	if t := SecurityType(extract(props, typeOffset, typeWidth)); !t.Valid() {
		return errors.Wrapf(ErrFormat, "security type %d", int(t))
	}
	if r := OptionRight(extract(props, rightOffset, rightWidth)); !r.Valid() {
		return errors.Wrapf(ErrFormat, "option right %d", int(r))
	}
	if s := OptionStyle(extract(props, styleOffset, styleWidth)); !s.Valid() {
		return errors.Wrapf(ErrFormat, "option style %d", int(s))
	}
	// only the form encodeStrike writes is accepted, one strike has one token
	mantissa := extract(props, strikeOffset, strikeWidth)
	scale := extract(props, scaleOffset, scaleWidth)
	if mantissa == 0 && scale != 0 {
		return errors.Wrapf(ErrFormat, "zero strike with exponent digit %d", scale)
	}
	if scale != 0 && mantissa*10 < strikeWidth {
		return errors.Wrapf(ErrFormat, "strike %de%d is not in its smallest exponent", mantissa, int(scale)+minStrikeExponent)
	}
	return nil
}

func extract(props, offset, width uint64) uint64 {
	return (props / offset) % width
}

func (id SecurityIdentifier) IsEmpty() bool {
	return id.token == ""
}

// String returns the token.
func (id SecurityIdentifier) String() string {
	return id.token
}

// Symbol is the upper cased root ticker.
func (id SecurityIdentifier) Symbol() string {
	return id.symbol
}

func (id SecurityIdentifier) SecurityType() SecurityType {
	return SecurityType(extract(id.properties, typeOffset, typeWidth))
}

func (id SecurityIdentifier) MarketCode() int {
	return int(extract(id.properties, marketOffset, marketWidth))
}

// Market returns the market name. A code missing from the registry decodes to
// a placeholder "unknown-<code>" instead of failing, so identifiers written by
// a process with a larger market table can still be read.
func (id SecurityIdentifier) Market() string {
	if id.IsEmpty() {
		return ""
	}
	code := id.MarketCode()
	if name, ok := market.Decode(code); ok {
		return name
	}
	return "unknown-" + strconv.Itoa(code)
}

func (id SecurityIdentifier) HasDate() bool {
	return extract(id.properties, daysOffset, daysWidth) != 0
}

// Date returns the expiry (or inherited) date, or the zero time.
func (id SecurityIdentifier) Date() time.Time {
	days := extract(id.properties, daysOffset, daysWidth)
	if days == 0 {
		return time.Time{}
	}
	return Epoch.AddDate(0, 0, int(days))
}

func (id SecurityIdentifier) StrikePrice() decimal.Decimal {
	mantissa := extract(id.properties, strikeOffset, strikeWidth)
	if mantissa == 0 {
		return decimal.Zero
	}
	exp := int32(extract(id.properties, scaleOffset, scaleWidth)) + minStrikeExponent
	return decimal.New(int64(mantissa), exp)
}

func (id SecurityIdentifier) OptionRight() OptionRight {
	return OptionRight(extract(id.properties, rightOffset, rightWidth))
}

func (id SecurityIdentifier) OptionStyle() OptionStyle {
	return OptionStyle(extract(id.properties, styleOffset, styleWidth))
}

// Fields decodes this link of the identifier.
func (id SecurityIdentifier) Fields() Fields {
	return Fields{
		Symbol:       id.Symbol(),
		Market:       id.Market(),
		SecurityType: id.SecurityType(),
		Date:         id.Date(),
		Strike:       id.StrikePrice(),
		Right:        id.OptionRight(),
		Style:        id.OptionStyle(),
	}
}

func (id SecurityIdentifier) HasUnderlying() bool {
	return strings.IndexByte(id.token, Separator) >= 0
}

// Underlying returns the parent identifier, or Empty.
func (id SecurityIdentifier) Underlying() SecurityIdentifier {
	i := strings.IndexByte(id.token, Separator)
	if i < 0 {
		return Empty
	}
	// the chain was validated when this identifier was built
	u, _ := Parse(id.token[i+1:])
	return u
}

// IsCanonical reports whether the identifier stands for a whole class of
// derivative contracts rather than one dated contract.
func (id SecurityIdentifier) IsCanonical() bool {
	return !id.IsEmpty() && id.SecurityType().IsDerivative() && !id.HasDate()
}

func (id SecurityIdentifier) Equal(other SecurityIdentifier) bool {
	return id.token == other.token
}

// Compare orders identifiers by the ordinal value of their tokens.
func (id SecurityIdentifier) Compare(other SecurityIdentifier) int {
	return strings.Compare(id.token, other.token)
}

func (id SecurityIdentifier) Hash() uint64 {
	return xxhash.Sum64String(id.token)
}

func (id SecurityIdentifier) MarshalText() ([]byte, error) {
	return []byte(id.token), nil
}

func (id *SecurityIdentifier) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
