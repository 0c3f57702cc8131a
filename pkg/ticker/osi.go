package ticker

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/robaho/go-symbols/pkg/sid"
)

// ErrUnsupportedConversion is returned by the strict parsers when the text
// does not follow the expected convention.
var ErrUnsupportedConversion = errors.New("unsupported ticker conversion")

// OptionTicker is what an option ticker text carries.
type OptionTicker struct {
	Root   string
	Expiry time.Time
	Right  sid.OptionRight
	Strike decimal.Decimal
}

const (
	osiRootWidth = 6
	osiTailWidth = 15 // yymmdd + right + 8 digit strike
	osiDate      = "060102"
)

var thousand = decimal.NewFromInt(1000)

func rightLetter(right sid.OptionRight) byte {
	if right == sid.Put {
		return 'P'
	}
	return 'C'
}

// GenerateOSI renders an OCC option symbol: root padded to 6 characters,
// yymmdd, C or P, then the strike times 1000 as 8 digits. MSFT 2006-03-18
// 47.50 call is "MSFT  060318C00047500". Sub tenth of a cent strikes are
// truncated, the format has no room for them.
func GenerateOSI(root string, expiry time.Time, right sid.OptionRight, strike decimal.Decimal) string {
	return fmt.Sprintf("%-*s%s%c%08d", osiRootWidth, root, expiry.Format(osiDate), rightLetter(right), strike.Mul(thousand).IntPart())
}

// ParseOSI is the inverse of GenerateOSI. Roots longer than 6 characters are
// accepted since generated option aliases on futures use them.
func ParseOSI(text string) (OptionTicker, bool) {
	if len(text) < osiTailWidth+1 {
		return OptionTicker{}, false
	}
	split := len(text) - osiTailWidth
	root := strings.TrimRight(text[:split], " ")
	if root == "" || strings.IndexByte(root, ' ') >= 0 {
		return OptionTicker{}, false
	}
	tail := text[split:]

	if !allDigits(tail[:6]) {
		return OptionTicker{}, false
	}
	expiry, err := time.ParseInLocation(osiDate, tail[:6], time.UTC)
	if err != nil {
		return OptionTicker{}, false
	}
	var right sid.OptionRight
	switch tail[6] {
	case 'C', 'c':
		right = sid.Call
	case 'P', 'p':
		right = sid.Put
	default:
		return OptionTicker{}, false
	}
	if !allDigits(tail[7:]) {
		return OptionTicker{}, false
	}
	strike, err := decimal.NewFromString(tail[7:])
	if err != nil {
		return OptionTicker{}, false
	}
	return OptionTicker{Root: root, Expiry: expiry, Right: right, Strike: strike.Div(thousand)}, true
}

// ParseOption probes the OSI then the IQFeed conventions.
func ParseOption(text string) (OptionTicker, bool) {
	if o, ok := ParseOSI(text); ok {
		return o, true
	}
	return ParseIQFeed(text)
}

// OptionFromText is ParseOption returning ErrUnsupportedConversion on no match.
func OptionFromText(text string) (OptionTicker, error) {
	o, ok := ParseOption(text)
	if !ok {
		return o, errors.Wrapf(ErrUnsupportedConversion, "%q is not an OSI or IQFeed option ticker", text)
	}
	return o, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
