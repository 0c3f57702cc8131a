package ticker

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robaho/go-symbols/pkg/sid"
)

// IQFeed month letters: A..L are January..December calls, M..X the puts.
const (
	iqCallMonths = "ABCDEFGHIJKL"
	iqPutMonths  = "MNOPQRSTUVWX"
)

// GenerateIQFeed renders root + yy + dd + month/right letter + strike,
// e.g. AAPL 2016-04-17 35 call is "AAPL1617D35".
func GenerateIQFeed(root string, expiry time.Time, right sid.OptionRight, strike decimal.Decimal) string {
	months := iqCallMonths
	if right == sid.Put {
		months = iqPutMonths
	}
	return root + expiry.Format("0602") + string(months[expiry.Month()-1]) + strike.String()
}

// ParseIQFeed is the inverse of GenerateIQFeed.
func ParseIQFeed(text string) (OptionTicker, bool) {
	i := len(text)
	for i > 0 && (text[i-1] >= '0' && text[i-1] <= '9' || text[i-1] == '.') {
		i--
	}
	strikeText := text[i:]
	// root(1+) yy dd letter
	if strikeText == "" || i < 6 {
		return OptionTicker{}, false
	}
	strike, err := decimal.NewFromString(strikeText)
	if err != nil {
		return OptionTicker{}, false
	}
	letter := text[i-1]
	var right sid.OptionRight
	var month int
	switch {
	case letter >= 'A' && letter <= 'L':
		right, month = sid.Call, int(letter-'A')+1
	case letter >= 'M' && letter <= 'X':
		right, month = sid.Put, int(letter-'M')+1
	default:
		return OptionTicker{}, false
	}
	dateText := text[i-5 : i-1]
	if !allDigits(dateText) {
		return OptionTicker{}, false
	}
	yy, _ := strconv.Atoi(dateText[:2])
	dd, _ := strconv.Atoi(dateText[2:])
	expiry := time.Date(2000+yy, time.Month(month), dd, 0, 0, 0, 0, time.UTC)
	if expiry.Day() != dd {
		return OptionTicker{}, false
	}
	root := text[:i-5]
	if strings.IndexByte(root, ' ') >= 0 {
		return OptionTicker{}, false
	}
	return OptionTicker{Root: root, Expiry: expiry, Right: right, Strike: strike}, true
}
