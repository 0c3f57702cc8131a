package ticker

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/robaho/go-symbols/pkg/sid"
)

// FutureTicker is the content of a futures month ticker such as EDZ16 or ESH6.
type FutureTicker struct {
	Root      string
	Month     int
	YearShort int
	// YearDigits is 1 or 2, as found in the text.
	YearDigits int
}

// GenerateFuture renders root + month code + year, e.g. ("ED", 2016-12-12) is EDZ16,
// or EDZ6 without doubleDigitsYear.
func GenerateFuture(root string, expiry time.Time, doubleDigitsYear bool) string {
	year := expiry.Year() % 100
	var y string
	if doubleDigitsYear {
		y = strconv.Itoa(year/10) + strconv.Itoa(year%10)
	} else {
		y = strconv.Itoa(year % 10)
	}
	return root + string(sid.MonthCode(int(expiry.Month()))) + y
}

// ParseFuture splits a futures month ticker. One or two trailing digits are
// the year, the letter before them the month and the rest the root.
func ParseFuture(text string) (FutureTicker, bool) {
	n := len(text)
	digits := 0
	for digits < n && digits < 3 && text[n-1-digits] >= '0' && text[n-1-digits] <= '9' {
		digits++
	}
	if digits == 0 || digits > 2 {
		return FutureTicker{}, false
	}
	// root + month letter
	if n-digits < 2 {
		return FutureTicker{}, false
	}
	month := sid.MonthFromCode(text[n-digits-1])
	if month == 0 {
		return FutureTicker{}, false
	}
	year, _ := strconv.Atoi(text[n-digits:])
	return FutureTicker{
		Root:       text[:n-digits-1],
		Month:      month,
		YearShort:  year,
		YearDigits: digits,
	}, true
}

// FutureFromText is ParseFuture returning ErrUnsupportedConversion on no match.
func FutureFromText(text string) (FutureTicker, error) {
	f, ok := ParseFuture(text)
	if !ok {
		return f, errors.Wrapf(ErrUnsupportedConversion, "%q is not a futures month ticker", text)
	}
	return f, nil
}

// Year resolves the short year against a reference date. Two digit years are
// in the reference's century. One digit years take the first matching year
// that is not before the reference's year.
func (f FutureTicker) Year(reference time.Time) int {
	ref := reference.Year()
	if f.YearDigits == 2 {
		return ref - ref%100 + f.YearShort
	}
	year := ref - ref%10 + f.YearShort
	if year < ref {
		year += 10
	}
	return year
}

// String renders the ticker back in the shape it was parsed from.
func (f FutureTicker) String() string {
	y := strconv.Itoa(f.YearShort)
	if f.YearDigits == 2 && f.YearShort < 10 {
		y = "0" + y
	}
	return f.Root + string(sid.MonthCode(f.Month)) + y
}

// Expiry is the third Friday of the contract month, the usual expiry of
// equity index and interest rate futures. Exchanges with other calendars
// need their own rule.
func (f FutureTicker) Expiry(reference time.Time) time.Time {
	return ThirdFriday(f.Year(reference), time.Month(f.Month))
}

func ThirdFriday(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Friday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+14)
}
