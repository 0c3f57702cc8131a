package sid

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SecurityType is the published numeric security type table. The values are
// part of the token format and of the interchange records and never change.
type SecurityType int

const (
	Base SecurityType = iota
	Equity
	Option
	Commodity
	Forex
	Future
	Cfd
	Crypto
	FutureOption
	Index
	IndexOption
	CryptoFuture
)

var securityTypeNames = [...]string{
	Base:         "Base",
	Equity:       "Equity",
	Option:       "Option",
	Commodity:    "Commodity",
	Forex:        "Forex",
	Future:       "Future",
	Cfd:          "Cfd",
	Crypto:       "Crypto",
	FutureOption: "FutureOption",
	Index:        "Index",
	IndexOption:  "IndexOption",
	CryptoFuture: "CryptoFuture",
}

func (t SecurityType) String() string {
	if t.Valid() {
		return securityTypeNames[t]
	}
	return "SecurityType(" + strconv.Itoa(int(t)) + ")"
}

func (t SecurityType) Valid() bool {
	return t >= Base && t <= CryptoFuture
}

// IsOption reports whether contracts of this type carry a strike and a right.
func (t SecurityType) IsOption() bool {
	return t == Option || t == FutureOption || t == IndexOption
}

// IsDerivative reports whether the type has dated contracts and a canonical form.
func (t SecurityType) IsDerivative() bool {
	return t.IsOption() || t == Future || t == CryptoFuture
}

// RequiresMapping reports whether a corporate action rename applies to the type.
func (t SecurityType) RequiresMapping() bool {
	return t == Equity || t == Option
}

// ParseSecurityType accepts the type name (any case) or its numeric code.
func ParseSecurityType(s string) (SecurityType, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		t := SecurityType(n)
		if !t.Valid() {
			return 0, errors.Wrapf(ErrFormat, "security type code %d", n)
		}
		return t, nil
	}
	for i, name := range securityTypeNames {
		if strings.EqualFold(name, s) {
			return SecurityType(i), nil
		}
	}
	return 0, errors.Wrapf(ErrFormat, "security type %q", s)
}

type OptionRight int

const (
	NoRight OptionRight = iota
	Call
	Put
)

func (r OptionRight) String() string {
	switch r {
	case Call:
		return "Call"
	case Put:
		return "Put"
	case NoRight:
		return "None"
	}
	return "OptionRight(" + strconv.Itoa(int(r)) + ")"
}

func (r OptionRight) Valid() bool {
	return r >= NoRight && r <= Put
}

// ParseOptionRight accepts "call"/"put" or the single letters C/P.
func ParseOptionRight(s string) (OptionRight, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C", "CALL":
		return Call, nil
	case "P", "PUT":
		return Put, nil
	}
	return NoRight, errors.Wrapf(ErrFormat, "option right %q", s)
}

type OptionStyle int

const (
	NoStyle OptionStyle = iota
	American
	European
)

func (s OptionStyle) String() string {
	switch s {
	case American:
		return "American"
	case European:
		return "European"
	case NoStyle:
		return "None"
	}
	return "OptionStyle(" + strconv.Itoa(int(s)) + ")"
}

func (s OptionStyle) Valid() bool {
	return s >= NoStyle && s <= European
}

func ParseOptionStyle(s string) (OptionStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "american", "a":
		return American, nil
	case "european", "e":
		return European, nil
	}
	return NoStyle, errors.Wrapf(ErrFormat, "option style %q", s)
}

// MonthCodes are the standard futures month letters, January first.
const MonthCodes = "FGHJKMNQUVXZ"

// MonthCode returns the futures letter for month 1..12, or 0.
func MonthCode(month int) byte {
	if month < 1 || month > 12 {
		return 0
	}
	return MonthCodes[month-1]
}

// MonthFromCode returns 1..12 for a futures month letter, or 0.
func MonthFromCode(c byte) int {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	i := strings.IndexByte(MonthCodes, c)
	return i + 1
}
