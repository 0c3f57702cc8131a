package sid

import (
	"math"

	"github.com/pkg/errors"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MaxTickerLength is the longest root ticker that fits the 64 bit ticker part.
const MaxTickerLength = 12

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	}
	return -1
}

// encodeTicker maps a ticker to an integer using bijective base 36, where
// '0' is worth 1 and 'Z' is worth 36. Unlike positional base 36 this keeps
// leading zeros, so every ticker of up to MaxTickerLength maps to a distinct
// value and decodeTicker renders it back as the upper cased input.
func encodeTicker(ticker string) (uint64, error) {
	if len(ticker) > MaxTickerLength {
		return 0, errors.Wrapf(ErrFormat, "ticker %q longer than %d characters", ticker, MaxTickerLength)
	}
	var v uint64
	for i := 0; i < len(ticker); i++ {
		d := digitValue(ticker[i])
		if d < 0 {
			return 0, errors.Wrapf(ErrFormat, "ticker %q has invalid character %q", ticker, ticker[i])
		}
		v = v*36 + uint64(d) + 1
	}
	return v, nil
}

func decodeTicker(v uint64) string {
	if v == 0 {
		return ""
	}
	var buf [MaxTickerLength + 1]byte
	i := len(buf)
	for v > 0 {
		v--
		i--
		buf[i] = alphabet[v%36]
		v /= 36
	}
	return string(buf[i:])
}

// normalizeTicker upper cases a ticker the same way a round trip through the
// ticker part would.
func normalizeTicker(ticker string) (string, error) {
	v, err := encodeTicker(ticker)
	if err != nil {
		return "", err
	}
	return decodeTicker(v), nil
}

func encodeBase36(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [13]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = alphabet[v%36]
		v /= 36
	}
	return string(buf[i:])
}

func decodeBase36(s string) (uint64, error) {
	if s == "" {
		return 0, errors.Wrap(ErrFormat, "empty properties")
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		d := digitValue(s[i])
		if d < 0 {
			return 0, errors.Wrapf(ErrFormat, "properties %q has invalid character %q", s, s[i])
		}
		if v > (math.MaxUint64-uint64(d))/36 {
			return 0, errors.Wrapf(ErrFormat, "properties %q overflow", s)
		}
		v = v*36 + uint64(d)
	}
	return v, nil
}
