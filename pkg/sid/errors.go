package sid

import "errors"

// ErrFormat is returned for malformed tokens, tickers and out of range fields.
var ErrFormat = errors.New("invalid security identifier format")

// ErrMarketNotFound is returned when generating an identifier for a market
// that is not in the market registry. Decoding never returns it.
var ErrMarketNotFound = errors.New("market not found")
