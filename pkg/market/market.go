package market

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const (
	USA                = "usa"
	FXCM               = "fxcm"
	Oanda              = "oanda"
	Dukascopy          = "dukascopy"
	Bitfinex           = "bitfinex"
	Globex             = "globex"
	NYMEX              = "nymex"
	CBOT               = "cbot"
	ICE                = "ice"
	CBOE               = "cboe"
	CFE                = "cfe"
	India              = "india"
	Coinbase           = "coinbase"
	Kraken             = "kraken"
	Binance            = "binance"
	COMEX              = "comex"
	EUREX              = "eurex"
	NSE                = "nse"
	HKFE               = "hkfe"
	SGX                = "sgx"
	Bybit              = "bybit"
	InteractiveBrokers = "interactivebrokers"
	NYSE               = "nyse"
	NASDAQ             = "nasdaq"
)

// MaxCode is the largest code that fits the market digits of an identifier.
const MaxCode = 999

// the codes are persisted inside every encoded identifier, never renumber them
var builtin = []struct {
	name string
	code int
}{
	{USA, 1},
	{FXCM, 2},
	{Oanda, 3},
	{Dukascopy, 4},
	{Bitfinex, 5},
	{Globex, 6},
	{NYMEX, 7},
	{CBOT, 8},
	{ICE, 9},
	{CBOE, 10},
	{CFE, 11},
	{India, 12},
	{Coinbase, 13},
	{Kraken, 14},
	{Binance, 15},
	{COMEX, 16},
	{EUREX, 17},
	{NSE, 18},
	{HKFE, 19},
	{SGX, 20},
	{Bybit, 21},
	{InteractiveBrokers, 22},
	{NYSE, 23},
	{NASDAQ, 24},
}

var ErrConflict = errors.New("market code conflict")

// Registry maps market names to the small integer codes stored in identifiers.
// Names are case insensitive and kept in lower case.
type Registry struct {
	sync.RWMutex
	byName map[string]int
	byCode map[int]string
}

// Default is the process wide registry used by the identifier codec.
var Default = NewRegistry()

// NewRegistry returns a registry seeded with the built-in markets.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]int), byCode: make(map[int]string)}
	// code 0 is what Empty carries, it decodes but no name encodes to it
	r.byCode[0] = ""
	for _, m := range builtin {
		r.byName[m.name] = m.code
		r.byCode[m.code] = m.name
	}
	return r
}

func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Encode returns the code of a registered market. A blank name is never registered.
func (r *Registry) Encode(name string) (int, bool) {
	r.RLock()
	defer r.RUnlock()

	code, ok := r.byName[Normalize(name)]
	return code, ok
}

func (r *Registry) Decode(code int) (string, bool) {
	r.RLock()
	defer r.RUnlock()

	name, ok := r.byCode[code]
	return name, ok
}

// Add registers a market. Re-adding an identical pair is a no-op, reusing a
// name or a code for something else is an error.
func (r *Registry) Add(name string, code int) error {
	return r.AddAll(map[string]int{name: code})
}

// AddAll registers every market or none: all pairs are checked against the
// registry and against each other before any is added.
func (r *Registry) AddAll(markets map[string]int) error {
	names := make([]string, 0, len(markets))
	pending := make(map[string]int, len(markets))
	codes := make(map[int]string, len(markets))
	for raw, code := range markets {
		name := Normalize(raw)
		if name == "" {
			return errors.New("market name is empty")
		}
		if code <= 0 || code > MaxCode {
			return errors.Errorf("market %q code %d out of range 1..%d", name, code, MaxCode)
		}
		if existing, ok := pending[name]; ok && existing != code {
			return errors.Wrapf(ErrConflict, "market %q listed with codes %d and %d", name, existing, code)
		}
		if existing, ok := codes[code]; ok && existing != name {
			return errors.Wrapf(ErrConflict, "code %d listed for markets %q and %q", code, existing, name)
		}
		if _, ok := pending[name]; !ok {
			names = append(names, name)
		}
		pending[name] = code
		codes[code] = name
	}
	sort.Strings(names)

	r.Lock()
	defer r.Unlock()

	for _, name := range names {
		if err := r.check(name, pending[name]); err != nil {
			return err
		}
	}
	for _, name := range names {
		r.byName[name] = pending[name]
		r.byCode[pending[name]] = name
	}
	return nil
}

// check reports a conflict with what is already registered, the lock is held
func (r *Registry) check(name string, code int) error {
	if existing, ok := r.byName[name]; ok {
		if existing == code {
			return nil
		}
		return errors.Wrapf(ErrConflict, "market %q already has code %d", name, existing)
	}
	if existing, ok := r.byCode[code]; ok {
		return errors.Wrapf(ErrConflict, "code %d already used by market %q", code, existing)
	}
	return nil
}

// Names returns the registered market names ordered by code.
func (r *Registry) Names() []string {
	r.RLock()
	defer r.RUnlock()

	codes := make([]int, 0, len(r.byCode))
	for code := range r.byCode {
		if code != 0 {
			codes = append(codes, code)
		}
	}
	sort.Ints(codes)
	names := make([]string, len(codes))
	for i, code := range codes {
		names[i] = r.byCode[code]
	}
	return names
}

func Encode(name string) (int, bool) {
	return Default.Encode(name)
}

func Decode(code int) (string, bool) {
	return Default.Decode(code)
}

func Add(name string, code int) error {
	return Default.Add(name, code)
}
