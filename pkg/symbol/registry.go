package symbol

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/robaho/go-symbols/internal/log"
	"github.com/robaho/go-symbols/pkg/sid"
)

// Registry maps bare ticker text to symbols and back. It is a best effort
// cache filled by data feeds and config, never the source of identity: a miss
// or an ambiguous ticker is a normal outcome.
//
// Ticker keys are case-insensitive. All methods are safe for concurrent use.
type Registry struct {
	sync.RWMutex
	bySymbol map[string]*Symbol
	byID     map[sid.SecurityIdentifier]string
}

func NewRegistry() *Registry {
	return &Registry{
		bySymbol: make(map[string]*Symbol),
		byID:     make(map[sid.SecurityIdentifier]string),
	}
}

func key(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Set upserts ticker <-> symbol in both directions. A ticker names one
// identity and an identity has one ticker, so a previous ticker of s and a
// previous symbol of ticker are dropped. Empty symbols are ignored.
func (r *Registry) Set(ticker string, s *Symbol) {
	k := key(ticker)
	if s.IsEmpty() || k == "" {
		log.Logger.Debug("ignoring empty registry entry", zap.String("ticker", ticker), zap.Stringer("id", s.ID()))
		return
	}

	r.Lock()
	defer r.Unlock()

	if old, ok := r.bySymbol[k]; ok && !old.Equal(s) {
		delete(r.byID, old.ID())
	}
	if prev, ok := r.byID[s.ID()]; ok && key(prev) != k {
		delete(r.bySymbol, key(prev))
	}
	r.bySymbol[k] = s
	r.byID[s.ID()] = ticker
}

// Get resolves a ticker, returning ErrNotFound or ErrAmbiguousTicker when it
// cannot be resolved to exactly one identity.
func (r *Registry) Get(ticker string) (*Symbol, error) {
	s, n := r.lookup(ticker)
	switch {
	case n == 0:
		return nil, errors.Wrapf(ErrNotFound, "ticker %q", ticker)
	case n > 1:
		return nil, errors.Wrapf(ErrAmbiguousTicker, "ticker %q matches %d symbols", ticker, n)
	}
	return s, nil
}

// TryGet is Get without the error.
func (r *Registry) TryGet(ticker string) (*Symbol, bool) {
	s, n := r.lookup(ticker)
	return s, n == 1
}

// lookup returns the match and the number of distinct identities matched.
// Encoded identifiers resolve without the map. Otherwise an exact key wins,
// then custom data entries whose key is ticker plus a .<type> suffix.
func (r *Registry) lookup(ticker string) (*Symbol, int) {
	if id, ok := sid.TryParse(ticker); ok && !id.IsEmpty() {
		return FromID(id), 1
	}

	k := key(ticker)
	r.RLock()
	defer r.RUnlock()

	if s, ok := r.bySymbol[k]; ok {
		return s, 1
	}

	var found *Symbol
	n := 0
	for entry, s := range r.bySymbol {
		if s.SecurityType() != sid.Base {
			continue
		}
		i := strings.LastIndexByte(entry, '.')
		if i <= 0 || entry[:i] != k {
			continue
		}
		if found == nil || !found.Equal(s) {
			if found != nil {
				log.Logger.Debug("ambiguous ticker",
					zap.String("ticker", ticker),
					zap.Stringer("first", found.ID()),
					zap.Stringer("second", s.ID()))
			}
			found = s
			n++
		}
	}
	return found, n
}

// Ticker returns the ticker registered for s, or its encoded identifier.
func (r *Registry) Ticker(s *Symbol) string {
	if t, ok := r.TryGetTicker(s); ok {
		return t
	}
	return s.ID().String()
}

func (r *Registry) TryGetTicker(s *Symbol) (string, bool) {
	r.RLock()
	defer r.RUnlock()

	t, ok := r.byID[s.ID()]
	return t, ok
}

// Remove deletes the symbol and its ticker. It reports whether s was present.
func (r *Registry) Remove(s *Symbol) bool {
	r.Lock()
	defer r.Unlock()

	t, ok := r.byID[s.ID()]
	if !ok {
		return false
	}
	delete(r.byID, s.ID())
	delete(r.bySymbol, key(t))
	return true
}

// RemoveTicker deletes the ticker and its symbol.
func (r *Registry) RemoveTicker(ticker string) bool {
	r.Lock()
	defer r.Unlock()

	k := key(ticker)
	s, ok := r.bySymbol[k]
	if !ok {
		return false
	}
	delete(r.bySymbol, k)
	if t, ok := r.byID[s.ID()]; ok && key(t) == k {
		delete(r.byID, s.ID())
	}
	return true
}

// Clear empties the registry.
func (r *Registry) Clear() {
	r.Lock()
	defer r.Unlock()

	r.bySymbol = make(map[string]*Symbol)
	r.byID = make(map[sid.SecurityIdentifier]string)
}

func (r *Registry) Len() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.bySymbol)
}

// Tickers returns the registered tickers, sorted.
func (r *Registry) Tickers() []string {
	r.RLock()
	defer r.RUnlock()

	tickers := make([]string, 0, len(r.byID))
	for _, t := range r.byID {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// LoadFile loads a ticker file, see configs/tickers.txt for the format.
func (r *Registry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return errors.Wrap(r.Load(f), path)
}

// Load reads lines of "TICKER <sid token>". Blank lines and lines starting
// with # or // are skipped.
func (r *Registry) Load(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	line, count := 0, 0
	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "//") || strings.HasPrefix(s, "#") {
			continue
		}
		ticker, token, ok := strings.Cut(s, " ")
		if !ok {
			return errors.Wrapf(sid.ErrFormat, "line %d: missing identifier", line)
		}
		id, err := sid.Parse(strings.TrimSpace(token))
		if err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
		r.Set(ticker, New(id, ticker))
		count++
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	log.Logger.Info("loaded tickers", zap.Int("count", count))
	return nil
}
