package symbol

import (
	"strings"

	"github.com/robaho/go-symbols/pkg/sid"
	"github.com/robaho/go-symbols/pkg/ticker"
)

// RequiresMapping reports whether the alias follows corporate action renames.
// Custom data follows its underlying.
func (s *Symbol) RequiresMapping() bool {
	if s.IsEmpty() {
		return false
	}
	if s.SecurityType() == sid.Base {
		return s.underlying.RequiresMapping()
	}
	return s.SecurityType().RequiresMapping()
}

// UpdateMappedSymbol returns a copy of the chain renamed to newAlias. Options
// regenerate their ticker from the renamed underlying, custom data keeps its
// type suffix. Symbols that do not remap are returned as is. The receiver is
// never modified.
func (s *Symbol) UpdateMappedSymbol(newAlias string) *Symbol {
	if !s.RequiresMapping() {
		return s
	}
	underlying := s.underlying
	if underlying != nil {
		underlying = underlying.UpdateMappedSymbol(newAlias)
	}

	value := newAlias
	switch t := s.SecurityType(); {
	case t.IsOption():
		root := newAlias
		if underlying != nil {
			root = underlying.Value()
		}
		if s.IsCanonical() {
			value = string(CanonicalOptionMarker) + root
		} else {
			value = ticker.GenerateOSI(root, s.id.Date(), s.id.OptionRight(), s.id.StrikePrice())
		}
	case t == sid.Base:
		if i := strings.LastIndexByte(s.value, '.'); i >= 0 {
			value = newAlias + s.value[i:]
		}
	}
	return &Symbol{id: s.id, value: value, underlying: underlying}
}
