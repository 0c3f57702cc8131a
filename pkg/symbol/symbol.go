package symbol

import (
	"unicode"
	"unicode/utf8"

	"github.com/robaho/go-symbols/pkg/sid"
)

// Symbol is the universal instrument key: an encoded identifier, the display
// alias and, for derivatives and custom data, the underlying Symbol.
//
// Identity (Equal, Hash, ID as a map key) depends only on the identifier,
// while Compare orders by the alias. A nil *Symbol behaves as Empty.
// Symbols are immutable and safe to share.
type Symbol struct {
	id         sid.SecurityIdentifier
	value      string
	underlying *Symbol
}

// Empty is the symbol of no instrument. It is equal to nil.
var Empty = &Symbol{}

const (
	CanonicalOptionMarker = '?'
	CanonicalFutureMarker = '/'
)

// New wraps an identifier with an alias. The underlying chain is rebuilt from
// the identifier with default aliases.
func New(id sid.SecurityIdentifier, value string) *Symbol {
	if id.IsEmpty() && value == "" {
		return Empty
	}
	var underlying *Symbol
	if id.HasUnderlying() {
		underlying = FromID(id.Underlying())
	}
	return &Symbol{id: id, value: value, underlying: underlying}
}

// NewWithUnderlying builds a symbol with an explicit underlying link. A nil
// underlying means none, a non-nil Empty underlying is kept as a placeholder.
func NewWithUnderlying(id sid.SecurityIdentifier, value string, underlying *Symbol) *Symbol {
	return &Symbol{id: id, value: value, underlying: underlying}
}

// FromID rebuilds a symbol and its chain from the identifier alone.
func FromID(id sid.SecurityIdentifier) *Symbol {
	if id.IsEmpty() {
		return Empty
	}
	var underlying *Symbol
	if id.HasUnderlying() {
		underlying = FromID(id.Underlying())
	}
	return &Symbol{id: id, value: defaultValue(id, underlying), underlying: underlying}
}

// Parse builds a symbol from an encoded identifier token.
func Parse(token string) (*Symbol, error) {
	id, err := sid.Parse(token)
	if err != nil {
		return nil, err
	}
	return FromID(id), nil
}

func (s *Symbol) ID() sid.SecurityIdentifier {
	if s == nil {
		return sid.Empty
	}
	return s.id
}

// Value is the display alias.
func (s *Symbol) Value() string {
	if s == nil {
		return ""
	}
	return s.value
}

// Underlying returns the parent link or nil.
func (s *Symbol) Underlying() *Symbol {
	if s == nil {
		return nil
	}
	return s.underlying
}

// HasUnderlying reports whether candidate is the identity of the underlying.
func (s *Symbol) HasUnderlying(candidate *Symbol) bool {
	if s == nil || s.underlying == nil {
		return false
	}
	return s.underlying.Equal(candidate)
}

func (s *Symbol) SecurityType() sid.SecurityType {
	return s.ID().SecurityType()
}

func (s *Symbol) IsEmpty() bool {
	return s.ID().IsEmpty()
}

func (s *Symbol) IsCanonical() bool {
	return s.ID().IsCanonical()
}

// Equal compares identities. Empty and nil are equal to each other.
func (s *Symbol) Equal(other *Symbol) bool {
	return s.ID() == other.ID()
}

// Equal is the nil safe function form of (*Symbol).Equal.
func Equal(a, b *Symbol) bool {
	return a.ID() == b.ID()
}

func (s *Symbol) Hash() uint64 {
	return s.ID().Hash()
}

// Compare orders symbols by alias, ordinal and ignoring case. It is not
// consistent with Equal: different instruments may share an alias.
func (s *Symbol) Compare(other *Symbol) int {
	return compareFold(s.Value(), other.Value())
}

func (s *Symbol) String() string {
	return s.Value()
}

func compareFold(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		ra, rb = unicode.ToUpper(ra), unicode.ToUpper(rb)
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
		a, b = a[na:], b[nb:]
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	}
	return 1
}
