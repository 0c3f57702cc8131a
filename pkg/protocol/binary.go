package protocol

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/robaho/go-symbols/pkg/sid"
	"github.com/robaho/go-symbols/pkg/symbol"
)

// The compact record is a protobuf message with a single field:
//
//	message Symbol { string id = 1; }
//
// Aliases are not carried, decoding rebuilds them from the identifier.
const symbolIDField protowire.Number = 1

// AppendSymbol appends the compact record of s to b.
func AppendSymbol(b []byte, s *symbol.Symbol) []byte {
	b = protowire.AppendTag(b, symbolIDField, protowire.BytesType)
	return protowire.AppendString(b, s.ID().String())
}

func MarshalBinary(s *symbol.Symbol) []byte {
	return AppendSymbol(nil, s)
}

// UnmarshalBinary decodes a compact record. Unknown fields are skipped, a
// record without an identifier is Empty.
func UnmarshalBinary(b []byte) (*symbol.Symbol, error) {
	token := ""
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errors.Wrap(sid.ErrFormat, protowire.ParseError(n).Error())
		}
		b = b[n:]
		if num == symbolIDField && typ == protowire.BytesType {
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, errors.Wrap(sid.ErrFormat, protowire.ParseError(n).Error())
			}
			token = v
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, errors.Wrap(sid.ErrFormat, protowire.ParseError(n).Error())
		}
		b = b[n:]
	}
	return symbol.Parse(token)
}
