package convert

import (
	"time"

	"github.com/pkg/errors"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/securitydefinition"
	"github.com/quickfixgo/fix44/securitydefinitionrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"

	"github.com/robaho/go-symbols/pkg/sid"
	"github.com/robaho/go-symbols/pkg/symbol"
	"github.com/robaho/go-symbols/pkg/ticker"
)

// MaturityDateFormat is the FIX LocalMktDate layout.
const MaturityDateFormat = "20060102"

const strikeScale = 4

// the Instrument component setters shared by the fix44 messages
type instrumentWriter interface {
	SetSymbol(v string)
	SetSecurityID(v string)
	SetSecurityIDSource(v enum.SecurityIDSource)
	SetSecurityType(v enum.SecurityType)
	SetSecurityExchange(v string)
	SetMaturityDate(v string)
	SetStrikePrice(value decimal.Decimal, scale int32)
	SetCFICode(v string)
}

type instrumentReader interface {
	GetSymbol() (string, quickfix.MessageRejectError)
	HasSecurityID() bool
	GetSecurityID() (string, quickfix.MessageRejectError)
	GetSecurityType() (enum.SecurityType, quickfix.MessageRejectError)
	GetSecurityExchange() (string, quickfix.MessageRejectError)
	HasMaturityDate() bool
	GetMaturityDate() (string, quickfix.MessageRejectError)
	HasStrikePrice() bool
	GetStrikePrice() (decimal.Decimal, quickfix.MessageRejectError)
	HasCFICode() bool
	GetCFICode() (string, quickfix.MessageRejectError)
}

func MapToFixSecurityType(t sid.SecurityType) (enum.SecurityType, bool) {
	switch t {
	case sid.Equity:
		return enum.SecurityType_COMMON_STOCK, true
	case sid.Option, sid.IndexOption:
		return enum.SecurityType_OPTION, true
	case sid.Future:
		return enum.SecurityType_FUTURE, true
	case sid.FutureOption:
		return enum.SecurityType_OPTIONS_ON_FUTURES, true
	case sid.Forex:
		return enum.SecurityType_FOREIGN_EXCHANGE_CONTRACT, true
	}
	return "", false
}

// MapToFixCFICode renders the ISO 10962 code of a listed option: O, the right
// (C or P), the exercise style (A or E), then XXX for the attributes not carried.
func MapToFixCFICode(right sid.OptionRight, style sid.OptionStyle) string {
	cfi := []byte("OCAXXX")
	if right == sid.Put {
		cfi[1] = 'P'
	}
	if style == sid.European {
		cfi[2] = 'E'
	}
	return string(cfi)
}

// MapFromFixCFICode reads the right and style of an option CFICode. An
// unspecified style (X) is American.
func MapFromFixCFICode(cfi string) (sid.OptionRight, sid.OptionStyle, error) {
	if len(cfi) < 2 || cfi[0] != 'O' {
		return sid.NoRight, sid.NoStyle, errors.Wrapf(ticker.ErrUnsupportedConversion, "CFICode %q is not an option", cfi)
	}
	var right sid.OptionRight
	switch cfi[1] {
	case 'C':
		right = sid.Call
	case 'P':
		right = sid.Put
	default:
		return sid.NoRight, sid.NoStyle, errors.Wrapf(ticker.ErrUnsupportedConversion, "CFICode %q has no put or call", cfi)
	}
	style := sid.American
	if len(cfi) > 2 && cfi[2] == 'E' {
		style = sid.European
	}
	return right, style, nil
}

// NewSecurityDefinitionRequest asks for the definition of s.
func NewSecurityDefinitionRequest(reqID string, s *symbol.Symbol) securitydefinitionrequest.SecurityDefinitionRequest {
	msg := securitydefinitionrequest.New(
		field.NewSecurityReqID(reqID),
		field.NewSecurityRequestType(enum.SecurityRequestType_SYMBOL))
	WriteInstrument(msg, s)
	return msg
}

// NewSecurityDefinition answers reqID with the definition of s.
func NewSecurityDefinition(reqID, responseID string, s *symbol.Symbol) securitydefinition.SecurityDefinition {
	msg := securitydefinition.New(
		field.NewSecurityReqID(reqID),
		field.NewSecurityResponseID(responseID),
		field.NewSecurityResponseType(enum.SecurityResponseType_ACCEPT_SECURITY_PROPOSAL_AS_IS))
	WriteInstrument(msg, s)
	return msg
}

// WriteInstrument fills the Instrument component. SecurityID always carries
// the encoded identifier, the descriptive fields are written when the
// security type has a FIX equivalent.
func WriteInstrument(w instrumentWriter, s *symbol.Symbol) {
	id := s.ID()
	w.SetSymbol(id.Symbol())
	w.SetSecurityID(id.String())
	w.SetSecurityIDSource(enum.SecurityIDSource_EXCHANGE_SYMBOL)
	w.SetSecurityExchange(id.Market())

	t, ok := MapToFixSecurityType(id.SecurityType())
	if !ok {
		return
	}
	w.SetSecurityType(t)
	if id.HasDate() {
		w.SetMaturityDate(id.Date().Format(MaturityDateFormat))
	}
	if id.SecurityType().IsOption() && !id.IsCanonical() {
		w.SetStrikePrice(id.StrikePrice(), strikeScale)
		w.SetCFICode(MapToFixCFICode(id.OptionRight(), id.OptionStyle()))
	}
}

// ReadInstrument rebuilds a symbol from the Instrument component. A SecurityID
// holding an encoded identifier wins, otherwise the symbol is regenerated from
// the descriptive fields, the option right and style coming from CFICode.
func ReadInstrument(r instrumentReader) (*symbol.Symbol, error) {
	if r.HasSecurityID() {
		text, err := r.GetSecurityID()
		if err != nil {
			return nil, err
		}
		if id, ok := sid.TryParse(text); ok && !id.IsEmpty() {
			return symbol.FromID(id), nil
		}
	}

	root, rerr := r.GetSymbol()
	if rerr != nil {
		return nil, rerr
	}
	market, rerr := r.GetSecurityExchange()
	if rerr != nil {
		return nil, rerr
	}
	t, rerr := r.GetSecurityType()
	if rerr != nil {
		return nil, rerr
	}
	var expiry time.Time
	if r.HasMaturityDate() {
		text, rerr := r.GetMaturityDate()
		if rerr != nil {
			return nil, rerr
		}
		var err error
		expiry, err = time.Parse(MaturityDateFormat, text)
		if err != nil {
			return nil, errors.Wrapf(sid.ErrFormat, "MaturityDate %q", text)
		}
	}

	switch t {
	case enum.SecurityType_COMMON_STOCK:
		return symbol.CreateEquity(root, market)
	case enum.SecurityType_FOREIGN_EXCHANGE_CONTRACT:
		return symbol.CreateForex(root, market)
	case enum.SecurityType_FUTURE:
		if expiry.IsZero() {
			return symbol.Create(root, sid.Future, market)
		}
		return symbol.CreateFuture(root, market, expiry)
	case enum.SecurityType_OPTION:
		if expiry.IsZero() || !r.HasStrikePrice() || !r.HasCFICode() {
			return symbol.Create(root, sid.Option, market)
		}
		strike, rerr := r.GetStrikePrice()
		if rerr != nil {
			return nil, rerr
		}
		cfi, rerr := r.GetCFICode()
		if rerr != nil {
			return nil, rerr
		}
		right, style, err := MapFromFixCFICode(cfi)
		if err != nil {
			return nil, err
		}
		return symbol.CreateOption(root, market, style, right, strike, expiry)
	}
	return nil, errors.Wrapf(ticker.ErrUnsupportedConversion, "FIX SecurityType %q without a SecurityID", string(t))
}
