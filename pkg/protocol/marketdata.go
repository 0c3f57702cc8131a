package protocol

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	. "github.com/robaho/go-symbols/pkg/common"
	"github.com/robaho/go-symbols/pkg/symbol"
)

// maxEntries bounds the level and trade counts read from a stream
const maxEntries = 1 << 16

// a market event is an optional book plus trades. The book and every trade
// carry their own compact symbol record, so one event may mix instruments of
// any type.

func EncodeMarketEvent(book *Book, trades []Trade) []byte {
	buf := new(bytes.Buffer)
	if book != nil {
		buf.WriteByte(1) // has book
		buf.Write(encodeBook(book))
	} else {
		buf.WriteByte(0) // no book
	}
	buf.Write(encodeTrades(trades))
	return buf.Bytes()
}

func DecodeMarketEvent(r io.ByteReader) (*Book, []Trade, error) {
	hasBook, err := r.ReadByte()
	if err != nil {
		return nil, nil, err
	}
	var book *Book
	if hasBook == 1 {
		if book, err = decodeBook(r); err != nil {
			return nil, nil, errors.Wrap(err, "book")
		}
	}
	trades, err := decodeTrades(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "trades")
	}
	return book, trades, nil
}

func encodeSymbol(w io.ByteWriter, s *symbol.Symbol) {
	EncodeBytes(w, MarshalBinary(s))
}

func decodeSymbol(r io.ByteReader) (*symbol.Symbol, error) {
	b, err := DecodeBytes(r)
	if err != nil {
		return nil, err
	}
	return UnmarshalBinary(b)
}

func encodeBook(book *Book) []byte {
	buf := new(bytes.Buffer)

	encodeSymbol(buf, book.Symbol)
	PutUvarint(buf, book.Sequence)

	encodeLevels(buf, book.Bids)
	encodeLevels(buf, book.Asks)

	return buf.Bytes()
}

func decodeBook(r io.ByteReader) (*Book, error) {
	book := new(Book)

	s, err := decodeSymbol(r)
	if err != nil {
		return nil, err
	}
	book.Symbol = s
	if book.Sequence, err = ReadUvarint(r); err != nil {
		return nil, err
	}
	if book.Bids, err = decodeLevels(r); err != nil {
		return nil, err
	}
	if book.Asks, err = decodeLevels(r); err != nil {
		return nil, err
	}
	return book, nil
}

func encodeLevels(w io.ByteWriter, levels []BookLevel) {
	PutUvarint(w, uint64(len(levels)))
	for _, level := range levels {
		EncodeFixed(w, level.Price)
		EncodeFixed(w, level.Quantity)
	}
}

func decodeLevels(r io.ByteReader) ([]BookLevel, error) {
	n, err := ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if n > maxEntries {
		return nil, errors.Errorf("%d book levels", n)
	}
	levels := make([]BookLevel, n)
	for i := range levels {
		if levels[i].Price, err = DecodeFixed(r); err != nil {
			return nil, err
		}
		if levels[i].Quantity, err = DecodeFixed(r); err != nil {
			return nil, err
		}
	}
	return levels, nil
}

func encodeTrades(trades []Trade) []byte {
	buf := new(bytes.Buffer)

	PutUvarint(buf, uint64(len(trades)))
	for _, v := range trades {
		encodeSymbol(buf, v.Symbol)
		EncodeFixed(buf, v.Quantity)
		EncodeFixed(buf, v.Price)
		EncodeString(buf, v.ExchangeID)
		EncodeTime(buf, v.TradeTime)
	}

	return buf.Bytes()
}

func decodeTrades(r io.ByteReader) ([]Trade, error) {
	n, err := ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if n > maxEntries {
		return nil, errors.Errorf("%d trades", n)
	}
	trades := make([]Trade, n)
	for i := range trades {
		t := &trades[i]
		if t.Symbol, err = decodeSymbol(r); err != nil {
			return nil, err
		}
		if t.Quantity, err = DecodeFixed(r); err != nil {
			return nil, err
		}
		if t.Price, err = DecodeFixed(r); err != nil {
			return nil, err
		}
		if t.ExchangeID, err = DecodeString(r); err != nil {
			return nil, err
		}
		if t.TradeTime, err = DecodeTime(r); err != nil {
			return nil, err
		}
	}
	return trades, nil
}
