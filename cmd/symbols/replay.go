package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/robaho/fixed"

	"github.com/robaho/go-symbols/pkg/common"
	"github.com/robaho/go-symbols/pkg/protocol"
)

// replay reads quote lines "TIMESTAMP TICKER BIDQTY BIDPRICE ASKQTY ASKPRICE",
// resolves each ticker through the registry and pushes the book through the
// market event codec, printing what a subscriber would decode.
func (sh *shell) replay(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return sh.replayFrom(f)
}

func (sh *shell) replayFrom(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	var sequence uint64
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		parts := strings.Fields(s)
		if len(parts) != 6 {
			fmt.Fprintln(sh.out, "invalid format", s)
			continue
		}
		sym, err := sh.registry.Get(parts[1])
		if err != nil {
			fmt.Fprintln(sh.out, "unknown symbol", parts[1], err)
			continue
		}
		levels := make([]fixed.Fixed, 4)
		for i, text := range parts[2:] {
			if levels[i], err = fixed.NewSErr(text); err != nil {
				break
			}
		}
		if err != nil {
			fmt.Fprintln(sh.out, "invalid number", s)
			continue
		}

		sequence++
		book := &common.Book{
			Symbol:   sym,
			Sequence: sequence,
			Bids:     []common.BookLevel{{Price: levels[1], Quantity: levels[0]}},
			Asks:     []common.BookLevel{{Price: levels[3], Quantity: levels[2]}},
		}
		decoded, _, err := protocol.DecodeMarketEvent(bytes.NewReader(protocol.EncodeMarketEvent(book, nil)))
		if err != nil {
			return err
		}
		fmt.Fprintln(sh.out, parts[0], decoded, decoded.Symbol.ID())
	}
	return scanner.Err()
}
