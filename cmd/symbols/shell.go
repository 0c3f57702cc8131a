package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/VividCortex/gohistogram"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/robaho/go-symbols/pkg/convert"
	"github.com/robaho/go-symbols/pkg/market"
	"github.com/robaho/go-symbols/pkg/protocol"
	"github.com/robaho/go-symbols/pkg/sid"
	"github.com/robaho/go-symbols/pkg/symbol"
	"github.com/robaho/go-symbols/pkg/ticker"
)

const help = `The available commands are:
  quit
  equity|forex|crypto|cfd|index TICKER [MARKET]
  future ROOT MARKET YYYYMMDD
  option TICKER MARKET C|P STRIKE YYYYMMDD [american|european]
  canonical TICKER TYPE [MARKET]
  decode SID
  osi TEXT, iqfeed TEXT, fut TEXT
  set TICKER SID, get TICKER, remove TICKER, tickers
  json RECORD
  fix SID
  replay FILE
  markets
  bench [N]`

const dateLayout = "20060102"

type shell struct {
	registry        *symbol.Registry
	decoder         protocol.Decoder
	out             io.Writer
	benchIterations int
}

func newShell(registry *symbol.Registry, out io.Writer) *shell {
	return &shell{
		registry:        registry,
		decoder:         protocol.Decoder{Tickers: registry},
		out:             out,
		benchIterations: 100000,
	}
}

func (sh *shell) run(in io.Reader) {
	fmt.Fprint(sh.out, "Command?")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" {
			break
		}
		if line != "" {
			if err := sh.execute(line); err != nil {
				fmt.Fprintln(sh.out, "error:", err)
			}
		}
		fmt.Fprint(sh.out, "Command?")
	}
}

// rest returns the line after the command word, for arguments containing spaces
func rest(line string) string {
	_, after, _ := strings.Cut(line, " ")
	return strings.TrimSpace(after)
}

func (sh *shell) execute(line string) error {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		fmt.Fprintln(sh.out, help)
	case "equity", "forex", "crypto", "cfd", "index":
		if len(args) < 1 {
			return usage(cmd + " TICKER [MARKET]")
		}
		t, _ := sid.ParseSecurityType(cmd)
		s, err := symbol.Create(args[0], t, marketArg(args, 1, t))
		if err != nil {
			return err
		}
		sh.print(s)
	case "future":
		if len(args) != 3 {
			return usage("future ROOT MARKET YYYYMMDD")
		}
		expiry, err := time.Parse(dateLayout, args[2])
		if err != nil {
			return err
		}
		s, err := symbol.CreateFuture(args[0], args[1], expiry)
		if err != nil {
			return err
		}
		sh.print(s)
	case "option":
		return sh.option(args)
	case "canonical":
		if len(args) < 2 {
			return usage("canonical TICKER TYPE [MARKET]")
		}
		t, err := sid.ParseSecurityType(args[1])
		if err != nil {
			return err
		}
		s, err := symbol.Create(args[0], t, marketArg(args, 2, t))
		if err != nil {
			return err
		}
		sh.print(s)
	case "decode":
		s, err := symbol.Parse(rest(line))
		if err != nil {
			return err
		}
		sh.print(s)
		for id := s.ID(); !id.IsEmpty(); id = id.Underlying() {
			f := id.Fields()
			fmt.Fprintf(sh.out, "  %s %s market=%s date=%s strike=%s right=%s style=%s\n",
				f.SecurityType, f.Symbol, f.Market, formatDate(f.Date), f.Strike, f.Right, f.Style)
		}
	case "osi", "iqfeed":
		text := rest(line)
		parse := ticker.ParseOSI
		if cmd == "iqfeed" {
			parse = ticker.ParseIQFeed
		}
		o, ok := parse(text)
		if !ok {
			return errors.Errorf("%q is not an %s ticker", text, cmd)
		}
		fmt.Fprintf(sh.out, "root=%s expiry=%s right=%s strike=%s\n", o.Root, formatDate(o.Expiry), o.Right, o.Strike)
	case "fut":
		f, err := ticker.FutureFromText(rest(line))
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "root=%s month=%d year=%d expiry=%s\n",
			f.Root, f.Month, f.Year(time.Now()), formatDate(f.Expiry(time.Now())))
	case "set":
		if len(args) < 2 {
			return usage("set TICKER SID")
		}
		id, err := sid.Parse(strings.TrimSpace(strings.TrimPrefix(rest(line), args[0])))
		if err != nil {
			return err
		}
		sh.registry.Set(args[0], symbol.New(id, args[0]))
	case "get":
		if len(args) != 1 {
			return usage("get TICKER")
		}
		s, err := sh.registry.Get(args[0])
		if err != nil {
			return err
		}
		sh.print(s)
	case "remove":
		if len(args) != 1 {
			return usage("remove TICKER")
		}
		if !sh.registry.RemoveTicker(args[0]) {
			fmt.Fprintln(sh.out, "not registered:", args[0])
		}
	case "tickers":
		for _, t := range sh.registry.Tickers() {
			if s, ok := sh.registry.TryGet(t); ok {
				fmt.Fprintf(sh.out, "%s\t%s\n", t, s.ID())
			}
		}
	case "json":
		s, err := sh.decoder.Unmarshal([]byte(rest(line)))
		if err != nil {
			return err
		}
		b, err := protocol.Marshal(s)
		if err != nil {
			return err
		}
		fmt.Fprintln(sh.out, string(b))
	case "fix":
		s, err := symbol.Parse(rest(line))
		if err != nil {
			return err
		}
		msg := convert.NewSecurityDefinitionRequest("1", s)
		fmt.Fprintln(sh.out, strings.ReplaceAll(msg.ToMessage().String(), "\x01", "|"))
	case "replay":
		if len(args) != 1 {
			return usage("replay FILE")
		}
		return sh.replay(args[0])
	case "markets":
		fmt.Fprintln(sh.out, strings.Join(market.Default.Names(), ", "))
	case "bench":
		n := sh.benchIterations
		if len(args) == 1 {
			var err error
			if n, err = strconv.Atoi(args[0]); err != nil || n <= 0 {
				return usage("bench [N]")
			}
		}
		return sh.bench(n)
	default:
		return errors.Errorf("unknown command '%s', use 'help'", line)
	}
	return nil
}

func (sh *shell) option(args []string) error {
	if len(args) < 5 {
		return usage("option TICKER MARKET C|P STRIKE YYYYMMDD [american|european]")
	}
	right, err := sid.ParseOptionRight(args[2])
	if err != nil {
		return err
	}
	strike, err := decimal.NewFromString(args[3])
	if err != nil {
		return err
	}
	expiry, err := time.Parse(dateLayout, args[4])
	if err != nil {
		return err
	}
	style := sid.American
	if len(args) > 5 {
		if style, err = sid.ParseOptionStyle(args[5]); err != nil {
			return err
		}
	}
	s, err := symbol.CreateOption(args[0], args[1], style, right, strike, expiry)
	if err != nil {
		return err
	}
	sh.print(s)
	return nil
}

// bench times generating and parsing an option identifier
func (sh *shell) bench(n int) error {
	expiry := time.Date(2006, 3, 18, 0, 0, 0, 0, time.UTC)
	strike := decimal.RequireFromString("47.5")
	underlying, err := sid.GenerateEquity("MSFT", market.USA)
	if err != nil {
		return err
	}

	h := gohistogram.NewHistogram(50)
	start := time.Now()
	for i := 0; i < n; i++ {
		t0 := time.Now()
		id, err := sid.GenerateOption(expiry, underlying, market.USA, strike, sid.Call, sid.American)
		if err != nil {
			return err
		}
		if _, err := sid.Parse(id.String()); err != nil {
			return err
		}
		h.Add(float64(time.Since(t0).Nanoseconds()))
	}
	elapsed := time.Since(start)
	fmt.Fprintf(sh.out, "%d round trips in %s, %.0f per sec, mean %.0f ns, 99%% %.0f ns\n",
		n, elapsed, float64(n)/elapsed.Seconds(), h.Mean(), h.Quantile(.99))
	return nil
}

func (sh *shell) print(s *symbol.Symbol) {
	fmt.Fprintf(sh.out, "%s\t%s\n", s.Value(), s.ID())
}

func marketArg(args []string, i int, t sid.SecurityType) string {
	if len(args) > i {
		return args[i]
	}
	return sid.DefaultMarket(t)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func usage(s string) error {
	return errors.Errorf("usage: %s", s)
}
