package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/robaho/go-symbols/internal/log"
	"github.com/robaho/go-symbols/pkg/common"
	"github.com/robaho/go-symbols/pkg/market"
	"github.com/robaho/go-symbols/pkg/symbol"
)

func main() {
	props := flag.String("props", "configs/symbols.properties", "set the properties file")
	markets := flag.String("markets", "", "set the YAML market table, overrides markets.file")
	tickers := flag.String("tickers", "", "set the ticker file, overrides tickers.file")

	flag.Parse()

	defer log.Logger.Sync()

	p, err := common.NewProperties(*props)
	if err != nil {
		log.Logger.Warn("no properties file, using defaults", zap.String("file", *props), zap.Error(err))
		p, _ = common.NewPropertiesFromReader(strings.NewReader(""))
	}
	if *markets != "" {
		p.SetString("markets.file", *markets)
	}
	if *tickers != "" {
		p.SetString("tickers.file", *tickers)
	}

	if f := p.GetString("markets.file", ""); f != "" {
		if err := market.Default.LoadFile(f); err != nil {
			log.Logger.Fatal("unable to load markets", zap.String("file", f), zap.Error(err))
		}
	}

	// the process wide ticker registry, everything below receives it
	registry := symbol.NewRegistry()
	if f := p.GetString("tickers.file", ""); f != "" {
		if err := registry.LoadFile(f); err != nil {
			log.Logger.Fatal("unable to load tickers", zap.String("file", f), zap.Error(err))
		}
	}

	sh := newShell(registry, os.Stdout)
	sh.benchIterations = p.GetInt("bench.iterations", sh.benchIterations)

	fmt.Println("use 'help' to get a list of commands")
	sh.run(os.Stdin)
}
