package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/luno/candle"
	"github.com/lukehollenback/luno/config"
	"github.com/lukehollenback/luno/constants"
	"github.com/lukehollenback/luno/exchange"
	"github.com/lukehollenback/luno/exchange/luno"
	"github.com/lukehollenback/luno/exchange/luno/streaming"
	"github.com/lukehollenback/luno/report"
	"github.com/lukehollenback/luno/service"
	"github.com/sirupsen/logrus"
)

// StreamSeedCandles is how many intervals of candles the stream command seeds its store with.
const StreamSeedCandles = 10

// StreamSummaryInterval is how often the stream command prints the top of the book and checks that
// the monitor is still alive.
var StreamSummaryInterval = 5 * time.Second

//
// environment is everything a command needs to do its job.
//
type environment struct {
	mu       sync.Mutex
	cfg      *config.Config
	client   *luno.Client
	log      *logrus.Logger
	out      io.Writer
	au       aurora.Aurora
	pair     luno.CurrencyPair
	pairs    []luno.CurrencyPair
	since    time.Duration
	interval exchange.Interval
	csvPath  string
}

type command func(ctx context.Context, env *environment) error

var commands = map[string]command{
	"balances":      balances,
	"orders":        orders,
	"ticker":        ticker,
	"tickers":       tickers,
	"orderbook":     orderBook,
	"orderbook-top": orderBookTop,
	"trades":        trades,
	"markets":       markets,
	"candles":       candles,
	"stream":        stream,
}

//
// printf writes to the command's output. Trade handlers print from the monitor's goroutine, so
// writes are serialized.
//
func (o *environment) printf(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()

	fmt.Fprintf(o.out, format, args...)
}

func (o *environment) side(t luno.OrderType) aurora.Value {
	if t == luno.Bid {
		return o.au.Bold(o.au.Green(t))
	}

	return o.au.Bold(o.au.Red(t))
}

//
// withReport hands a CSV report of the provided type to the write function if a CSV path was
// requested, and does nothing otherwise.
//
func (o *environment) withReport(typ report.Type, write func(w *report.Writer) error) error {
	if o.csvPath == "" {
		return nil
	}

	file, err := os.Create(o.csvPath)
	if err != nil {
		return err
	}

	w := report.NewWriter(file, typ)

	if err := write(w); err != nil {
		file.Close()

		return err
	}

	if err := w.Flush(); err != nil {
		file.Close()

		return err
	}

	o.log.WithField("path", o.csvPath).Infof("Wrote %s report.", typ)

	return file.Close()
}

func balances(ctx context.Context, env *environment) error {
	balances, err := env.client.ListBalances(ctx)
	if err != nil {
		return err
	}

	for _, v := range balances {
		env.printf(
			"%-6s %s (available %s, reserved %s, unconfirmed %s)\n",
			env.au.Bold(env.au.Yellow(v.Asset)), env.au.Bold(v.Balance), env.au.Green(v.Available()), v.Reserved,
			v.Unconfirmed,
		)
	}

	return env.withReport(report.Balances, func(w *report.Writer) error {
		return w.WriteBalances(balances)
	})
}

func orders(ctx context.Context, env *environment) error {
	orders, err := env.client.ListOrders(ctx)
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		env.printf("No pending orders.\n")

		return nil
	}

	for _, v := range orders {
		env.printf(
			"%s %s %s %s @ %s (created %s)\n",
			env.au.Bold(v.OrderID), v.Pair, env.side(v.Type), v.LimitVolume, env.au.Bold(v.LimitPrice),
			v.CreationTimestamp.Format(time.RFC3339),
		)
	}

	return nil
}

func printTicker(env *environment, v luno.Ticker) {
	env.printf(
		"%-7s bid %s ask %s last %s volume %s %s\n",
		env.au.Bold(v.Pair), env.au.Green(v.Bid), env.au.Red(v.Ask), env.au.Bold(v.LastTrade), v.Rolling24HourVolume,
		v.Status,
	)
}

func ticker(ctx context.Context, env *environment) error {
	ticker, err := env.client.GetTicker(ctx, env.pair)
	if err != nil {
		return err
	}

	printTicker(env, *ticker)

	return env.withReport(report.Tickers, func(w *report.Writer) error {
		return w.WriteTickers([]luno.Ticker{*ticker})
	})
}

func tickers(ctx context.Context, env *environment) error {
	var (
		tickers []luno.Ticker
		err     error
	)

	if len(env.pairs) > 0 {
		tickers, err = env.client.ListTickersForCurrencyPairs(ctx, env.pairs)
	} else {
		tickers, err = env.client.ListTickers(ctx)
	}

	if err != nil {
		return err
	}

	for _, v := range tickers {
		printTicker(env, v)
	}

	return env.withReport(report.Tickers, func(w *report.Writer) error {
		return w.WriteTickers(tickers)
	})
}

func printOrderBook(env *environment, book *luno.OrderBook) {
	for i := len(book.Asks) - 1; i >= 0; i-- {
		env.printf("%s %s %s\n", env.side(luno.Ask), env.au.Red(book.Asks[i].Price), book.Asks[i].Volume)
	}

	if spread, ok := book.Spread(); ok {
		env.printf("%s %s\n", env.au.Cyan("spread"), env.au.Bold(spread))
	}

	for _, v := range book.Bids {
		env.printf("%s %s %s\n", env.side(luno.Bid), env.au.Green(v.Price), v.Volume)
	}
}

func orderBook(ctx context.Context, env *environment) error {
	book, err := env.client.GetOrderBook(ctx, env.pair)
	if err != nil {
		return err
	}

	printOrderBook(env, book)

	return nil
}

func orderBookTop(ctx context.Context, env *environment) error {
	book, err := env.client.GetOrderBookTop(ctx, env.pair)
	if err != nil {
		return err
	}

	printOrderBook(env, book)

	return nil
}

func trades(ctx context.Context, env *environment) error {
	var (
		trades []luno.Trade
		err    error
	)

	if env.since > 0 {
		trades, err = env.client.ListTradesSince(ctx, env.pair, env.since)
	} else {
		trades, err = env.client.ListTrades(ctx, env.pair)
	}

	if err != nil {
		return err
	}

	for _, v := range trades {
		env.printf(
			"%d %s %s %s @ %s\n",
			v.Sequence, v.Timestamp.Format(time.RFC3339), env.side(v.Type), v.Volume, env.au.Bold(v.Price),
		)
	}

	return env.withReport(report.Trades, func(w *report.Writer) error {
		return w.WriteTrades(trades)
	})
}

func markets(ctx context.Context, env *environment) error {
	markets, err := env.client.ListMarkets(ctx)
	if err != nil {
		return err
	}

	for _, v := range markets {
		env.printf(
			"%-7s %s volume %s..%s price %s..%s\n",
			env.au.Bold(v.MarketID), v.TradingStatus, v.MinVolume, v.MaxVolume, v.MinPrice, v.MaxPrice,
		)
	}

	return nil
}

func printCandle(env *environment, v luno.Candle) {
	closing := env.au.Green(v.Close())
	if v.Close().LessThan(v.Open()) {
		closing = env.au.Red(v.Close())
	}

	env.printf(
		"%s O %s H %s L %s C %s V %s\n",
		v.StartTime().Format(time.RFC3339), v.Open(), v.High(), v.Low(), env.au.Bold(closing), v.Volume(),
	)
}

func candles(ctx context.Context, env *environment) error {
	since := env.since
	if since <= 0 {
		since = constants.DefaultSince
	}

	candles, err := env.client.ListCandles(ctx, env.pair, time.Now().Add(-since), env.interval)
	if err != nil {
		return err
	}

	for _, v := range candles {
		printCandle(env, v)
	}

	return env.withReport(report.Candles, func(w *report.Writer) error {
		return w.WriteCandles(candles)
	})
}

//
// stream follows the live order book of the pair, printing every trade as it happens and the top
// of the book periodically, until the context is cancelled or the stream fails.
//
func stream(ctx context.Context, env *environment) error {
	opts := []streaming.Option{streaming.WithLogger(env.log)}
	if env.cfg.StreamURL != "" {
		opts = append(opts, streaming.WithURL(env.cfg.StreamURL))
	}

	monitor := streaming.NewMonitor(env.pair, luno.NewCredential(env.cfg.APIKeyID, env.cfg.APIKeySecret), opts...)

	monitor.RegisterTradeHandler(func(trade streaming.Trade) {
		env.printf(
			"%d %s %s %s @ %s\n",
			trade.Sequence, trade.Timestamp.Format(time.RFC3339), env.side(trade.Type), trade.Volume,
			env.au.Bold(trade.Price),
		)
	})

	//
	// Build -interval candles out of the streamed trades, seeded with the most recent ones from the
	// candles endpoint.
	//
	store, err := candle.NewStore(env.interval, candle.DefaultHistory)
	if err != nil {
		return err
	}

	since := time.Now().Add(-StreamSeedCandles * env.interval.Duration())

	seed, err := env.client.ListCandles(ctx, env.pair, since, env.interval)
	if err != nil {
		env.log.WithError(err).Warn("Failed to seed the candle store.")
	} else if err := store.Seed(seed); err != nil {
		env.log.WithError(err).Warn("Failed to seed the candle store.")
	}

	monitor.RegisterTradeHandler(func(trade streaming.Trade) {
		closed, ok, err := store.AppendTrade(trade)
		if err != nil {
			env.log.WithError(err).Warn("Failed to append trade to the candle store.")

			return
		}

		if ok {
			printCandle(env, closed)
		}
	})

	//
	// Mirror trades into a CSV report if one was requested. The report is flushed once the stream
	// ends.
	//
	var w *report.Writer

	if env.csvPath != "" {
		file, err := os.Create(env.csvPath)
		if err != nil {
			return err
		}

		defer file.Close()

		w = report.NewWriter(file, report.StreamTrades)
		monitor.RegisterTradeHandler(w.WriteStreamTrade)
	}

	started, err := startService(monitor)
	if err != nil {
		return err
	}

	if !started {
		return monitor.Err()
	}

	summary := time.NewTicker(StreamSummaryInterval)
	defer summary.Stop()

	for {
		select {
		case <-ctx.Done():
			env.log.Info("An operating system interrupt has been received. Shutting down...")

			if err := stopService(monitor); err != nil {
				return err
			}

			return flush(w)

		case <-summary.C:
			if !monitor.Ready() {
				if err := flush(w); err != nil {
					return err
				}

				return monitor.Err()
			}

			book, _ := monitor.OrderBook()
			if len(book.Asks) > 0 && len(book.Bids) > 0 {
				env.printf(
					"%s %s bid %s ask %s (%s)\n",
					env.au.Cyan(env.pair), env.au.Cyan(monitor.Status()), env.au.Green(book.Bids[0].Price),
					env.au.Red(book.Asks[0].Price), env.au.Cyan(fmt.Sprintf("seq %d", monitor.Sequence())),
				)
			}
		}
	}
}

//
// startService starts the provided service and blocks until it reports whether start up succeeded.
//
func startService(svc service.Service) (bool, error) {
	chStarted, err := svc.Start()
	if err != nil {
		return false, err
	}

	return <-chStarted, nil
}

//
// stopService tells the provided service to shut down and blocks until it has.
//
func stopService(svc service.Service) error {
	chStopped, err := svc.Stop()
	if err != nil {
		return err
	}

	<-chStopped

	return nil
}

func flush(w *report.Writer) error {
	if w == nil {
		return nil
	}

	return w.Flush()
}
