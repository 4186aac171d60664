package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/luno/config"
	"github.com/lukehollenback/luno/constants"
	"github.com/lukehollenback/luno/exchange"
	"github.com/lukehollenback/luno/exchange/luno"
	"github.com/lukehollenback/luno/logger"
	"github.com/sirupsen/logrus"
)

const usage = `Usage: luno [flags] <command>

Commands:
  balances       List the balances of every account on the profile.
  orders         List the pending orders on the profile.
  ticker         Show the ticker of -pair.
  tickers        Show every ticker, or only those of -pairs.
  orderbook      Show the full order book of -pair.
  orderbook-top  Show the top of the order book of -pair.
  trades         List the recent trades of -pair (those within -since, if set).
  markets        List every market and its trading limits.
  candles        List the -interval candles of -pair within -since.
  stream         Follow the live order book and trades of -pair until interrupted.

Flags:
`

var ErrUnknownCommand = errors.New("unknown command")

func main() {
	//
	// Register a kill signal handler with the operating system so that we can gracefully shutdown if
	// necessary.
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}

		fmt.Fprintf(os.Stderr, constants.LogPrefixFmt+"%s\n", constants.AppName, aurora.Bold(aurora.Red(err.Error())))
		os.Exit(1)
	}
}

//
// options holds the parsed command line.
//
type options struct {
	command     string
	configPath  string
	envFile     string
	pair        string
	pairs       string
	since       time.Duration
	interval    string
	csvPath     string
	color       bool
	logRequests bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	flags := flag.NewFlagSet(constants.AppName, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprint(flags.Output(), usage)
		flags.PrintDefaults()
	}

	flags.StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "Path to an optional YAML configuration file.")
	flags.StringVar(&opts.envFile, "env", constants.DefaultEnvFile, "Path to an optional .env file.")
	flags.StringVar(&opts.pair, "pair", "", "The currency pair to query. Defaults to the configured pair.")
	flags.StringVar(&opts.pairs, "pairs", "", "A comma separated list of currency pairs to fetch tickers for.")
	flags.DurationVar(&opts.since, "since", 0, "How far back to look for trades and candles (e.g. 90m).")
	flags.StringVar(&opts.interval, "interval", exchange.FiveMinute.String(), "The candle interval (e.g. 1m, 1h, 1d).")
	flags.StringVar(&opts.csvPath, "csv", "", "Write balances, trades, tickers or candles to this CSV file as well.")
	flags.BoolVar(&opts.color, "color", true, "Whether or not to colorize output.")
	flags.BoolVar(&opts.logRequests, "log-requests", false, "Whether or not to log every API request.")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if flags.NArg() != 1 {
		flags.Usage()

		return nil, fmt.Errorf("expected exactly one command, got %d", flags.NArg())
	}

	opts.command = flags.Arg(0)

	return opts, nil
}

//
// run parses the command line, builds a client from the configuration and executes the requested
// command.
//
func run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cmd, ok := commands[opts.command]
	if !ok {
		return fmt.Errorf("%w '%s'", ErrUnknownCommand, opts.command)
	}

	//
	// Load the configuration and build the logger it describes.
	//
	cfg, err := config.Load(opts.configPath, opts.envFile)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}

	//
	// Resolve the currency pair(s) the command applies to.
	//
	pair := cfg.CurrencyPair()
	if opts.pair != "" {
		if pair, err = luno.ParseCurrencyPair(strings.ToUpper(opts.pair)); err != nil {
			return err
		}
	}

	var pairs []luno.CurrencyPair

	if opts.pairs != "" {
		for _, v := range strings.Split(opts.pairs, ",") {
			p, err := luno.ParseCurrencyPair(strings.ToUpper(strings.TrimSpace(v)))
			if err != nil {
				return err
			}

			pairs = append(pairs, p)
		}
	}

	interval, err := exchange.ParseInterval(opts.interval)
	if err != nil {
		return err
	}

	//
	// Build the client.
	//
	clientOpts := cfg.ClientOptions()
	if opts.logRequests {
		clientOpts = append(clientOpts, luno.WithRequestLogger(log))
	}

	client, err := luno.NewClient(cfg.APIKeyID, cfg.APIKeySecret, clientOpts...)
	if err != nil {
		return err
	}

	if !cfg.HasCredentials() {
		log.WithField("command", opts.command).Debug("No API credentials are configured.")
	}

	env := &environment{
		cfg:      cfg,
		client:   client,
		log:      log,
		out:      stdout,
		au:       aurora.NewAurora(opts.color),
		pair:     pair,
		pairs:    pairs,
		since:    opts.since,
		interval: interval,
		csvPath:  opts.csvPath,
	}

	logger.WithComponent(log, constants.AppName).
		WithFields(logrus.Fields{"command": opts.command, "pair": pair}).
		Debug("Running.")

	return cmd(ctx, env)
}
