package luno

import (
	"context"

	"golang.org/x/sync/errgroup"
)

//
// ListTickersForCurrencyPairs fetches the ticker of every provided currency pair concurrently, with
// at most MaxConcurrentRequests requests in flight at any time. Callers must not rely on the order
// of the returned tickers.
//
// The first failing fetch fails the whole call: fetches that have not started yet are skipped,
// in-flight ones are cancelled and that first error is returned without any partial results.
//
func (o *Client) ListTickersForCurrencyPairs(ctx context.Context, pairs []CurrencyPair) ([]Ticker, error) {
	tickers := make([]Ticker, len(pairs))
	if len(pairs) == 0 {
		return tickers, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentRequests)

	for i, pair := range pairs {
		i, pair := i, pair

		g.Go(func() error {
			//
			// Skip work queued behind a failure that has already cancelled the batch.
			//
			if err := gctx.Err(); err != nil {
				return classify(gctx, "get ticker", err)
			}

			ticker, err := get[Ticker](gctx, o, "get ticker", TickerPath, pairQuery(pair))
			if err != nil {
				return err
			}

			tickers[i] = ticker

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tickers, nil
}
