package polygon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	dmodels "StockAlert/internal/domain/models"
	drepo "StockAlert/internal/domain/repository"
	"StockAlert/pkg/util"
)

// Client implements MarketData backed by Polygon daily aggregates.
type Client struct {
	rest *polygon.Client
	now  func() time.Time
}

// New creates a Polygon market data client using hc for transport.
func New(apiKey string, hc *http.Client) *Client {
	return &Client{
		rest: polygon.NewWithClient(apiKey, hc),
		now:  time.Now,
	}
}

// FetchSeries returns adjusted daily bars for the last windowDays calendar days.
func (c *Client) FetchSeries(ctx context.Context, symbol string, windowDays int) (dmodels.MarketSeries, error) {
	series := dmodels.MarketSeries{Symbol: symbol}
	from, to := util.LookbackWindow(c.now(), windowDays)

	adjusted := true
	asc := models.Asc
	params := &models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(from),
		To:         models.Millis(to),
		Adjusted:   &adjusted,
		Order:      &asc,
	}

	iter := c.rest.ListAggs(ctx, params)
	for iter.Next() {
		a := iter.Item()
		if a.Close < 0 || a.Volume < 0 {
			continue
		}
		series.Observations = append(series.Observations, dmodels.Observation{
			Date:   time.Time(a.Timestamp).UTC().Truncate(24 * time.Hour),
			Close:  a.Close,
			Volume: a.Volume,
		})
	}
	if err := iter.Err(); err != nil {
		return dmodels.MarketSeries{Symbol: symbol}, fmt.Errorf("polygon aggs %s: %w", symbol, err)
	}

	return series, nil
}

var _ drepo.MarketData = (*Client)(nil)
