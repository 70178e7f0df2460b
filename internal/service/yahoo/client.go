package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"StockAlert/internal/domain/models"
	drepo "StockAlert/internal/domain/repository"
	xhttp "StockAlert/pkg/http"
	"StockAlert/pkg/util"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client implements MarketData backed by the Yahoo Finance chart API.
type Client struct {
	baseURL   string
	userAgent string
	http      *xhttp.Client
}

// New creates a new Yahoo Finance market data client.
func New(baseURL, userAgent string, client *xhttp.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      client,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`  // null on missing bars
					Volume []*float64 `json:"volume"` // null on missing bars
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchSeries returns daily closes and volumes covering windowDays.
// Unknown symbols and empty ranges produce an empty series.
func (c *Client) FetchSeries(ctx context.Context, symbol string, windowDays int) (models.MarketSeries, error) {
	series := models.MarketSeries{Symbol: symbol}

	headers := map[string]string{"Accept": "application/json"}
	if c.userAgent != "" {
		headers["User-Agent"] = c.userAgent
	}

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol)),
		Headers: headers,
		QueryParams: map[string][]string{
			"interval":       {"1d"},
			"range":          {util.LookbackRange(windowDays)},
			"includePrePost": {"false"},
		},
	}, &resp)
	if err != nil {
		if xhttp.IsNotFound(err) {
			return series, nil
		}
		return series, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		if resp.Chart.Error.Code == "Not Found" {
			return series, nil
		}
		return series, fmt.Errorf("yahoo chart %s: %s - %s", symbol, resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	series.Observations = parseObservations(resp)
	return series, nil
}

func parseObservations(resp chartResponse) []models.Observation {
	if len(resp.Chart.Result) == 0 {
		return nil
	}
	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	quote := result.Indicators.Quote[0]

	out := make([]models.Observation, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || i >= len(quote.Volume) {
			break
		}
		if quote.Close[i] == nil || quote.Volume[i] == nil {
			continue
		}
		closeVal, volume := *quote.Close[i], *quote.Volume[i]
		if closeVal < 0 || volume < 0 {
			continue
		}
		out = append(out, models.Observation{
			Date:   util.DayFromUnix(ts),
			Close:  closeVal,
			Volume: volume,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

var _ drepo.MarketData = (*Client)(nil)
