package newsapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"StockAlert/internal/domain/models"
	drepo "StockAlert/internal/domain/repository"
	xhttp "StockAlert/pkg/http"
)

const (
	DefaultBaseURL  = "https://newsapi.org"
	DefaultPageSize = 3
)

// Client implements NewsSource backed by the NewsAPI "everything" endpoint.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	http     *xhttp.Client
}

// New creates a NewsAPI client. pageSize bounds the number of headlines returned.
func New(baseURL, apiKey string, pageSize int, client *xhttp.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		pageSize: pageSize,
		http:     client,
	}
}

type everythingResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

// FetchHeadlines returns up to pageSize article titles, newest first.
// Every failure yields an empty slice; the error only explains why.
func (c *Client) FetchHeadlines(ctx context.Context, query string) ([]models.Headline, error) {
	var resp everythingResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v2/everything",
		QueryParams: map[string][]string{
			"q":        {query},
			"sortBy":   {"publishedAt"},
			"pageSize": {strconv.Itoa(c.pageSize)},
			"apiKey":   {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return []models.Headline{}, fmt.Errorf("newsapi %q: %w", query, err)
	}

	headlines := make([]models.Headline, 0, c.pageSize)
	for _, a := range resp.Articles {
		if len(headlines) == c.pageSize {
			break
		}
		title := strings.TrimSpace(a.Title)
		if title == "" {
			continue
		}
		headlines = append(headlines, models.Headline(title))
	}
	return headlines, nil
}

var _ drepo.NewsSource = (*Client)(nil)
