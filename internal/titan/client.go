package titan

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://api.titan.exchange"
	DefaultTimeout = 12 * time.Second

	quoteSwapPath      = "/api/v1/quote/swap"
	msgpackContentType = "application/vnd.msgpack"
)

// Client talks to the Titan quote/swap endpoint. It holds no mutable state
// and is safe for concurrent use.
type Client struct {
	baseURL    string
	authHeader string
	http       *http.Client
	selector   RouteSelector
	logger     *logrus.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides DefaultBaseURL. Empty keeps the default.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the transport. Timeouts and cancellation are its job.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRouteSelector replaces FirstRoute.
func WithRouteSelector(sel RouteSelector) ClientOption {
	return func(c *Client) {
		if sel != nil {
			c.selector = sel
		}
	}
}

func WithLogger(logger *logrus.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client authenticating with authToken.
func NewClient(authToken string, opts ...ClientOption) (*Client, error) {
	authToken = strings.TrimSpace(authToken)
	if authToken == "" {
		return nil, fmt.Errorf("titan: auth token is required")
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		authHeader: "Bearer " + authToken,
		http:       &http.Client{Timeout: DefaultTimeout},
		selector:   FirstRoute,
		logger:     logrus.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the endpoint root the client sends requests to.
func (c *Client) BaseURL() string { return c.baseURL }

// Quote requests routes for req and builds a QuoteResponse from the
// selected one.
func (c *Client) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	quotes, err := c.FetchSwapQuotes(ctx, QueryParams(req))
	if err != nil {
		return nil, err
	}
	quote, err := BuildQuote(req, quotes, c.selector)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"quote_id":   quote.QuoteID,
		"route_id":   quote.RouteID,
		"routes":     len(quotes.Quotes),
		"steps":      len(quote.RoutePlan),
		"out_amount": quote.OutAmount,
	}).Debug("titan quote received")
	return quote, nil
}

// Swap builds the swap instructions from a quote returned by Quote. No
// request is made.
func (c *Client) Swap(quote *QuoteResponse) (*SwapResponse, error) {
	return BuildSwap(quote)
}

// SwapFromRequest fetches a fresh quote for req and builds the swap from it
// in one call.
func (c *Client) SwapFromRequest(ctx context.Context, req *QuoteRequest) (*SwapResponse, error) {
	quote, err := c.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	return BuildSwap(quote)
}

// FetchSwapQuotes performs the request and decodes the body. It makes one
// attempt; retrying is left to the caller.
func (c *Client) FetchSwapQuotes(ctx context.Context, params []Param) (*SwapQuotes, error) {
	u := c.baseURL + quoteSwapPath
	if len(params) > 0 {
		u += "?" + EncodeQuery(params)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Accept", msgpackContentType)
	httpReq.Header.Set("Authorization", c.authHeader)

	c.logger.WithFields(logrus.Fields{
		"path":   quoteSwapPath,
		"params": len(params),
	}).Debug("requesting titan quotes")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer res.Body.Close()

	// An unreadable error body still classifies by status, with whatever
	// text arrived.
	body, readErr := io.ReadAll(res.Body)
	if err := classifyResponse(res.StatusCode, body); err != nil {
		c.logger.WithFields(logrus.Fields{
			"status": res.StatusCode,
		}).WithError(err).Debug("titan quote request rejected")
		return nil, err
	}
	if readErr != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response body: %w", readErr)}
	}

	quotes, err := DecodeSwapQuotes(body)
	if err != nil {
		c.logger.WithError(err).Warn("titan response did not match the wire schema")
		return nil, err
	}
	return quotes, nil
}
