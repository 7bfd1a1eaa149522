package stub

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/titan-swap-client/internal/titan"
	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const msgpackContentType = "application/vnd.msgpack"

// Handlers contains the dependencies of the stub endpoints
type Handlers struct {
	Source     QuoteSource
	Positional bool
	Logger     *logrus.Logger
}

func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// QuoteSwap answers GET /api/v1/quote/swap with a MessagePack body.
func (h *Handlers) QuoteSwap(c echo.Context) error {
	q, msg := parseQuery(c)
	if msg != "" {
		return c.String(http.StatusBadRequest, msg)
	}

	start := time.Now()
	quotes, err := h.Source.SwapQuotes(c.Request().Context(), q)
	if err != nil {
		h.Logger.WithError(err).Error("stub quote source failed")
		return c.String(http.StatusInternalServerError, "quote source failed")
	}
	if len(quotes.Quotes) == 0 {
		return c.String(http.StatusNotFound, "No routes found")
	}

	// Routes without a timing get the elapsed time. The source's fixture is
	// shared, so the route list is copied first.
	took := uint64(time.Since(start).Nanoseconds())
	served := *quotes
	served.Quotes = make([]titan.RouteEntry, len(quotes.Quotes))
	copy(served.Quotes, quotes.Quotes)
	for i := range served.Quotes {
		if served.Quotes[i].Route.TimeTakenNs == nil {
			served.Quotes[i].Route.TimeTakenNs = &took
		}
	}
	quotes = &served

	body, err := titan.EncodeSwapQuotes(quotes, h.Positional)
	if err != nil {
		h.Logger.WithError(err).Error("stub failed to encode quotes")
		return c.String(http.StatusInternalServerError, "encode failed")
	}

	h.Logger.WithFields(logrus.Fields{
		"quote_id": quotes.ID,
		"routes":   len(quotes.Quotes),
		"bytes":    len(body),
	}).Debug("stub served quotes")
	return c.Blob(http.StatusOK, msgpackContentType, body)
}

// parseQuery validates the query string. A non-empty msg is the error body.
func parseQuery(c echo.Context) (Query, string) {
	var q Query

	mint := func(name string, dst *solana.PublicKey) string {
		v := strings.TrimSpace(c.QueryParam(name))
		if v == "" {
			return name + " is required"
		}
		pk, err := solana.PublicKeyFromBase58(v)
		if err != nil {
			return "invalid " + name
		}
		*dst = pk
		return ""
	}
	if msg := mint("inputMint", &q.InputMint); msg != "" {
		return q, msg
	}
	if msg := mint("outputMint", &q.OutputMint); msg != "" {
		return q, msg
	}
	if msg := mint("userPublicKey", &q.UserPublicKey); msg != "" {
		return q, msg
	}

	amount, err := strconv.ParseUint(strings.TrimSpace(c.QueryParam("amount")), 10, 64)
	if err != nil {
		return q, "invalid amount"
	}
	q.Amount = amount

	if v := strings.TrimSpace(c.QueryParam("swapMode")); v != "" {
		mode, err := titan.ParseSwapMode(v)
		if err != nil {
			return q, "invalid swapMode"
		}
		q.SwapMode = mode
	}

	if v := strings.TrimSpace(c.QueryParam("slippageBps")); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return q, "invalid slippageBps"
		}
		q.SlippageBps = uint16(n)
	}

	for _, name := range []string{"accountsLimitTotal", "sizeConstraint", "accountsLimitWritable"} {
		if v := strings.TrimSpace(c.QueryParam(name)); v != "" {
			if _, err := strconv.ParseUint(v, 10, 64); err != nil {
				return q, "invalid " + name
			}
		}
	}
	if v := strings.TrimSpace(c.QueryParam("onlyDirectRoutes")); v != "" {
		if _, err := strconv.ParseBool(v); err != nil {
			return q, "invalid onlyDirectRoutes"
		}
	}
	return q, ""
}
