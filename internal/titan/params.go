package titan

import (
	"net/url"
	"strconv"
	"strings"
)

// Param is one query parameter. Order is preserved on the wire.
type Param struct {
	Key   string
	Value string
}

// QueryParams renders req in the order the service documents: the four
// required parameters, then each optional one that is set.
func QueryParams(req *QuoteRequest) []Param {
	params := []Param{
		{"inputMint", req.InputMint.String()},
		{"outputMint", req.OutputMint.String()},
		{"amount", strconv.FormatUint(req.Amount, 10)},
		{"userPublicKey", req.UserPublicKey.String()},
	}

	if req.MaxAccounts != nil {
		params = append(params, Param{"accountsLimitTotal", strconv.FormatUint(*req.MaxAccounts, 10)})
	}
	if req.SwapMode != nil {
		// Out-of-range modes are left off; the service defaults to ExactIn.
		if text, err := req.SwapMode.MarshalText(); err == nil {
			params = append(params, Param{"swapMode", string(text)})
		}
	}
	if req.SlippageBps > 0 {
		params = append(params, Param{"slippageBps", strconv.FormatUint(uint64(req.SlippageBps), 10)})
	}
	if req.OnlyDirectRoutes != nil {
		params = append(params, Param{"onlyDirectRoutes", strconv.FormatBool(*req.OnlyDirectRoutes)})
	}
	if req.ExcludedDexes != nil {
		params = append(params, Param{"excludeDexes", *req.ExcludedDexes})
	}
	if req.SizeConstraint != nil {
		params = append(params, Param{"sizeConstraint", strconv.FormatUint(*req.SizeConstraint, 10)})
	}
	if req.AccountsLimitWritable != nil {
		params = append(params, Param{"accountsLimitWritable", strconv.FormatUint(*req.AccountsLimitWritable, 10)})
	}
	if req.Providers != nil {
		params = append(params, Param{"providers", *req.Providers})
	}

	return params
}

// EncodeQuery joins params into a query string without reordering them
// (url.Values.Encode sorts by key).
func EncodeQuery(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
