package titan

import "github.com/gagliardetto/solana-go"

// QuoteRequest describes a single quote lookup. Optional tuning fields are
// sent only when set.
type QuoteRequest struct {
	InputMint     solana.PublicKey
	OutputMint    solana.PublicKey
	Amount        uint64 // smallest unit of the input (ExactIn) or output (ExactOut) asset
	UserPublicKey solana.PublicKey

	MaxAccounts *uint64
	SwapMode    *SwapMode
	SlippageBps uint16 // 0 leaves slippage to the service

	OnlyDirectRoutes      *bool
	ExcludedDexes         *string // comma separated venue labels
	SizeConstraint        *uint64
	AccountsLimitWritable *uint64
	Providers             *string // comma separated provider ids
}

// QuoteResponse is the display oriented view of the selected route.
type QuoteResponse struct {
	QuoteID     string           `json:"quoteId,omitempty"`
	RouteID     string           `json:"routeId,omitempty"`
	InputMint   solana.PublicKey `json:"inputMint"`
	InAmount    uint64           `json:"inAmount,string"`
	OutputMint  solana.PublicKey `json:"outputMint"`
	OutAmount   uint64           `json:"outAmount,string"`
	SwapMode    SwapMode         `json:"swapMode"`
	SlippageBps uint16           `json:"slippageBps"`
	PlatformFee *PlatformFee     `json:"platformFee"`
	RoutePlan   []RoutePlanStep  `json:"routePlan"`
	ContextSlot *uint64          `json:"contextSlot,omitempty"`
	TimeTaken   *float64         `json:"timeTaken,omitempty"` // seconds

	// RawRoute is the decoded route the plan was built from. BuildSwap
	// reads its instructions, so it must not be modified.
	RawRoute SwapRoute `json:"-"`
}

type PlatformFee struct {
	Amount uint64 `json:"amount,string"`
	FeeBps uint8  `json:"feeBps"`
}

type RoutePlanStep struct {
	SwapInfo SwapInfo `json:"swapInfo"`
	Percent  uint8    `json:"percent"`
}

type SwapInfo struct {
	AmmKey      solana.PublicKey `json:"ammKey"`
	Label       string           `json:"label"`
	InputMint   solana.PublicKey `json:"inputMint"`
	OutputMint  solana.PublicKey `json:"outputMint"`
	InAmount    uint64           `json:"inAmount,string"`
	OutAmount   uint64           `json:"outAmount,string"`
	AllocPpb    uint64           `json:"allocPpb"`
	FeeMint     solana.PublicKey `json:"feeMint"`
	FeeAmount   uint64           `json:"feeAmount,string"`
	ContextSlot uint64           `json:"contextSlot"`
}
