package models

import (
	"time"

	"github.com/aman-zulfiqar/titan-swap-client/internal/titan"
)

// QuoteEvent is the summary of a quote published to subscribers.
type QuoteEvent struct {
	QuoteID     string    `json:"quote_id"`
	RouteID     string    `json:"route_id"`
	Timestamp   time.Time `json:"timestamp"`
	InputMint   string    `json:"input_mint"`
	OutputMint  string    `json:"output_mint"`
	InAmount    uint64    `json:"in_amount,string"`
	OutAmount   uint64    `json:"out_amount,string"`
	SwapMode    string    `json:"swap_mode"`
	SlippageBps uint16    `json:"slippage_bps"`
	Steps       int       `json:"steps"`
	Dexes       []string  `json:"dexes"`
	ContextSlot uint64    `json:"context_slot,omitempty"`
	TimeTaken   float64   `json:"time_taken,omitempty"` // seconds
}

// Pair returns "<input>-<output>", the suffix of the pair channel.
func (e *QuoteEvent) Pair() string {
	return e.InputMint + "-" + e.OutputMint
}

// NewQuoteEvent summarises q as of at.
func NewQuoteEvent(q *titan.QuoteResponse, at time.Time) *QuoteEvent {
	ev := &QuoteEvent{
		QuoteID:     q.QuoteID,
		RouteID:     q.RouteID,
		Timestamp:   at.UTC(),
		InputMint:   q.InputMint.String(),
		OutputMint:  q.OutputMint.String(),
		InAmount:    q.InAmount,
		OutAmount:   q.OutAmount,
		SwapMode:    q.SwapMode.String(),
		SlippageBps: q.SlippageBps,
		Steps:       len(q.RoutePlan),
		Dexes:       make([]string, 0, len(q.RoutePlan)),
	}
	for _, step := range q.RoutePlan {
		ev.Dexes = append(ev.Dexes, step.SwapInfo.Label)
	}
	if q.ContextSlot != nil {
		ev.ContextSlot = *q.ContextSlot
	}
	if q.TimeTaken != nil {
		ev.TimeTaken = *q.TimeTaken
	}
	return ev
}
