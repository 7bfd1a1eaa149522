package stub

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/aman-zulfiqar/titan-swap-client/internal/titan"
	"github.com/gagliardetto/solana-go"
)

// Query is a parsed quote request.
type Query struct {
	InputMint     solana.PublicKey
	OutputMint    solana.PublicKey
	Amount        uint64
	UserPublicKey solana.PublicKey
	SwapMode      titan.SwapMode
	SlippageBps   uint16
}

// QuoteSource produces the quotes served for a query. An empty route map
// is answered with a "No routes" 404.
type QuoteSource interface {
	SwapQuotes(ctx context.Context, q Query) (*titan.SwapQuotes, error)
}

// StaticSource serves the same fixture for every query. It is safe to swap
// the fixture while the server runs.
type StaticSource struct {
	mu     sync.RWMutex
	quotes *titan.SwapQuotes
}

func NewStaticSource(quotes *titan.SwapQuotes) *StaticSource {
	return &StaticSource{quotes: quotes}
}

func (s *StaticSource) Set(quotes *titan.SwapQuotes) {
	s.mu.Lock()
	s.quotes = quotes
	s.mu.Unlock()
}

func (s *StaticSource) SwapQuotes(ctx context.Context, q Query) (*titan.SwapQuotes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.quotes == nil {
		return nil, fmt.Errorf("no fixture configured")
	}
	return s.quotes, nil
}

const (
	syntheticSlot         = 350_000_000
	syntheticComputeUnits = 60_000
)

// SyntheticSource answers every query with a single direct route priced
// at OutPerIn (1 when zero). The route's only instruction is a memo signed
// by the user, so a transaction built from it is harmless.
type SyntheticSource struct {
	OutPerIn float64
	Label    string
}

func (s SyntheticSource) SwapQuotes(ctx context.Context, q Query) (*titan.SwapQuotes, error) {
	id := digest(q.InputMint, q.OutputMint)
	out := &titan.SwapQuotes{
		ID:         fmt.Sprintf("stub-%x", id[:6]),
		InputMint:  q.InputMint,
		OutputMint: q.OutputMint,
		SwapMode:   q.SwapMode,
		Amount:     q.Amount,
	}
	if q.Amount == 0 || q.InputMint.Equals(q.OutputMint) {
		return out, nil
	}

	ratio := s.OutPerIn
	if ratio <= 0 {
		ratio = 1
	}
	label := s.Label
	if label == "" {
		label = "Stub"
	}

	inAmount, outAmount := q.Amount, uint64(float64(q.Amount)*ratio)
	if q.SwapMode == titan.ExactOut {
		inAmount, outAmount = uint64(float64(q.Amount)/ratio), q.Amount
	}

	slot := uint64(syntheticSlot)
	cu := uint64(syntheticComputeUnits)
	cuSafe := cu + cu/5
	expires := slot + 150
	routeID := "synthetic-direct"

	route := titan.SwapRoute{
		InAmount:    inAmount,
		OutAmount:   outAmount,
		SlippageBps: q.SlippageBps,
		Steps: []titan.RoutePlanStepData{{
			AmmKey:     digest(q.InputMint, q.OutputMint),
			Label:      label,
			InputMint:  q.InputMint,
			OutputMint: q.OutputMint,
			InAmount:   inAmount,
			OutAmount:  outAmount,
			AllocPpb:   1_000_000_000,
		}},
		Instructions: []titan.InstructionData{{
			Program: solana.MemoProgramID,
			Accounts: []titan.AccountMetaData{
				{Pubkey: q.UserPublicKey, IsSigner: true, IsWritable: true},
			},
			Data: []byte("titan-stub:" + routeID),
		}},
		AddressLookupTables: [][32]byte{},
		ContextSlot:         &slot,
		ExpiresAfterSlot:    &expires,
		ComputeUnits:        &cu,
		ComputeUnitsSafe:    &cuSafe,
	}
	out.Quotes = []titan.RouteEntry{{ID: routeID, Route: route}}
	return out, nil
}

func digest(a, b solana.PublicKey) [32]byte {
	h := sha256.New()
	h.Write(a[:])
	h.Write(b[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
