package titan

import (
	"math"

	"github.com/gagliardetto/solana-go"
)

// routePlanPercent is reported for every step. The service's allocation
// lives in SwapInfo.AllocPpb; the percent is not derived from it.
const routePlanPercent = 100

// BuildQuote turns decoded quotes into a QuoteResponse for req, using sel
// (FirstRoute when nil) to choose among the routes.
func BuildQuote(req *QuoteRequest, quotes *SwapQuotes, sel RouteSelector) (*QuoteResponse, error) {
	if quotes == nil || len(quotes.Quotes) == 0 {
		return nil, ErrNoRoutesAvailable
	}
	if sel == nil {
		sel = FirstRoute
	}
	entry, ok := sel.SelectRoute(quotes.Quotes)
	if !ok {
		return nil, ErrNoRoutesAvailable
	}
	route := entry.Route

	var defaultSlot uint64
	if route.ContextSlot != nil {
		defaultSlot = *route.ContextSlot
	}
	plan := make([]RoutePlanStep, 0, len(route.Steps))
	for i := range route.Steps {
		plan = append(plan, transformStep(&route.Steps[i], defaultSlot))
	}

	mode := ExactIn
	if req.SwapMode != nil {
		mode = *req.SwapMode
	}

	out := &QuoteResponse{
		QuoteID:     quotes.ID,
		RouteID:     entry.ID,
		InputMint:   req.InputMint,
		InAmount:    req.Amount,
		OutputMint:  req.OutputMint,
		OutAmount:   route.OutAmount,
		SwapMode:    mode,
		SlippageBps: route.SlippageBps,
		RoutePlan:   plan,
		ContextSlot: route.ContextSlot,
		RawRoute:    route,
	}
	if route.PlatformFee != nil {
		out.PlatformFee = &PlatformFee{
			Amount: route.PlatformFee.Amount,
			FeeBps: route.PlatformFee.FeeBps,
		}
	}
	if route.TimeTakenNs != nil {
		secs := float64(*route.TimeTakenNs) / 1e9
		out.TimeTaken = &secs
	}
	return out, nil
}

func transformStep(step *RoutePlanStepData, defaultSlot uint64) RoutePlanStep {
	info := SwapInfo{
		AmmKey:      solana.PublicKey(step.AmmKey),
		Label:       step.Label,
		InputMint:   solana.PublicKey(step.InputMint),
		OutputMint:  solana.PublicKey(step.OutputMint),
		InAmount:    step.InAmount,
		OutAmount:   step.OutAmount,
		AllocPpb:    uint64(step.AllocPpb),
		ContextSlot: defaultSlot,
	}
	if step.FeeMint != nil {
		info.FeeMint = solana.PublicKey(*step.FeeMint)
	}
	if step.FeeAmount != nil {
		info.FeeAmount = *step.FeeAmount
	}
	if step.ContextSlot != nil {
		info.ContextSlot = *step.ContextSlot
	}
	return RoutePlanStep{SwapInfo: info, Percent: routePlanPercent}
}

// BuildSwap expands the quote's retained route into full instructions. The
// route is only read; instruction data is copied so the result does not
// alias the quote.
func BuildSwap(quote *QuoteResponse) (*SwapResponse, error) {
	route := &quote.RawRoute
	if len(route.Instructions) == 0 {
		return nil, ErrNoRoutesAvailable
	}

	instructions := make([]solana.Instruction, 0, len(route.Instructions))
	for i := range route.Instructions {
		instructions = append(instructions, toInstruction(&route.Instructions[i]))
	}

	tables := make([]solana.PublicKey, 0, len(route.AddressLookupTables))
	for _, t := range route.AddressLookupTables {
		tables = append(tables, solana.PublicKey(t))
	}

	out := &SwapResponse{
		Instructions:                instructions,
		AddressLookupTableAddresses: tables,
		ComputeUnitLimit:            narrowComputeUnits(route.ComputeUnits),
		ComputeUnitsSafe:            copyUint64(route.ComputeUnitsSafe),
		ContextSlot:                 copyUint64(route.ContextSlot),
		ExpiresAtMs:                 copyUint64(route.ExpiresAtMs),
		ExpiresAfterSlot:            copyUint64(route.ExpiresAfterSlot),
	}
	if route.Transaction != nil {
		out.Transaction = append([]byte(nil), route.Transaction...)
	}
	return out, nil
}

func toInstruction(ix *InstructionData) solana.Instruction {
	accounts := make(solana.AccountMetaSlice, 0, len(ix.Accounts))
	for _, m := range ix.Accounts {
		accounts = append(accounts, &solana.AccountMeta{
			PublicKey:  solana.PublicKey(m.Pubkey),
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
		})
	}
	data := make([]byte, len(ix.Data))
	copy(data, ix.Data)
	return solana.NewInstruction(solana.PublicKey(ix.Program), accounts, data)
}

// narrowComputeUnits saturates at MaxUint32 instead of wrapping. A missing
// estimate yields 0.
func narrowComputeUnits(cu *uint64) uint32 {
	if cu == nil {
		return 0
	}
	if *cu > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(*cu)
}

func copyUint64(v *uint64) *uint64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
