package titan

import "github.com/gagliardetto/solana-go"

// SwapResponse carries everything needed to assemble the swap transaction.
// Signing and submission happen elsewhere.
type SwapResponse struct {
	Instructions                []solana.Instruction
	AddressLookupTableAddresses []solana.PublicKey

	// ComputeUnitLimit is the route's compute unit estimate narrowed to the
	// width the compute budget program accepts. Estimates above MaxUint32
	// saturate; 0 means the service gave no estimate.
	ComputeUnitLimit uint32

	ComputeUnitsSafe *uint64
	ContextSlot      *uint64
	ExpiresAtMs      *uint64
	ExpiresAfterSlot *uint64

	// Transaction is the service's pre-built transaction, when it sent one.
	Transaction []byte
}
