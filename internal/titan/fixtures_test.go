package titan

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

var (
	mintA = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	mintB = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	user  = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
)

// key returns a deterministic address filled with b.
func key(b byte) [32]byte {
	var k [32]byte
	for i := range k {
		k[i] = b
	}
	return k
}

func u64(v uint64) *uint64 { return &v }

// twoStepRoute is a SOL -> mid -> USDC route with one instruction and one
// lookup table.
func twoStepRoute() SwapRoute {
	mid := key(0x33)
	feeMint := key(0x44)
	return SwapRoute{
		InAmount:    100_000_000,
		OutAmount:   15_230_000,
		SlippageBps: 50,
		PlatformFee: &PlatformFeeData{Amount: 1_500, FeeBps: 10},
		Steps: []RoutePlanStepData{
			{
				AmmKey:     key(0x01),
				Label:      "Whirlpool",
				InputMint:  mintA,
				OutputMint: mid,
				InAmount:   100_000_000,
				OutAmount:  42_000,
				AllocPpb:   1_000_000_000,
				FeeMint:    &feeMint,
				FeeAmount:  u64(25),
			},
			{
				AmmKey:      key(0x02),
				Label:       "Raydium CLMM",
				InputMint:   mid,
				OutputMint:  mintB,
				InAmount:    42_000,
				OutAmount:   15_230_000,
				AllocPpb:    600_000_000,
				ContextSlot: u64(301_000_001),
			},
		},
		Instructions: []InstructionData{
			{
				Program: key(0x0a),
				Accounts: []AccountMetaData{
					{Pubkey: user, IsSigner: true, IsWritable: true},
					{Pubkey: key(0x0b), IsSigner: false, IsWritable: true},
					{Pubkey: key(0x0c), IsSigner: false, IsWritable: false},
				},
				Data: []byte{0xe5, 0x17, 0xcb, 0x97, 0x7a, 0xe3, 0xad, 0x2a, 0x00, 0xff},
			},
		},
		AddressLookupTables: [][32]byte{key(0x0d)},
		ContextSlot:         u64(301_000_000),
		TimeTakenNs:         u64(2_500_000_000),
		ExpiresAtMs:         u64(1_760_000_000_000),
		ExpiresAfterSlot:    u64(301_000_150),
		ComputeUnits:        u64(310_000),
		ComputeUnitsSafe:    u64(400_000),
	}
}

func testQuotes(routes ...RouteEntry) *SwapQuotes {
	return &SwapQuotes{
		ID:         "q-7f3a",
		InputMint:  mintA,
		OutputMint: mintB,
		SwapMode:   ExactIn,
		Amount:     100_000_000,
		Quotes:     routes,
	}
}

func testRequest() *QuoteRequest {
	return &QuoteRequest{
		InputMint:     mintA,
		OutputMint:    mintB,
		Amount:        100_000_000,
		UserPublicKey: user,
		SlippageBps:   50,
	}
}

func mustEncode(t *testing.T, q *SwapQuotes, positional bool) []byte {
	t.Helper()
	b, err := EncodeSwapQuotes(q, positional)
	require.NoError(t, err)
	return b
}
