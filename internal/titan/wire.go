package titan

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// SwapQuotes is the decoded body of a quote/swap response.
type SwapQuotes struct {
	ID         string
	InputMint  [32]byte
	OutputMint [32]byte
	SwapMode   SwapMode
	Amount     uint64

	// Quotes holds the alternative routes in the order the service sent them.
	Quotes []RouteEntry
}

// RouteEntry pairs a route with the opaque id the service keyed it by.
type RouteEntry struct {
	ID    string
	Route SwapRoute
}

// SwapRoute is one complete route as sent by the service. Nil pointers mean
// the field was absent on the wire.
type SwapRoute struct {
	InAmount            uint64
	OutAmount           uint64
	SlippageBps         uint16
	PlatformFee         *PlatformFeeData
	Steps               []RoutePlanStepData
	Instructions        []InstructionData
	AddressLookupTables [][32]byte
	ContextSlot         *uint64
	TimeTakenNs         *uint64
	ExpiresAtMs         *uint64
	ExpiresAfterSlot    *uint64
	ComputeUnits        *uint64
	ComputeUnitsSafe    *uint64
	Transaction         []byte
	ReferenceID         *string
}

type RoutePlanStepData struct {
	AmmKey      [32]byte
	Label       string
	InputMint   [32]byte
	OutputMint  [32]byte
	InAmount    uint64
	OutAmount   uint64
	AllocPpb    uint32
	FeeMint     *[32]byte
	FeeAmount   *uint64
	ContextSlot *uint64
}

// InstructionData is a compact instruction: program, accounts, data.
type InstructionData struct {
	Program  [32]byte
	Accounts []AccountMetaData
	Data     []byte
}

type AccountMetaData struct {
	Pubkey     [32]byte
	IsSigner   bool
	IsWritable bool
}

type PlatformFeeData struct {
	Amount uint64
	FeeBps uint8
}

// Route returns the route keyed by id.
func (q *SwapQuotes) Route(id string) (*SwapRoute, bool) {
	for i := range q.Quotes {
		if q.Quotes[i].ID == id {
			return &q.Quotes[i].Route, true
		}
	}
	return nil, false
}

var (
	_ msgpack.CustomDecoder = (*SwapQuotes)(nil)
	_ msgpack.CustomEncoder = (*SwapQuotes)(nil)
)

func (q *SwapQuotes) DecodeMsgpack(d *msgpack.Decoder) error {
	return decodeRecord(d, "SwapQuotes", []field{
		{name: "id", required: true, decode: stringField(&q.ID)},
		{name: "inputMint", required: true, decode: pubkeyField(&q.InputMint)},
		{name: "outputMint", required: true, decode: pubkeyField(&q.OutputMint)},
		{name: "swapMode", required: true, decode: swapModeField(&q.SwapMode)},
		{name: "amount", required: true, decode: uint64Field(&q.Amount)},
		{name: "quotes", required: true, decode: q.decodeQuotes},
	})
}

// decodeQuotes reads the route map key by key so wire order survives.
func (q *SwapQuotes) decodeQuotes(d *msgpack.Decoder) error {
	c, err := d.PeekCode()
	if err != nil {
		return err
	}
	if !isMapCode(c) {
		return fmt.Errorf("expected map, got code 0x%02x", c)
	}
	n, err := d.DecodeMapLen()
	if err != nil {
		return err
	}
	q.Quotes = make([]RouteEntry, 0, n)
	for i := 0; i < n; i++ {
		var id string
		if err := stringField(&id)(d); err != nil {
			return fmt.Errorf("route id: %w", err)
		}
		if _, dup := q.Route(id); dup {
			return fmt.Errorf("duplicate route id %q", id)
		}
		entry := RouteEntry{ID: id}
		if err := entry.Route.decode(d); err != nil {
			return fmt.Errorf("[%q]: %w", id, err)
		}
		q.Quotes = append(q.Quotes, entry)
	}
	return nil
}

func (r *SwapRoute) decode(d *msgpack.Decoder) error {
	return decodeRecord(d, "SwapRoute", []field{
		{name: "inAmount", required: true, decode: uint64Field(&r.InAmount)},
		{name: "outAmount", required: true, decode: uint64Field(&r.OutAmount)},
		{name: "slippageBps", required: true, decode: uint16Field(&r.SlippageBps)},
		{name: "platformFee", decode: r.decodePlatformFee},
		{name: "steps", required: true, decode: func(d *msgpack.Decoder) error {
			r.Steps = nil
			return decodeList(d, func(int) error {
				var s RoutePlanStepData
				if err := s.decode(d); err != nil {
					return err
				}
				r.Steps = append(r.Steps, s)
				return nil
			})
		}},
		{name: "instructions", required: true, decode: func(d *msgpack.Decoder) error {
			r.Instructions = nil
			return decodeList(d, func(int) error {
				var ix InstructionData
				if err := ix.decode(d); err != nil {
					return err
				}
				r.Instructions = append(r.Instructions, ix)
				return nil
			})
		}},
		{name: "addressLookupTables", required: true, decode: func(d *msgpack.Decoder) error {
			r.AddressLookupTables = nil
			return decodeList(d, func(int) error {
				var pk [32]byte
				if err := pubkeyField(&pk)(d); err != nil {
					return err
				}
				r.AddressLookupTables = append(r.AddressLookupTables, pk)
				return nil
			})
		}},
		{name: "contextSlot", decode: optUint64Field(&r.ContextSlot)},
		{name: "timeTakenNs", decode: optUint64Field(&r.TimeTakenNs)},
		{name: "expiresAtMs", decode: optUint64Field(&r.ExpiresAtMs)},
		{name: "expiresAfterSlot", decode: optUint64Field(&r.ExpiresAfterSlot)},
		{name: "computeUnits", decode: optUint64Field(&r.ComputeUnits)},
		{name: "computeUnitsSafe", decode: optUint64Field(&r.ComputeUnitsSafe)},
		{name: "transaction", decode: bytesField(&r.Transaction)},
		{name: "referenceId", decode: optStringField(&r.ReferenceID)},
	})
}

func (r *SwapRoute) decodePlatformFee(d *msgpack.Decoder) error {
	isNil, err := peekNil(d)
	if err != nil {
		return err
	}
	if isNil {
		r.PlatformFee = nil
		return d.DecodeNil()
	}
	var fee PlatformFeeData
	if err := decodeRecord(d, "PlatformFee", []field{
		{name: "amount", required: true, decode: uint64Field(&fee.Amount)},
		{name: "feeBps", required: true, decode: uint8Field(&fee.FeeBps)},
	}); err != nil {
		return err
	}
	r.PlatformFee = &fee
	return nil
}

func (s *RoutePlanStepData) decode(d *msgpack.Decoder) error {
	return decodeRecord(d, "RoutePlanStep", []field{
		{name: "ammKey", required: true, decode: pubkeyField(&s.AmmKey)},
		{name: "label", required: true, decode: stringField(&s.Label)},
		{name: "inputMint", required: true, decode: pubkeyField(&s.InputMint)},
		{name: "outputMint", required: true, decode: pubkeyField(&s.OutputMint)},
		{name: "inAmount", required: true, decode: uint64Field(&s.InAmount)},
		{name: "outAmount", required: true, decode: uint64Field(&s.OutAmount)},
		{name: "allocPpb", required: true, decode: uint32Field(&s.AllocPpb)},
		{name: "feeMint", decode: optPubkeyField(&s.FeeMint)},
		{name: "feeAmount", decode: optUint64Field(&s.FeeAmount)},
		{name: "contextSlot", decode: optUint64Field(&s.ContextSlot)},
	})
}

func (ix *InstructionData) decode(d *msgpack.Decoder) error {
	return decodeRecord(d, "Instruction", []field{
		{name: "p", required: true, decode: pubkeyField(&ix.Program)},
		{name: "a", required: true, decode: func(d *msgpack.Decoder) error {
			ix.Accounts = nil
			return decodeList(d, func(int) error {
				var m AccountMetaData
				if err := decodeRecord(d, "AccountMeta", []field{
					{name: "p", required: true, decode: pubkeyField(&m.Pubkey)},
					{name: "s", required: true, decode: boolField(&m.IsSigner)},
					{name: "w", required: true, decode: boolField(&m.IsWritable)},
				}); err != nil {
					return err
				}
				ix.Accounts = append(ix.Accounts, m)
				return nil
			})
		}},
		{name: "d", required: true, decode: bytesField(&ix.Data)},
	})
}

// swapModeField accepts the variant name, its index, or a single-key map
// keyed by the variant name.
func swapModeField(dst *SwapMode) func(*msgpack.Decoder) error {
	return func(d *msgpack.Decoder) error {
		c, err := d.PeekCode()
		if err != nil {
			return err
		}
		switch {
		case isStringCode(c):
			s, err := d.DecodeString()
			if err != nil {
				return err
			}
			m, err := ParseSwapMode(s)
			if err != nil {
				return err
			}
			*dst = m
			return nil
		case isMapCode(c):
			n, err := d.DecodeMapLen()
			if err != nil {
				return err
			}
			if n != 1 {
				return fmt.Errorf("swap mode map must have one entry, got %d", n)
			}
			var s string
			if err := stringField(&s)(d); err != nil {
				return err
			}
			m, err := ParseSwapMode(s)
			if err != nil {
				return err
			}
			if err := d.Skip(); err != nil {
				return err
			}
			*dst = m
			return nil
		default:
			v, err := decodeUint(d, 8)
			if err != nil {
				return fmt.Errorf("swap mode: %w", err)
			}
			if v > uint64(ExactOut) {
				return fmt.Errorf("swap mode index %d out of range", v)
			}
			*dst = SwapMode(v)
			return nil
		}
	}
}

// EncodeMsgpack writes the named (map) form.
func (q *SwapQuotes) EncodeMsgpack(e *msgpack.Encoder) error {
	return q.encode(e, false)
}

func (q *SwapQuotes) encode(e *msgpack.Encoder, positional bool) error {
	if q.SwapMode != ExactIn && q.SwapMode != ExactOut {
		return fmt.Errorf("invalid swap mode %d", uint8(q.SwapMode))
	}
	return encodeRecord(e, positional, []outField{
		{name: "id", encode: encString(q.ID)},
		{name: "inputMint", encode: encPubkey(q.InputMint)},
		{name: "outputMint", encode: encPubkey(q.OutputMint)},
		{name: "swapMode", encode: encString(q.SwapMode.String())},
		{name: "amount", encode: encUint(q.Amount)},
		{name: "quotes", encode: func(e *msgpack.Encoder) error {
			if err := e.EncodeMapLen(len(q.Quotes)); err != nil {
				return err
			}
			for i := range q.Quotes {
				if err := e.EncodeString(q.Quotes[i].ID); err != nil {
					return err
				}
				if err := q.Quotes[i].Route.encode(e, positional); err != nil {
					return fmt.Errorf("[%q]: %w", q.Quotes[i].ID, err)
				}
			}
			return nil
		}},
	})
}

func (r *SwapRoute) encode(e *msgpack.Encoder, positional bool) error {
	fee := outField{name: "platformFee", absent: r.PlatformFee == nil}
	if r.PlatformFee != nil {
		pf := *r.PlatformFee
		fee.encode = func(e *msgpack.Encoder) error {
			return encodeRecord(e, positional, []outField{
				{name: "amount", encode: encUint(pf.Amount)},
				{name: "feeBps", encode: encUint(uint64(pf.FeeBps))},
			})
		}
	}
	ref := outField{name: "referenceId", absent: r.ReferenceID == nil}
	if r.ReferenceID != nil {
		ref.encode = encString(*r.ReferenceID)
	}

	return encodeRecord(e, positional, []outField{
		{name: "inAmount", encode: encUint(r.InAmount)},
		{name: "outAmount", encode: encUint(r.OutAmount)},
		{name: "slippageBps", encode: encUint(uint64(r.SlippageBps))},
		fee,
		{name: "steps", encode: encList(len(r.Steps), func(e *msgpack.Encoder, i int) error {
			return r.Steps[i].encode(e, positional)
		})},
		{name: "instructions", encode: encList(len(r.Instructions), func(e *msgpack.Encoder, i int) error {
			return r.Instructions[i].encode(e, positional)
		})},
		{name: "addressLookupTables", encode: encList(len(r.AddressLookupTables), func(e *msgpack.Encoder, i int) error {
			return e.EncodeBytes(r.AddressLookupTables[i][:])
		})},
		encOptUint("contextSlot", r.ContextSlot),
		encOptUint("timeTakenNs", r.TimeTakenNs),
		encOptUint("expiresAtMs", r.ExpiresAtMs),
		encOptUint("expiresAfterSlot", r.ExpiresAfterSlot),
		encOptUint("computeUnits", r.ComputeUnits),
		encOptUint("computeUnitsSafe", r.ComputeUnitsSafe),
		{name: "transaction", absent: r.Transaction == nil, encode: encBytes(r.Transaction)},
		ref,
	})
}

func (s *RoutePlanStepData) encode(e *msgpack.Encoder, positional bool) error {
	feeMint := outField{name: "feeMint", absent: s.FeeMint == nil}
	if s.FeeMint != nil {
		feeMint.encode = encPubkey(*s.FeeMint)
	}
	return encodeRecord(e, positional, []outField{
		{name: "ammKey", encode: encPubkey(s.AmmKey)},
		{name: "label", encode: encString(s.Label)},
		{name: "inputMint", encode: encPubkey(s.InputMint)},
		{name: "outputMint", encode: encPubkey(s.OutputMint)},
		{name: "inAmount", encode: encUint(s.InAmount)},
		{name: "outAmount", encode: encUint(s.OutAmount)},
		{name: "allocPpb", encode: encUint(uint64(s.AllocPpb))},
		feeMint,
		encOptUint("feeAmount", s.FeeAmount),
		encOptUint("contextSlot", s.ContextSlot),
	})
}

func (ix *InstructionData) encode(e *msgpack.Encoder, positional bool) error {
	return encodeRecord(e, positional, []outField{
		{name: "p", encode: encPubkey(ix.Program)},
		{name: "a", encode: encList(len(ix.Accounts), func(e *msgpack.Encoder, i int) error {
			m := ix.Accounts[i]
			return encodeRecord(e, positional, []outField{
				{name: "p", encode: encPubkey(m.Pubkey)},
				{name: "s", encode: encBool(m.IsSigner)},
				{name: "w", encode: encBool(m.IsWritable)},
			})
		})},
		{name: "d", encode: encBytes(ix.Data)},
	})
}
