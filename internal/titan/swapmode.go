package titan

import "fmt"

// SwapMode selects which side of the trade the requested amount fixes.
type SwapMode uint8

const (
	ExactIn SwapMode = iota
	ExactOut
)

func (m SwapMode) String() string {
	switch m {
	case ExactIn:
		return "ExactIn"
	case ExactOut:
		return "ExactOut"
	default:
		return fmt.Sprintf("SwapMode(%d)", uint8(m))
	}
}

// ParseSwapMode accepts exactly "ExactIn" or "ExactOut".
func ParseSwapMode(s string) (SwapMode, error) {
	switch s {
	case "ExactIn":
		return ExactIn, nil
	case "ExactOut":
		return ExactOut, nil
	default:
		return ExactIn, fmt.Errorf("%q is not a valid swap mode", s)
	}
}

func (m SwapMode) MarshalText() ([]byte, error) {
	if m != ExactIn && m != ExactOut {
		return nil, fmt.Errorf("invalid swap mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *SwapMode) UnmarshalText(b []byte) error {
	v, err := ParseSwapMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
