package titan

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// DecodeSwapQuotes decodes a MessagePack quote/swap response body. Any
// mismatch with the expected layout is reported as a *DecodeError.
func DecodeSwapQuotes(buf []byte) (*SwapQuotes, error) {
	if len(buf) == 0 {
		return nil, &DecodeError{Err: errEmptyBody}
	}
	d := msgpack.NewDecoder(bytes.NewReader(buf))
	var q SwapQuotes
	if err := q.DecodeMsgpack(d); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &q, nil
}

// EncodeSwapQuotes is the inverse of DecodeSwapQuotes. With positional set
// every record is written as an array in field order instead of a map.
func EncodeSwapQuotes(q *SwapQuotes, positional bool) ([]byte, error) {
	var buf bytes.Buffer
	e := msgpack.NewEncoder(&buf)
	if err := q.encode(e, positional); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
