package quote

import (
	"errors"
	"fmt"
)

// minQuoteFields is the minimum field count of a realtime quote record.
// The offsets used by the parser are part of the upstream wire contract.
const minQuoteFields = 32

// ErrEmptyPayload means the quoted section of the response was empty,
// which the service uses to signal an unknown symbol.
var ErrEmptyPayload = errors.New("empty quote payload")

// FieldCountError reports a realtime record with fewer fields than the
// wire contract requires.
type FieldCountError struct {
	Want int
	Got  int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("quote record has %d fields, want at least %d", e.Got, e.Want)
}
