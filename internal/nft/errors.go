package nft

import (
	"fmt"
	"strconv"
)

// InputError reports text or a number that does not name a member of one of
// the closed nftables enumerations. It supports errors.Is matching against
// ErrInvalidInput and ErrUnrecognizedValue by Kind.
type InputError struct {
	Kind  ErrorKind
	What  string // enumeration name, e.g. "chain policy"
	Value string // offending input as received
}

// ErrorKind classifies an InputError.
type ErrorKind int

const (
	// KindInvalidInput marks text that failed to parse.
	KindInvalidInput ErrorKind = iota + 1
	// KindUnrecognizedValue marks a number outside a closed set of constants.
	KindUnrecognizedValue
)

// Error returns the formatted error string.
func (e *InputError) Error() string {
	switch e.Kind {
	case KindUnrecognizedValue:
		return fmt.Sprintf("nft: unrecognized %s %s", e.What, e.Value)
	default:
		return fmt.Sprintf("nft: invalid %s %q", e.What, e.Value)
	}
}

// Is supports errors.Is matching by Kind only.
func (e *InputError) Is(target error) bool {
	t, ok := target.(*InputError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors for the two input failure classes.
var (
	ErrInvalidInput      = &InputError{Kind: KindInvalidInput, What: "input"}
	ErrUnrecognizedValue = &InputError{Kind: KindUnrecognizedValue, What: "value"}
)

func invalidInput(what, value string) error {
	return &InputError{Kind: KindInvalidInput, What: what, Value: value}
}

func unrecognizedValue(what, value string) error {
	return &InputError{Kind: KindUnrecognizedValue, What: what, Value: value}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
