// Package protoerr provides the typed error vocabulary for the LCDd wire
// protocol, all of which renders as a single "huh? <message>" reply line.
package protoerr

import "fmt"

// Well-known error codes from the protocol's error vocabulary.
const (
	CodeNotReady           = "not_ready"
	CodeUnknownCommand     = "unknown_command"
	CodeBadArguments       = "bad_arguments"
	CodeUnknownScreenID    = "unknown_screen_id"
	CodeUnknownWidgetID    = "unknown_widget_id"
	CodeUnknownMenuID      = "unknown_menu_id"
	CodeDuplicateID        = "duplicate_id"
	CodeOutOfRange         = "out_of_range"
	CodeKeyAlreadyReserved = "key_already_reserved"
	CodeKeyNotReserved     = "key_not_reserved"
	CodeUnsupported        = "unsupported"
	CodeExhausted          = "resource_exhausted"
)

// Error is a protocol-level failure. Message is what the client sees after
// "huh? "; Code identifies the kind for programmatic callers (tests, the
// status API) without parsing the message text.
type Error struct {
	Code    string
	Message string
	Raw     error
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code, message string, raw error) *Error {
	return &Error{Code: code, Message: message, Raw: raw}
}

func (e *Error) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("%s (%v)", e.Message, e.Raw)
	}
	return e.Message
}

// Is lets errors.Is match on code alone, the way a caller distinguishes
// "unknown screen id" from "duplicate id" without string comparison.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Raw
}

// Reply renders the error as the wire line the client receives, per spec
// section 4.1: "Errors return `huh? <message>`".
func (e *Error) Reply() string {
	return "huh? " + e.Message
}

// Shorthand constructors for each error kind.
func NotReady() *Error           { return New(CodeNotReady, "Not ready") }
func UnknownCommand() *Error     { return New(CodeUnknownCommand, "Invalid command") }
func BadArguments() *Error       { return New(CodeBadArguments, "bad arguments") }
func UnknownScreenID() *Error    { return New(CodeUnknownScreenID, "Unknown screen id") }
func UnknownWidgetID() *Error    { return New(CodeUnknownWidgetID, "Unknown widget id") }
func UnknownMenuID() *Error      { return New(CodeUnknownMenuID, "Unknown menu id") }
func DuplicateID() *Error        { return New(CodeDuplicateID, "duplicate id") }
func OutOfRange(what string) *Error {
	return New(CodeOutOfRange, what+" out of range")
}
func KeyAlreadyReserved() *Error { return New(CodeKeyAlreadyReserved, "key already reserved") }
func KeyNotReserved() *Error     { return New(CodeKeyNotReserved, "key not reserved") }
func Unsupported(what string) *Error {
	return New(CodeUnsupported, what+" unsupported")
}
func InvalidParameter() *Error { return New(CodeBadArguments, "invalid parameter") }
