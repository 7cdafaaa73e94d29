// Package diag defines the structured error type shared by the resolver,
// the net extractor and the synthesizers.
//
// Every failure carries a Kind so callers can branch on the failure class,
// plus the schematic breadcrumb (page number and block coordinate) that led
// to it. Errors wrap: the resolver re-wraps a low level failure with the
// page/block it was processing, and errors.Is / errors.As see through the
// whole chain.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota

	// Unknown-identifier errors
	KindUnknownCardType
	KindUnknownSignal
	KindUnknownPin
	KindUnknownBlock
	KindEmptySlot
	KindInvalidReference
	KindInvalidPinName

	// Topology-consistency errors
	KindLocationConflict
	KindSignalConflict
	KindAliasCycle
	KindNoDriver
	KindIncompatibleDrive
	KindMissingPull
	KindDuplicateWire
	KindUnboundPin

	// Malformed input files
	KindFormat
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindUnknownCardType:   "unknown card type",
	KindUnknownSignal:     "unknown signal",
	KindUnknownPin:        "unknown pin",
	KindUnknownBlock:      "unknown block",
	KindEmptySlot:         "empty slot",
	KindInvalidReference:  "invalid reference",
	KindInvalidPinName:    "invalid pin name",
	KindLocationConflict:  "location conflict",
	KindSignalConflict:    "signal conflict",
	KindAliasCycle:        "alias cycle",
	KindNoDriver:          "no driver on net",
	KindIncompatibleDrive: "incompatible drive types",
	KindMissingPull:       "missing pull resistor",
	KindDuplicateWire:     "pin claimed by two wires",
	KindUnboundPin:        "pin not bound to a net",
	KindFormat:            "format error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error lets a bare Kind be used as an errors.Is target:
//
//	errors.Is(err, diag.KindUnknownSignal)
func (k Kind) Error() string { return k.String() }

// Error is the structured failure record.
type Error struct {
	Kind       Kind
	Page       string   // page number, when known
	Coordinate string   // block coordinate on the page, when known
	Subject    string   // the offending identifier (signal, card type, pin, reference)
	Pins       []string // pin locations involved, for net-level failures
	Detail     string   // free-form explanation
	Err        error    // wrapped cause
}

// New creates an error of the given kind about subject.
func New(kind Kind, subject string) *Error {
	return &Error{Kind: kind, Subject: subject}
}

// Newf creates an error with a formatted detail message.
func Newf(kind Kind, subject, format string, args ...any) *Error {
	return &Error{Kind: kind, Subject: subject, Detail: fmt.Sprintf(format, args...)}
}

// WithPins returns e after recording the pins involved.
func (e *Error) WithPins(pins ...string) *Error {
	e.Pins = append(e.Pins, pins...)
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Page != "" || e.Coordinate != "" {
		fmt.Fprintf(&sb, "page/block %s/%s: ", e.Page, e.Coordinate)
	}
	// A wrapped diag error already describes itself; only add the breadcrumb.
	var inner *Error
	if e.Err != nil && errors.As(e.Err, &inner) {
		sb.WriteString(e.Err.Error())
		return sb.String()
	}
	sb.WriteString(e.Kind.String())
	if e.Subject != "" {
		fmt.Fprintf(&sb, " %q", e.Subject)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if len(e.Pins) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(e.Pins, ", "))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match against a bare Kind or against another *Error of the
// same kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind && (t.Subject == "" || e.Subject == t.Subject)
	}
	return false
}

// WithLocation wraps err with the page and block coordinate being processed.
// A nil err stays nil. The kind of the innermost diag error is preserved on
// the wrapper so callers inspecting the outermost error see the same class.
func WithLocation(err error, page, coordinate string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:       KindOf(err),
		Page:       page,
		Coordinate: coordinate,
		Subject:    SubjectOf(err),
		Err:        err,
	}
}

// KindOf returns the kind of the innermost *Error in err's chain, or
// KindUnknown when there is none.
func KindOf(err error) Kind {
	kind := KindUnknown
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			break
		}
		kind = de.Kind
		err = de.Err
	}
	return kind
}

// SubjectOf returns the subject of the innermost *Error in err's chain.
func SubjectOf(err error) string {
	subject := ""
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			break
		}
		if de.Subject != "" {
			subject = de.Subject
		}
		err = de.Err
	}
	return subject
}
