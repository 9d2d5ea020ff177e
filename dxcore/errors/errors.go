/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package errors provides the error types shared by every dxview package.
//
// The types fall into two families. The codec family (ParseError,
// MarshalError, UnmarshalError) is returned by enum-like types such as
// change.Action when text, JSON or YAML input cannot be interpreted. The
// collection family (InvalidSourceError, IndexOutOfRangeError,
// ValidationError) is returned, or raised as a panic value, by the live
// collection views when a caller violates their contract.
//
// All errors are simple value carriers with stable message formats prefixed
// by "dxview:". Callers recognize them with errors.As:
//
//	var oor *errors.IndexOutOfRangeError
//	if stderrors.As(err, &oor) {
//	    log.Warn("bad index", "index", oor.Index, "len", oor.Len)
//	}
//
// # Error Types
//
//   - ParseError
//     Returned when parsing a string into an enum-like type fails.
//
//   - MarshalError
//     Returned when marshaling an invalid enum-like value fails.
//
//   - UnmarshalError
//     Returned when unmarshaling data into an enum-like type fails.
//
//   - ValidationError
//     Returned by Validate methods and by view constructors and setters that
//     receive a nil function or are called on a closed view.
//
//   - InvalidSourceError
//     Returned when a value offered as a view source provides neither the
//     collection capability nor a recognized change feed.
//
//   - IndexOutOfRangeError
//     Returned by list mutators and change application when an index or
//     range does not fit the current sequence. Views panic with this type
//     when an upstream notification carries indices that do not fit their
//     buffer.
package errors

import (
	"strconv"
)

// ParseError reports text that names no constant of an enum-like type such
// as change.Action, scenario.Kind or scenario.Op.
//
// Type identifies the logical type being parsed (for example, "Action"), and
// Value contains the exact string that could not be interpreted.
//
// # Example
//
//	func ParseAction(s string) (Action, error) {
//	    switch s {
//	    case "add":
//	        return ActionAdd, nil
//	    default:
//	        // "dxview: invalid Action value: <value>"
//	        return 0, &errors.ParseError{Type: "Action", Value: s}
//	    }
//	}
type ParseError struct {
	// Type is the logical name of the type being parsed (for example, "Action").
	Type string

	// Value is the rejected input, verbatim.
	Value string
}

// Error implements the error interface for ParseError.
//
// The error message format is:
//
//	"dxview: invalid {Type} value: {Value}"
func (e *ParseError) Error() string {
	return "dxview: invalid " + e.Type + " value: " + e.Value
}

// MarshalError reports an attempt to encode an enum-like value that is not
// one of its declared constants.
//
// In most cases a MarshalError indicates a programming error, such as an
// Action built by converting an arbitrary integer.
type MarshalError struct {
	// Type is the logical name of the type being marshaled (for example, "Action").
	Type string

	// Value is the out-of-range integer.
	Value int
}

// Error implements the error interface for MarshalError.
//
// The error message format is:
//
//	"dxview: cannot marshal invalid {Type} value: {Value}"
//
// where Value is rendered as a decimal integer.
func (e *MarshalError) Error() string {
	return "dxview: cannot marshal invalid " + e.Type + " value: " + strconv.Itoa(e.Value)
}

// UnmarshalError reports JSON or YAML input that cannot be decoded into a
// dxview value.
//
// Type identifies the logical type being populated, Data contains the
// original raw payload, and Reason provides a human-readable description of
// what went wrong.
type UnmarshalError struct {
	// Type is the target type.
	Type string

	// Data is the raw input.
	Data []byte

	// Reason is the decoder's complaint.
	Reason string
}

// Error implements the error interface for UnmarshalError.
//
// The error message format is:
//
//	"dxview: cannot unmarshal {Type}: {Reason}"
//
// The Data field is not included in the formatted message; callers can log
// it separately when appropriate.
func (e *UnmarshalError) Error() string {
	return "dxview: cannot unmarshal " + e.Type + ": " + e.Reason
}

// ValidationError is returned when validation of a value fails.
//
// Type identifies the logical name of the type being validated (for example,
// "Change", "Filtered"), Field optionally identifies which field or parameter
// failed validation, Reason provides a human-readable explanation, and Value
// optionally contains the problematic value.
//
// # Example
//
//	func NewFiltered[T any](src Collection[T], pred func(T) bool) (*Filtered[T], error) {
//	    if pred == nil {
//	        return nil, &errors.ValidationError{
//	            Type:   "Filtered",
//	            Field:  "Filter",
//	            Reason: "must not be nil",
//	        }
//	    }
//	    ...
//	}
type ValidationError struct {
	// Type is the validated type or view kind.
	Type string

	// Field is the offending field or parameter, empty when the whole value
	// is rejected.
	Field string

	// Reason says what is wrong.
	Reason string

	// Value is the rejected value, if any.
	Value any
}

// Error implements the error interface for ValidationError.
//
// The error message format is:
//
//	"dxview: invalid {Type}.{Field}: {Reason}" (when Field is specified)
//	"dxview: invalid {Type}: {Reason}" (when Field is empty)
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "dxview: invalid " + e.Type + "." + e.Field + ": " + e.Reason
	}
	return "dxview: invalid " + e.Type + ": " + e.Reason
}

// InvalidSourceError is returned when a value cannot serve as the source of a
// view.
//
// Want names the capability that was required (for example,
// "Collection[string]"), and Got names the dynamic type that was offered, or
// "nil" when no source was given at all.
type InvalidSourceError struct {
	// Want is the required capability.
	Want string

	// Got is the dynamic type of the rejected value.
	Got string
}

// Error implements the error interface for InvalidSourceError.
//
// The error message format is:
//
//	"dxview: invalid source: {Got} does not provide {Want}"
func (e *InvalidSourceError) Error() string {
	return "dxview: invalid source: " + e.Got + " does not provide " + e.Want
}

// IndexOutOfRangeError reports an index or range that does not fit a
// sequence of length Len.
//
// Op names the operation that rejected the range (for example, "Insert" or
// "Filtered.remove"). Count is the number of elements the operation wanted
// to touch starting at Index.
type IndexOutOfRangeError struct {
	// Op is the rejecting operation.
	Op string

	// Index is the first index of the offending range.
	Index int

	// Count is the length of the offending range.
	Count int

	// Len is the length of the sequence at the time of the call.
	Len int
}

// Error implements the error interface for IndexOutOfRangeError.
//
// The error message format is:
//
//	"dxview: {Op}: index {Index} count {Count} out of range for length {Len}"
func (e *IndexOutOfRangeError) Error() string {
	return "dxview: " + e.Op + ": index " + strconv.Itoa(e.Index) +
		" count " + strconv.Itoa(e.Count) +
		" out of range for length " + strconv.Itoa(e.Len)
}

// CheckRange returns an IndexOutOfRangeError unless 0 <= index, 0 <= count
// and index+count <= length.
func CheckRange(op string, index, count, length int) error {
	if index < 0 || count < 0 || index+count > length {
		return &IndexOutOfRangeError{Op: op, Index: index, Count: count, Len: length}
	}
	return nil
}
