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

// Package model defines the contracts shared by dxview value types: the
// enum-like change actions, the scenario document and its parts, and the
// recorded results of a scenario run.
//
// Value types that cross a serialization boundary implement Model, which
// bundles validation, JSON/YAML round-tripping, safe logging, a canonical
// type name and zero-value detection. Types that only need to be checked
// (for example, pieces of a YAML document decoded by the enclosing type)
// implement the smaller Checked contract, which is all the batch helpers in
// this package require.
//
// Model types are value types. Methods SHOULD NOT mutate the receiver, and
// concurrent reads are safe. The live collections in package collection are
// not models: they are stateful, single-threaded objects.
package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Model is the root contract for dxview value types.
//
// Implementations MUST satisfy every embedded interface. Add a compile-time
// check next to each implementation:
//
//	var _ model.Model = (*Action)(nil)
//
// The enum-like types of this module (change.Action, scenario.Kind,
// scenario.Op) and scenario.FormatVersion implement Model. They follow one
// pattern:
//
//   - a String constant per value, used for text, JSON and YAML alike;
//   - Parse<Type> accepting those strings and returning an
//     *errors.ParseError for anything it does not recognize;
//   - Valid and Validate rejecting values built by converting an arbitrary
//     integer;
//   - marshal methods that refuse invalid values with an
//     *errors.MarshalError, and unmarshal methods that report bad input with
//     an *errors.UnmarshalError or *errors.ParseError.
//
// Following the pattern keeps every value that leaves the process in its
// canonical spelling, so recorded scenario results stay comparable across
// versions.
type Model interface {
	Validatable
	Serializable
	Loggable
	Identifiable
	ZeroCheckable
}

// Checked is the subset of Model needed to validate a value and name it in
// diagnostics.
type Checked interface {
	Validatable
	Identifiable
}

// Validatable is implemented by types that check their own invariants.
//
// Validate MUST be deterministic, MUST NOT mutate the receiver and MUST NOT
// have side effects such as logging. It returns nil if and only if the value
// is fully valid; otherwise the error SHOULD be an *errors.ValidationError
// naming the offending field.
//
// Composite values decide for themselves how much to report. A Step stops
// at its first problem, because later checks depend on earlier ones. A
// Document keeps going and aggregates every problem with ValidateAll, so a
// scenario author sees all mistakes in one run:
//
//	doc, err := scenario.Load("inbox.yaml")
//	if err != nil {
//	    // err names every invalid stage and step.
//	}
type Validatable interface {
	Validate() error
}

// Serializable is implemented by types with a stable JSON and YAML form.
//
// Marshal methods MUST reject invalid values instead of emitting them, and
// the unmarshal methods MUST accept everything the marshal methods produce.
// Unmarshal methods MAY accept more, such as uppercase action names or the
// shortened YAML format versions 1 and 1.0, but MUST normalize them so that
// marshaling the result yields the canonical form.
type Serializable interface {
	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
}

// Loggable provides a full and a redacted string form.
//
// Redacted MUST be safe to write to logs. Types without sensitive content
// return String from Redacted.
type Loggable interface {
	String() string
	Redacted() string
}

// Identifiable provides the canonical name of the type, used in error
// messages and structured logs.
type Identifiable interface {
	TypeName() string
}

// ZeroCheckable reports whether a value is the zero value of its type.
type ZeroCheckable interface {
	IsZero() bool
}
