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

package scenario

import (
	"strconv"
	"unicode/utf8"

	"dirpx.dev/dxview/dxcore/errors"
)

// Key functions available to set and group stages.
const (
	KeyValue  = "value"
	KeyFirst  = "first"
	KeyLength = "length"
)

// SourceName refers to the scenario source in Stage.From and Stage.With.
const SourceName = "source"

// Stage declares one view of the pipeline. Only the parameters of its Kind
// are read.
type Stage struct {
	// Name identifies the stage in results and in other stages' From and
	// With fields.
	Name string `json:"name" yaml:"name"`

	// Kind selects the view.
	Kind Kind `json:"kind" yaml:"kind"`

	// From names the upstream stage. Empty means the source.
	From string `json:"from,omitempty" yaml:"from,omitempty"`

	Contains   string   `json:"contains,omitempty" yaml:"contains,omitempty"`
	Descending bool     `json:"descending,omitempty" yaml:"descending,omitempty"`
	Key        string   `json:"key,omitempty" yaml:"key,omitempty"`
	Format     string   `json:"format,omitempty" yaml:"format,omitempty"`
	Separator  string   `json:"separator,omitempty" yaml:"separator,omitempty"`
	With       []string `json:"with,omitempty" yaml:"with,omitempty"`
}

// Upstream returns the name of the stage feeding s.
func (s Stage) Upstream() string {
	if s.From == "" {
		return SourceName
	}
	return s.From
}

// TypeName returns "Stage".
func (s Stage) TypeName() string { return "Stage" }

// Validate checks the stage in isolation. References to other stages are
// checked by Document.Validate.
func (s Stage) Validate() error {
	invalid := func(field, reason string, value any) error {
		return &errors.ValidationError{Type: "Stage", Field: field, Reason: reason, Value: value}
	}

	if s.Name == "" {
		return invalid("Name", "must not be empty", nil)
	}
	if s.Name == SourceName {
		return invalid("Name", "is reserved", s.Name)
	}
	if err := s.Kind.Validate(); err != nil {
		return err
	}

	switch s.Kind {
	case KindFilter:
		if s.Contains == "" {
			return invalid("Contains", "must not be empty for filter", nil)
		}
	case KindSet, KindGroup:
		if _, err := keyFunc(s.Key); err != nil {
			return err
		}
	case KindConvert:
		if s.Format == "" {
			return invalid("Format", "must not be empty for convert", nil)
		}
	case KindConcat:
		if len(s.With) == 0 {
			return invalid("With", "must name at least one stage for concat", nil)
		}
	}
	return nil
}

// keyFunc returns the key function named by key. The empty name selects
// KeyValue.
func keyFunc(key string) (func(string) string, error) {
	switch key {
	case "", KeyValue:
		return func(s string) string { return s }, nil
	case KeyFirst:
		return func(s string) string {
			r, size := utf8.DecodeRuneInString(s)
			if size == 0 {
				return ""
			}
			return string(r)
		}, nil
	case KeyLength:
		return func(s string) string { return strconv.Itoa(utf8.RuneCountInString(s)) }, nil
	default:
		return nil, &errors.ValidationError{Type: "Stage", Field: "Key", Reason: "unknown key function", Value: key}
	}
}
