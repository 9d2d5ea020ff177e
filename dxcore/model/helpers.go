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

package model

import (
	"encoding/json"
	"fmt"

	"dirpx.dev/rxmerr"
	"gopkg.in/yaml.v3"
)

// ValidateAll validates every value and returns the combined failures, or nil
// when all values are valid.
//
// The whole slice is always visited. Each failure is wrapped with the value's
// position and type name, so a scenario with three bad steps reports all
// three at once:
//
//	step[1] (Step): dxview: invalid Step.Index: must not be negative
//	step[4] (Step): dxview: invalid Step.Op: invalid Op value
//
// label names the slice in those messages ("step", "stage"); an empty label
// defaults to "model".
func ValidateAll[T Checked](label string, values []T) error {
	if label == "" {
		label = "model"
	}

	c := rxmerr.NewCollector()

	for i, v := range values {
		if err := v.Validate(); err != nil {
			c.Append(fmt.Errorf("%s[%d] (%s): %w", label, i, v.TypeName(), err))
		}
	}

	return c.Err()
}

// MustValidate returns v, or panics if v is invalid.
//
// It is meant for tests and for package-level values built from constants,
// where an invalid value is a programming error.
func MustValidate[T Checked](v T) T {
	if err := v.Validate(); err != nil {
		panic(fmt.Sprintf("model validation failed for %s: %v", v.TypeName(), err))
	}
	return v
}

// ToJSON validates v and then encodes it as JSON.
func ToJSON[T Checked](v T) ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", v.TypeName(), err)
	}
	return json.Marshal(v)
}

// ToYAML validates v and then encodes it as YAML.
func ToYAML[T Checked](v T) ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", v.TypeName(), err)
	}
	return yaml.Marshal(v)
}

// FromYAML decodes data into v and validates the result.
//
// If FromYAML returns an error the state of *v is undefined and MUST NOT be
// used.
func FromYAML[T Checked](data []byte, v *T) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cannot unmarshal YAML: %w", err)
	}
	if err := (*v).Validate(); err != nil {
		return fmt.Errorf("unmarshaled model is invalid: %w", err)
	}
	return nil
}
