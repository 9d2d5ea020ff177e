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
	"encoding/json"
	"fmt"
	"strings"

	bsemver "github.com/blang/semver/v4"
	"gopkg.in/yaml.v3"

	"dirpx.dev/dxview/dxcore/errors"
	"dirpx.dev/dxview/dxcore/model"
)

// FormatVersion is the semantic version of the scenario document format.
//
// Documents declare it in their "version" field. A reader accepts every
// version with the same Major as CurrentFormat; Minor and Patch only add
// optional fields. The zero value is 0.0.0 and is rejected by Validate.
type FormatVersion struct {
	Major int
	Minor int
	Patch int
}

// CurrentFormat is the document format written and understood by this
// package.
var CurrentFormat = FormatVersion{Major: 1}

// ParseFormatVersion parses "Major.Minor.Patch", tolerating a leading "v".
// Prerelease and build metadata are not allowed in a format version.
func ParseFormatVersion(s string) (FormatVersion, error) {
	bv, err := bsemver.Parse(strings.TrimPrefix(s, "v"))
	if err != nil {
		return FormatVersion{}, &errors.ParseError{Type: "FormatVersion", Value: s}
	}
	if len(bv.Pre) > 0 || len(bv.Build) > 0 {
		return FormatVersion{}, &errors.ParseError{Type: "FormatVersion", Value: s}
	}
	return FormatVersion{Major: int(bv.Major), Minor: int(bv.Minor), Patch: int(bv.Patch)}, nil
}

func (v FormatVersion) semver() bsemver.Version {
	return bsemver.Version{Major: uint64(v.Major), Minor: uint64(v.Minor), Patch: uint64(v.Patch)}
}

// String returns "Major.Minor.Patch".
func (v FormatVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Redacted returns String; versions carry no sensitive data.
func (v FormatVersion) Redacted() string { return v.String() }

// TypeName returns "FormatVersion".
func (v FormatVersion) TypeName() string { return "FormatVersion" }

// IsZero reports whether v is 0.0.0.
func (v FormatVersion) IsZero() bool { return v == FormatVersion{} }

// Compare returns -1, 0 or +1 as v is older than, equal to or newer than
// other.
func (v FormatVersion) Compare(other FormatVersion) int {
	return v.semver().Compare(other.semver())
}

// Validate rejects negative components and any Major other than
// CurrentFormat.Major.
func (v FormatVersion) Validate() error {
	if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
		return &errors.ValidationError{
			Type:   "FormatVersion",
			Reason: "components must not be negative",
			Value:  v.String(),
		}
	}
	if v.Major != CurrentFormat.Major {
		return &errors.ValidationError{
			Type:   "FormatVersion",
			Field:  "Major",
			Reason: fmt.Sprintf("unsupported format %s, want %d.x.x", v, CurrentFormat.Major),
			Value:  v.Major,
		}
	}
	return nil
}

// MarshalJSON encodes the version as a JSON string.
func (v FormatVersion) MarshalJSON() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON decodes a JSON string.
func (v *FormatVersion) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &errors.UnmarshalError{Type: "FormatVersion", Data: data, Reason: err.Error()}
	}
	parsed, err := ParseFormatVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML encodes the version as a string.
func (v FormatVersion) MarshalYAML() (any, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v.String(), nil
}

// UnmarshalYAML decodes a scalar. Unquoted values such as 1.0 are read as
// text, so "1" and "1.0" are completed to 1.0.0.
func (v *FormatVersion) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &errors.UnmarshalError{Type: "FormatVersion", Data: []byte(node.Value), Reason: "expected a scalar"}
	}
	s := node.Value
	switch strings.Count(strings.TrimPrefix(s, "v"), ".") {
	case 0:
		s += ".0.0"
	case 1:
		s += ".0"
	}
	parsed, err := ParseFormatVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

var _ model.Model = (*FormatVersion)(nil)
