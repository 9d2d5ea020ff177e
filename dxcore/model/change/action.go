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

package change

import (
	"encoding/json"

	"dirpx.dev/dxview/dxcore/errors"
	"dirpx.dev/dxview/dxcore/model"
	"gopkg.in/yaml.v3"
)

// Action identifies the kind of mutation a Change describes.
//
// Live views emit only ActionAdd, ActionRemove, ActionReplace and
// ActionMove. ActionReset exists so that views can accept it from sources
// they do not control; on receipt a view resynchronizes itself and
// re-publishes the difference as a Remove of its old content followed by an
// Add of its new content.
type Action int

const (
	// ActionAdd indicates that NewItems were inserted at NewIndex.
	ActionAdd Action = iota

	// ActionRemove indicates that OldItems were removed starting at OldIndex.
	ActionRemove

	// ActionReplace indicates that the run at OldIndex (equal to NewIndex)
	// now holds NewItems instead of OldItems.
	ActionReplace

	// ActionMove indicates that a run of elements left OldIndex and now
	// starts at NewIndex of the resulting sequence.
	ActionMove

	// ActionReset indicates that the whole content was replaced by NewItems.
	ActionReset
)

// String constants for Action values used in serialization, parsing and
// human-facing output. They MAY be persisted in scenario documents and
// recorded results; changing them is a breaking change.
const (
	ActionAddStr     = "add"
	ActionRemoveStr  = "remove"
	ActionReplaceStr = "replace"
	ActionMoveStr    = "move"
	ActionResetStr   = "reset"
)

// ParseAction converts a textual representation into an Action value.
//
// Lowercase, title-case and uppercase spellings of the canonical names are
// accepted. Any other input yields a *errors.ParseError.
func ParseAction(s string) (Action, error) {
	switch s {
	case ActionAddStr, "Add", "ADD":
		return ActionAdd, nil
	case ActionRemoveStr, "Remove", "REMOVE":
		return ActionRemove, nil
	case ActionReplaceStr, "Replace", "REPLACE":
		return ActionReplace, nil
	case ActionMoveStr, "Move", "MOVE":
		return ActionMove, nil
	case ActionResetStr, "Reset", "RESET":
		return ActionReset, nil
	default:
		return ActionAdd, &errors.ParseError{Type: "Action", Value: s}
	}
}

// String returns the canonical lowercase name of the Action, or "unknown"
// for values outside the defined constants.
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return ActionAddStr
	case ActionRemove:
		return ActionRemoveStr
	case ActionReplace:
		return ActionReplaceStr
	case ActionMove:
		return ActionMoveStr
	case ActionReset:
		return ActionResetStr
	default:
		return "unknown"
	}
}

// Valid reports whether the Action is one of the defined constants.
func (a Action) Valid() bool {
	return a >= ActionAdd && a <= ActionReset
}

// TypeName returns "Action".
func (a Action) TypeName() string {
	return "Action"
}

// Redacted returns the same string as String; actions carry no sensitive
// data.
func (a Action) Redacted() string {
	return a.String()
}

// IsZero reports whether the Action is ActionAdd, the zero value.
func (a Action) IsZero() bool {
	return a == ActionAdd
}

// Equal reports whether other is an Action (or non-nil *Action) with the
// same value.
func (a Action) Equal(other any) bool {
	switch v := other.(type) {
	case Action:
		return a == v
	case *Action:
		if v == nil {
			return false
		}
		return a == *v
	default:
		return false
	}
}

// Validate returns a *errors.ValidationError if the Action is not one of the
// defined constants.
func (a Action) Validate() error {
	if !a.Valid() {
		return &errors.ValidationError{
			Type:   "Action",
			Reason: "invalid Action value",
			Value:  int(a),
		}
	}
	return nil
}

// MarshalJSON encodes the Action as its canonical JSON string.
func (a Action) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return nil, &errors.MarshalError{Type: "Action", Value: int(a)}
	}
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either the canonical string form or the numeric
// value of a defined constant.
func (a *Action) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return &errors.UnmarshalError{Type: "Action", Data: data, Reason: "empty data"}
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &errors.UnmarshalError{Type: "Action", Data: data, Reason: err.Error()}
		}
		parsed, err := ParseAction(s)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}

	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return &errors.UnmarshalError{Type: "Action", Data: data, Reason: err.Error()}
	}
	if !Action(i).Valid() {
		return &errors.UnmarshalError{Type: "Action", Data: data, Reason: "invalid numeric value"}
	}
	*a = Action(i)
	return nil
}

// MarshalYAML encodes the Action as its canonical string.
func (a Action) MarshalYAML() (any, error) {
	if !a.Valid() {
		return nil, &errors.MarshalError{Type: "Action", Value: int(a)}
	}
	return a.String(), nil
}

// UnmarshalYAML decodes the canonical string form.
func (a *Action) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return &errors.UnmarshalError{Type: "Action", Data: []byte(node.Value), Reason: err.Error()}
	}
	parsed, err := ParseAction(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, &errors.MarshalError{Type: "Action", Value: int(a)}
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

var _ model.Model = (*Action)(nil)
