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
	stderrors "errors"
	"slices"
	"testing"

	"dirpx.dev/dxview/dxcore/errors"
)

func TestChange_Apply(t *testing.T) {
	tests := []struct {
		name   string
		buf    []string
		change Change[string]
		want   []string
	}{
		{"add front", []string{"b", "c"}, Added(0, "a"), []string{"a", "b", "c"}},
		{"add end", []string{"a"}, Added(1, "b", "c"), []string{"a", "b", "c"}},
		{"add empty", nil, Added(0, "a"), []string{"a"}},
		{"remove middle", []string{"a", "b", "c", "d"}, Removed(1, "b", "c"), []string{"a", "d"}},
		{"replace", []string{"a", "b", "c"}, Replaced(1, []string{"b"}, []string{"x"}), []string{"a", "x", "c"}},
		{"move forward", []string{"a", "b", "c", "d"}, Moved(0, 2, "a"), []string{"b", "c", "a", "d"}},
		{"move back", []string{"a", "b", "c", "d"}, Moved(3, 0, "d"), []string{"d", "a", "b", "c"}},
		{"move run", []string{"a", "b", "c", "d", "e"}, Moved(0, 3, "a", "b"), []string{"c", "d", "e", "a", "b"}},
		{"move run back", []string{"a", "b", "c", "d", "e"}, Moved(3, 1, "d", "e"), []string{"a", "d", "e", "b", "c"}},
		{"reset", []string{"a", "b"}, Reset("x"), []string{"x"}},
		{"reset empty", []string{"a", "b"}, Reset[string](), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.change.Apply(slices.Clone(tt.buf))
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChange_Apply_OutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		change Change[string]
	}{
		{"add past end", Added(3, "x")},
		{"remove past end", Removed(1, "b", "c")},
		{"replace negative", Replaced(-1, []string{"a"}, []string{"b"})},
		{"move source past end", Moved(2, 0, "c", "d")},
		{"move target past end", Moved(0, 1, "a", "b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := []string{"a", "b"}
			got, err := tt.change.Apply(buf)
			var oor *errors.IndexOutOfRangeError
			if !stderrors.As(err, &oor) {
				t.Fatalf("Apply() error = %v, want *IndexOutOfRangeError", err)
			}
			if !slices.Equal(got, []string{"a", "b"}) {
				t.Errorf("Apply() modified the buffer on error: %v", got)
			}
		})
	}
}

func TestChange_Validate(t *testing.T) {
	tests := []struct {
		name    string
		change  Change[int]
		wantErr bool
	}{
		{"add", Added(0, 1), false},
		{"add empty", Added[int](0), true},
		{"add negative", Added(-1, 1), true},
		{"remove", Removed(2, 1, 2), false},
		{"remove empty", Removed[int](0), true},
		{"replace", Replaced(1, []int{1}, []int{2}), false},
		{"replace length mismatch", Replaced(1, []int{1}, []int{2, 3}), true},
		{"replace index mismatch", Change[int]{Action: ActionReplace, OldItems: []int{1}, NewItems: []int{2}, OldIndex: 0, NewIndex: 1}, true},
		{"move", Moved(0, 3, 1), false},
		{"move negative", Moved(0, -1, 1), true},
		{"reset empty", Reset[int](), false},
		{"invalid action", Change[int]{Action: Action(42)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.change.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestChange_String(t *testing.T) {
	tests := []struct {
		name     string
		change   Change[string]
		want     string
		redacted string
	}{
		{"add", Added(2, "x", "y"), "add [x y] at 2", "add 2 at 2"},
		{"remove", Removed(0, "a"), "remove [a] at 0", "remove 1 at 0"},
		{"replace", Replaced(1, []string{"a"}, []string{"b"}), "replace [a] -> [b] at 1", "replace 1 at 1"},
		{"move", Moved(0, 3, "a"), "move [a] 0->3", "move 1 0->3"},
		{"reset", Reset("a"), "reset [a]", "reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.change.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.change.Redacted(); got != tt.redacted {
				t.Errorf("Redacted() = %q, want %q", got, tt.redacted)
			}
		})
	}
}

func TestChange_Len(t *testing.T) {
	if got := Added(0, 1, 2, 3).Len(); got != 3 {
		t.Errorf("Added().Len() = %d, want 3", got)
	}
	if got := Moved(0, 1, 7).Len(); got != 1 {
		t.Errorf("Moved().Len() = %d, want 1", got)
	}
	if got := Reset[int]().Len(); got != 0 {
		t.Errorf("Reset().Len() = %d, want 0", got)
	}
}

func TestChange_IsZero(t *testing.T) {
	if !(Change[int]{}).IsZero() {
		t.Error("zero Change IsZero() = false")
	}
	if Added(0, 1).IsZero() {
		t.Error("Added() IsZero() = true")
	}
}

func TestChange_JSON(t *testing.T) {
	data, err := json.Marshal(Moved(1, 0, "b"))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	want := `{"action":"move","oldItems":["b"],"newItems":["b"],"oldIndex":1,"newIndex":0}`
	if string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}

	var decoded Change[string]
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded.Action != ActionMove || decoded.OldIndex != 1 || decoded.NewIndex != 0 {
		t.Errorf("json.Unmarshal() = %+v", decoded)
	}
}
