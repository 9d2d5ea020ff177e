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
	"fmt"
	"io"
	"strings"
)

// Result is the record of one scenario run.
type Result struct {
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	Version  string        `json:"version" yaml:"version"`
	Steps    []StepResult  `json:"steps,omitempty" yaml:"steps,omitempty"`
	Stages   []StageResult `json:"stages" yaml:"stages"`
	Failures []Failure     `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// StepResult lists the notifications one step caused, per stage. Stages
// that published nothing are omitted.
type StepResult struct {
	Index  int            `json:"index" yaml:"index"`
	Step   string         `json:"step" yaml:"step"`
	Stages []StageChanges `json:"stages,omitempty" yaml:"stages,omitempty"`
}

// StageChanges holds the rendered notifications of one stage.
type StageChanges struct {
	Stage   string   `json:"stage" yaml:"stage"`
	Changes []string `json:"changes" yaml:"changes"`
}

// StageResult is the final content of one stage.
type StageResult struct {
	Name    string   `json:"name" yaml:"name"`
	Kind    string   `json:"kind" yaml:"kind"`
	Items   []string `json:"items" yaml:"items"`
	Changes int      `json:"changes" yaml:"changes"`
}

// Failure is a stage that did not match its expected content after a step.
// Step 0 is the initial build.
type Failure struct {
	Step   int    `json:"step" yaml:"step"`
	Stage  string `json:"stage" yaml:"stage"`
	Reason string `json:"reason" yaml:"reason"`
}

func (f Failure) String() string {
	return fmt.Sprintf("step %d: %s: %s", f.Step, f.Stage, f.Reason)
}

// OK reports whether the run had no failures.
func (r *Result) OK() bool { return len(r.Failures) == 0 }

// Stage returns the final content of the named stage.
func (r *Result) Stage(name string) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageResult{}, false
}

// WriteText writes a human-readable report.
func (r *Result) WriteText(w io.Writer) error {
	var b strings.Builder
	if r.Name != "" {
		fmt.Fprintf(&b, "scenario %s (format %s)\n", r.Name, r.Version)
	}
	for _, s := range r.Steps {
		fmt.Fprintf(&b, "step %d: %s\n", s.Index, s.Step)
		for _, sc := range s.Stages {
			for _, c := range sc.Changes {
				fmt.Fprintf(&b, "  %-12s %s\n", sc.Stage, c)
			}
		}
	}
	b.WriteString("final:\n")
	for _, s := range r.Stages {
		fmt.Fprintf(&b, "  %-12s [%s]\n", s.Name, strings.Join(s.Items, " "))
	}
	if r.OK() {
		b.WriteString("verified: ok\n")
	} else {
		fmt.Fprintf(&b, "verified: %d failure(s)\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
