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

// Package scenario runs scripted mutations through a pipeline of live views
// and verifies every view after every step.
//
// A scenario is a YAML document:
//
//	version: 1.0.0
//	name: inbox
//	source: [b, a, c]
//	children:
//	  a: [a1, a2]
//	stages:
//	  - {name: sorted, kind: sort}
//	  - {name: tree, kind: expand, from: sorted}
//	steps:
//	  - {op: insert, index: 0, items: [d]}
//	  - {op: expand, item: a}
//
// Run builds the pipeline over a collection.List holding the source,
// applies the steps in order and records the notifications of every stage.
// After each step it checks that every stage equals the replay of its own
// notifications and a pipeline rebuilt from scratch over the current
// source. Any difference is reported as a Failure.
package scenario

import (
	"fmt"
	"os"
	"slices"

	"dirpx.dev/rxmerr"

	"dirpx.dev/dxview/dxcore/errors"
	"dirpx.dev/dxview/dxcore/model"
)

// Document is a parsed scenario.
type Document struct {
	Version  FormatVersion       `json:"version" yaml:"version"`
	Name     string              `json:"name,omitempty" yaml:"name,omitempty"`
	Source   []string            `json:"source,omitempty" yaml:"source,omitempty"`
	Children map[string][]string `json:"children,omitempty" yaml:"children,omitempty"`
	Expanded []string            `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	Stages   []Stage             `json:"stages" yaml:"stages"`
	Steps    []Step              `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// Parse decodes and validates a YAML scenario.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := model.FromYAML(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the scenario at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// TypeName returns "Document".
func (d Document) TypeName() string { return "Document" }

// Stage returns the stage named name.
func (d Document) Stage(name string) (Stage, bool) {
	i := slices.IndexFunc(d.Stages, func(s Stage) bool { return s.Name == name })
	if i < 0 {
		return Stage{}, false
	}
	return d.Stages[i], true
}

// Validate checks the document and reports every problem found, not just
// the first.
func (d Document) Validate() error {
	c := rxmerr.NewCollector()

	if err := d.Version.Validate(); err != nil {
		c.Append(err)
	}
	if len(d.Stages) == 0 {
		c.Append(&errors.ValidationError{Type: "Document", Field: "Stages", Reason: "must not be empty"})
	}
	if err := model.ValidateAll("stage", d.Stages); err != nil {
		c.Append(err)
	}
	if err := model.ValidateAll("step", d.Steps); err != nil {
		c.Append(err)
	}

	// A stage may only read the source or a stage declared before it.
	known := map[string]bool{SourceName: true}
	for i, s := range d.Stages {
		refs := append([]string{s.Upstream()}, s.With...)
		for _, ref := range refs {
			if !known[ref] {
				c.Append(fmt.Errorf("stage[%d] (Stage): %w", i, &errors.ValidationError{
					Type:   "Stage",
					Field:  "From",
					Reason: "must name the source or an earlier stage",
					Value:  ref,
				}))
			}
		}
		if known[s.Name] && s.Name != "" {
			c.Append(fmt.Errorf("stage[%d] (Stage): %w", i, &errors.ValidationError{
				Type:   "Stage",
				Field:  "Name",
				Reason: "must be unique",
				Value:  s.Name,
			}))
		}
		known[s.Name] = true
	}

	for _, name := range d.Expanded {
		if _, ok := d.Children[name]; !ok {
			c.Append(&errors.ValidationError{
				Type:   "Document",
				Field:  "Expanded",
				Reason: "names an item without children",
				Value:  name,
			})
		}
	}
	for i, s := range d.Steps {
		if s.Op != OpExpand && s.Op != OpCollapse {
			continue
		}
		if _, ok := d.Children[s.Item]; !ok {
			c.Append(fmt.Errorf("step[%d] (Step): %w", i, &errors.ValidationError{
				Type:   "Step",
				Field:  "Item",
				Reason: "names an item without children",
				Value:  s.Item,
			}))
		}
	}

	return c.Err()
}
