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
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"dirpx.dev/dxview/dxcore/collection"
	"dirpx.dev/dxview/dxcore/errors"
	"dirpx.dev/dxview/dxcore/model/change"
	"dirpx.dev/dxview/dxcore/telemetry"
)

// Option configures Run.
type Option func(*runner)

type runner struct {
	log   *slog.Logger
	meter metric.Meter
}

// WithLogger sets the logger for the run and its views.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMeter instruments every stage with a telemetry.Recorder.
func WithMeter(m metric.Meter) Option {
	return func(r *runner) { r.meter = m }
}

// Run executes doc and returns the recorded result. Verification failures
// are part of the result; Run returns an error only when doc is invalid, a
// step does not fit the source, or ctx is done.
func Run(ctx context.Context, doc *Document, opts ...Option) (*Result, error) {
	if doc == nil {
		return nil, &errors.ValidationError{Type: "Document", Reason: "must not be nil"}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	r := runner{log: slog.Default()}
	for _, opt := range opts {
		opt(&r)
	}
	log := r.log.With(slog.String("scenario", doc.Name))

	expanded := map[string]bool{}
	for _, name := range doc.Expanded {
		expanded[name] = true
	}

	p, err := build(doc, doc.Source, expanded, log)
	if err != nil {
		return nil, err
	}
	defer p.close()

	names := []string{SourceName}
	for _, s := range doc.Stages {
		names = append(names, s.Name)
	}

	recs := make(map[string]*recorder, len(names))
	for _, name := range names {
		rec := newRecorder(p.views[name])
		defer rec.stop()
		recs[name] = rec
	}

	if r.meter != nil {
		for _, name := range names {
			recorder, err := telemetry.Instrument(p.views[name], name, r.meter)
			if err != nil {
				return nil, err
			}
			defer recorder.Close()
		}
	}

	res := &Result{Name: doc.Name, Version: doc.Version.String()}
	res.Failures = append(res.Failures, verify(0, doc, p, recs, names, expanded)...)
	log.Debug("scenario built", slog.Int("stages", len(doc.Stages)), slog.Int("steps", len(doc.Steps)))

	for i, step := range doc.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := apply(p, step, expanded); err != nil {
			return nil, fmt.Errorf("step[%d] (%s): %w", i, step, err)
		}

		sr := StepResult{Index: i + 1, Step: step.String()}
		for _, name := range names {
			if changes := recs[name].take(); len(changes) > 0 {
				sr.Stages = append(sr.Stages, StageChanges{Stage: name, Changes: changes})
			}
		}
		res.Steps = append(res.Steps, sr)

		failures := verify(i+1, doc, p, recs, names, expanded)
		for _, f := range failures {
			log.Warn("verification failed", slog.Int("step", f.Step), slog.String("stage", f.Stage), slog.String("reason", f.Reason))
		}
		res.Failures = append(res.Failures, failures...)
		log.Debug("step applied", slog.Int("step", i+1), slog.String("op", step.Op.String()), slog.Int("stages", len(sr.Stages)))
	}

	for _, name := range names {
		kind := SourceName
		if s, ok := doc.Stage(name); ok {
			kind = s.Kind.String()
		}
		res.Stages = append(res.Stages, StageResult{
			Name:    name,
			Kind:    kind,
			Items:   collection.Items(p.views[name]),
			Changes: recs[name].total,
		})
	}
	return res, nil
}

func apply(p *pipeline, s Step, expanded map[string]bool) error {
	l := p.source
	switch s.Op {
	case OpAppend:
		l.Append(s.Items...)
	case OpInsert:
		return l.Insert(s.Index, s.Items...)
	case OpRemove:
		return l.RemoveRange(s.Index, s.count())
	case OpSet:
		return l.ReplaceRange(s.Index, s.Items...)
	case OpMove:
		return l.MoveRange(s.Index, s.count(), s.To)
	case OpClear:
		l.Clear()
	case OpReset:
		l.Reset(s.Items...)
	case OpExpand, OpCollapse:
		e, ok := p.expanders[s.Item]
		if !ok {
			return &errors.ValidationError{Type: "Step", Field: "Item", Reason: "names an item without children", Value: s.Item}
		}
		expanded[s.Item] = s.Op == OpExpand
		e.SetExpanded(expanded[s.Item])
	default:
		return s.Op.Validate()
	}
	return nil
}

// verify compares every stage with the replay of its notifications and with
// a pipeline rebuilt over the current source. A stage that fails is
// resynchronized so one defect is reported once.
func verify(step int, doc *Document, p *pipeline, recs map[string]*recorder, names []string, expanded map[string]bool) []Failure {
	var out []Failure
	fail := func(stage, format string, args ...any) {
		out = append(out, Failure{Step: step, Stage: stage, Reason: fmt.Sprintf(format, args...)})
	}

	fresh, err := build(doc, collection.Items(p.source), expanded, slog.New(slog.DiscardHandler))
	if err != nil {
		fail(SourceName, "rebuild: %v", err)
		return out
	}
	defer fresh.close()

	for _, name := range names {
		got := collection.Items(p.views[name])
		rec := recs[name]
		switch {
		case rec.err != nil:
			fail(name, "invalid notification: %v", rec.err)
			rec.resync(got)
		case !slices.Equal(rec.mirror, got):
			fail(name, "replay %s differs from view %s", render(rec.mirror), render(got))
			rec.resync(got)
		}
		if want := collection.Items(fresh.views[name]); !slices.Equal(want, got) {
			fail(name, "rebuild %s differs from view %s", render(want), render(got))
		}
	}
	return out
}

func render(items []string) string {
	return "[" + strings.Join(items, " ") + "]"
}

// recorder replays the notifications of one stage.
type recorder struct {
	mirror  []string
	pending []string
	total   int
	err     error
	stop    func()
}

func newRecorder(c collection.Collection[string]) *recorder {
	r := &recorder{mirror: collection.Items(c)}
	r.stop = collection.Watch(c, r.record)
	return r
}

func (r *recorder) record(c change.Change[string]) {
	r.pending = append(r.pending, c.String())
	r.total++
	if r.err != nil {
		return
	}
	if c.Action == change.ActionReset {
		r.err = fmt.Errorf("view published %s", c)
		return
	}
	if err := c.Validate(); err != nil {
		r.err = err
		return
	}
	next, err := c.Apply(r.mirror)
	if err != nil {
		r.err = err
		return
	}
	r.mirror = next
}

func (r *recorder) take() []string {
	out := r.pending
	r.pending = nil
	return out
}

func (r *recorder) resync(items []string) {
	r.mirror = slices.Clone(items)
	r.err = nil
}
