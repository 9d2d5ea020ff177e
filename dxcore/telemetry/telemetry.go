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

// Package telemetry exports OpenTelemetry metrics for live collections.
//
// Instrument attaches a Recorder to any collection. The recorder is an
// ordinary observer: it counts the notifications the collection publishes
// and records how many elements each one carries.
//
//	recorder, err := telemetry.Instrument(view, "inbox.sorted", otel.Meter("dxview"))
//	if err != nil {
//	    return err
//	}
//	defer recorder.Close()
//
// Metrics:
//
//   - dxview.changes (counter): notifications, by view and action.
//   - dxview.change.items (histogram): elements per notification, by view
//     and action.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"dirpx.dev/dxview/dxcore/collection"
	"dirpx.dev/dxview/dxcore/errors"
	"dirpx.dev/dxview/dxcore/model/change"
)

// Metric and attribute names.
const (
	ChangesMetric = "dxview.changes"
	ItemsMetric   = "dxview.change.items"
	ViewAttr      = "view"
	ActionAttr    = "action"
)

// Recorder observes one collection and records its notifications.
type Recorder[T any] struct {
	c       collection.Collection[T]
	view    attribute.KeyValue
	changes metric.Int64Counter
	items   metric.Int64Histogram
	total   int64
	closed  bool
}

// Instrument subscribes a new Recorder to c. name is reported as the view
// attribute.
func Instrument[T any](c collection.Collection[T], name string, meter metric.Meter) (*Recorder[T], error) {
	if c == nil {
		return nil, &errors.InvalidSourceError{Want: "Collection", Got: "nil"}
	}
	if meter == nil {
		return nil, &errors.ValidationError{Type: "Recorder", Field: "Meter", Reason: "must not be nil"}
	}

	changes, err := meter.Int64Counter(
		ChangesMetric,
		metric.WithDescription("Change notifications published by a view"),
		metric.WithUnit("{change}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", ChangesMetric, err)
	}

	items, err := meter.Int64Histogram(
		ItemsMetric,
		metric.WithDescription("Elements carried by one change notification"),
		metric.WithUnit("{item}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 4, 8, 16, 32, 64, 128),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", ItemsMetric, err)
	}

	p := &Recorder[T]{
		c:       c,
		view:    attribute.String(ViewAttr, name),
		changes: changes,
		items:   items,
	}
	c.Subscribe(p)
	return p, nil
}

// CollectionChanged implements collection.Observer.
func (p *Recorder[T]) CollectionChanged(c change.Change[T]) {
	if p.closed {
		return
	}
	p.total++
	attrs := metric.WithAttributes(p.view, attribute.String(ActionAttr, c.Action.String()))
	ctx := context.Background()
	p.changes.Add(ctx, 1, attrs)
	p.items.Record(ctx, int64(c.Len()), attrs)
}

// Total returns the number of notifications seen so far.
func (p *Recorder[T]) Total() int64 { return p.total }

// Close unsubscribes the recorder.
func (p *Recorder[T]) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.c.Unsubscribe(p)
}
