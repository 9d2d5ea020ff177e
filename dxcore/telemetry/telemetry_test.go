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

package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"dirpx.dev/dxview/dxcore/collection"
	"dirpx.dev/dxview/dxcore/telemetry"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func counts(sum metricdata.Sum[int64]) map[string]int64 {
	out := map[string]int64{}
	for _, dp := range sum.DataPoints {
		view, _ := dp.Attributes.Value(attribute.Key(telemetry.ViewAttr))
		action, _ := dp.Attributes.Value(attribute.Key(telemetry.ActionAttr))
		out[view.AsString()+"/"+action.AsString()] = dp.Value
	}
	return out
}

func TestInstrument(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()
	meter := provider.Meter("dxview-test")

	src := collection.NewList("a", "b")
	recorder, err := telemetry.Instrument[string](src, "src", meter)
	require.NoError(t, err)

	src.Append("c", "d")
	require.NoError(t, src.RemoveAt(0))
	require.NoError(t, src.Move(0, 2))
	require.NoError(t, src.Set(0, "x"))
	src.Append("e")
	assert.Equal(t, int64(5), recorder.Total())

	data := collect(t, reader)
	sum, ok := data[telemetry.ChangesMetric].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, map[string]int64{
		"src/add":     2,
		"src/remove":  1,
		"src/move":    1,
		"src/replace": 1,
	}, counts(sum))

	hist, ok := data[telemetry.ItemsMetric].(metricdata.Histogram[int64])
	require.True(t, ok)
	var total uint64
	var items int64
	for _, dp := range hist.DataPoints {
		total += dp.Count
		items += dp.Sum
	}
	assert.Equal(t, uint64(5), total)
	assert.Equal(t, int64(2+1+1+1+1), items)

	recorder.Close()
	recorder.Close()
	src.Append("f")
	assert.Equal(t, int64(5), recorder.Total())
}

func TestInstrument_Views(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()
	meter := provider.Meter("dxview-test")

	src := collection.NewList(1, 2, 3, 4)
	even, err := collection.NewFiltered[int](src, func(i int) bool { return i%2 == 0 })
	require.NoError(t, err)

	_, err = telemetry.Instrument[int](src, "src", meter)
	require.NoError(t, err)
	_, err = telemetry.Instrument[int](even, "even", meter)
	require.NoError(t, err)

	src.Append(5, 6)
	src.Append(7)

	sum := collect(t, reader)[telemetry.ChangesMetric].(metricdata.Sum[int64])
	assert.Equal(t, map[string]int64{"src/add": 2, "even/add": 1}, counts(sum))
}

func TestInstrument_Invalid(t *testing.T) {
	meter := sdkmetric.NewMeterProvider().Meter("dxview-test")

	_, err := telemetry.Instrument[int](nil, "x", meter)
	assert.Error(t, err)

	_, err = telemetry.Instrument[int](collection.NewList[int](), "x", nil)
	assert.Error(t, err)
}
