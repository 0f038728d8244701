// Copyright 2022 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestGatherer(t *testing.T) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_events_total",
		Help: "Test events.",
	})
	counter.Add(3)

	require.NoError(t, RegisterCollector("test", func() (prometheus.Collector, error) {
		return counter, nil
	}))
	defer UnregisterCollector("test")
	require.Error(t, RegisterCollector("test", nil))

	require.NoError(t, RegisterCollector("broken", func() (prometheus.Collector, error) {
		return nil, errors.New("no can do")
	}))
	defer UnregisterCollector("broken")

	require.Equal(t, []string{"broken", "test"}, Collectors())

	g, err := NewMetricGatherer()
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteText(buf, g))
	require.Contains(t, buf.String(), "# TYPE test_events_total counter")
	require.Contains(t, buf.String(), "test_events_total 3")
}
