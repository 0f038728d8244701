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

package pager

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func gatherValues(t *testing.T, c prometheus.Collector) map[string]*dto.Metric {
	t.Helper()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
	families, err := reg.Gather()
	require.NoError(t, err)

	metrics := map[string]*dto.Metric{}
	for _, family := range families {
		require.Len(t, family.GetMetric(), 1, family.GetName())
		metrics[family.GetName()] = family.GetMetric()[0]
	}
	return metrics
}

func TestCollector(t *testing.T) {
	_, err := NewCollector(nil)
	require.Error(t, err)

	s, r := newTestSession(t, PolicyFIFO, 4, 16)
	replay(t, s, r, "R1,W2,W1,R3,R4,R1,R5,W1,R2")

	c, err := NewCollector(s)
	require.NoError(t, err)
	require.Equal(t, numDescriptors, testutil.CollectAndCount(c))

	metrics := gatherValues(t, c)
	require.Len(t, metrics, numDescriptors)

	for name, expected := range map[string]float64{
		"pager_page_faults_total":    7,
		"pager_write_backs_total":    2,
		"pager_evictions_total":      3,
		"pager_write_upgrades_total": 3,
	} {
		m := metrics[name]
		require.NotNil(t, m, name)
		require.Equal(t, expected, m.GetCounter().GetValue(), name)
		require.Len(t, m.GetLabel(), 1)
		require.Equal(t, "policy", m.GetLabel()[0].GetName())
		require.Equal(t, PolicyFIFO, m.GetLabel()[0].GetValue())
	}
	require.Equal(t, 4.0, metrics["pager_resident_pages"].GetGauge().GetValue())
	require.Equal(t, 4.0, metrics["pager_frames"].GetGauge().GetValue())
	require.NotNil(t, metrics["pager_fault_rate"].GetGauge())
}
