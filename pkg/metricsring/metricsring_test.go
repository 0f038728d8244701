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

package metricsring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestMetricsRing(t *testing.T) {
	cases := []struct {
		name     string
		input    []float64
		output   []float64
		all      []float64
		inputlen int
		count    int
	}{
		{
			name:     "get all samples",
			input:    []float64{1.1, 2.2, 3.3, 4.4},
			output:   []float64{1.1, 2.2, 3.3, 4.4},
			all:      []float64{1.1, 2.2, 3.3, 4.4},
			inputlen: 4,
			count:    4,
		},
		{
			name:     "get less samples",
			input:    []float64{1.1, 2.2, 3.3, 4.4},
			output:   []float64{3.3, 4.4},
			all:      []float64{1.1, 2.2, 3.3, 4.4},
			inputlen: 4,
			count:    2,
		},
		{
			name:     "get excess samples (ask more than ring size)",
			input:    []float64{1.1, 2.2, 3.3, 4.4},
			output:   []float64{1.1, 2.2, 3.3, 4.4},
			all:      []float64{1.1, 2.2, 3.3, 4.4},
			inputlen: 4,
			count:    8,
		},
		{
			name:     "get excess samples (ring not yet full)",
			input:    []float64{3.3, 4.4},
			output:   []float64{3.3, 4.4},
			all:      []float64{3.3, 4.4},
			inputlen: 4,
			count:    4,
		},
		{
			name:     "wrapped ring keeps the newest samples",
			input:    []float64{1, 2, 3, 4, 5, 6},
			output:   []float64{5, 6},
			all:      []float64{3, 4, 5, 6},
			inputlen: 4,
			count:    2,
		},
	}
	for _, tc := range cases {
		test := tc
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			mr := NewMetricsRing(test.inputlen)
			for _, v := range test.input {
				mr.Push(v)
			}
			if diff := cmp.Diff(test.output, mr.GetLastNSamples(test.count)); diff != "" {
				t.Fatalf("GetLastNSamples mismatch (-expected +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.all, mr.GetLastNSamples(mr.GetSize())); diff != "" {
				t.Fatalf("all samples mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestMean(t *testing.T) {
	mr := NewMetricsRing(4)
	require.Equal(t, 0.0, mr.Mean())
	for _, v := range []float64{1, 0, 1, 0, 1, 1} {
		mr.Push(v)
	}
	require.Equal(t, 4, mr.GetCount())
	require.InDelta(t, 0.75, mr.Mean(), 1e-9)
}

func TestEWMAWarmup(t *testing.T) {
	mr := NewMetricsRing(16)
	for i := 0; i < 5; i++ {
		mr.Push(1)
	}
	require.Equal(t, 0.0, mr.EWMA())
	for i := 0; i < 20; i++ {
		mr.Push(1)
	}
	require.InDelta(t, 1.0, mr.EWMA(), 1e-9)
}
