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

// Package metricsring keeps a bounded window of recent samples together
// with an exponentially weighted moving average over all of them.
package metricsring

import (
	"github.com/VividCortex/ewma"
)

// SampleBuffer is a bounded buffer of float64 samples.
type SampleBuffer interface {
	Push(d float64)
	EWMA() float64
	Mean() float64
	GetSize() int
	GetCount() int
	GetLastNSamples(count int) []float64
}

// MetricsRing is a SampleBuffer backed by a fixed-size slice.
type MetricsRing struct {
	samples []float64
	next    int // index of the slot to overwrite next
	count   int // the count of valid samples in the ring
	ma      ewma.MovingAverage
}

// NewMetricsRing creates a ring for ringlen samples.
func NewMetricsRing(ringlen int) SampleBuffer {
	// Note: ewma has warm-up period of 10 samples. With ringlen < 10
	// EWMA() returns 0.0 until ten samples have been pushed.
	if ringlen < 1 {
		ringlen = 1
	}
	return &MetricsRing{
		samples: make([]float64, ringlen),
		ma:      ewma.NewMovingAverage(float64(ringlen)),
	}
}

func (mr *MetricsRing) Push(d float64) {
	mr.samples[mr.next] = d
	mr.next = (mr.next + 1) % len(mr.samples)
	if mr.count < len(mr.samples) {
		mr.count++
	}
	mr.ma.Add(d)
}

func (mr *MetricsRing) EWMA() float64 {
	return mr.ma.Value()
}

// Mean returns the plain average of the samples currently in the ring.
func (mr *MetricsRing) Mean() float64 {
	if mr.count == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range mr.GetLastNSamples(mr.count) {
		sum += s
	}
	return sum / float64(mr.count)
}

func (mr *MetricsRing) GetSize() int {
	return len(mr.samples)
}

func (mr *MetricsRing) GetCount() int {
	return mr.count
}

// GetLastNSamples returns up to count most recent samples, oldest first.
func (mr *MetricsRing) GetLastNSamples(count int) []float64 {
	if count > mr.count {
		count = mr.count
	}
	if count < 0 {
		count = 0
	}

	s := make([]float64, count)
	start := mr.next - count
	if start < 0 {
		start += len(mr.samples)
	}
	for i := 0; i < count; i++ {
		s[i] = mr.samples[(start+i)%len(mr.samples)]
	}

	return s
}
