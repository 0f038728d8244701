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
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus Metric descriptor indices and descriptor table
const (
	faultsDesc = iota
	writeBacksDesc
	evictionsDesc
	upgradesDesc
	residentDesc
	framesDesc
	faultRateDesc
	numDescriptors
)

var descriptors = [numDescriptors]*prometheus.Desc{
	faultsDesc: prometheus.NewDesc(
		"pager_page_faults_total",
		"Number of pages admitted to the resident set.",
		[]string{"policy"}, nil,
	),
	writeBacksDesc: prometheus.NewDesc(
		"pager_write_backs_total",
		"Number of modified pages written back on eviction.",
		[]string{"policy"}, nil,
	),
	evictionsDesc: prometheus.NewDesc(
		"pager_evictions_total",
		"Number of pages evicted from the resident set.",
		[]string{"policy"}, nil,
	),
	upgradesDesc: prometheus.NewDesc(
		"pager_write_upgrades_total",
		"Number of resident pages upgraded from read-only to read-write.",
		[]string{"policy"}, nil,
	),
	residentDesc: prometheus.NewDesc(
		"pager_resident_pages",
		"Number of resident pages.",
		[]string{"policy"}, nil,
	),
	framesDesc: prometheus.NewDesc(
		"pager_frames",
		"Number of physical frames available for resident pages.",
		[]string{"policy"}, nil,
	),
	faultRateDesc: prometheus.NewDesc(
		"pager_fault_rate",
		"Moving average of page faults per access.",
		[]string{"policy"}, nil,
	),
}

type collector struct {
	s *Session
}

// NewCollector creates a Prometheus collector for the counters of s.
func NewCollector(s *Session) (prometheus.Collector, error) {
	if s == nil {
		return nil, errors.New("pager: cannot collect metrics of a nil session")
	}
	return &collector{s: s}, nil
}

// Describe implements prometheus.Collector interface
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range descriptors {
		ch <- d
	}
}

// Collect implements prometheus.Collector interface
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	policy := c.s.PolicyName()
	stats := c.s.Stats()

	for idx, value := range map[int]uint64{
		faultsDesc:     c.s.FaultCount(),
		writeBacksDesc: c.s.WriteBackCount(),
		evictionsDesc:  stats.Evictions(),
		upgradesDesc:   stats.Upgrades(),
	} {
		ch <- prometheus.MustNewConstMetric(
			descriptors[idx],
			prometheus.CounterValue,
			float64(value),
			policy,
		)
	}

	ch <- prometheus.MustNewConstMetric(
		descriptors[residentDesc],
		prometheus.GaugeValue,
		float64(len(c.s.Resident())),
		policy,
	)
	ch <- prometheus.MustNewConstMetric(
		descriptors[framesDesc],
		prometheus.GaugeValue,
		float64(c.s.Config().Frames),
		policy,
	)
	ch <- prometheus.MustNewConstMetric(
		descriptors[faultRateDesc],
		prometheus.GaugeValue,
		stats.FaultRate(),
		policy,
	)
}
