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
	"fmt"
	"sort"
	"strings"

	"github.com/intel/demand-pager/pkg/metricsring"
)

// faultRateWindow is the number of accesses the fault rate is averaged over.
const faultRateWindow = 64

// Stats collects events of a session.
type Stats struct {
	admissions uint64
	evictions  uint64
	writeBacks uint64
	upgrades   uint64
	accesses   uint64
	writes     uint64
	traps      uint64
	pages      map[int]*StatsPage
	faultRate  metricsring.SampleBuffer
}

// StatsPage holds per-page event counts.
type StatsPage struct {
	admissions uint64
	evictions  uint64
	writeBacks uint64
	upgrades   uint64
}

// StatsAdmission is stored when a page is admitted to the resident set.
type StatsAdmission struct {
	page VirtualPage
}

// StatsEviction is stored when a page is evicted.
type StatsEviction struct {
	page VirtualPage
}

// StatsUpgrade is stored when a resident page is upgraded to read-write.
type StatsUpgrade struct {
	page VirtualPage
}

// StatsAccess is stored by drivers for every completed access.
type StatsAccess struct {
	write   bool
	faulted bool // caused a page admission
	traps   int  // faults delivered before the access succeeded
}

func newStats() *Stats {
	return &Stats{
		pages:     make(map[int]*StatsPage),
		faultRate: metricsring.NewMetricsRing(faultRateWindow),
	}
}

func (s *Stats) page(number int) *StatsPage {
	sp, ok := s.pages[number]
	if !ok {
		sp = &StatsPage{}
		s.pages[number] = sp
	}
	return sp
}

func (s *Stats) Store(entry interface{}) {
	switch v := entry.(type) {
	case StatsAdmission:
		s.admissions++
		s.page(v.page.Number).admissions++
	case StatsEviction:
		s.evictions++
		sp := s.page(v.page.Number)
		sp.evictions++
		if v.page.Modified {
			s.writeBacks++
			sp.writeBacks++
		}
	case StatsUpgrade:
		s.upgrades++
		s.page(v.page.Number).upgrades++
	case StatsAccess:
		s.accesses++
		if v.write {
			s.writes++
		}
		s.traps += uint64(v.traps)
		if v.faulted {
			s.faultRate.Push(1)
		} else {
			s.faultRate.Push(0)
		}
	}
}

// Evictions returns the number of evicted pages.
func (s *Stats) Evictions() uint64 {
	return s.evictions
}

// Upgrades returns the number of read-only to read-write upgrades.
func (s *Stats) Upgrades() uint64 {
	return s.upgrades
}

// Accesses returns the number of accesses reported by drivers.
func (s *Stats) Accesses() uint64 {
	return s.accesses
}

// Traps returns the number of faults delivered to the dispatcher by drivers.
func (s *Stats) Traps() uint64 {
	return s.traps
}

// FaultRate returns the moving average of faults per access.
func (s *Stats) FaultRate() float64 {
	return s.faultRate.EWMA()
}

// RecentFaultRate returns the fault rate over the last accesses.
func (s *Stats) RecentFaultRate() float64 {
	return s.faultRate.Mean()
}

// Summarize returns the statistics as text tables.
func (s *Stats) Summarize() string {
	lines := []string{}
	lines = append(lines, "table: events")
	lines = append(lines, "  accesses   writes    traps admitted  evicted wrtbacks upgrades recent[f/a] ewma[f/a]")
	lines = append(lines, fmt.Sprintf("%10d %8d %8d %8d %8d %8d %8d %11.3f %9.3f",
		s.accesses, s.writes, s.traps,
		s.admissions, s.evictions, s.writeBacks, s.upgrades,
		s.RecentFaultRate(), s.FaultRate()))
	lines = append(lines, "table: pages")
	lines = append(lines, "      page admitted  evicted wrtbacks upgrades")
	numbers := make([]int, 0, len(s.pages))
	for number := range s.pages {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	for _, number := range numbers {
		sp := s.pages[number]
		lines = append(lines, fmt.Sprintf("%10d %8d %8d %8d %8d",
			number, sp.admissions, sp.evictions, sp.writeBacks, sp.upgrades))
	}
	return strings.Join(lines, "\n")
}
