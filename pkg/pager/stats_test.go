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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatsSummarize(t *testing.T) {
	s, r := newTestSession(t, PolicyFIFO, 4, 16)
	replay(t, s, r, "R1,W2,W1,R3,R4,R1,R5,W1,R2")

	summary := s.Stats().Summarize()
	lines := strings.Split(summary, "\n")
	require.Equal(t, "table: events", lines[0])
	require.Equal(t, []string{"9", "3", "10", "7", "3", "2", "3"}, strings.Fields(lines[2])[:7])
	require.Equal(t, "table: pages", lines[3])

	// page 1: admitted twice, evicted dirty once, upgraded twice
	require.Equal(t, []string{"1", "2", "1", "1", "2"}, strings.Fields(lines[5]))
	// pages 1-5 were touched
	require.Len(t, lines, 10)
}

func TestFaultRate(t *testing.T) {
	s, r := newTestSession(t, PolicyClock, 2, 4)
	require.Equal(t, 0.0, s.Stats().FaultRate())

	replay(t, s, r, "R0 R1")
	require.Equal(t, 1.0, s.Stats().RecentFaultRate())

	// the moving average warms up over the first ten accesses
	require.Equal(t, 0.0, s.Stats().FaultRate())
	replay(t, s, r, "R0 R1 R0 R1 R0 R1 R0 R1 R0 R1 R0 R1")
	require.InDelta(t, 2.0/14, s.Stats().RecentFaultRate(), 1e-9)
	require.Greater(t, s.Stats().FaultRate(), 0.0)
	require.Less(t, s.Stats().FaultRate(), 1.0)
}
