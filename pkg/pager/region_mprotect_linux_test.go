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
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intel/demand-pager/pkg/testutils"
)

func newMprotectSession(t *testing.T, policy string, frames, pages int) (*Session, *Trap) {
	t.Helper()
	pageSize := os.Getpagesize()
	s, trap, err := NewMprotectSession(&Config{
		Policy:   policy,
		Frames:   frames,
		PageSize: pageSize,
		Size:     pages * pageSize,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, trap.Region().Close()) })
	return s, trap
}

func TestMprotectFifoScenario(t *testing.T) {
	s, trap := newMprotectSession(t, PolicyFIFO, 4, 16)
	accesses, err := ParseTrace("R1,W2,W1,R3,R4,R1,R5,W1,R2")
	require.NoError(t, err)

	steps, err := Replay(s, trap, accesses)
	require.NoError(t, err)
	testutils.VerifyNoDiff(t, "counters", [][2]uint64{
		{1, 0}, {2, 0}, {2, 0}, {3, 0}, {4, 0}, {4, 0}, {5, 1}, {6, 2}, {7, 2},
	}, counters(steps))
	require.Equal(t, uint64(10), trap.Traps())
	require.Equal(t, []int{4, 5, 1, 2}, numbers(s.Resident()))
}

func TestMprotectClockScenario(t *testing.T) {
	s, trap := newMprotectSession(t, PolicyClock, 4, 16)
	accesses, err := ParseTrace("R0,W1,R2,R3,R4,R1,R0,R1,R4")
	require.NoError(t, err)

	_, err = Replay(s, trap, accesses)
	require.NoError(t, err)
	require.Equal(t, uint64(7), s.FaultCount())
	require.Equal(t, uint64(1), s.WriteBackCount())
}

func TestMprotectReadWrite(t *testing.T) {
	s, trap := newMprotectSession(t, PolicyFIFO, 2, 4)

	addr := s.PageAddr(3) + 17
	require.NoError(t, trap.Write(addr, 42))
	value, err := trap.Read(addr)
	require.NoError(t, err)
	require.Equal(t, byte(42), value)

	page, ok := s.Find(3)
	require.True(t, ok)
	require.True(t, page.Modified)

	_, err = trap.Read(s.Base() + uintptr(trap.Region().Size()))
	testutils.VerifyCause(t, err, ErrOutOfRange)
}

func TestMprotectRegionErrors(t *testing.T) {
	pageSize := os.Getpagesize()
	_, err := NewMprotectRegion(4*pageSize, pageSize/2)
	testutils.VerifyCause(t, err, ErrConfig)
	_, err = NewMprotectRegion(4*pageSize+1, pageSize)
	testutils.VerifyCause(t, err, ErrConfig)

	r, err := NewMprotectRegion(2*pageSize, pageSize)
	require.NoError(t, err)
	require.Error(t, r.SetAccess(r.Base()+uintptr(pageSize), 2*pageSize, ProtNone))
	require.Error(t, r.SetAccess(r.Base(), pageSize, Protection(7)))
	require.NoError(t, r.SetAccess(r.Base(), pageSize, ProtRead))
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
}
