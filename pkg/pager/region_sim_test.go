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

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSimulatedRegion(t *testing.T) {
	_, err := NewSimulatedRegion(DefaultSimulatedBase, 1000, 512)
	require.Error(t, err)
	_, err = NewSimulatedRegion(DefaultSimulatedBase, 1024, 0)
	require.Error(t, err)

	r, err := NewSimulatedRegion(DefaultSimulatedBase, 4*512, 512)
	require.NoError(t, err)
	require.Equal(t, 2048, r.Size())

	// fresh memory is accessible and nothing traps
	require.NoError(t, r.Access(r.Base()+100, true))
	require.Equal(t, uint64(0), r.Traps())

	require.NoError(t, r.SetAccess(r.Base()+512, 1024, ProtRead))
	for i, expected := range []Protection{ProtReadWrite, ProtRead, ProtRead, ProtReadWrite} {
		prot, err := r.Protection(r.Base() + uintptr(i*512) + 511)
		require.NoError(t, err)
		require.Equal(t, expected, prot, "page %d", i)
	}

	require.Error(t, r.SetAccess(r.Base()+1, 512, ProtNone))
	require.Error(t, r.SetAccess(r.Base()+1024, 2048, ProtNone))
	require.Error(t, r.SetAccess(r.Base()-512, 512, ProtNone))
	_, err = r.Protection(r.Base() + 2048)
	require.Error(t, err)
}

func TestSimulatedRegionFaults(t *testing.T) {
	r, err := NewSimulatedRegion(DefaultSimulatedBase, 2*512, 512)
	require.NoError(t, err)
	require.NoError(t, r.SetAccess(r.Base(), r.Size(), ProtNone))

	require.Error(t, r.Access(r.Base(), false), "access without a fault handler")

	faults := []uintptr{}
	r.SetFaultHandler(func(addr uintptr) error {
		faults = append(faults, addr)
		prot, _ := r.Protection(addr)
		return r.SetAccess(addr&^511, 512, prot+1)
	})

	require.NoError(t, r.Access(r.Base()+513, true))
	require.Equal(t, []uintptr{r.Base() + 513, r.Base() + 513}, faults)
	require.Equal(t, uint64(2), r.Traps())

	// a handler that never grants access makes the access fail
	r.SetFaultHandler(func(uintptr) error { return nil })
	require.Error(t, r.Access(r.Base(), false))

	failure := errors.New("handler failed")
	r.SetFaultHandler(func(uintptr) error { return failure })
	require.Equal(t, failure, r.Access(r.Base(), false))
}
