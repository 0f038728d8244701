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
)

const (
	// DefaultSimulatedBase is the base address of simulated regions.
	DefaultSimulatedBase uintptr = 0x10000000
	// maxAccessTraps bounds the faults a single access may take: one to
	// admit the page and one to upgrade it for writing.
	maxAccessTraps = 2
)

// SimulatedRegion is an in-memory ProtectionAdapter. It keeps the
// protection of every page in a table and delivers faults to a
// FaultHandler by direct calls, the way a trap would.
type SimulatedRegion struct {
	base     uintptr
	pageSize int
	prot     []Protection
	handler  FaultHandler
	traps    uint64
}

// NewSimulatedRegion creates a region of size bytes at base. All pages
// are initially read-write, like freshly allocated memory.
func NewSimulatedRegion(base uintptr, size, pageSize int) (*SimulatedRegion, error) {
	if pageSize <= 0 || size <= 0 || size%pageSize != 0 {
		return nil, configError("invalid simulated region: size %d, page size %d", size, pageSize)
	}
	r := &SimulatedRegion{
		base:     base,
		pageSize: pageSize,
		prot:     make([]Protection, size/pageSize),
	}
	for i := range r.prot {
		r.prot[i] = ProtReadWrite
	}
	return r, nil
}

// NewSimulatedSession creates a simulated region for cfg and a session
// managing it, with faults of the region dispatched to the session.
func NewSimulatedSession(cfg *Config) (*Session, *SimulatedRegion, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	r, err := NewSimulatedRegion(DefaultSimulatedBase, cfg.Size, cfg.PageSize)
	if err != nil {
		return nil, nil, err
	}
	s, err := Initialize(r.Base(), cfg, r)
	if err != nil {
		return nil, nil, err
	}
	r.SetFaultHandler(s.OnFault)
	return s, r, nil
}

func (r *SimulatedRegion) Base() uintptr {
	return r.base
}

func (r *SimulatedRegion) Size() int {
	return len(r.prot) * r.pageSize
}

// SetFaultHandler sets the function faults are delivered to.
func (r *SimulatedRegion) SetFaultHandler(handler FaultHandler) {
	r.handler = handler
}

// Traps returns the number of faults delivered so far.
func (r *SimulatedRegion) Traps() uint64 {
	return r.traps
}

func (r *SimulatedRegion) pages(addr uintptr, length int) (int, int, error) {
	if addr < r.base || length <= 0 ||
		addr-r.base+uintptr(length) > uintptr(r.Size()) {
		return 0, 0, errors.Errorf("range %#x+%d outside region %#x+%d", addr, length, r.base, r.Size())
	}
	offset := int(addr - r.base)
	if offset%r.pageSize != 0 || length%r.pageSize != 0 {
		return 0, 0, errors.Errorf("range %#x+%d not aligned to page size %d", addr, length, r.pageSize)
	}
	return offset / r.pageSize, length / r.pageSize, nil
}

// SetAccess changes the protection of whole pages.
func (r *SimulatedRegion) SetAccess(addr uintptr, length int, prot Protection) error {
	first, count, err := r.pages(addr, length)
	if err != nil {
		return err
	}
	for i := first; i < first+count; i++ {
		r.prot[i] = prot
	}
	return nil
}

// Protection returns the protection of the page containing addr.
func (r *SimulatedRegion) Protection(addr uintptr) (Protection, error) {
	if addr < r.base || addr-r.base >= uintptr(r.Size()) {
		return ProtNone, errors.Errorf("address %#x outside region %#x+%d", addr, r.base, r.Size())
	}
	return r.prot[int(addr-r.base)/r.pageSize], nil
}

// Access reads or writes the byte at addr. Each time the access is not
// permitted a fault is delivered to the handler and the access retried.
func (r *SimulatedRegion) Access(addr uintptr, write bool) error {
	for traps := 0; ; traps++ {
		prot, err := r.Protection(addr)
		if err == nil && prot.Allows(write) {
			return nil
		}
		if traps == maxAccessTraps {
			return errors.Errorf("access to %#x (write: %v) still faulting after %d faults",
				addr, write, traps)
		}
		if r.handler == nil {
			return errors.Errorf("unhandled fault at %#x", addr)
		}
		r.traps++
		if err := r.handler(addr); err != nil {
			return err
		}
	}
}
