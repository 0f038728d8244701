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
	"runtime/debug"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MprotectRegion is a ProtectionAdapter for an anonymous memory mapping
// whose access rights are changed with mprotect(2).
type MprotectRegion struct {
	mem []byte
}

var protFlags = map[Protection]int{
	ProtNone:      unix.PROT_NONE,
	ProtRead:      unix.PROT_READ,
	ProtReadWrite: unix.PROT_READ | unix.PROT_WRITE,
}

// NewMprotectRegion maps size bytes of anonymous memory. The page size
// of the session using the region must be a multiple of the system page
// size, since that is the granularity of mprotect(2).
func NewMprotectRegion(size, pageSize int) (*MprotectRegion, error) {
	sysPageSize := os.Getpagesize()
	if pageSize <= 0 || pageSize%sysPageSize != 0 {
		return nil, configError("page size %d is not a multiple of system page size %d",
			pageSize, sysPageSize)
	}
	if size <= 0 || size%pageSize != 0 {
		return nil, configError("region size %d is not a multiple of page size %d", size, pageSize)
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map %d bytes", size)
	}
	return &MprotectRegion{mem: mem}, nil
}

func (r *MprotectRegion) Base() uintptr {
	return uintptr(unsafe.Pointer(&r.mem[0]))
}

func (r *MprotectRegion) Size() int {
	return len(r.mem)
}

// SetAccess changes the access rights of a range of the mapping.
func (r *MprotectRegion) SetAccess(addr uintptr, length int, prot Protection) error {
	base := r.Base()
	if addr < base || length <= 0 || addr-base+uintptr(length) > uintptr(len(r.mem)) {
		return errors.Errorf("range %#x+%d outside mapping %#x+%d", addr, length, base, len(r.mem))
	}
	flags, ok := protFlags[prot]
	if !ok {
		return errors.Errorf("invalid protection %s", prot)
	}
	offset := int(addr - base)
	if err := unix.Mprotect(r.mem[offset:offset+length], flags); err != nil {
		return errors.Wrapf(err, "mprotect(%#x, %d, %s)", addr, length, prot)
	}
	return nil
}

// Close unmaps the region.
func (r *MprotectRegion) Close() error {
	if r.mem == nil {
		return nil
	}
	err := unix.Munmap(r.mem)
	r.mem = nil
	return errors.Wrap(err, "failed to unmap region")
}

// Trap accesses an MprotectRegion, turning the SIGSEGV of a protection
// fault into a call to a FaultHandler with the faulting address.
type Trap struct {
	region  *MprotectRegion
	handler FaultHandler
	traps   uint64
}

// NewMprotectSession maps a region for cfg and creates a session
// managing it, and a Trap delivering its faults to the session.
func NewMprotectSession(cfg *Config) (*Session, *Trap, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	r, err := NewMprotectRegion(cfg.Size, cfg.PageSize)
	if err != nil {
		return nil, nil, err
	}
	s, err := Initialize(r.Base(), cfg, r)
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	return s, NewTrap(r, s.OnFault), nil
}

// NewTrap creates a trap for region delivering faults to handler.
func NewTrap(region *MprotectRegion, handler FaultHandler) *Trap {
	return &Trap{region: region, handler: handler}
}

// Region returns the region accessed through the trap.
func (t *Trap) Region() *MprotectRegion {
	return t.region
}

// Traps returns the number of faults caught so far.
func (t *Trap) Traps() uint64 {
	return t.traps
}

// Read reads the byte at addr.
func (t *Trap) Read(addr uintptr) (byte, error) {
	var value byte
	err := t.access(addr, func(p *byte) { value = *p })
	return value, err
}

// Write writes the byte at addr.
func (t *Trap) Write(addr uintptr, value byte) error {
	return t.access(addr, func(p *byte) { *p = value })
}

// Access reads or writes the byte at addr.
func (t *Trap) Access(addr uintptr, write bool) error {
	if write {
		return t.Write(addr, 0x5a)
	}
	_, err := t.Read(addr)
	return err
}

func (t *Trap) access(addr uintptr, fn func(*byte)) error {
	base := t.region.Base()
	if addr < base || addr-base >= uintptr(t.region.Size()) {
		return errors.Wrapf(ErrOutOfRange, "address %#x, mapping %#x+%d", addr, base, t.region.Size())
	}
	p := &t.region.mem[addr-base]
	for traps := 0; ; traps++ {
		faultAddr, faulted := t.try(p, fn)
		if !faulted {
			return nil
		}
		if traps == maxAccessTraps {
			return errors.Errorf("access to %#x still faulting after %d faults", addr, traps)
		}
		t.traps++
		if err := t.handler(faultAddr); err != nil {
			return err
		}
	}
}

// try runs fn on p, recovering from a memory fault.
func (t *Trap) try(p *byte, fn func(*byte)) (addr uintptr, faulted bool) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(interface{ Addr() uintptr })
			if !ok {
				panic(r)
			}
			addr, faulted = fe.Addr(), true
		}
	}()
	fn(p)
	return 0, false
}
