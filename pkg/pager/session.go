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
	"strings"

	"github.com/pkg/errors"
)

// Session is the fault dispatcher of a managed region. It owns the
// resident set (through its policy) and the fault and write-back
// counters, and it is their only mutator. A Session is not safe for
// concurrent use: faults must be dispatched one at a time, each running
// to completion before the faulting access is retried.
type Session struct {
	config     Config
	base       uintptr
	policy     Policy
	prot       ProtectionAdapter
	stats      *Stats
	faults     uint64
	writeBacks uint64
	inFault    bool
	err        error
}

// ProtectionError is returned when the protection adapter fails.
type ProtectionError struct {
	Addr   uintptr
	Length int
	Prot   Protection
	Err    error
}

func (e *ProtectionError) Error() string {
	return fmt.Sprintf("failed to set %#x+%d %s: %v", e.Addr, e.Length, e.Prot, e.Err)
}

func (e *ProtectionError) Unwrap() error {
	return e.Err
}

func (e *ProtectionError) Is(target error) bool {
	return target == ErrProtection
}

// Initialize sets up a session for the region starting at base, and
// revokes all access to the region so that the first touch of every
// page faults.
func Initialize(base uintptr, cfg *Config, prot ProtectionAdapter) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if prot == nil {
		return nil, configError("missing protection adapter")
	}
	if base+uintptr(cfg.Size) < base {
		return nil, configError("region %#x+%d wraps around the address space", base, cfg.Size)
	}

	policy, err := NewPolicy(cfg.Policy, cfg.Frames)
	if err != nil {
		return nil, err
	}

	s := &Session{
		config: *cfg,
		base:   base,
		policy: policy,
		prot:   prot,
		stats:  newStats(),
	}
	s.config.Policy = policy.Name()

	if err := s.setAccess(base, cfg.Size, ProtNone); err != nil {
		return nil, err
	}

	log.Info("managing %#x+%d: %d pages of %d bytes, %d frames, %s eviction",
		base, cfg.Size, cfg.Pages(), cfg.PageSize, cfg.Frames, policy.Name())

	return s, nil
}

// OnFault handles a protection fault at addr. Any returned error is
// fatal: the session refuses to handle further faults.
func (s *Session) OnFault(addr uintptr) error {
	if s.err != nil {
		return errors.Wrapf(ErrSessionFailed, "fault at %#x after %v", addr, s.err)
	}
	if s.inFault {
		return s.fail(errors.Wrapf(ErrReentrant, "fault at %#x", addr))
	}
	s.inFault = true
	defer func() { s.inFault = false }()

	number, err := s.PageNumber(addr)
	if err != nil {
		return s.fail(err)
	}

	if page := s.policy.Find(number); page != nil {
		return s.upgrade(page)
	}
	return s.admit(number)
}

// upgrade handles a write to a resident read-only page.
func (s *Session) upgrade(page *VirtualPage) error {
	page.Modified = true
	s.policy.Reference(page)
	s.stats.Store(StatsUpgrade{page: *page})

	faultLog.Debug("write fault on resident %s", page)

	return s.setAccess(page.Base, page.Size, ProtReadWrite)
}

// admit makes a non-resident page resident, evicting a victim if needed.
func (s *Session) admit(number int) error {
	if s.policy.Len() >= s.policy.Capacity() {
		if err := s.evict(); err != nil {
			return err
		}
	}

	page, err := s.policy.Admit(VirtualPage{
		Number: number,
		Base:   s.PageAddr(number),
		Size:   s.config.PageSize,
	})
	if err != nil {
		return s.fail(err)
	}
	s.faults++
	s.stats.Store(StatsAdmission{page: *page})

	faultLog.Debug("page fault #%d admitted %s", s.faults, page)

	return s.setAccess(page.Base, page.Size, ProtRead)
}

func (s *Session) evict() error {
	victim, err := s.policy.Victim()
	if err != nil {
		return s.fail(err)
	}
	if victim.Modified {
		s.writeBacks++
	}
	s.stats.Store(StatsEviction{page: victim})

	faultLog.Debug("evicted %s, %d write-backs", victim, s.writeBacks)

	return s.setAccess(victim.Base, victim.Size, ProtNone)
}

func (s *Session) setAccess(addr uintptr, length int, prot Protection) error {
	if err := s.prot.SetAccess(addr, length, prot); err != nil {
		return s.fail(&ProtectionError{Addr: addr, Length: length, Prot: prot, Err: err})
	}
	return nil
}

func (s *Session) fail(err error) error {
	if s.err == nil {
		s.err = err
		log.Error("fatal paging error: %v", err)
	}
	return err
}

// PageNumber returns the number of the page containing addr.
func (s *Session) PageNumber(addr uintptr) (int, error) {
	if addr < s.base || addr-s.base >= uintptr(s.config.Size) {
		return -1, errors.Wrapf(ErrOutOfRange, "address %#x, region %#x-%#x",
			addr, s.base, s.base+uintptr(s.config.Size))
	}
	return int((addr - s.base) / uintptr(s.config.PageSize)), nil
}

// PageAddr returns the address of the first byte of a page.
func (s *Session) PageAddr(number int) uintptr {
	return s.base + uintptr(number)*uintptr(s.config.PageSize)
}

// Touch accesses a page through acc and records the access in the stats.
func (s *Session) Touch(acc Accessor, number int, write bool) error {
	if number < 0 || number >= s.config.Pages() {
		return errors.Errorf("page %d outside region of %d pages", number, s.config.Pages())
	}

	faults := s.faults
	traps := trapCount(acc)
	err := acc.Access(s.PageAddr(number), write)
	s.stats.Store(StatsAccess{
		write:   write,
		faulted: s.faults != faults,
		traps:   int(trapCount(acc) - traps),
	})

	return err
}

func trapCount(acc Accessor) uint64 {
	if tc, ok := acc.(interface{ Traps() uint64 }); ok {
		return tc.Traps()
	}
	return 0
}

// FaultCount returns the number of page admissions so far.
func (s *Session) FaultCount() uint64 {
	return s.faults
}

// WriteBackCount returns the number of modified pages evicted so far.
func (s *Session) WriteBackCount() uint64 {
	return s.writeBacks
}

// Find returns a copy of a resident page and whether it was found.
func (s *Session) Find(number int) (VirtualPage, bool) {
	if page := s.policy.Find(number); page != nil {
		return *page, true
	}
	return VirtualPage{}, false
}

// Resident returns the resident pages in policy order.
func (s *Session) Resident() []VirtualPage {
	return s.policy.Resident()
}

// Err returns the error that failed the session, if any.
func (s *Session) Err() error {
	return s.err
}

func (s *Session) Config() Config {
	return s.config
}

func (s *Session) Base() uintptr {
	return s.base
}

func (s *Session) PolicyName() string {
	return s.policy.Name()
}

func (s *Session) Stats() *Stats {
	return s.stats
}

// Dump returns the counters and resident set as text.
func (s *Session) Dump() string {
	lines := []string{
		fmt.Sprintf("policy %s, %d/%d frames in use", s.policy.Name(), s.policy.Len(), s.policy.Capacity()),
		fmt.Sprintf("faults %d, write-backs %d", s.faults, s.writeBacks),
	}
	for _, page := range s.Resident() {
		lines = append(lines, "  "+page.String())
	}
	if s.err != nil {
		lines = append(lines, fmt.Sprintf("failed: %v", s.err))
	}
	return strings.Join(lines, "\n")
}
