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
)

// Protection is the access mode of an address range.
type Protection int

const (
	// ProtNone makes any access fault.
	ProtNone Protection = iota
	// ProtRead allows reads, writes fault.
	ProtRead
	// ProtReadWrite allows reads and writes.
	ProtReadWrite
)

func (p Protection) String() string {
	switch p {
	case ProtNone:
		return "none"
	case ProtRead:
		return "read-only"
	case ProtReadWrite:
		return "read-write"
	}
	return fmt.Sprintf("<protection #%d>", int(p))
}

// Allows tells if an access is permitted under p.
func (p Protection) Allows(write bool) bool {
	if write {
		return p == ProtReadWrite
	}
	return p == ProtRead || p == ProtReadWrite
}

// ProtectionAdapter changes the access rights of an address range.
// A returned error is not recoverable for the session using the adapter.
type ProtectionAdapter interface {
	SetAccess(addr uintptr, length int, prot Protection) error
}

// FaultHandler is called with the faulting address when an access is
// not permitted. The access is retried after the handler returns nil.
type FaultHandler func(addr uintptr) error

// Accessor performs reads and writes on a managed region, delivering
// faults to a FaultHandler until the access is permitted.
type Accessor interface {
	Access(addr uintptr, write bool) error
}
