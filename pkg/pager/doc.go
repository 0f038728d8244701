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

/*

	Package pager simulates demand-paged virtual memory on top of a
	flat, pre-allocated memory region.

	Every page of the region starts out inaccessible. The first touch
	of a page traps into the fault dispatcher (Session.OnFault), which
	admits the page to the resident set read-only. A later write to
	the same page traps again and upgrades the page to read-write,
	marking it modified. When the resident set is full, the active
	eviction policy picks a victim; evicting a modified page counts as
	a write-back.

	Component types

	1. Policies (policy*.go) own the resident set. The fifo policy
	evicts pages in admission order. The clock policy sweeps a ring
	of frames with a hand, giving referenced pages a second chance.
	Policies are registered by name, see PolicyRegister.

	2. The Session (session.go) is the fault dispatcher. It owns the
	counters and drives a ProtectionAdapter.

	3. Protection adapters (region*.go) change the access rights of
	address ranges. SimulatedRegion keeps a protection table in
	memory and delivers faults by direct calls. MprotectRegion (linux)
	maps real memory, changes rights with mprotect(2), and a Trap
	turns the resulting SIGSEGV into a call to the dispatcher.

	Handling a fault

		+------+  fault(addr)  +-------+  Find/Victim/Admit  +------+
		|Region|-------------->|Session|-------------------->|Policy|
		+------+               +---+---+                     +------+
		   ^                       |
		   +-------SetAccess-------+

	Supporting modules

	1. Trace (trace.go) parses access sequences such as "R1,W2,R3" and
	replays them against a region.
	2. Stats (stats.go) keeps event counters and a fault rate.
	3. Collector (collector.go) exports session counters to prometheus.
	4. Prompt (prompt.go) implements an interactive prompt.
*/

package pager
