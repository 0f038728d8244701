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

// PolicyClock is the name of the clock (second-chance) policy.
const PolicyClock = "clock"

// PolicyClockRing sweeps a ring of frames with a hand. Pages with the
// referenced bit set get their bit cleared and are passed over; the
// first page found with the bit clear is the victim.
//
// The ring always holds exactly Capacity() slots. It starts out with
// blank, referenced placeholders, so the first sweep clears every slot
// and wraps around to the first one, after which blanks fill up in ring
// order. A victim slot is reused in place by the next admission.
type PolicyClockRing struct {
	slots  []VirtualPage
	hand   int
	vacant int // slot emptied by Victim(), -1 if none
	length int
	index  pageIndex
}

func init() {
	PolicyRegister(PolicyClock, NewPolicyClock)
}

func NewPolicyClock(frames int) (Policy, error) {
	if frames <= 0 {
		return nil, configError("invalid frame count %d", frames)
	}
	p := &PolicyClockRing{
		slots:  make([]VirtualPage, frames),
		vacant: -1,
		index:  make(pageIndex, frames),
	}
	for i := range p.slots {
		p.slots[i] = blankPage()
	}
	return p, nil
}

func (p *PolicyClockRing) Name() string {
	return PolicyClock
}

func (p *PolicyClockRing) Capacity() int {
	return len(p.slots)
}

func (p *PolicyClockRing) Len() int {
	return p.length
}

// Hand returns the slot the next sweep starts from.
func (p *PolicyClockRing) Hand() int {
	return p.hand
}

func (p *PolicyClockRing) Find(number int) *VirtualPage {
	if slot, ok := p.index.slot(number); ok {
		return &p.slots[slot]
	}
	return nil
}

// sweep advances the hand until it finds an unreferenced slot, clearing
// reference bits on the way. It returns the slot and leaves the hand
// on the slot after it. At most two full turns are needed: the first
// one clears every bit.
func (p *PolicyClockRing) sweep() (int, error) {
	for steps := 0; steps <= 2*len(p.slots); steps++ {
		slot := p.hand
		p.hand = (p.hand + 1) % len(p.slots)
		if p.slots[slot].Referenced {
			p.slots[slot].Referenced = false
			continue
		}
		return slot, nil
	}
	return -1, invariantError("clock: no victim after two turns of the hand")
}

func (p *PolicyClockRing) Victim() (VirtualPage, error) {
	if p.vacant >= 0 {
		return VirtualPage{}, invariantError("clock: slot %d already vacated", p.vacant)
	}
	if p.length == 0 {
		return VirtualPage{}, invariantError("clock: no victims in an empty ring")
	}
	slot, err := p.sweep()
	if err != nil {
		return VirtualPage{}, err
	}
	victim := p.slots[slot]
	if victim.IsBlank() {
		return VirtualPage{}, invariantError("clock: selected blank slot %d with %d/%d pages resident",
			slot, p.length, len(p.slots))
	}
	if err := p.index.remove(victim.Number, slot); err != nil {
		return VirtualPage{}, err
	}
	p.slots[slot] = VirtualPage{Number: BlankPage}
	p.vacant = slot
	p.length--
	return victim, nil
}

func (p *PolicyClockRing) Admit(page VirtualPage) (*VirtualPage, error) {
	if p.length == len(p.slots) {
		return nil, invariantError("clock: admitting page %d to a full ring", page.Number)
	}
	slot := p.vacant
	if slot < 0 {
		var err error
		if slot, err = p.sweep(); err != nil {
			return nil, err
		}
		if !p.slots[slot].IsBlank() {
			return nil, invariantError("clock: sweep for a free frame hit resident %s", p.slots[slot])
		}
	}
	if err := p.index.add(page.Number, slot); err != nil {
		return nil, err
	}
	page.Referenced = true
	p.slots[slot] = page
	p.vacant = -1
	p.length++
	return &p.slots[slot], nil
}

func (p *PolicyClockRing) Reference(page *VirtualPage) {
	page.Referenced = true
}

// Resident returns the resident pages in ring order, starting at the hand.
func (p *PolicyClockRing) Resident() []VirtualPage {
	pages := make([]VirtualPage, 0, p.length)
	for i := 0; i < len(p.slots); i++ {
		slot := p.slots[(p.hand+i)%len(p.slots)]
		if !slot.IsBlank() {
			pages = append(pages, slot)
		}
	}
	return pages
}
