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

// PolicyFIFO is the name of the first-in-first-out policy.
const PolicyFIFO = "fifo"

// PolicyFifo evicts pages strictly in admission order. The queue lives
// in a fixed arena of frames: head is the oldest page, and the newest
// page is at (head+length-1) modulo capacity.
type PolicyFifo struct {
	slots  []VirtualPage
	head   int
	length int
	index  pageIndex
}

func init() {
	PolicyRegister(PolicyFIFO, NewPolicyFifo)
}

func NewPolicyFifo(frames int) (Policy, error) {
	if frames <= 0 {
		return nil, configError("invalid frame count %d", frames)
	}
	return &PolicyFifo{
		slots: make([]VirtualPage, frames),
		index: make(pageIndex, frames),
	}, nil
}

func (p *PolicyFifo) Name() string {
	return PolicyFIFO
}

func (p *PolicyFifo) Capacity() int {
	return len(p.slots)
}

func (p *PolicyFifo) Len() int {
	return p.length
}

func (p *PolicyFifo) Find(number int) *VirtualPage {
	if slot, ok := p.index.slot(number); ok {
		return &p.slots[slot]
	}
	return nil
}

func (p *PolicyFifo) Admit(page VirtualPage) (*VirtualPage, error) {
	if p.length == len(p.slots) {
		return nil, invariantError("fifo: admitting page %d to a full queue", page.Number)
	}
	tail := (p.head + p.length) % len(p.slots)
	if err := p.index.add(page.Number, tail); err != nil {
		return nil, err
	}
	p.slots[tail] = page
	p.length++
	return &p.slots[tail], nil
}

func (p *PolicyFifo) Victim() (VirtualPage, error) {
	if p.length == 0 {
		return VirtualPage{}, invariantError("fifo: no victims in an empty queue")
	}
	victim := p.slots[p.head]
	if err := p.index.remove(victim.Number, p.head); err != nil {
		return VirtualPage{}, err
	}
	p.slots[p.head] = VirtualPage{}
	p.head = (p.head + 1) % len(p.slots)
	p.length--
	return victim, nil
}

// Reference is a no-op: FIFO does not track recency.
func (p *PolicyFifo) Reference(*VirtualPage) {}

func (p *PolicyFifo) Resident() []VirtualPage {
	pages := make([]VirtualPage, 0, p.length)
	for i := 0; i < p.length; i++ {
		pages = append(pages, p.slots[(p.head+i)%len(p.slots)])
	}
	return pages
}
