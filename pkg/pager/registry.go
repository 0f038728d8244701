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

// Registry finds resident pages by page number.
type Registry interface {
	// Find returns the resident page with the given number, or nil.
	// The returned record is owned by the registry and may be updated
	// in place until the page is evicted.
	Find(number int) *VirtualPage
}

// pageIndex maps page numbers to slots of a policy arena. It only
// speeds up lookups; admission and eviction order is kept by the
// policy itself.
type pageIndex map[int]int

func (pi pageIndex) slot(number int) (int, bool) {
	slot, ok := pi[number]
	return slot, ok
}

func (pi pageIndex) add(number, slot int) error {
	if old, ok := pi[number]; ok {
		return invariantError("page %d already resident in slot %d", number, old)
	}
	pi[number] = slot
	return nil
}

func (pi pageIndex) remove(number, slot int) error {
	old, ok := pi[number]
	if !ok {
		return invariantError("page %d is not resident", number)
	}
	if old != slot {
		return invariantError("page %d is resident in slot %d, not %d", number, old, slot)
	}
	delete(pi, number)
	return nil
}
