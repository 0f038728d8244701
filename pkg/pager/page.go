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

// BlankPage is the page number of an unused frame in the clock ring.
const BlankPage = -1

// VirtualPage is the residency record of a page.
type VirtualPage struct {
	// Number is the page number relative to the start of the region.
	Number int
	// Base is the address of the first byte of the page.
	Base uintptr
	// Size is the length of the page in bytes.
	Size int
	// Modified is set when the page is written while resident.
	Modified bool
	// Referenced is the clock policy's second-chance bit.
	Referenced bool
}

func blankPage() VirtualPage {
	return VirtualPage{Number: BlankPage, Referenced: true}
}

// IsBlank tells if this is a placeholder for an unused frame.
func (p VirtualPage) IsBlank() bool {
	return p.Number == BlankPage
}

// EndAddr returns the first address after the page.
func (p VirtualPage) EndAddr() uintptr {
	return p.Base + uintptr(p.Size)
}

func (p VirtualPage) String() string {
	if p.IsBlank() {
		return "page<blank>"
	}
	flags := []byte("--")
	if p.Modified {
		flags[0] = 'M'
	}
	if p.Referenced {
		flags[1] = 'R'
	}
	return fmt.Sprintf("page#%d[%x-%x %s]", p.Number, p.Base, p.EndAddr(), flags)
}
