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
	"sort"
	"strings"
)

// Policy is an eviction policy owning the resident set.
type Policy interface {
	Registry
	// Name returns the name the policy was registered with.
	Name() string
	// Capacity returns the number of frames.
	Capacity() int
	// Len returns the number of resident pages.
	Len() int
	// Admit makes page resident. The set must not be full.
	Admit(page VirtualPage) (*VirtualPage, error)
	// Victim selects a resident page, removes it and returns it.
	Victim() (VirtualPage, error)
	// Reference records an access to a resident page.
	Reference(page *VirtualPage)
	// Resident returns copies of the resident pages in policy order.
	Resident() []VirtualPage
}

// PolicyCreator creates a policy for the given number of frames.
type PolicyCreator func(frames int) (Policy, error)

// policies is a map of policy name -> policy creator
var policies map[string]PolicyCreator = make(map[string]PolicyCreator, 0)

// policyAliases maps numeric policy ids to policy names.
var policyAliases = map[string]string{
	"1": PolicyFIFO,
	"2": PolicyClock,
}

func PolicyRegister(name string, creator PolicyCreator) {
	policies[name] = creator
}

func PolicyList() []string {
	keys := make([]string, 0, len(policies))
	for key := range policies {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// PolicyName resolves a policy name or numeric alias to a registered name.
func PolicyName(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := policyAliases[name]; ok {
		name = alias
	}
	_, ok := policies[name]
	return name, ok
}

func NewPolicy(name string, frames int) (Policy, error) {
	resolved, ok := PolicyName(name)
	if !ok {
		return nil, configError("invalid policy name %q, expected one of %s",
			name, strings.Join(PolicyList(), ", "))
	}
	if frames <= 0 {
		return nil, configError("invalid frame count %d", frames)
	}
	return policies[resolved](frames)
}
