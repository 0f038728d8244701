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
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Access is a single read or write of a page.
type Access struct {
	Page  int
	Write bool
}

func (a Access) String() string {
	if a.Write {
		return "W" + strconv.Itoa(a.Page)
	}
	return "R" + strconv.Itoa(a.Page)
}

// Step is the state of the session after an access of a replayed trace.
type Step struct {
	Access     Access
	Faults     uint64
	WriteBacks uint64
}

func (s Step) String() string {
	return fmt.Sprintf("%s %d %d", s.Access, s.Faults, s.WriteBacks)
}

// ParseTrace parses a list of accesses such as "R1,W2,w1 r3". Accesses
// are separated by commas or whitespace, and consist of R or W followed
// by a page number.
func ParseTrace(trace string) ([]Access, error) {
	fields := strings.FieldsFunc(trace, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	accesses := make([]Access, 0, len(fields))
	for _, field := range fields {
		a, err := parseAccess(field)
		if err != nil {
			return nil, err
		}
		accesses = append(accesses, a)
	}
	return accesses, nil
}

func parseAccess(field string) (Access, error) {
	if len(field) < 2 {
		return Access{}, errors.Errorf("invalid access %q", field)
	}
	a := Access{}
	switch field[0] {
	case 'r', 'R':
	case 'w', 'W':
		a.Write = true
	default:
		return Access{}, errors.Errorf("invalid access %q: expected R or W", field)
	}
	page, err := strconv.Atoi(field[1:])
	if err != nil || page < 0 {
		return Access{}, errors.Errorf("invalid access %q: bad page number", field)
	}
	a.Page = page
	return a, nil
}

// FormatTrace formats accesses the way ParseTrace accepts them.
func FormatTrace(accesses []Access) string {
	items := make([]string, 0, len(accesses))
	for _, a := range accesses {
		items = append(items, a.String())
	}
	return strings.Join(items, ",")
}

// Replay performs the accesses of trace through acc, returning the
// counters of the session after each access. Replaying stops at the
// first failed access.
func Replay(s *Session, acc Accessor, trace []Access) ([]Step, error) {
	steps := make([]Step, 0, len(trace))
	for i, a := range trace {
		if err := s.Touch(acc, a.Page, a.Write); err != nil {
			return steps, errors.Wrapf(err, "access #%d (%s) failed", i, a)
		}
		steps = append(steps, Step{
			Access:     a,
			Faults:     s.FaultCount(),
			WriteBacks: s.WriteBackCount(),
		})
	}
	return steps, nil
}
