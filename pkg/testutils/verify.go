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

package testutils

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// VerifyNoDiff checks that two values are equal, or else it fails the test
// with a diff of the values.
func VerifyNoDiff(t *testing.T, valueName string, expected, seen interface{}, opts ...cmp.Option) bool {
	t.Helper()
	if diff := cmp.Diff(expected, seen, opts...); diff != "" {
		t.Errorf("unexpected %s (-expected +seen):\n%s", valueName, diff)
		return false
	}
	return true
}

// VerifyError checks a (multi)error has expected properties, or else it fails the test.
func VerifyError(t *testing.T, err error, expectedCount int, expectedSubstrings []string) bool {
	t.Helper()
	if expectedCount > 0 {
		if err == nil {
			t.Errorf("error expected, got nil")
			return false
		}
		merr, ok := err.(*multierror.Error)
		if !ok {
			t.Errorf("expected %d errors, but got %#v instead of multierror", expectedCount, err)
			return false
		}
		if len(merr.Errors) != expectedCount {
			t.Errorf("expected %d errors, but got %d: %v", expectedCount, len(merr.Errors), merr)
			return false
		}
	} else if expectedCount == 0 {
		if err != nil {
			t.Errorf("expected 0 errors, but got %v", err)
			return false
		}
		return true
	}
	if err == nil {
		if len(expectedSubstrings) > 0 {
			t.Errorf("error expected, got nil")
			return false
		}
		return true
	}
	for _, substring := range expectedSubstrings {
		if !strings.Contains(err.Error(), substring) {
			t.Errorf("expected error with substring %#v, got \"%v\"", substring, err)
			return false
		}
	}
	return true
}

// VerifyCause checks that err wraps target, or else it fails the test.
func VerifyCause(t *testing.T, err, target error) bool {
	t.Helper()
	if err == nil {
		t.Errorf("expected error caused by %q, got nil", target)
		return false
	}
	if !errors.Is(err, target) {
		t.Errorf("expected error caused by %q, got %q", target, err)
		return false
	}
	return true
}
