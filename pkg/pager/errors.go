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
	"github.com/pkg/errors"
)

var (
	// ErrConfig is the cause of configuration errors.
	ErrConfig = errors.New("invalid configuration")
	// ErrOutOfRange is the cause of faults outside the managed region.
	ErrOutOfRange = errors.New("fault address outside managed region")
	// ErrProtection is the cause of failed access right changes.
	ErrProtection = errors.New("failed to change access rights")
	// ErrInvariant is the cause of broken internal bookkeeping.
	ErrInvariant = errors.New("internal invariant violated")
	// ErrReentrant is returned if a fault is dispatched while another is in progress.
	ErrReentrant = errors.New("reentrant fault")
	// ErrSessionFailed is returned for faults after a session has failed.
	ErrSessionFailed = errors.New("session has failed")
)

func invariantError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvariant, format, args...)
}

func configError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfig, format, args...)
}
