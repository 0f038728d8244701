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

package main

import (
	"github.com/intel/demand-pager/pkg/pager"
)

func newMprotectSession(cfg *pager.Config) (*pager.Session, pager.Accessor, func(), error) {
	s, trap, err := pager.NewMprotectSession(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		if err := trap.Region().Close(); err != nil {
			log.Error("%v", err)
		}
	}
	return s, trap, cleanup, nil
}
