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

// Package metrics keeps a registry of named Prometheus collectors and
// creates gatherers over them.
package metrics

import (
	"io"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	logger "github.com/intel/demand-pager/pkg/log"
)

// InitCollector is the type for functions that initialize collectors.
type InitCollector func() (prometheus.Collector, error)

var (
	lock sync.Mutex
	// builtInCollectors are the registered collector initializers by name.
	builtInCollectors = make(map[string]InitCollector)
	log               = logger.NewLogger("metrics")
)

// RegisterCollector registers the named prometheus.Collector for metrics collection.
func RegisterCollector(name string, init InitCollector) error {
	lock.Lock()
	defer lock.Unlock()

	log.Info("registering collector %s...", name)

	if _, found := builtInCollectors[name]; found {
		return metricsError("collector %s already registered", name)
	}

	builtInCollectors[name] = init

	return nil
}

// UnregisterCollector removes a registered collector.
func UnregisterCollector(name string) {
	lock.Lock()
	defer lock.Unlock()
	delete(builtInCollectors, name)
}

// Collectors returns the names of the registered collectors.
func Collectors() []string {
	lock.Lock()
	defer lock.Unlock()

	names := make([]string, 0, len(builtInCollectors))
	for name := range builtInCollectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewMetricGatherer creates a new prometheus.Gatherer with all registered
// collectors. Collectors failing to initialize are skipped.
func NewMetricGatherer() (prometheus.Gatherer, error) {
	lock.Lock()
	defer lock.Unlock()

	reg := prometheus.NewPedanticRegistry()

	for name, cb := range builtInCollectors {
		c, err := cb()
		if err != nil {
			log.Error("failed to initialize collector '%s': %v. Skipping it.", name, err)
			continue
		}
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(err, "metrics: failed to register collector %s", name)
		}
	}

	return reg, nil
}

// WriteText gathers metrics from g and writes them to w in the text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "metrics: failed to gather metrics")
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, family := range families {
		if err := enc.Encode(family); err != nil {
			return errors.Wrapf(err, "metrics: failed to encode %s", family.GetName())
		}
	}
	return nil
}

func metricsError(format string, args ...interface{}) error {
	return errors.Errorf("metrics: "+format, args...)
}
