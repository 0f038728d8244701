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
	"io/ioutil"
	"math"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

const (
	// DefaultFrames is the default number of physical frames.
	DefaultFrames = 4
	// DefaultPages is the default size of the region in pages.
	DefaultPages = 16
)

// Config is the configuration of a paging session.
type Config struct {
	// Policy is the name of the eviction policy.
	Policy string `json:"policy"`
	// Frames is the number of physical frames, the resident set limit.
	Frames int `json:"frames"`
	// PageSize is the page size in bytes.
	PageSize int `json:"pageSize"`
	// Size is the size of the managed region in bytes.
	Size int `json:"size"`
}

// DefaultConfig returns the default configuration: 16 pages of the
// system page size managed with 4 frames and FIFO eviction.
func DefaultConfig() *Config {
	pageSize := os.Getpagesize()
	return &Config{
		Policy:   PolicyFIFO,
		Frames:   DefaultFrames,
		PageSize: pageSize,
		Size:     DefaultPages * pageSize,
	}
}

// Pages returns the number of pages in the region.
func (c *Config) Pages() int {
	if c.PageSize <= 0 {
		return 0
	}
	return c.Size / c.PageSize
}

// RegionSize returns the size in bytes of a region of pages pages.
func RegionSize(pages, pageSize int) (int, error) {
	if pages <= 0 || pageSize <= 0 {
		return 0, configError("invalid region of %d pages of %d bytes", pages, pageSize)
	}
	if pages > math.MaxInt/pageSize {
		return 0, configError("region of %d pages of %d bytes is too large", pages, pageSize)
	}
	return pages * pageSize, nil
}

// Validate checks the configuration, reporting all problems found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, ok := PolicyName(c.Policy); !ok {
		result = multierror.Append(result, configError("unknown policy %q", c.Policy))
	}
	if c.Frames <= 0 {
		result = multierror.Append(result, configError("frames must be positive, got %d", c.Frames))
	}
	if c.PageSize <= 0 {
		result = multierror.Append(result, configError("page size must be positive, got %d", c.PageSize))
	}
	if c.Size <= 0 {
		result = multierror.Append(result, configError("region size must be positive, got %d", c.Size))
	} else if c.PageSize > 0 && c.Size%c.PageSize != 0 {
		result = multierror.Append(result,
			configError("region size %d is not a multiple of page size %d", c.Size, c.PageSize))
	}

	return result.ErrorOrNil()
}

// ConfigFromYAML parses a configuration on top of the defaults.
func ConfigFromYAML(raw []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse pager configuration")
	}
	return cfg, nil
}

// ConfigFromFile reads a YAML (or JSON) configuration file.
func ConfigFromFile(path string) (*Config, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read pager configuration %q", path)
	}
	cfg, err := ConfigFromYAML(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "configuration file %q", path)
	}
	return cfg, nil
}

// YAML returns the configuration in YAML format.
func (c *Config) YAML() (string, error) {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal pager configuration")
	}
	return string(raw), nil
}
