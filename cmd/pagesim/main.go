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
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	logger "github.com/intel/demand-pager/pkg/log"
	"github.com/intel/demand-pager/pkg/metrics"
	"github.com/intel/demand-pager/pkg/pager"
	_ "github.com/intel/demand-pager/pkg/version"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"
)

var log = logger.Default()

func exit(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "pagesim: "+format+"\n", a...)
	logger.Flush()
	os.Exit(1)
}

// buildConfig reads the configuration file if one is given, and applies
// the command line options that were set on top of it.
func buildConfig(path, policy string, frames, pages, pageSize int) (*pager.Config, error) {
	cfg := pager.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = pager.ConfigFromFile(path); err != nil {
			return nil, err
		}
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["policy"] {
		cfg.Policy = policy
	}
	if set["frames"] {
		cfg.Frames = frames
	}
	if set["page-size"] {
		if !set["pages"] {
			pages = cfg.Pages()
		}
		cfg.PageSize = pageSize
	}
	if set["pages"] || set["page-size"] {
		size, err := pager.RegionSize(pages, cfg.PageSize)
		if err != nil {
			return nil, err
		}
		cfg.Size = size
	}

	return cfg, cfg.Validate()
}

func main() {
	def := pager.DefaultConfig()
	optPolicy := flag.String("policy", def.Policy, "-policy=<"+strings.Join(pager.PolicyList(), "|")+"> eviction policy")
	optFrames := flag.Int("frames", def.Frames, "-frames=COUNT number of physical frames")
	optPages := flag.Int("pages", def.Pages(), "-pages=COUNT size of the managed region in pages")
	optPageSize := flag.Int("page-size", def.PageSize, "-page-size=BYTES page size")
	optConfig := flag.String("config", "", "-config=FILE read configuration from YAML FILE")
	optDumpConfig := flag.Bool("dump-config", false, "print the effective configuration and exit")
	optTrace := flag.String("trace", "", "-trace=R1,W2,... replay accesses, printing faults and write-backs after each")
	optPrompt := flag.Bool("prompt", false, "start an interactive prompt")
	optMprotect := flag.Bool("mprotect", false, "manage real memory protected with mprotect(2)")
	optMetrics := flag.Bool("metrics", false, "print metrics in Prometheus text format when done")
	optDebug := flag.String("debug", "", "-debug=SOURCE[,SOURCE...] enable debug logging for sources, '*' for all")
	optLogBackend := flag.String("log-backend", logger.FmtBackendName, "-log-backend=<"+strings.Join(logger.Backends(), "|")+">")
	optLogLevel := flag.String("log-level", "info", "-log-level=<debug|info|warning|error> lowest severity logged")

	flag.Parse()

	if err := logger.SetBackend(*optLogBackend); err != nil {
		exit("%v", err)
	}
	level, err := logger.ParseLevel(*optLogLevel)
	if err != nil {
		exit("%v", err)
	}
	logger.SetLevel(level)
	if *optDebug != "" {
		logger.EnableDebug(true, strings.Split(*optDebug, ",")...)
	}
	defer logger.Flush()

	cfg, err := buildConfig(*optConfig, *optPolicy, *optFrames, *optPages, *optPageSize)
	if err != nil {
		exit("invalid configuration: %v", err)
	}
	if *optDumpConfig {
		raw, err := cfg.YAML()
		if err != nil {
			exit("%v", err)
		}
		fmt.Print(raw)
		return
	}

	trace, err := pager.ParseTrace(*optTrace)
	if err != nil {
		exit("invalid -trace: %v", err)
	}

	var (
		s       *pager.Session
		acc     pager.Accessor
		cleanup = func() {}
	)
	if *optMprotect {
		s, acc, cleanup, err = newMprotectSession(cfg)
	} else {
		s, acc, err = newSimulatedSession(cfg)
	}
	if err != nil {
		exit("failed to initialize: %v", err)
	}
	defer cleanup()

	if *optMetrics {
		err := metrics.RegisterCollector("pager", func() (prometheus.Collector, error) {
			return pager.NewCollector(s)
		})
		if err != nil {
			exit("%v", err)
		}
	}

	for i, a := range trace {
		if err := s.Touch(acc, a.Page, a.Write); err != nil {
			logger.Fatal("access #%d (%s) failed: %v", i, a, err)
		}
		fmt.Printf("%s %d %d\n", a, s.FaultCount(), s.WriteBackCount())
	}
	if len(trace) > 0 {
		logger.Debug("replayed %d accesses", len(trace))
	}

	if *optPrompt {
		prompt := pager.NewPrompt("pagesim> ", bufio.NewReader(os.Stdin), bufio.NewWriter(os.Stdout))
		prompt.SetSession(s, acc)
		// echo commands read from a script
		prompt.SetEcho(!term.IsTerminal(int(os.Stdin.Fd())))
		prompt.Interact()
		s = prompt.Session()
	}

	logger.Info("%s: %d faults, %d write-backs", s.PolicyName(), s.FaultCount(), s.WriteBackCount())
	log.DebugBlock("  ", "%s", s.Stats().Summarize())

	if *optMetrics {
		g, err := metrics.NewMetricGatherer()
		if err != nil {
			exit("%v", err)
		}
		if err := metrics.WriteText(os.Stdout, g); err != nil {
			exit("%v", err)
		}
	}
}

func newSimulatedSession(cfg *pager.Config) (*pager.Session, pager.Accessor, error) {
	s, r, err := pager.NewSimulatedSession(cfg)
	if err != nil {
		return nil, nil, err
	}
	return s, r, nil
}
