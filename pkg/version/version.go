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

// Package version tags built binaries with version metadata.
//
// Two pieces of metadata are provided, both meant to be set at link time:
//   - Version: version number, by convention one provided by 'git describe'
//   - Build:   build id, by convention the git SHA1 the binary has been built from.
//
// For instance:
//
//	go build -ldflags \
//	  "-X=github.com/intel/demand-pager/pkg/version.Version=<version> \
//	   -X=github.com/intel/demand-pager/pkg/version.Build=<build-id>"
//
// Importing the package adds a -version flag printing the metadata.
package version

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Default values of variables we'll override with the linker.
var (
	// Version is our version as given by 'git describe'.
	Version = "unknown"
	// Build is the SHA1 of the repository we've been built from.
	Build = "unknown"
)

// exit is swapped out by tests.
var exit = os.Exit

// Info returns version information about the named binary.
func Info(binary string) string {
	return fmt.Sprintf("%s version information:\n  - version: %s\n  - build:   %s\n",
		binary, Version, Build)
}

// PrintVersionInfo prints version information about this binary.
func PrintVersionInfo(w io.Writer) {
	fmt.Fprint(w, Info(filepath.Base(os.Args[0])))
}

// version hooks into flag.Value.Set of -version during command line parsing.
type version struct {
	out io.Writer
}

// IsBoolFlag tells flag that we only have optional arguments.
func (*version) IsBoolFlag() bool {
	return true
}

func (v *version) Set(value string) error {
	print, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	if print {
		PrintVersionInfo(v.out)
		exit(0)
	}
	return nil
}

func (*version) String() string {
	return "false"
}

func init() {
	flag.Var(&version{out: os.Stdout}, "version", "Print version information about "+filepath.Base(os.Args[0]))
}
