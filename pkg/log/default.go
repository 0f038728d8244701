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

package log

import (
	"os"
	"path/filepath"
)

var deflog = Get(filepath.Base(filepath.Clean(os.Args[0])))

// Default returns the default Logger, named after the running binary.
func Default() Logger {
	return deflog
}

// Debug formats and emits a debug message using the default Logger.
func Debug(format string, args ...interface{}) {
	deflog.Debug(format, args...)
}

// Info formats and emits an informational message using the default Logger.
func Info(format string, args ...interface{}) {
	deflog.Info(format, args...)
}

// Fatal formats and emits an error message and exits using the default Logger.
func Fatal(format string, args ...interface{}) {
	deflog.Fatal(format, args...)
}
