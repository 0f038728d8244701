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
	"bytes"
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func TestKlogBackendDebug(t *testing.T) {
	flags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(flags)
	require.NoError(t, flags.Set("logtostderr", "false"))
	require.NoError(t, flags.Set("alsologtostderr", "false"))
	out := &bytes.Buffer{}
	klog.SetOutput(out)

	t.Cleanup(func() {
		require.NoError(t, flags.Set("logtostderr", "true"))
		klog.SetOutput(os.Stderr)
		require.Nil(t, SetBackend(FmtBackendName))
		EnableDebug(false, "klogtest")
	})

	require.Nil(t, SetBackend(KlogBackendName))
	l := Get("klogtest")

	l.Debug("suppressed-debug-marker")
	EnableDebug(true, "klogtest")
	require.True(t, l.DebugEnabled())
	l.Debug("debug-marker %d", 1)
	l.Info("info-marker")
	Flush()

	output := out.String()
	require.NotContains(t, output, "suppressed-debug-marker")
	require.Contains(t, output, "D: [klogtest] debug-marker 1")
	require.Contains(t, output, "[klogtest] info-marker")
}
