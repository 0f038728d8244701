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

// This file implements interactive prompt and command execution.

package pager

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

type Cmd struct {
	description string
	Run         func([]string) CommandStatus
}

type Prompt struct {
	r       *bufio.Reader
	w       *bufio.Writer
	f       *flag.FlagSet
	session *Session
	acc     Accessor
	cmds    map[string]Cmd
	ps1     string
	echo    bool
	quit    bool
}

type CommandStatus int

const (
	csOk CommandStatus = iota
	csUnknownCommand
	csPipeCreateError
	csPipeProcessStartError
	csError
)

func NewPrompt(ps1 string, reader *bufio.Reader, writer *bufio.Writer) *Prompt {
	p := Prompt{
		r:   reader,
		w:   writer,
		ps1: ps1,
	}
	p.cmds = map[string]Cmd{
		"q":        {"quit interactive prompt.", p.cmdQuit},
		"init":     {"initialize a new simulated session.", p.cmdInit},
		"r":        {"read pages: r PAGE [PAGE...]", p.cmdRead},
		"w":        {"write pages: w PAGE [PAGE...]", p.cmdWrite},
		"trace":    {"replay an access trace: trace R1,W2,...", p.cmdTrace},
		"stats":    {"print statistics.", p.cmdStats},
		"dump":     {"print counters and resident pages.", p.cmdDump},
		"policies": {"list available eviction policies.", p.cmdPolicies},
		"help":     {"print help.", p.cmdHelp},
		"nop":      {"no operation.", p.cmdNop},
	}
	return &p
}

func (p *Prompt) output(format string, a ...interface{}) {
	if p.w == nil {
		return
	}
	p.w.WriteString(fmt.Sprintf(format, a...))
	p.w.Flush()
}

func (p *Prompt) RunCmdSlice(cmdSlice []string) CommandStatus {
	if len(cmdSlice) == 0 {
		return csOk
	}
	if cmdSlice[0] == "" {
		cmdSlice[0] = "nop"
	}
	p.f = flag.NewFlagSet(cmdSlice[0], flag.ContinueOnError)
	if p.w != nil {
		p.f.SetOutput(p.w)
		defer p.w.Flush()
	}
	cmd, ok := p.cmds[cmdSlice[0]]
	if !ok {
		p.output("unknown command %q\n", cmdSlice[0])
		return csUnknownCommand
	}
	return cmd.Run(cmdSlice[1:])
}

func (p *Prompt) RunCmdString(cmdString string) CommandStatus {
	var err error
	// With "cmd | shell-command" the output of cmd is piped to the shell.
	origOutputWriter := p.w
	pipeCmd := ""
	pipeIndex := strings.Index(cmdString, "|")
	if pipeIndex > -1 {
		pipeCmd = cmdString[pipeIndex+1:]
		cmdString = cmdString[:pipeIndex]
	}
	cmdSlice := strings.Fields(cmdString)

	var pipeProcess *exec.Cmd
	var pipeInput io.WriteCloser
	if pipeCmd != "" {
		pipeProcess = exec.Command("sh", "-c", pipeCmd)
		pipeInput, err = pipeProcess.StdinPipe()
		if err != nil {
			p.output("failed to create pipe for command %q\n", pipeCmd)
			return csPipeCreateError
		}
		pipeProcess.Stdout = origOutputWriter
		pipeProcess.Stderr = origOutputWriter
		if err := pipeProcess.Start(); err != nil {
			p.output("failed to start: sh -c %q: %s\n", pipeCmd, err)
			pipeInput.Close()
			return csPipeProcessStartError
		}
		p.w = bufio.NewWriter(pipeInput)
	}
	runRv := p.RunCmdSlice(cmdSlice)
	if pipeCmd != "" {
		p.w.Flush()
		pipeInput.Close()
		pipeProcess.Wait()
		p.w = origOutputWriter
		p.w.Flush()
	}
	return runRv
}

func (p *Prompt) Interact() {
	for !p.quit {
		p.output(p.ps1)
		cmdString, err := p.r.ReadString(byte('\n'))
		if err != nil {
			p.output("quit: %s\n", err)
			break
		}
		if p.echo {
			p.output("%s", cmdString)
		}
		p.RunCmdString(cmdString)
	}
	p.output("quit.\n")
}

func (p *Prompt) SetEcho(newEcho bool) {
	p.echo = newEcho
}

// SetSession sets the session the prompt operates on, and the accessor
// used for touching its pages.
func (p *Prompt) SetSession(s *Session, acc Accessor) {
	p.session = s
	p.acc = acc
}

func (p *Prompt) Session() *Session {
	return p.session
}

func sortedStringKeys(m map[string]Cmd) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *Prompt) cmdNop(args []string) CommandStatus {
	return csOk
}

func (p *Prompt) cmdQuit(args []string) CommandStatus {
	p.quit = true
	return csOk
}

func (p *Prompt) cmdHelp(args []string) CommandStatus {
	p.output("Available commands:\n")
	for _, name := range sortedStringKeys(p.cmds) {
		p.output("        %-12s %s\n", name, p.cmds[name].description)
	}
	p.output("Syntax:\n")
	p.output("        <command> -h show help on command options.\n")
	p.output("        [command] | <shell-command>\n")
	p.output("                     pipe command output to shell-command.\n")
	return csOk
}

func (p *Prompt) cmdPolicies(args []string) CommandStatus {
	for _, name := range PolicyList() {
		p.output("%s\n", name)
	}
	return csOk
}

func (p *Prompt) cmdInit(args []string) CommandStatus {
	def := DefaultConfig()
	policy := p.f.String("policy", def.Policy, "eviction policy: "+strings.Join(PolicyList(), ", "))
	frames := p.f.Int("frames", def.Frames, "number of physical frames")
	pages := p.f.Int("pages", DefaultPages, "size of the region in pages")
	pageSize := p.f.Int("page-size", os.Getpagesize(), "page size in bytes")
	if err := p.f.Parse(args); err != nil {
		return csError
	}
	size, err := RegionSize(*pages, *pageSize)
	if err != nil {
		p.output("init failed: %v\n", err)
		return csError
	}
	cfg := &Config{
		Policy:   *policy,
		Frames:   *frames,
		PageSize: *pageSize,
		Size:     size,
	}
	s, r, err := NewSimulatedSession(cfg)
	if err != nil {
		p.output("init failed: %v\n", err)
		return csError
	}
	p.SetSession(s, r)
	p.output("%d pages, %d frames, %s eviction\n", cfg.Pages(), cfg.Frames, s.PolicyName())
	return csOk
}

func (p *Prompt) requireSession() bool {
	if p.session == nil {
		p.output("no session, use init\n")
		return false
	}
	return true
}

func (p *Prompt) touch(a Access) CommandStatus {
	if err := p.session.Touch(p.acc, a.Page, a.Write); err != nil {
		p.output("%s failed: %v\n", a, err)
		return csError
	}
	p.output("%s %d %d\n", a, p.session.FaultCount(), p.session.WriteBackCount())
	return csOk
}

func (p *Prompt) cmdAccess(args []string, write bool) CommandStatus {
	if !p.requireSession() {
		return csError
	}
	if len(args) == 0 {
		p.output("missing page number\n")
		return csError
	}
	for _, arg := range args {
		page, err := strconv.Atoi(arg)
		if err != nil || page < 0 {
			p.output("invalid page number %q\n", arg)
			return csError
		}
		if rv := p.touch(Access{Page: page, Write: write}); rv != csOk {
			return rv
		}
	}
	return csOk
}

func (p *Prompt) cmdRead(args []string) CommandStatus {
	return p.cmdAccess(args, false)
}

func (p *Prompt) cmdWrite(args []string) CommandStatus {
	return p.cmdAccess(args, true)
}

func (p *Prompt) cmdTrace(args []string) CommandStatus {
	if !p.requireSession() {
		return csError
	}
	trace, err := ParseTrace(strings.Join(args, " "))
	if err != nil {
		p.output("%v\n", err)
		return csError
	}
	for _, a := range trace {
		if rv := p.touch(a); rv != csOk {
			return rv
		}
	}
	return csOk
}

func (p *Prompt) cmdStats(args []string) CommandStatus {
	if !p.requireSession() {
		return csError
	}
	p.output("%s\n", p.session.Stats().Summarize())
	return csOk
}

func (p *Prompt) cmdDump(args []string) CommandStatus {
	if !p.requireSession() {
		return csError
	}
	p.output("%s\n", p.session.Dump())
	return csOk
}
