// Copyright 2024 The ShellSpark Authors.
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

// Package toolprobe is the Tool Capability Probe (spec.md §4.2): it detects
// which awk, grep, sort and jq implementations are on $PATH, memoizes the
// result for the lifetime of the process, and answers capability questions
// (GNU parallel sort, PCRE support) the code generator needs in order to
// pick the right flags for whatever is actually installed.
package toolprobe

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/cpu"
	"github.com/sirupsen/logrus"
	uuid "github.com/satori/go.uuid"
)

// probeTimeout bounds every subprocess invocation used to probe a tool's
// version or capability; a hung `tool --version` must not hang compilation.
const probeTimeout = 5 * time.Second

// ToolInfo describes a detected command-line tool.
type ToolInfo struct {
	Name    string
	Path    string
	Version string
	IsGNU   bool
}

var log = logrus.WithField("component", "toolprobe")

var (
	mu sync.Mutex

	cpuCount       int
	cpuCountSet    bool
	awkInfo        ToolInfo
	awkErr         error
	awkSet         bool
	grepInfo       ToolInfo
	grepErr        error
	grepSet        bool
	sortInfo       ToolInfo
	sortErr        error
	sortSet        bool
	jqInfo         *ToolInfo
	jqSet          bool
	sortParallel   bool
	sortParallelOK bool
	grepPCRE       bool
	grepPCREOK     bool
)

// ClearCache discards every memoized detection result. Call it after
// installing a tool or changing one of the SHELLSPARK_* override env vars
// mid-process; tests use it liberally to get a clean slate per case.
func ClearCache() {
	mu.Lock()
	defer mu.Unlock()
	cpuCountSet = false
	awkSet = false
	grepSet = false
	sortSet = false
	jqSet = false
	sortParallelOK = false
	grepPCREOK = false
}

// CPUCount returns the number of logical CPUs visible to this process,
// memoized after the first call. It is queried via gopsutil rather than
// runtime.NumCPU so that container CPU-quota adjustments (cgroup limits)
// are reflected the same way they are on every platform gopsutil supports.
func CPUCount() int {
	mu.Lock()
	defer mu.Unlock()
	if cpuCountSet {
		return cpuCount
	}
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		log.WithError(err).Warn("cpu count detection failed, falling back to runtime.NumCPU")
		n = runtime.NumCPU()
	}
	if n < 1 {
		n = 1
	}
	cpuCount = n
	cpuCountSet = true
	return cpuCount
}

// ParallelWorkers resolves the worker count for a Parallel node: an
// explicit request (if positive) wins, otherwise it falls back to
// CPUCount().
func ParallelWorkers(requested int) int {
	if requested > 0 {
		return requested
	}
	return CPUCount()
}

func versionOf(path string) string {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if len(out) == 0 {
		if err != nil {
			log.WithError(err).WithField("path", path).Debug("tool version probe failed")
		}
		return ""
	}
	lines := strings.SplitN(string(out), "\n", 2)
	return strings.TrimSpace(lines[0])
}

func isGNU(version string) bool {
	lower := strings.ToLower(version)
	return strings.Contains(lower, "gnu") || strings.Contains(lower, "gawk")
}

func resolveOverride(envVar string) (ToolInfo, bool) {
	override := os.Getenv(envVar)
	if override == "" {
		return ToolInfo{}, false
	}
	path, err := exec.LookPath(override)
	if err != nil {
		return ToolInfo{}, false
	}
	version := versionOf(path)
	return ToolInfo{
		Name:    override,
		Path:    path,
		Version: version,
		IsGNU:   isGNU(version),
	}, true
}

// DetectAWK finds the best available awk implementation, preferring mawk
// over gawk over a plain awk, honoring SHELLSPARK_AWK if set.
func DetectAWK() (ToolInfo, error) {
	mu.Lock()
	defer mu.Unlock()
	if awkSet {
		return awkInfo, awkErr
	}
	awkInfo, awkErr = detectAWKLocked()
	awkSet = true
	return awkInfo, awkErr
}

func detectAWKLocked() (ToolInfo, error) {
	if info, ok := resolveOverride("SHELLSPARK_AWK"); ok {
		return info, nil
	}
	for _, name := range []string{"mawk", "gawk", "awk"} {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		version := versionOf(path)
		id := uuid.NewV4()
		log.WithFields(logrus.Fields{"tool": name, "path": path, "probe_id": id.String()}).Debug("awk detected")
		return ToolInfo{
			Name:    name,
			Path:    path,
			Version: version,
			IsGNU:   isGNU(version) || name == "gawk",
		}, nil
	}
	return ToolInfo{}, errors.New("toolprobe: no awk implementation found on PATH")
}

// DetectGrep finds the best available grep implementation, preferring
// ripgrep (rg) over whatever grep is on PATH, honoring SHELLSPARK_GREP if
// set. GNU and non-GNU grep are not ranked against each other; IsGNU only
// records which one the grep on PATH is.
func DetectGrep() (ToolInfo, error) {
	mu.Lock()
	defer mu.Unlock()
	if grepSet {
		return grepInfo, grepErr
	}
	grepInfo, grepErr = detectGrepLocked()
	grepSet = true
	return grepInfo, grepErr
}

func detectGrepLocked() (ToolInfo, error) {
	if info, ok := resolveOverride("SHELLSPARK_GREP"); ok {
		return info, nil
	}
	if path, err := exec.LookPath("rg"); err == nil {
		return ToolInfo{Name: "rg", Path: path, Version: versionOf(path)}, nil
	}
	if path, err := exec.LookPath("grep"); err == nil {
		version := versionOf(path)
		return ToolInfo{Name: "grep", Path: path, Version: version, IsGNU: isGNU(version)}, nil
	}
	return ToolInfo{}, errors.New("toolprobe: no grep implementation found on PATH")
}

// DetectSort finds the sort command and its capabilities, honoring
// SHELLSPARK_SORT if set.
func DetectSort() (ToolInfo, error) {
	mu.Lock()
	defer mu.Unlock()
	if sortSet {
		return sortInfo, sortErr
	}
	sortInfo, sortErr = detectSortLocked()
	sortSet = true
	return sortInfo, sortErr
}

func detectSortLocked() (ToolInfo, error) {
	if info, ok := resolveOverride("SHELLSPARK_SORT"); ok {
		return info, nil
	}
	path, err := exec.LookPath("sort")
	if err != nil {
		return ToolInfo{}, errors.New("toolprobe: sort command not found")
	}
	version := versionOf(path)
	return ToolInfo{Name: "sort", Path: path, Version: version, IsGNU: isGNU(version)}, nil
}

// DetectJQ finds jq if present. Unlike the other probes a missing jq is not
// an error here: it returns nil, and only compiling a JSON plan turns that
// into an ErrMissingTool error (codegen's jq backend has no fallback).
func DetectJQ() *ToolInfo {
	mu.Lock()
	defer mu.Unlock()
	if jqSet {
		return jqInfo
	}
	jqInfo = detectJQLocked()
	jqSet = true
	return jqInfo
}

func detectJQLocked() *ToolInfo {
	if info, ok := resolveOverride("SHELLSPARK_JQ"); ok {
		return &info
	}
	path, err := exec.LookPath("jq")
	if err != nil {
		return nil
	}
	return &ToolInfo{Name: "jq", Path: path, Version: versionOf(path)}
}

// SortSupportsParallel reports whether the detected sort accepts
// --parallel=N, a GNU coreutils extension.
func SortSupportsParallel() bool {
	mu.Lock()
	defer mu.Unlock()
	if sortParallelOK {
		return sortParallel
	}
	sortParallel = sortSupportsParallelLocked()
	sortParallelOK = true
	return sortParallel
}

func sortSupportsParallelLocked() bool {
	info, err := detectSortMemoizedLocked()
	if err != nil || !info.IsGNU {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	err = exec.CommandContext(ctx, info.Path, "--parallel=1", "--version").Run()
	return err == nil
}

// GrepSupportsPCRE reports whether the detected grep accepts -P (PCRE).
// Ripgrep always does; GNU grep sometimes does depending on how it was
// built; BSD grep never does.
func GrepSupportsPCRE() bool {
	mu.Lock()
	defer mu.Unlock()
	if grepPCREOK {
		return grepPCRE
	}
	grepPCRE = grepSupportsPCRELocked()
	grepPCREOK = true
	return grepPCRE
}

func grepSupportsPCRELocked() bool {
	info, err := detectGrepMemoizedLocked()
	if err != nil {
		return false
	}
	if info.Name == "rg" {
		return true
	}
	if !info.IsGNU {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, info.Path, "-P", "test", os.DevNull)
	err = cmd.Run()
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() == 1
	}
	return false
}

// detectSortMemoizedLocked and detectGrepMemoizedLocked read (or, on first
// use, populate) the sort/grep memo slots without re-acquiring mu: callers
// already hold it.
func detectSortMemoizedLocked() (ToolInfo, error) {
	if !sortSet {
		sortInfo, sortErr = detectSortLocked()
		sortSet = true
	}
	return sortInfo, sortErr
}

func detectGrepMemoizedLocked() (ToolInfo, error) {
	if !grepSet {
		grepInfo, grepErr = detectGrepLocked()
		grepSet = true
	}
	return grepInfo, grepErr
}
