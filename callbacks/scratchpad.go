package callbacks

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/effective-security/tripintel/chatmodel"
	"github.com/effective-security/tripintel/tools"
)

var TimeNowFn = time.Now

// RunStats summarizes the tool calls observed during a run
type RunStats struct {
	Duration            time.Duration
	ToolsCalls          uint32
	ToolsCallsSucceeded uint32
	ToolsCallsFailed    uint32
	ToolNotFound        uint32
	// FailedByKind counts failures per error kind
	FailedByKind map[string]uint32
}

// Scratchpad records a transcript and stats of tool calls
// between StartRun and EndRun.
type Scratchpad struct {
	mode Mode

	lock    sync.Mutex
	w       bytes.Buffer
	started time.Time
	stats   RunStats
}

func NewScratchpad(mode Mode) *Scratchpad {
	return &Scratchpad{
		mode: mode,
	}
}

// StartRun resets the transcript and stats
func (l *Scratchpad) StartRun() {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.w.Reset()
	l.started = TimeNowFn()
	l.stats = RunStats{
		FailedByKind: make(map[string]uint32),
	}
	l.print("", "*** Run Started ***")
}

// EndRun returns the stats and the transcript of the run
func (l *Scratchpad) EndRun() (*RunStats, []byte) {
	l.lock.Lock()
	defer l.lock.Unlock()

	stats := l.stats
	stats.Duration = TimeNowFn().Sub(l.started)

	l.print("", fmt.Sprintf("Tool calls: %d, Succeeded: %d, Failed: %d, Not Found: %d",
		stats.ToolsCalls,
		stats.ToolsCallsSucceeded,
		stats.ToolsCallsFailed,
		stats.ToolNotFound,
	))

	kinds := make([]string, 0, len(stats.FailedByKind))
	for kind := range stats.FailedByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		l.print("", fmt.Sprintf("  %s: %d", kind, stats.FailedByKind[kind]))
	}
	l.print("", fmt.Sprintf("*** Run Ended. Duration: %s ***", stats.Duration))

	return &stats, bytes.Clone(l.w.Bytes())
}

func (l *Scratchpad) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.stats.ToolsCalls++
	callID := chatmodel.GetCallID(ctx)
	l.print(callID, tool.Name(), "*** Tool Start ***")
	l.print(callID, tool.Name(), "Input:", input)
}

func (l *Scratchpad) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.stats.ToolsCallsSucceeded++
	callID := chatmodel.GetCallID(ctx)
	if l.mode == ModeVerbose {
		l.print(callID, tool.Name(), "Output:", output)
	}
	l.print(callID, tool.Name(), "*** Tool End ***")
}

func (l *Scratchpad) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	kind := tools.KindOf(err)
	l.stats.ToolsCallsFailed++
	if l.stats.FailedByKind == nil {
		l.stats.FailedByKind = make(map[string]uint32)
	}
	l.stats.FailedByKind[kind]++
	l.print(chatmodel.GetCallID(ctx), tool.Name(), "*** Tool Error ***", kind, err.Error())
}

func (l *Scratchpad) OnToolNotFound(ctx context.Context, name string) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.stats.ToolNotFound++
	l.print(chatmodel.GetCallID(ctx), "*** Tool Not Found ***", name)
}

// print writes the entries to the transcript in the following format:
// [timestamp callID] entry entry\n
// The caller must hold the lock.
func (l *Scratchpad) print(callID string, entries ...string) {
	ts := TimeNowFn().Format("2006-01-02 15:04:05")

	_, _ = l.w.WriteString(ts)
	if callID != "" {
		_, _ = l.w.WriteString(" ")
		_, _ = l.w.WriteString(callID)
	}

	for _, entry := range entries {
		_, _ = l.w.WriteString(" ")
		_, _ = l.w.WriteString(entry)
	}
	_, _ = l.w.WriteString("\n")
}
