package progress

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// Reporter observes a run's page progress. Advance is called once per
// completed page, failed or not, and may be called concurrently.
type Reporter interface {
	Start(total int)
	Advance()
	Finish()
}

type Nop struct{}

func (Nop) Start(int) {}
func (Nop) Advance()  {}
func (Nop) Finish()   {}

// Log reports progress as slog lines.
type Log struct {
	Ctx context.Context

	total     atomic.Int64
	completed atomic.Int64
}

func (l *Log) ctx() context.Context {
	if l.Ctx == nil {
		return context.Background()
	}
	return l.Ctx
}

func (l *Log) Start(total int) {
	l.total.Store(int64(total))
	l.completed.Store(0)
	slog.InfoContext(l.ctx(), "scraping pages", "total", total)
}

func (l *Log) Advance() {
	n := l.completed.Add(1)
	slog.DebugContext(l.ctx(), "page completed", "completed", n, "total", l.total.Load())
}

func (l *Log) Finish() {
	slog.InfoContext(l.ctx(), "pages completed", "completed", l.completed.Load(), "total", l.total.Load())
}

// Completed returns how many pages were reported done since Start.
func (l *Log) Completed() int {
	return int(l.completed.Load())
}

// Bar renders a terminal progress bar with an ETA and a
// "value/total pages" counter.
type Bar struct {
	out io.Writer

	mutex   sync.Mutex
	writer  progress.Writer
	tracker *progress.Tracker
	done    chan struct{}
}

func NewBar(out io.Writer) *Bar {
	return &Bar{out: out}
}

var pageUnits = progress.Units{
	Notation:         " pages",
	NotationPosition: progress.UnitsNotationPositionAfter,
	Formatter:        progress.FormatNumber,
}

func (b *Bar) Start(total int) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.writer != nil {
		return
	}

	writer := progress.NewWriter()
	writer.SetOutputWriter(b.out)
	writer.SetAutoStop(true)
	writer.SetTrackerLength(30)
	writer.SetNumTrackersExpected(1)
	writer.SetUpdateFrequency(100 * time.Millisecond)
	writer.SetStyle(progress.StyleDefault)
	writer.Style().Visibility.ETA = true
	writer.Style().Visibility.ETAOverall = false
	writer.Style().Visibility.Percentage = true
	writer.Style().Visibility.Speed = false
	writer.Style().Visibility.Time = true
	writer.Style().Visibility.Value = true
	writer.Style().Options.TimeInProgressPrecision = time.Second
	writer.Style().Options.TimeDonePrecision = time.Millisecond

	tracker := &progress.Tracker{
		Message: "scraping",
		Total:   int64(total),
		Units:   pageUnits,
	}
	writer.AppendTracker(tracker)

	b.writer = writer
	b.tracker = tracker
	b.done = make(chan struct{})
	go func() {
		writer.Render()
		close(b.done)
	}()
}

func (b *Bar) Advance() {
	b.mutex.Lock()
	tracker := b.tracker
	b.mutex.Unlock()
	if tracker == nil {
		return
	}
	tracker.Increment(1)
}

// Finish marks the bar done and waits for the final frame to render.
func (b *Bar) Finish() {
	b.mutex.Lock()
	tracker := b.tracker
	done := b.done
	b.tracker = nil
	b.mutex.Unlock()
	if tracker == nil {
		return
	}

	tracker.MarkAsDone()
	<-done
}
