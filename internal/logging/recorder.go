package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// Entry is one captured log line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  map[string]any
}

// Recorder is a zapcore.Core that keeps entries in memory for the
// processing log of a single call.
type Recorder struct {
	zapcore.LevelEnabler
	fields []zapcore.Field
	store  *entryStore
}

type entryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder returns an empty recorder enabled at or above level.
func NewRecorder(level zapcore.LevelEnabler) *Recorder {
	return &Recorder{LevelEnabler: level, store: &entryStore{}}
}

// With returns a child core sharing the same entry store.
func (r *Recorder) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(r.fields)+len(fields))
	merged = append(merged, r.fields...)
	merged = append(merged, fields...)
	return &Recorder{LevelEnabler: r.LevelEnabler, fields: merged, store: r.store}
}

func (r *Recorder) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if r.Enabled(ent.Level) {
		return ce.AddCore(ent, r)
	}
	return ce
}

func (r *Recorder) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range r.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	e := Entry{Time: ent.Time, Level: ent.Level.CapitalString(), Message: ent.Message}
	if len(enc.Fields) > 0 {
		e.Fields = enc.Fields
	}

	r.store.mu.Lock()
	r.store.entries = append(r.store.entries, e)
	r.store.mu.Unlock()
	return nil
}

func (r *Recorder) Sync() error { return nil }

// Entries returns a copy of the captured entries.
func (r *Recorder) Entries() []Entry {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]Entry, len(r.store.entries))
	copy(out, r.store.entries)
	return out
}

// Summary renders the human-readable processing log:
//
//	Processing completed with N log entries:
//	[HH:MM:SS] LEVEL: message
func (r *Recorder) Summary() string {
	entries := r.Entries()
	if len(entries) == 0 {
		return "No logs recorded."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Processing completed with %d log entries:\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "[%s] %s: %s\n", e.Time.UTC().Format("15:04:05"), e.Level, e.Message)
	}
	return b.String()
}
