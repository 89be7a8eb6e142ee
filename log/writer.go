package log

import (
	"container/ring"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
)

type Writer interface {
	Write(e *Event) error
	Close()
}

type formatWriter struct {
	writer    io.Writer
	level     Level
	formatter Formatter
	closer    io.Closer
}

func (w *formatWriter) Write(e *Event) error {
	if w.level < e.Level || e.Level == Lsilent {
		return nil
	}

	_, err := w.writer.Write(w.formatter.Bytes(e))

	return err
}

func (w *formatWriter) Close() {
	if w.closer != nil {
		w.closer.Close()
		w.closer = nil
	}
}

// NewJSONWriter writes one JSON object per event.
func NewJSONWriter(w io.Writer, level Level) Writer {
	return NewSyncWriter(&formatWriter{
		writer:    w,
		level:     level,
		formatter: NewJSONFormatter(),
	})
}

// NewConsoleWriter writes key=value lines. Colors are only used if the writer
// is a terminal.
func NewConsoleWriter(w io.Writer, level Level, useColor bool) Writer {
	color := useColor

	if color {
		if f, ok := w.(*os.File); ok {
			if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
				color = false
			}
		} else {
			color = false
		}
	}

	return NewSyncWriter(&formatWriter{
		writer:    w,
		level:     level,
		formatter: NewConsoleFormatter(color),
	})
}

// NewFileWriter appends events in the text layout to the file at path. Missing
// parent directories are created.
func NewFileWriter(path string, level Level) (Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	return NewSyncWriter(&formatWriter{
		writer:    file,
		level:     level,
		formatter: NewTextFormatter(),
		closer:    file,
	}), nil
}

type syncWriter struct {
	mu     sync.Mutex
	writer Writer
}

func NewSyncWriter(writer Writer) Writer {
	return &syncWriter{
		writer: writer,
	}
}

func (w *syncWriter) Write(e *Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.writer.Write(e)
}

func (w *syncWriter) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writer.Close()
}

type multiWriter struct {
	writer []Writer
}

// NewMultiWriter hands every event to all writers. A failing writer doesn't
// keep the event from the others; the first error is returned.
func NewMultiWriter(writer ...Writer) Writer {
	mw := &multiWriter{}

	for _, w := range writer {
		if w != nil {
			mw.writer = append(mw.writer, w)
		}
	}

	return mw
}

func (w *multiWriter) Write(e *Event) error {
	var firstErr error

	for _, writer := range w.writer {
		if err := writer.Write(e); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (w *multiWriter) Close() {
	for _, writer := range w.writer {
		writer.Close()
	}
}

type BufferWriter interface {
	Writer
	Events() []*Event
}

type bufferWriter struct {
	lines *ring.Ring
	lock  sync.RWMutex
	level Level
}

// NewBufferWriter keeps the last lines events in memory.
func NewBufferWriter(level Level, lines int) BufferWriter {
	b := &bufferWriter{
		level: level,
	}

	if lines > 0 {
		b.lines = ring.New(lines)
	}

	return b
}

func (w *bufferWriter) Write(e *Event) error {
	if w.level < e.Level || e.Level == Lsilent {
		return nil
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	if w.lines != nil {
		w.lines.Value = e.clone()
		w.lines = w.lines.Next()
	}

	return nil
}

func (w *bufferWriter) Close() {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.lines = nil
}

func (w *bufferWriter) Events() []*Event {
	var lines = []*Event{}

	w.lock.RLock()
	defer w.lock.RUnlock()

	if w.lines == nil {
		return lines
	}

	w.lines.Do(func(l interface{}) {
		if l == nil {
			return
		}

		lines = append(lines, l.(*Event).clone())
	})

	return lines
}
