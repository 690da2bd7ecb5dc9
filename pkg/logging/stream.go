package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// StreamConfig holds configuration for a stream logger
type StreamConfig struct {
	// Path is the log file path; when empty, Writer is used
	Path string
	// Writer receives log lines when Path is empty (defaults to stderr)
	Writer io.Writer
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum file size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of rotated files to keep
	MaxBackups int
}

// sink is shared by a logger and all loggers derived with WithFields
type sink struct {
	mu   sync.Mutex
	cfg  StreamConfig
	file *os.File
	w    io.Writer
	size int64
}

// StreamLogger implements Logger, writing one line per entry
type StreamLogger struct {
	out    *sink
	fields Fields
}

// NewStreamLogger creates a logger writing to a file or to a writer
func NewStreamLogger(cfg StreamConfig) (*StreamLogger, error) {
	if cfg.Format == "" {
		cfg.Format = FormatText
	}

	s := &sink{cfg: cfg}
	if cfg.Path == "" {
		s.w = cfg.Writer
		if s.w == nil {
			s.w = os.Stderr
		}
		return &StreamLogger{out: s}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return &StreamLogger{out: s}, nil
}

// Debug logs a debug message
func (l *StreamLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

// Info logs an info message
func (l *StreamLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

// Warn logs a warning message
func (l *StreamLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

// Error logs an error message
func (l *StreamLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger with additional fields
func (l *StreamLogger) WithFields(fields Fields) Logger {
	return &StreamLogger{out: l.out, fields: mergeFields(l.fields, fields)}
}

// Close closes the log file, if any
func (l *StreamLogger) Close() error {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	if l.out.file != nil {
		err := l.out.file.Close()
		l.out.file = nil
		l.out.w = io.Discard
		return err
	}
	return nil
}

func (l *StreamLogger) log(level Level, msg string, err error, fields Fields) {
	if level < l.out.cfg.Level {
		return
	}

	all := mergeFields(l.fields, fields)
	var line []byte
	if l.out.cfg.Format == FormatJSON {
		line = formatJSON(level, msg, err, all)
	} else {
		line = formatText(level, msg, err, all)
	}
	if line == nil {
		return
	}

	l.out.write(line)
}

func (s *sink) write(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil && s.cfg.MaxSize > 0 && s.size >= s.cfg.MaxSize {
		s.rotate()
	}
	n, _ := s.w.Write(line)
	s.size += int64(n)
}

func (s *sink) open() error {
	file, err := os.OpenFile(s.cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	s.file = file
	s.w = file
	s.size = info.Size()
	return nil
}

// rotate shifts path.N to path.N+1, drops the oldest backup and reopens path
func (s *sink) rotate() {
	s.file.Close()

	path := s.cfg.Path
	if s.cfg.MaxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", path, s.cfg.MaxBackups))
		for i := s.cfg.MaxBackups - 1; i >= 1; i-- {
			os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
		}
		os.Rename(path, path+".1")
	} else {
		os.Remove(path)
	}

	if err := s.open(); err != nil {
		s.file = nil
		s.w = io.Discard
	}
}

func formatJSON(level Level, msg string, err error, fields Fields) []byte {
	entry := make(map[string]interface{}, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level.String()
	entry["message"] = msg
	if err != nil {
		entry["error"] = err.Error()
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil
	}
	return append(data, '\n')
}

func formatText(level Level, msg string, err error, fields Fields) []byte {
	var b strings.Builder
	b.WriteString(time.Now().UTC().Format("2006-01-02T15:04:05.000Z"))
	fmt.Fprintf(&b, " [%s] %s", level, msg)

	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	b.WriteByte('\n')
	return []byte(b.String())
}
