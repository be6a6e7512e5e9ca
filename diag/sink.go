// File: diag/sink.go
// Package diag implements the pipeline's diagnostics sinks.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FileSink writes every status line to a log file and mirrors flagged
// lines to the console. It is constructed by whoever assembles the
// pipeline and passed in as an api.Sink; there is no process-wide
// singleton. zap serializes concurrent writers, so both loops may log
// without coordination.

package diag

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/momentics/tickpipe/api"
)

var _ api.Sink = (*FileSink)(nil)

// FileSink is a zap-backed api.Sink appending to a single log file.
type FileSink struct {
	file    *zap.Logger
	mirror  *zap.Logger
	backing *os.File
}

// NewFileSink opens path for appending and returns a sink over it.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("diag: open %s: %w", path, err)
	}
	enc := zapcore.NewConsoleEncoder(encoderConfig())
	fileCore := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(f)), zapcore.InfoLevel)
	consoleCore := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), zapcore.InfoLevel)
	return &FileSink{
		file:    zap.New(fileCore),
		mirror:  zap.New(zapcore.NewTee(fileCore, consoleCore)),
		backing: f,
	}, nil
}

// encoderConfig renders plain timestamped status lines. Level and
// caller add nothing to a single-purpose diagnostic stream.
func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.LevelKey = ""
	cfg.CallerKey = ""
	return cfg
}

// Log writes line to the file, mirroring to stdout when console is set.
func (s *FileSink) Log(line string, console bool) {
	if console {
		s.mirror.Info(line)
		return
	}
	s.file.Info(line)
}

// Close flushes buffered output and closes the log file.
func (s *FileSink) Close() error {
	_ = s.file.Sync()
	return s.backing.Close()
}
