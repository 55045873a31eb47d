// Package hostcmd runs the host's per-source import command.
package hostcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/aalvaropc/vulimport/internal/app/template"
	"github.com/aalvaropc/vulimport/internal/domain"
	"github.com/aalvaropc/vulimport/internal/ports"
)

// tailLines is how much command output is kept for error messages.
const tailLines = 5

// Runner executes an argv once per data table source. Arguments may contain the
// placeholders {source}, {source_file}, {data_table}, {directory}, {patterns} and
// {top_level_key}.
type Runner struct {
	command []string
	dir     string
	env     []string
	log     *slog.Logger
}

type Option func(*Runner)

// WithDir sets the working directory of the command (workspace root).
func WithDir(dir string) Option {
	return func(r *Runner) { r.dir = dir }
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) Option {
	return func(r *Runner) { r.env = append(r.env, env...) }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// New validates the command up front: an empty command or an unknown
// placeholder is a configuration error.
func New(command []string, opts ...Option) (*Runner, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, &domain.OpError{
			Op:   "hostcmd.new",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("importer.command is empty: %w", domain.ErrInvalidConfig),
		}
	}
	if _, err := Expand(command, domain.Asset{}); err != nil {
		return nil, err
	}

	r := &Runner{
		command: append([]string(nil), command...),
		log:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

var _ ports.SourceRunner = (*Runner)(nil)

func (r *Runner) RunSource(ctx context.Context, source domain.Asset) error {
	argv, err := Expand(r.command, source)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if errors.Is(cmd.Err, exec.ErrDot) {
		cmd.Err = nil
	}
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	out := &lineLogger{ctx: ctx, log: r.log.With("source", source.Ref.String())}
	cmd.Stdout = out
	cmd.Stderr = out

	r.log.DebugContext(ctx, "running importer", "source", source.Ref.String(), "argv", argv)

	err = cmd.Run()
	out.flush()
	if err != nil {
		msg := err.Error()
		if tail := out.tail(); tail != "" {
			msg = tail + ": " + msg
		}
		return &domain.OpError{
			Op:   "hostcmd.run",
			Kind: domain.KindExecution,
			Path: source.Ref.String(),
			Err:  fmt.Errorf("%s: %w", msg, domain.ErrExecution),
		}
	}
	return nil
}

// Expand substitutes source placeholders into every argument.
func Expand(command []string, source domain.Asset) ([]string, error) {
	return template.RenderArgs(command, Vars(source))
}

// Vars returns the placeholder values for a source.
func Vars(source domain.Asset) map[string]string {
	return map[string]string{
		"source":        source.Ref.String(),
		"source_file":   source.File,
		"data_table":    source.Source.DataTable.String(),
		"directory":     source.Source.Directory,
		"patterns":      strings.Join(source.Source.FilePatterns, ","),
		"top_level_key": source.Source.TopLevelKey,
	}
}

// lineLogger forwards command output to the logger line by line and keeps the
// last few lines.
type lineLogger struct {
	ctx  context.Context
	log  *slog.Logger
	buf  bytes.Buffer
	last []string
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.buf.Write(p)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// Incomplete line: put it back for the next write.
			l.buf.Reset()
			l.buf.WriteString(line)
			break
		}
		l.emit(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

func (l *lineLogger) flush() {
	if l.buf.Len() > 0 {
		l.emit(strings.TrimRight(l.buf.String(), "\r\n"))
		l.buf.Reset()
	}
}

func (l *lineLogger) emit(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	l.log.DebugContext(l.ctx, "importer output", "line", line)
	l.last = append(l.last, line)
	if len(l.last) > tailLines {
		l.last = l.last[len(l.last)-tailLines:]
	}
}

func (l *lineLogger) tail() string {
	return strings.Join(l.last, "; ")
}
