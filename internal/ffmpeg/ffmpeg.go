package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	apperr "videoverse/pkg/errors"
)

// CommandRunner abstracts external command execution so the encoder can be
// exercised in tests without ffmpeg installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec.
type ExecCommandRunner struct{}

func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// Encoder drives ffmpeg/ffprobe for the three media operations the service
// needs: duration probing, time-range trims and ordered concatenation. It
// keeps no state between calls.
type Encoder struct {
	ffmpegPath  string
	ffprobePath string
	runner      CommandRunner
}

type Option func(*Encoder)

func WithFFmpegPath(path string) Option {
	return func(e *Encoder) { e.ffmpegPath = path }
}

func WithFFprobePath(path string) Option {
	return func(e *Encoder) { e.ffprobePath = path }
}

func WithRunner(runner CommandRunner) Option {
	return func(e *Encoder) { e.runner = runner }
}

func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProbeDuration returns the container duration of the file at path in
// fractional seconds.
func (e *Encoder) ProbeDuration(ctx context.Context, path string) (float64, error) {
	out, err := e.runner.Output(ctx, e.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, apperr.EncoderProbe(fmt.Errorf("ffprobe %s: %w", path, err))
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, apperr.EncoderProbe(fmt.Errorf("unparsable ffprobe output %q: %w", strings.TrimSpace(string(out)), err))
	}
	return duration, nil
}

// Trim writes the [start, end) window of inputPath to outputPath using a
// stream copy. On failure the caller must discard anything present at
// outputPath.
func (e *Encoder) Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error {
	args := []string{
		"-i", inputPath,
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-c", "copy",
		"-y",
		outputPath,
	}
	if err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return apperr.EncoderProcess(fmt.Errorf("ffmpeg trim failed: %w", err))
	}
	return nil
}

// Concat joins inputPaths in order into outputPath via the concat demuxer.
// The manifest written to manifestPath is removed whether or not the
// invocation succeeds. Inputs are assumed to share compatible encoding
// parameters; mismatches are the caller's responsibility.
func (e *Encoder) Concat(ctx context.Context, inputPaths []string, manifestPath, outputPath string) error {
	if err := writeManifest(manifestPath, inputPaths); err != nil {
		return apperr.EncoderProcess(fmt.Errorf("writing concat manifest: %w", err))
	}
	defer os.Remove(manifestPath)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", manifestPath,
		"-c", "copy",
		"-y",
		outputPath,
	}
	if err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return apperr.EncoderProcess(fmt.Errorf("ffmpeg concat failed: %w", err))
	}
	return nil
}

// VerifyInstalled checks that both binaries are reachable.
func (e *Encoder) VerifyInstalled(ctx context.Context) error {
	if _, err := e.runner.Output(ctx, e.ffmpegPath, "-version"); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	if _, err := e.runner.Output(ctx, e.ffprobePath, "-version"); err != nil {
		return fmt.Errorf("ffprobe not found or not executable: %w", err)
	}
	return nil
}

func writeManifest(path string, inputs []string) error {
	var b strings.Builder
	for _, in := range inputs {
		// concat demuxer syntax: file 'path', single quotes escaped.
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(in, "'", `'\''`))
		b.WriteString("'\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
