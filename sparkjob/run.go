package sparkjob

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/xerrors"

	"go.ytsaurus.tech/library/go/core/log"
)

type State int

const (
	StateSucceed State = iota
	StateError
)

func (s State) String() string {
	switch s {
	case StateSucceed:
		return "succeed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

const (
	InfoApplicationID = "yarn_application_id"
	InfoTrackingURL   = "tracking_url"
	InfoFinalStatus   = "final_status"

	maxOutputLines = 1000
)

var infoPatterns = []struct {
	key string
	re  *regexp.Regexp
}{
	{InfoApplicationID, regexp.MustCompile(`Submitted application (application_\d+_\d+)`)},
	{InfoTrackingURL, regexp.MustCompile(`tracking URL:\s*(\S+)`)},
	{InfoFinalStatus, regexp.MustCompile(`final status:\s*(\S+)`)},
}

// Result of the spark-submit run.
type Result struct {
	State State

	// Output holds the last lines of combined stdout and stderr.
	Output string

	// Info holds values extracted from output, see Info* constants.
	Info map[string]string
}

// outputLogger logs spark-submit output line by line and remembers extracted info.
type outputLogger struct {
	l     log.Logger
	lines []string
	info  map[string]string
}

func newOutputLogger(l log.Logger) *outputLogger {
	return &outputLogger{l: l, info: map[string]string{}}
}

func (o *outputLogger) Log(line string) {
	o.l.Debug("spark-submit", log.String("line", line))

	if len(o.lines) == maxOutputLines {
		o.lines = append(o.lines[:0], o.lines[1:]...)
	}
	o.lines = append(o.lines, line)

	for _, p := range infoPatterns {
		if m := p.re.FindStringSubmatch(line); m != nil {
			if o.info[p.key] != m[1] {
				o.l.Info("Spark job info", log.String("key", p.key), log.String("value", m[1]))
			}
			o.info[p.key] = m[1]
		}
	}
}

func (o *outputLogger) Output() string {
	return strings.Join(o.lines, "\n")
}

// Run submits job and waits for spark-submit to exit.
//
// Failures to start spark-submit are retried. Non-zero exit code is reported as StateError together with
// error wrapping *exec.ExitError.
func (e *Executable) Run(ctx context.Context, cfg *Config) (*Result, error) {
	cmd, err := e.Command(cfg)
	if err != nil {
		return nil, err
	}

	l := e.logger()
	l.Info("Submitting spark job", log.String("command", cmd.String()))

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.MaxSubmitTimeOrDefault()

	var result *Result
	attempt := 0
	run := func() error {
		attempt++

		var startErr error
		result, startErr, err = e.runOnce(ctx, cmd)
		if startErr != nil {
			l.Warn("Failed to start spark-submit", log.Int("attempt", attempt), log.Error(startErr))
			return startErr
		}
		return nil
	}

	attempts := cfg.SubmitAttemptsOrDefault()
	retryErr := backoff.Retry(run, backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx))
	if retryErr != nil {
		return &Result{State: StateError}, xerrors.Errorf("sparkjob: start spark-submit: %w", retryErr)
	}

	if err != nil {
		l.Error("Spark job failed", log.String("class_name", e.params[ParamClassName]), log.Error(err))
		return result, err
	}

	l.Info("Spark job finished", log.String("class_name", e.params[ParamClassName]), log.Any("info", result.Info))
	return result, nil
}

// runOnce returns startErr when process could not be started and err when it exited with failure.
func (e *Executable) runOnce(ctx context.Context, c *Command) (result *Result, startErr, err error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Env = append(os.Environ(), c.Env...)

	stdout, startErr := cmd.StdoutPipe()
	if startErr != nil {
		return nil, startErr, nil
	}
	cmd.Stderr = cmd.Stdout

	if startErr = cmd.Start(); startErr != nil {
		return nil, startErr, nil
	}

	out := newOutputLogger(e.logger())
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		out.Log(scanner.Text())
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := cmd.Wait()

	result = &Result{State: StateSucceed, Output: out.Output(), Info: out.info}
	switch {
	case waitErr != nil:
		result.State = StateError
		err = xerrors.Errorf("sparkjob: spark-submit failed: %w", waitErr)
	case scanErr != nil:
		result.State = StateError
		err = xerrors.Errorf("sparkjob: read spark-submit output: %w", scanErr)
	}
	return result, nil, err
}
