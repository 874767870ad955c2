package app

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const readinessTimeout = 30 * time.Second

// Verdict is the outcome of one readiness check.
type Verdict struct {
	Ready  bool
	Output string // advisory text from the helper, stdout preferred
}

// ReadinessChecker decides whether a case's ticket permits purging.
type ReadinessChecker interface {
	Check(ctx context.Context, caseNumber string, verbose bool) Verdict
	Validate() error
}

// helperChecker shells out to the external purge-query helper. The helper's
// exit code is the sole readiness signal.
type helperChecker struct {
	path   string
	prefix string
}

// NewHelperChecker builds the subprocess-backed readiness oracle.
func NewHelperChecker(path, prefix string) ReadinessChecker {
	return &helperChecker{path: path, prefix: prefix}
}

// Validate verifies the helper exists before any case is processed.
func (h *helperChecker) Validate() error {
	if _, err := os.Stat(h.path); err != nil {
		return errors.Wrapf(err, "purge helper not found at %s", h.path)
	}
	return nil
}

func (h *helperChecker) Check(ctx context.Context, caseNumber string, verbose bool) Verdict {
	logger := logutil.GetLogger(ctx)
	issueKey := h.prefix + "-" + caseNumber

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	args := []string{}
	if !verbose {
		args = append(args, "-q")
	}
	args = append(args, issueKey)

	cmd := exec.CommandContext(ctx, h.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := strings.TrimSpace(stdout.String())
	if output == "" {
		output = strings.TrimSpace(stderr.String())
	}

	if ctx.Err() == context.DeadlineExceeded {
		logger.Error("timeout checking readiness", zap.String("case", issueKey))
		return Verdict{Ready: false, Output: "Timeout"}
	}
	if err != nil {
		if _, isExit := err.(*exec.ExitError); !isExit {
			logger.Error("error checking readiness", zap.String("case", issueKey), zap.Error(err))
			return Verdict{Ready: false, Output: err.Error()}
		}
		logger.Debug("case not ready for purge", zap.String("case", issueKey), zap.String("stderr", strings.TrimSpace(stderr.String())))
		return Verdict{Ready: false, Output: output}
	}

	logger.Debug("case ready for purge", zap.String("case", issueKey))
	return Verdict{Ready: true, Output: output}
}

// skipChecker treats every case as ready. Only for testing contexts; callers
// log a warning per check so a production run cannot silently use it.
type skipChecker struct{}

// NewSkipChecker builds the bypass oracle used by --skip-readiness-check.
func NewSkipChecker() ReadinessChecker { return skipChecker{} }

func (skipChecker) Validate() error { return nil }

func (skipChecker) Check(ctx context.Context, caseNumber string, _ bool) Verdict {
	logutil.GetLogger(ctx).Warn("skipping readiness check, unsafe outside testing",
		zap.String("case", caseNumber))
	return Verdict{Ready: true, Output: "Skipped (--skip-readiness-check)"}
}
