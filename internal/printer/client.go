package printer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"workbench/internal/faults"
	"workbench/internal/logging"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client submits images to CUPS.
type Client struct {
	binary  string
	printer string
	exec    Executor
	logger  *slog.Logger
}

// New constructs a CUPS client. An empty printer name uses the system
// default destination.
func New(binary, printerName string, logger *slog.Logger, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("print command required")
	}
	c := &Client{
		binary:  binary,
		printer: strings.TrimSpace(printerName),
		exec:    commandExecutor{},
		logger:  logging.NewComponentLogger(logger, "printer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PrintImage prints the image at path, using annotation as the job title.
func (c *Client) PrintImage(ctx context.Context, path, annotation string) error {
	info, err := os.Stat(path)
	if err != nil {
		return faults.Wrap(faults.ErrExternalService, "printer", "print", "image missing", err)
	}
	if info.IsDir() {
		return faults.Wrap(faults.ErrExternalService, "printer", "print", path+" is not a file", nil)
	}

	args := make([]string, 0, 6)
	if c.printer != "" {
		args = append(args, "-d", c.printer)
	}
	if annotation = strings.TrimSpace(annotation); annotation != "" {
		args = append(args, "-t", annotation)
	}
	args = append(args, path)

	out, err := c.exec.Run(ctx, c.binary, args)
	if err != nil {
		return faults.Wrap(faults.ErrExternalService, "printer", "print", strings.TrimSpace(string(out)), err)
	}
	c.logger.Info("label printed",
		logging.String("path", path),
		logging.String("annotation", annotation),
		logging.String("job", strings.TrimSpace(string(out))))
	return nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s: %w", binary, err)
	}
	return out, nil
}
