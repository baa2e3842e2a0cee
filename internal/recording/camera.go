package recording

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"workbench/internal/faults"
	"workbench/internal/logging"
)

// ErrCameraUnreachable marks a failed reachability probe before recording.
var ErrCameraUnreachable = errors.New("camera unreachable")

const (
	filenamePlaceholder = "FILENAME"
	defaultDialTimeout  = 250 * time.Millisecond
)

var cameraAddressPattern = regexp.MustCompile(`(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}):(\d{1,5})`)

// Record is one recording in progress or finished.
type Record struct {
	ID        string
	Path      string
	StartedAt time.Time
	EndedAt   time.Time

	proc Process
}

// Ongoing reports whether the record was started and not yet stopped.
func (r *Record) Ongoing() bool {
	return r != nil && !r.StartedAt.IsZero() && r.EndedAt.IsZero()
}

// Process is a running capture.
type Process interface {
	// Stop asks the capture to finish and waits for it to exit.
	Stop(ctx context.Context) error
}

// Launcher starts capture processes (primarily replaced in tests).
type Launcher interface {
	Launch(command string) (Process, error)
}

// Option configures the camera.
type Option func(*Camera)

// WithLauncher injects a custom process launcher.
func WithLauncher(l Launcher) Option {
	return func(c *Camera) {
		if l != nil {
			c.launcher = l
		}
	}
}

// WithDialer overrides the reachability probe.
func WithDialer(dial func(ctx context.Context, address string) error) Option {
	return func(c *Camera) {
		if dial != nil {
			c.dial = dial
		}
	}
}

// WithClock overrides time sources, for tests.
func WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) Option {
	return func(c *Camera) {
		if now != nil {
			c.now = now
		}
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// Camera records stage videos.
type Camera struct {
	command     string
	videoDir    string
	minDuration time.Duration
	logger      *slog.Logger

	launcher Launcher
	dial     func(ctx context.Context, address string) error
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

// New validates the command template and constructs a camera.
func New(command, videoDir string, minDuration time.Duration, logger *slog.Logger, opts ...Option) (*Camera, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, errors.New("camera command required")
	}
	if !strings.Contains(command, filenamePlaceholder) {
		return nil, fmt.Errorf("camera command must contain %s placeholder", filenamePlaceholder)
	}
	if strings.TrimSpace(videoDir) == "" {
		return nil, errors.New("video directory required")
	}
	c := &Camera{
		command:     command,
		videoDir:    videoDir,
		minDuration: minDuration,
		logger:      logging.NewComponentLogger(logger, "camera"),
		launcher:    shellLauncher{},
		dial:        dialTCP,
		now:         time.Now,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Address extracts the camera host:port from the command, if present.
func Address(command string) (string, bool) {
	match := cameraAddressPattern.FindString(command)
	return match, match != ""
}

// Ping checks that the camera accepts TCP connections. Commands without an
// address are assumed reachable.
func (c *Camera) Ping(ctx context.Context) error {
	address, ok := Address(c.command)
	if !ok {
		return nil
	}
	if err := c.dial(ctx, address); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCameraUnreachable, address, err)
	}
	return nil
}

// Start probes the camera and launches a new capture.
func (c *Camera) Start(ctx context.Context) (*Record, error) {
	if err := c.Ping(ctx); err != nil {
		return nil, faults.Wrap(faults.ErrExternalService, "camera", "start", "probe", err)
	}
	if err := os.MkdirAll(c.videoDir, 0o755); err != nil {
		return nil, faults.Wrap(faults.ErrExternalService, "camera", "start", "create video directory", err)
	}

	rec := &Record{ID: strings.ReplaceAll(uuid.NewString(), "-", "")}
	rec.Path = filepath.Join(c.videoDir, rec.ID+".mp4")
	command := strings.Replace(c.command, filenamePlaceholder, rec.Path, 1)

	proc, err := c.launcher.Launch(command)
	if err != nil {
		return nil, faults.Wrap(faults.ErrExternalService, "camera", "start", "launch ffmpeg", err)
	}
	rec.proc = proc
	rec.StartedAt = c.now()
	c.logger.Info("recording started",
		logging.String("record_id", rec.ID),
		logging.String("path", rec.Path))
	return rec, nil
}

// Stop finishes rec, waiting out the minimum duration first, and returns
// the path of the video file.
func (c *Camera) Stop(ctx context.Context, rec *Record) (string, error) {
	if !rec.Ongoing() || rec.proc == nil {
		return "", faults.Wrap(faults.ErrExternalService, "camera", "stop", "recording is not ongoing", nil)
	}
	if elapsed := c.now().Sub(rec.StartedAt); elapsed < c.minDuration {
		wait := c.minDuration - elapsed
		c.logger.Debug("recording below minimum duration; delaying stop",
			logging.String("record_id", rec.ID),
			logging.Duration("wait", wait))
		if err := c.sleep(ctx, wait); err != nil {
			return "", faults.Wrap(faults.ErrExternalService, "camera", "stop", "wait for minimum duration", err)
		}
	}

	stopErr := rec.proc.Stop(ctx)
	rec.proc = nil
	rec.EndedAt = c.now()

	if _, err := os.Stat(rec.Path); err != nil {
		if stopErr != nil {
			err = errors.Join(stopErr, err)
		}
		return "", faults.Wrap(faults.ErrExternalService, "camera", "stop", "no video produced", err)
	}
	if stopErr != nil {
		logging.WarnWithContext(c.logger, "ffmpeg exited with error; keeping partial video",
			"ffmpeg_exit_error",
			logging.String(logging.FieldErrorHint, "check camera stream stability"),
			logging.String(logging.FieldImpact, "video may be truncated"),
			logging.String("record_id", rec.ID),
			logging.Error(stopErr))
	}
	c.logger.Info("recording finished",
		logging.String("record_id", rec.ID),
		logging.Duration("duration", rec.EndedAt.Sub(rec.StartedAt)))
	return rec.Path, nil
}

func dialTCP(ctx context.Context, address string) error {
	dialer := net.Dialer{Timeout: defaultDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return err
	}
	return conn.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
