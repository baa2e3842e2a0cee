package recording

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// shellLauncher runs the command through sh so configured commands may use
// quoting and redirection.
type shellLauncher struct{}

func (shellLauncher) Launch(command string) (Process, error) {
	// The capture outlives the request that started it, so it is not bound
	// to a context.
	cmd := exec.Command("sh", "-c", command)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &limitedWriter{buf: &stderr, limit: 4096}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	p := &shellProcess{cmd: cmd, stdin: stdin, stderr: &stderr, done: make(chan struct{})}
	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

type shellProcess struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  *bytes.Buffer
	once    sync.Once
	done    chan struct{}
	waitErr error
}

func (p *shellProcess) Stop(ctx context.Context) error {
	p.once.Do(func() {
		_, _ = io.WriteString(p.stdin, "q")
		_ = p.stdin.Close()
	})
	select {
	case <-p.done:
	case <-ctx.Done():
		_ = p.cmd.Process.Kill()
		<-p.done
		return fmt.Errorf("ffmpeg did not exit: %w", ctx.Err())
	}
	if p.waitErr != nil {
		detail := strings.TrimSpace(p.stderr.String())
		if detail != "" {
			return fmt.Errorf("ffmpeg: %w: %s", p.waitErr, detail)
		}
		return fmt.Errorf("ffmpeg: %w", p.waitErr)
	}
	return nil
}

type limitedWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if remaining := w.limit - w.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			w.buf.Write(p[:remaining])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}
