// Package tailer reads log files line by line, optionally following growth.
package tailer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nxadm/tail"

	"github.com/raidtimeline/timeline-go/internal/safefile"
)

// Config controls how a file is read.
type Config struct {
	// FromStart reads existing content. Otherwise reading begins at the
	// end of the file.
	FromStart bool

	// Follow keeps reading as the file grows. Without it the Lines channel
	// closes at end of file.
	Follow bool

	// Poll uses polling instead of file system notifications.
	Poll bool
}

// DefaultConfig reads a recorded file once, from the start.
func DefaultConfig() Config {
	return Config{FromStart: true}
}

// Tailer delivers the lines of one file.
type Tailer struct {
	t      *tail.Tail
	lines  chan string
	errs   chan error
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts reading path. The file must exist and be a regular file.
// Reading stops when ctx is cancelled or Stop is called.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	f, _, err := safefile.OpenRegular(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", safefile.SanitizePathError(err))
	}
	f.Close()

	tcfg := tail.Config{
		Follow:    cfg.Follow,
		ReOpen:    cfg.Follow,
		MustExist: true,
		Poll:      cfg.Poll,
		Logger:    tail.DiscardingLogger,
	}
	if !cfg.FromStart {
		tcfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, tcfg)
	if err != nil {
		return nil, fmt.Errorf("tail log file: %w", safefile.SanitizePathError(err))
	}

	ctx, cancel := context.WithCancel(ctx)
	tl := &Tailer{
		t:      t,
		lines:  make(chan string),
		errs:   make(chan error, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go tl.run(ctx)
	return tl, nil
}

// Lines returns the channel of lines, without line terminators. It is
// closed at end of file when not following, or when reading stops.
func (tl *Tailer) Lines() <-chan string { return tl.lines }

// Errors returns read errors. It is closed together with Lines.
func (tl *Tailer) Errors() <-chan error { return tl.errs }

// Stop ends reading and releases the file. Safe to call multiple times.
func (tl *Tailer) Stop() error {
	tl.cancel()
	<-tl.done
	return nil
}

func (tl *Tailer) run(ctx context.Context) {
	defer close(tl.done)
	defer close(tl.errs)
	defer close(tl.lines)
	defer tl.t.Cleanup()
	defer func() { _ = tl.t.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-tl.t.Lines:
			if !ok {
				if err := tl.t.Wait(); err != nil {
					tl.sendError(ctx, err)
				}
				return
			}
			if line.Err != nil {
				tl.sendError(ctx, line.Err)
				continue
			}
			select {
			case tl.lines <- strings.TrimRight(line.Text, "\r"):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (tl *Tailer) sendError(ctx context.Context, err error) {
	select {
	case tl.errs <- err:
	case <-ctx.Done():
	}
}
