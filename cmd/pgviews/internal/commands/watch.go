package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-nacelle/log/v2"
	"github.com/segmentio/fasthash/fnv1"
)

const watchDebounce = 200 * time.Millisecond

// watchDefinitions prints the output of list once and again after every burst of
// changes to .sql files in dir, skipping output identical to the last print. It
// returns when ctx is cancelled or list fails.
func watchDefinitions(ctx context.Context, dir string, logger log.Logger, list func(context.Context) (string, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	var lastHash uint64
	emit := func() error {
		out, err := list(ctx)
		if err != nil {
			return err
		}

		if hash := fnv1.HashString64(out); hash != lastHash {
			lastHash = hash
			fmt.Print(out)
		} else {
			logger.Debug("View definitions changed without affecting output")
		}

		return nil
	}

	if err := emit(); err != nil {
		return err
	}

	var (
		debounce *time.Timer
		fire     <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}

			return nil

		case <-fire:
			fire = nil
			if err := emit(); err != nil {
				return err
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if !strings.HasSuffix(ev.Name, ".sql") || ev.Op == fsnotify.Chmod {
				continue
			}

			logger.DebugWithFields(log.LogFields{
				"file": filepath.Base(ev.Name),
				"op":   ev.Op.String(),
			}, "View definition changed")

			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}

			logger.ErrorWithFields(log.LogFields{"error": watchErr}, "Definitions watcher error")
		}
	}
}
