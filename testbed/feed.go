package testbed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/anima-progress/engine/core"
)

// FeedUpdate is one request read from the feed file.
type FeedUpdate struct {
	Progress float32
	Duration time.Duration
}

// ParseFeedLine reads "<progress> [duration]", e.g. "0.4" or "0 250ms". When
// the duration is omitted defaultDuration is used. The progress value is not
// range checked here, the bar rejects out of range values itself.
func ParseFeedLine(line string, defaultDuration time.Duration) (FeedUpdate, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || len(fields) > 2 {
		return FeedUpdate{}, fmt.Errorf("feed line %q: expected \"<progress> [duration]\"", line)
	}
	p, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return FeedUpdate{}, fmt.Errorf("feed line %q: %w", line, err)
	}
	u := FeedUpdate{
		Progress: float32(p),
		Duration: defaultDuration,
	}
	if len(fields) == 2 {
		if u.Duration, err = time.ParseDuration(fields[1]); err != nil {
			return FeedUpdate{}, fmt.Errorf("feed line %q: %w", line, err)
		}
	}
	return u, nil
}

// Feed watches a single file and publishes its last non-empty line every
// time it is written. Its directory is watched rather than the file so that
// editors replacing the file on save keep working.
type Feed struct {
	path            string
	defaultDuration time.Duration

	fsnotify *fsnotify.Watcher
	updates  chan FeedUpdate
	done     chan struct{}
	stopped  chan struct{}
}

func NewFeed(path string, defaultDuration time.Duration) (*Feed, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	f := &Feed{
		path:            abs,
		defaultDuration: defaultDuration,
		fsnotify:        fsWatch,
		updates:         make(chan FeedUpdate, 1),
		done:            make(chan struct{}),
		stopped:         make(chan struct{}),
	}
	go f.start()

	// pick up whatever the file already holds
	if _, err := os.Stat(abs); err == nil {
		f.handleFileEvent()
	}
	return f, nil
}

// Updates delivers parsed values. Only the latest pending value is kept, a
// slow reader skips intermediate ones.
func (f *Feed) Updates() <-chan FeedUpdate {
	return f.updates
}

func (f *Feed) Path() string {
	return f.path
}

func (f *Feed) Close() error {
	select {
	case <-f.done:
		return nil
	default:
	}
	close(f.done)
	<-f.stopped
	return nil
}

func (f *Feed) start() {
	defer close(f.stopped)
	for {
		select {
		case e, ok := <-f.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != f.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				f.handleFileEvent()
			}

		case err, ok := <-f.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("feed %s: %s", f.path, err)

		case <-f.done:
			f.fsnotify.Close()
			return
		}
	}
}

func (f *Feed) handleFileEvent() {
	u, err := f.read()
	if err != nil {
		// a writer truncating before writing yields an empty read, the
		// following write event brings the value
		if !errors.Is(err, errEmptyFeed) {
			core.LogWarn("feed %s: %s", f.path, err)
		}
		return
	}
	f.publish(u)
}

var errEmptyFeed = errors.New("feed file is empty")

func (f *Feed) read() (FeedUpdate, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return FeedUpdate{}, err
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return FeedUpdate{}, errEmptyFeed
	}
	return ParseFeedLine(last, f.defaultDuration)
}

func (f *Feed) publish(u FeedUpdate) {
	for {
		select {
		case f.updates <- u:
			return
		default:
		}
		// drop the stale value and retry
		select {
		case <-f.updates:
		default:
		}
	}
}
