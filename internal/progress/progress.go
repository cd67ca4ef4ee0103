package progress

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// TimeFormat is the timestamp layout of a log line (DD-MM-YYYY HH:MM:SS).
const TimeFormat = "02-01-2006 15:04:05"

// Separator sits between the timestamp and the message.
const Separator = " :: "

// Entry is one line of the progress log.
type Entry struct {
	Time    time.Time
	Message string
}

// Log appends pipeline milestones to a text file. The file is opened and
// closed on every Append and is never truncated.
type Log struct {
	Path string
	Now  func() time.Time
}

// New returns a Log writing to path with the local wall clock.
func New(path string) *Log {
	return &Log{Path: path, Now: time.Now}
}

// MarshalEntry formats an Entry as a log line without the trailing newline.
func MarshalEntry(e Entry) string {
	return e.Time.Format(TimeFormat) + Separator + e.Message
}

// UnmarshalEntry parses a log line.
func UnmarshalEntry(line string) (Entry, error) {
	ts, msg, ok := strings.Cut(line, Separator)
	if !ok {
		return Entry{}, fmt.Errorf("missing %q separator in %q", Separator, line)
	}
	t, err := time.ParseInLocation(TimeFormat, ts, time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", ts, err)
	}
	return Entry{Time: t, Message: msg}, nil
}

// Append writes one timestamped line for msg.
func (l *Log) Append(msg string) error {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening progress log: %w", err)
	}

	line := MarshalEntry(Entry{Time: now(), Message: msg}) + "\n"
	if _, err := io.WriteString(f, line); err != nil {
		f.Close()
		return fmt.Errorf("writing progress log: %w", err)
	}
	return f.Close()
}

// Read returns all entries in the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening progress log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if line == "" {
			continue
		}
		e, err := UnmarshalEntry(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading progress log: %w", err)
	}
	return entries, nil
}
