package core

import (
	"strings"
	"time"
)

const entryTimeSep = " at "

// Entry is one activity log line. Entries are never modified once committed.
type Entry struct {
	Text string
	Time time.Time
}

// String renders the entry in its stored form: "<text> at <ctime>".
func (e Entry) String() string {
	if e.Time.IsZero() {
		return e.Text
	}
	return e.Text + entryTimeSep + e.Time.Format(time.ANSIC)
}

// ParseEntry reverses Entry.String. A line without a parsable timestamp
// suffix is kept whole as the text with a zero time.
func ParseEntry(line string) Entry {
	i := strings.LastIndex(line, entryTimeSep)
	if i < 0 {
		return Entry{Text: line}
	}
	t, err := time.ParseInLocation(time.ANSIC, line[i+len(entryTimeSep):], time.Local)
	if err != nil {
		return Entry{Text: line}
	}
	return Entry{Text: line[:i], Time: t}
}

// Log is the ordered activity sequence of one account identity.
type Log struct {
	entries []Entry
}

// NewLog creates a log holding entries in the given order.
func NewLog(entries ...Entry) *Log {
	l := &Log{}
	if len(entries) > 0 {
		l.entries = append(make([]Entry, 0, len(entries)), entries...)
	}
	return l
}

// Append adds e at the tail.
func (l *Log) Append(e Entry) {
	l.entries = append(l.entries, e)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Entries returns a copy of the whole sequence, oldest first.
func (l *Log) Entries() []Entry {
	return l.Tail(0)
}

// Tail returns up to n most recent entries, oldest first. n <= 0 means all.
func (l *Log) Tail(n int) []Entry {
	if l == nil {
		return []Entry{}
	}
	start := 0
	if n > 0 && len(l.entries) > n {
		start = len(l.entries) - n
	}
	out := make([]Entry, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// truncate discards entries past n. Only used to drop entries of an
// operation whose save failed; committed entries are never removed.
func (l *Log) truncate(n int) {
	if n < len(l.entries) {
		clear(l.entries[n:])
		l.entries = l.entries[:n]
	}
}
