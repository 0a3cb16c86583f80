package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryString(t *testing.T) {
	stamp := time.Date(2023, time.December, 25, 18, 5, 9, 0, time.Local)
	e := Entry{Text: "Deposit +RM 10, before=RM 0, after=RM 10", Time: stamp}

	line := e.String()
	assert.Equal(t, "Deposit +RM 10, before=RM 0, after=RM 10 at Mon Dec 25 18:05:09 2023", line)

	back := ParseEntry(line)
	assert.Equal(t, e.Text, back.Text)
	assert.True(t, stamp.Equal(back.Time))
}

func TestParseEntryWithoutStamp(t *testing.T) {
	for _, line := range []string{"Account created", "look at this", "Deposit at noon"} {
		e := ParseEntry(line)
		assert.Equal(t, line, e.Text)
		assert.True(t, e.Time.IsZero())
		assert.Equal(t, line, e.String())
	}
}

func TestLogTail(t *testing.T) {
	l := NewLog(Entry{Text: "a"}, Entry{Text: "b"}, Entry{Text: "c"})

	assert.Equal(t, []Entry{{Text: "b"}, {Text: "c"}}, l.Tail(2))
	assert.Len(t, l.Tail(10), 3)
	assert.Len(t, l.Tail(0), 3)
	assert.Len(t, l.Tail(-1), 3)

	tail := l.Tail(1)
	tail[0].Text = "mutated"
	assert.Equal(t, "c", l.Tail(1)[0].Text, "tail is a copy")

	var empty *Log
	assert.Zero(t, empty.Len())
	assert.Empty(t, empty.Tail(5))
}

func TestLogTruncate(t *testing.T) {
	l := NewLog(Entry{Text: "a"})
	l.Append(Entry{Text: "b"})
	l.Append(Entry{Text: "c"})

	l.truncate(1)
	assert.Equal(t, 1, l.Len())
	l.truncate(5)
	assert.Equal(t, 1, l.Len())
}
