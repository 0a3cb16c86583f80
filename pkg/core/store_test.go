package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount(id int, identity string) *Account {
	return &Account{
		ID:      id,
		Profile: Profile{Name: "Test Holder", Identity: identity, Gender: Male, Type: Current},
		PIN:     1234,
	}
}

func TestStoreDetachReattach(t *testing.T) {
	s := NewStore()
	s.insert(testAccount(1, "AAA111"))
	s.insert(testAccount(2, "BBB222"))
	s.insert(testAccount(3, "CCC333"))

	a, pos, err := s.detach(2)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.ArchivedLen())
	_, err = s.Find(2)
	assert.ErrorIs(t, err, ErrNotFound)

	s.reattach(a, pos)
	ids := []int{}
	for _, acc := range s.Accounts() {
		ids = append(ids, acc.ID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids, "store order restored")
	assert.Zero(t, s.ArchivedLen())
	assert.NotNil(t, a.log)

	_, _, err = s.detach(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreNextIDCountsArchive(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 1, s.NextID())

	s.insert(testAccount(4, "AAA111"))
	_, _, err := s.detach(4)
	require.NoError(t, err)
	assert.Equal(t, 5, s.NextID())
}

func TestStoreFromSnapshot(t *testing.T) {
	stamp := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.Local)
	snap := Snapshot{
		Accounts: []AccountRecord{
			{ID: 3, Name: "Test Holder", Identity: "AAA111", Gender: Male, Type: Current, PIN: 1, Balance: 5},
			{ID: 1, Name: "Test Holder", Identity: "BBB222", Gender: Female, Type: Savings, PIN: 2, Balance: 6},
			{ID: 3, Name: "Duplicate", Identity: "CCC333", Gender: Male, Type: Current},
		},
		Logs: []LogRecord{
			{AccountID: 3, Entries: []Entry{{Text: "Account created", Time: stamp}}},
			{AccountID: 7, Entries: []Entry{{Text: "Account deleted", Time: stamp}}},
		},
	}

	s := NewStoreFromSnapshot(snap)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 8, s.NextID())

	a, err := s.Find(3)
	require.NoError(t, err)
	assert.Equal(t, "AAA111", a.Identity)
	assert.Equal(t, 1, a.log.Len())

	archived, ok := s.Archived(7)
	require.True(t, ok)
	assert.Equal(t, 1, archived.Len())

	out := s.Snapshot()
	assert.Equal(t, []int{3, 1}, []int{out.Accounts[0].ID, out.Accounts[1].ID})
	require.Len(t, out.Logs, 3)
	assert.Equal(t, []int{3, 1, 7}, []int{out.Logs[0].AccountID, out.Logs[1].AccountID, out.Logs[2].AccountID})
}

func TestStoreFindIdentity(t *testing.T) {
	s := NewStore()
	s.insert(testAccount(1, "AAA111"))

	a, ok := s.FindIdentity("AAA111")
	require.True(t, ok)
	assert.Equal(t, 1, a.ID)

	_, ok = s.FindIdentity("ZZZ999")
	assert.False(t, ok)
}
