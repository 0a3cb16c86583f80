package fs_test

import (
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tally/pkg/adapters/fs"
	"github.com/aretw0/tally/pkg/core"
)

func sampleAccount() core.AccountRecord {
	return core.AccountRecord{
		ID:       1,
		Name:     "Alice Tan",
		Identity: "A1234567",
		Gender:   core.Female,
		Type:     core.Savings,
		PIN:      1234,
		Balance:  1000,
	}
}

func TestEncodeAccountsLayout(t *testing.T) {
	data, err := fs.EncodeAccounts([]core.AccountRecord{sampleAccount()})
	require.NoError(t, err)
	require.Len(t, data, fs.AccountRecordSize)

	le := binary.LittleEndian
	assert.Equal(t, uint32(1), le.Uint32(data[0:4]), "id")
	assert.Equal(t, "Alice Tan", strings.TrimRight(string(data[4:104]), "\x00"), "name")
	assert.Equal(t, "A1234567", strings.TrimRight(string(data[104:154]), "\x00"), "identity")
	assert.Equal(t, byte('F'), data[154], "gender")
	assert.Equal(t, "Savings", strings.TrimRight(string(data[155:165]), "\x00"), "type")
	assert.Equal(t, []byte{0, 0, 0}, data[165:168], "padding after type")
	assert.Equal(t, uint32(1234), le.Uint32(data[168:172]), "pin")
	assert.Equal(t, uint64(1000), le.Uint64(data[176:184]), "balance")
}

func TestAccountsRoundTrip(t *testing.T) {
	second := sampleAccount()
	second.ID = 7
	second.Identity = "B7654321"
	second.Gender = core.Male
	second.Type = core.Current
	second.PIN = 7
	second.Balance = -3

	in := []core.AccountRecord{sampleAccount(), second}
	data, err := fs.EncodeAccounts(in)
	require.NoError(t, err)

	out, err := fs.DecodeAccounts(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeAccountsTruncatesLongFields(t *testing.T) {
	rec := sampleAccount()
	rec.Name = strings.Repeat("x", 150)
	rec.Identity = strings.Repeat("9", 60)

	data, err := fs.EncodeAccounts([]core.AccountRecord{rec})
	require.NoError(t, err)

	out, err := fs.DecodeAccounts(data)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, out[0].Name, fs.NameSize-1)
	assert.Len(t, out[0].Identity, fs.IdentitySize-1)
}

func TestEncodeAccountsKeepsRunesWhole(t *testing.T) {
	rec := sampleAccount()
	rec.Name = strings.Repeat("a", fs.NameSize-2) + "é" // 2-byte rune straddles the limit

	data, err := fs.EncodeAccounts([]core.AccountRecord{rec})
	require.NoError(t, err)
	out, err := fs.DecodeAccounts(data)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", fs.NameSize-2), out[0].Name)
}

func TestDecodeAccountsPartialRecord(t *testing.T) {
	data, err := fs.EncodeAccounts([]core.AccountRecord{sampleAccount(), sampleAccount()})
	require.NoError(t, err)

	out, err := fs.DecodeAccounts(data[:fs.AccountRecordSize+10])
	assert.ErrorIs(t, err, fs.ErrCorrupt)
	assert.Len(t, out, 1)
}

func TestDecodeEmpty(t *testing.T) {
	accounts, err := fs.DecodeAccounts(nil)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	logs, err := fs.DecodeLogs(nil)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestLogsLayout(t *testing.T) {
	stamp := time.Date(2024, time.March, 5, 9, 7, 1, 0, time.Local)
	in := []core.LogRecord{{
		AccountID: 2,
		Entries:   []core.Entry{{Text: "Account created", Time: stamp}},
	}}

	data, err := fs.EncodeLogs(in)
	require.NoError(t, err)

	line := "Account created at Tue Mar  5 09:07:01 2024"
	le := binary.LittleEndian
	require.Len(t, data, 12+len(line))
	assert.Equal(t, uint32(2), le.Uint32(data[0:4]))
	assert.Equal(t, uint32(1), le.Uint32(data[4:8]))
	assert.Equal(t, uint32(len(line)), le.Uint32(data[8:12]))
	assert.Equal(t, line, string(data[12:]))

	out, err := fs.DecodeLogs(data)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].AccountID)
	assert.Equal(t, "Account created", out[0].Entries[0].Text)
	assert.True(t, stamp.Equal(out[0].Entries[0].Time))
}

func TestDecodeLogsStopsAtDamage(t *testing.T) {
	in := []core.LogRecord{
		{AccountID: 1, Entries: []core.Entry{{Text: "one"}, {Text: "two"}}},
		{AccountID: 2, Entries: []core.Entry{{Text: "three"}}},
	}
	data, err := fs.EncodeLogs(in)
	require.NoError(t, err)

	t.Run("Truncated Tail", func(t *testing.T) {
		out, err := fs.DecodeLogs(data[:len(data)-2])
		assert.ErrorIs(t, err, fs.ErrCorrupt)
		require.Len(t, out, 1)
		assert.Equal(t, 1, out[0].AccountID)
		assert.Len(t, out[0].Entries, 2)
	})

	t.Run("Bad Length", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		// first entry length of the first record
		binary.LittleEndian.PutUint32(bad[8:12], 1<<30)
		out, err := fs.DecodeLogs(bad)
		assert.ErrorIs(t, err, fs.ErrCorrupt)
		assert.Empty(t, out)
	})

	t.Run("Negative Count", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		binary.LittleEndian.PutUint32(bad[4:8], 0xFFFFFFFF)
		out, err := fs.DecodeLogs(bad)
		assert.ErrorIs(t, err, fs.ErrCorrupt)
		assert.Empty(t, out)
	})
}

func TestParseEntryKeepsUnstampedText(t *testing.T) {
	out, err := fs.DecodeLogs(mustEncodeLogs(t, []core.LogRecord{{AccountID: 3, Entries: []core.Entry{{Text: "meet at noon"}}}}))
	require.NoError(t, err)
	assert.Equal(t, "meet at noon", out[0].Entries[0].Text)
	assert.True(t, out[0].Entries[0].Time.IsZero())
}

func mustEncodeLogs(t *testing.T, recs []core.LogRecord) []byte {
	t.Helper()
	data, err := fs.EncodeLogs(recs)
	require.NoError(t, err)
	return data
}
