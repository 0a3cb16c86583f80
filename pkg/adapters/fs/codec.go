package fs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/aretw0/tally/pkg/core"
)

// Field sizes of the account record. Strings longer than size-1 bytes are
// silently cut on save (the last byte is always NUL), so overlong names and
// identity numbers are lossy.
const (
	NameSize     = 100
	IdentitySize = 50
	TypeSize     = 10

	// AccountRecordSize is the on-disk size of one account record, padding
	// included.
	AccountRecordSize = 184
)

// ErrCorrupt reports a malformed or truncated resource. Decoders return it
// together with everything parsed before the damage.
var ErrCorrupt = errors.New("corrupt resource")

var byteOrder = binary.LittleEndian

// accountRecord mirrors the fixed-width layout of the account resource,
// including the alignment padding of the original record.
type accountRecord struct {
	ID       int32
	Name     [NameSize]byte
	Identity [IdentitySize]byte
	Gender   byte
	Type     [TypeSize]byte
	_        [3]byte
	PIN      int32
	_        [4]byte
	Balance  int64
}

// EncodeAccounts serializes active accounts as consecutive fixed records.
func EncodeAccounts(recs []core.AccountRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(recs) * AccountRecordSize)
	for _, r := range recs {
		if r.ID < 0 || r.ID > math.MaxInt32 {
			return nil, fmt.Errorf("account id %d does not fit the record", r.ID)
		}
		if r.PIN < math.MinInt32 || r.PIN > math.MaxInt32 {
			return nil, fmt.Errorf("account %d: pin does not fit the record", r.ID)
		}
		rec := accountRecord{
			ID:      int32(r.ID),
			Gender:  byte(r.Gender),
			PIN:     int32(r.PIN),
			Balance: r.Balance,
		}
		putString(rec.Name[:], r.Name)
		putString(rec.Identity[:], r.Identity)
		putString(rec.Type[:], string(r.Type))
		if err := binary.Write(&buf, byteOrder, &rec); err != nil {
			return nil, fmt.Errorf("failed to encode account %d: %w", r.ID, err)
		}
	}
	return buf.Bytes(), nil
}

// DecodeAccounts parses the account resource. Records are trusted and
// restored verbatim. A trailing partial record stops decoding with
// ErrCorrupt; the complete records before it are still returned.
func DecodeAccounts(data []byte) ([]core.AccountRecord, error) {
	out := make([]core.AccountRecord, 0, len(data)/AccountRecordSize)
	rd := bytes.NewReader(data)
	for rd.Len() > 0 {
		if rd.Len() < AccountRecordSize {
			return out, fmt.Errorf("%w: %d trailing bytes after %d account records", ErrCorrupt, rd.Len(), len(out))
		}
		var rec accountRecord
		if err := binary.Read(rd, byteOrder, &rec); err != nil {
			return out, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		out = append(out, core.AccountRecord{
			ID:       int(rec.ID),
			Name:     cString(rec.Name[:]),
			Identity: cString(rec.Identity[:]),
			Gender:   core.Gender(rec.Gender),
			Type:     core.AccountType(cString(rec.Type[:])),
			PIN:      int(rec.PIN),
			Balance:  rec.Balance,
		})
	}
	return out, nil
}

// EncodeLogs serializes log records as {id, count, count x {len, bytes}}.
func EncodeLogs(recs []core.LogRecord) ([]byte, error) {
	var buf bytes.Buffer
	for _, r := range recs {
		if r.AccountID < 0 || r.AccountID > math.MaxInt32 {
			return nil, fmt.Errorf("account id %d does not fit the log record", r.AccountID)
		}
		writeInt32(&buf, int32(r.AccountID))
		writeInt32(&buf, int32(len(r.Entries)))
		for _, e := range r.Entries {
			line := e.String()
			if len(line) > math.MaxInt32 {
				return nil, fmt.Errorf("account %d: log entry too long", r.AccountID)
			}
			writeInt32(&buf, int32(len(line)))
			buf.WriteString(line)
		}
	}
	return buf.Bytes(), nil
}

// DecodeLogs parses the log resource. Decoding stops at the first malformed
// or truncated record with ErrCorrupt; that record is dropped and the
// complete ones before it are returned.
func DecodeLogs(data []byte) ([]core.LogRecord, error) {
	var out []core.LogRecord
	rd := bytes.NewReader(data)
	for rd.Len() > 0 {
		id, err := readInt32(rd)
		if err != nil {
			return out, fmt.Errorf("%w: log header: %v", ErrCorrupt, err)
		}
		count, err := readInt32(rd)
		if err != nil {
			return out, fmt.Errorf("%w: log header of account %d: %v", ErrCorrupt, id, err)
		}
		if count < 0 {
			return out, fmt.Errorf("%w: negative entry count for account %d", ErrCorrupt, id)
		}
		entries := make([]core.Entry, 0, min(int(count), rd.Len()/4))
		for i := int32(0); i < count; i++ {
			n, err := readInt32(rd)
			if err != nil {
				return out, fmt.Errorf("%w: entry %d of account %d: %v", ErrCorrupt, i, id, err)
			}
			if n < 0 || int(n) > rd.Len() {
				return out, fmt.Errorf("%w: entry %d of account %d has bad length %d", ErrCorrupt, i, id, n)
			}
			line := make([]byte, n)
			if _, err := io.ReadFull(rd, line); err != nil {
				return out, fmt.Errorf("%w: entry %d of account %d: %v", ErrCorrupt, i, id, err)
			}
			entries = append(entries, core.ParseEntry(string(line)))
		}
		out = append(out, core.LogRecord{AccountID: int(id), Entries: entries})
	}
	return out, nil
}

// putString copies s into a NUL padded field, keeping the last byte NUL and
// never splitting a UTF-8 sequence.
func putString(dst []byte, s string) {
	limit := len(dst) - 1
	if len(s) > limit {
		cut := limit
		for cut > 0 && cut > limit-utf8.UTFMax && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	n := copy(dst, s)
	clear(dst[n:])
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func writeInt32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	byteOrder.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func readInt32(rd io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(rd, b[:]); err != nil {
		return 0, err
	}
	return int32(byteOrder.Uint32(b[:])), nil
}
