package diagnostics

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Wire encoding for the RawSink fast path: for every value a one-byte type
// tag followed by the payload. Strings are length-prefixed with a uvarint,
// integers are little-endian int64, timestamps are UTC nanoseconds since the
// epoch and identifiers are the 16 raw UUID bytes. The encoding is
// deterministic so both sink paths produce byte-identical content for the
// same logical record.

const (
	tagString byte = 0x01
	tagInt64  byte = 0x02
	tagUUID   byte = 0x03
	tagTime   byte = 0x04
)

// EncodeRecord marshals an ordered value list into the canonical contiguous
// buffer handed to a RawSink. Values outside the bounded primitive set are a
// programming error and panic; the facade recovers and drops the record.
func EncodeRecord(values []any) []byte {
	buf := make([]byte, 0, 16*len(values))
	for _, v := range values {
		switch val := v.(type) {
		case string:
			buf = append(buf, tagString)
			buf = binary.AppendUvarint(buf, uint64(len(val)))
			buf = append(buf, val...)
		case int:
			buf = append(buf, tagInt64)
			buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(val)))
		case int64:
			buf = append(buf, tagInt64)
			buf = binary.LittleEndian.AppendUint64(buf, uint64(val))
		case uuid.UUID:
			buf = append(buf, tagUUID)
			buf = append(buf, val[:]...)
		case time.Time:
			buf = append(buf, tagTime)
			buf = binary.LittleEndian.AppendUint64(buf, uint64(val.UTC().UnixNano()))
		default:
			panic(fmt.Sprintf("diagnostics: unsupported record value type %T", v))
		}
	}
	return buf
}

// DecodeRecord unmarshals a buffer produced by EncodeRecord. Integer values
// come back as int64 regardless of the width they were emitted with.
func DecodeRecord(record []byte) ([]any, error) {
	var values []any
	for len(record) > 0 {
		tag := record[0]
		record = record[1:]
		switch tag {
		case tagString:
			n, read := binary.Uvarint(record)
			if read <= 0 || uint64(len(record)-read) < n {
				return nil, fmt.Errorf("truncated string value")
			}
			record = record[read:]
			values = append(values, string(record[:n]))
			record = record[n:]
		case tagInt64:
			if len(record) < 8 {
				return nil, fmt.Errorf("truncated integer value")
			}
			values = append(values, int64(binary.LittleEndian.Uint64(record[:8])))
			record = record[8:]
		case tagUUID:
			if len(record) < 16 {
				return nil, fmt.Errorf("truncated uuid value")
			}
			id, err := uuid.FromBytes(record[:16])
			if err != nil {
				return nil, fmt.Errorf("invalid uuid value: %w", err)
			}
			values = append(values, id)
			record = record[16:]
		case tagTime:
			if len(record) < 8 {
				return nil, fmt.Errorf("truncated timestamp value")
			}
			values = append(values, time.Unix(0, int64(binary.LittleEndian.Uint64(record[:8]))).UTC())
			record = record[8:]
		default:
			return nil, fmt.Errorf("unknown value tag 0x%02x", tag)
		}
	}
	return values, nil
}
