package b99

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// DecodeBinary parses a beta99 image back into a Bundle. It is the
// exact inverse of EncodeBinary for every bundle whose values fit the
// wire fields, including negative hash IDs. Reserved and pad bytes are
// skipped, not checked.
func DecodeBinary(data []byte) (*Bundle, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes, header alone is %d", ErrTruncated, len(data), headerSize)
	}
	if !bytes.Equal(data[:4], []byte(Magic)) {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMagic, data[:4])
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != FormatVersion {
		return nil, fmt.Errorf("%w: %d (supported: %d)", ErrBadVersion, v, FormatVersion)
	}
	ssfCount := int(binary.LittleEndian.Uint32(data[8:12]))
	trigCount := int(binary.LittleEndian.Uint32(data[12:16]))

	// Counts come from the wire, so grow slices by appending rather
	// than trusting them for allocation.
	var b Bundle
	off := headerSize
	for i := 0; i < ssfCount; i++ {
		if len(data)-off < ssfHeaderSize {
			return nil, fmt.Errorf("%w: record %d header", ErrTruncated, i)
		}
		s := SSF{
			HashID:   int64(binary.LittleEndian.Uint64(data[off : off+8])),
			Duration: int64(binary.LittleEndian.Uint32(data[off+8 : off+12])),
		}
		opCount := int(binary.LittleEndian.Uint32(data[off+12 : off+16]))
		off += ssfHeaderSize
		for j := 0; j < opCount; j++ {
			if len(data)-off < opHeaderSize {
				return nil, fmt.Errorf("%w: record %d op %d header", ErrTruncated, i, j)
			}
			op := Op{
				Delta: int64(binary.LittleEndian.Uint32(data[off : off+4])),
				Code:  Opcode(data[off+4]),
			}
			size := int(data[off+5])
			off += opHeaderSize
			if len(data)-off < size {
				return nil, fmt.Errorf("%w: record %d op %d payload (%d bytes)", ErrTruncated, i, j, size)
			}
			if size > 0 {
				op.Data = append([]byte(nil), data[off:off+size]...)
				off += size
			}
			s.Ops = append(s.Ops, op)
		}
		b.SSFs = append(b.SSFs, s)
	}

	for i := 0; i < trigCount; i++ {
		if len(data)-off < triggerSize {
			return nil, fmt.Errorf("%w: trigger %d", ErrTruncated, i)
		}
		b.Triggers = append(b.Triggers, Trigger{
			Delta:    int64(binary.LittleEndian.Uint32(data[off : off+4])),
			SSFIndex: int(binary.LittleEndian.Uint16(data[off+4 : off+6])),
			Voice:    int64(data[off+6]),
		})
		off += triggerSize
	}

	if off != len(data) {
		return nil, fmt.Errorf("beta99 bundle has %d trailing bytes after the trigger stream", len(data)-off)
	}
	return &b, nil
}
