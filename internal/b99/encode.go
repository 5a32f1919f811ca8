package b99

import (
	"encoding/binary"
	"fmt"
)

// Validate checks every wire-level invariant EncodeBinary relies on.
// It returns the first violation found as a *PackError.
func (b *Bundle) Validate() error {
	if len(b.SSFs) > MaxSSFs {
		return &PackError{
			Code:    ErrCodeTooManySSFs,
			Message: fmt.Sprintf("table has %d records, 16-bit trigger indices allow at most %d", len(b.SSFs), MaxSSFs),
			SSF:     -1,
			Op:      -1,
		}
	}
	for i, s := range b.SSFs {
		for j, op := range s.Ops {
			if len(op.Data) > MaxOpPayload {
				return &PackError{
					Code:    ErrCodePayloadTooLarge,
					Message: fmt.Sprintf("%s payload is %d bytes, limit is %d", op.Code, len(op.Data), MaxOpPayload),
					SSF:     i,
					Op:      j,
				}
			}
			if want := op.Code.PayloadSize(); want >= 0 && len(op.Data) != want {
				return &PackError{
					Code:    ErrCodePayloadSize,
					Message: fmt.Sprintf("%s expects a %d-byte payload, got %d", op.Code, want, len(op.Data)),
					SSF:     i,
					Op:      j,
				}
			}
		}
	}
	return nil
}

// EncodeBinary serializes the bundle into the beta99 wire format.
// The bundle is validated first, so a non-nil result is always a
// complete, well-formed image.
func (b *Bundle) EncodeBinary() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, b.EncodedSize())
	buf = append(buf, Magic...)
	buf = binary.LittleEndian.AppendUint16(buf, FormatVersion)
	buf = binary.LittleEndian.AppendUint16(buf, 0) // reserved
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b.SSFs)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b.Triggers)))

	for _, s := range b.SSFs {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(s.HashID))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(s.Duration))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.Ops)))
		for _, op := range s.Ops {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(op.Delta))
			buf = append(buf, byte(op.Code), byte(len(op.Data)))
			buf = append(buf, op.Data...)
		}
	}

	for _, t := range b.Triggers {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(t.Delta))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(t.SSFIndex))
		buf = append(buf, byte(t.Voice), 0)
	}

	return buf, nil
}
