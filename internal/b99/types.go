package b99

// Format identification and wire-level limits.
const (
	// Magic starts every beta99 bundle.
	Magic = "B99F"

	// FormatVersion is the bundle layout version this package writes
	// and the only version it accepts when decoding.
	FormatVersion = 1

	// MaxSSFs is the largest SSF table a bundle may carry; trigger
	// records address the table with 16-bit indices.
	MaxSSFs = 0xFFFF

	// MaxOpPayload bounds the payload of any op, known or not. The
	// payload length field on the wire is a single byte, but the
	// player reserves lengths above 4 for future framing.
	MaxOpPayload = 4
)

// Fixed wire sizes in bytes.
const (
	headerSize    = 16
	ssfHeaderSize = 16
	opHeaderSize  = 6
	triggerSize   = 8
)

// Op is a single timed register write inside an SSF record.
type Op struct {
	// Delta is the tick delay since the previous op in the record.
	// The first op of a record carries the delay since record start.
	Delta int64

	// Code selects the register mutation the player applies.
	Code Opcode

	// Data is the opcode payload, at most MaxOpPayload bytes.
	Data []byte
}

// SSF is one playable sound-fragment record: a hash-identified op
// sequence plus its total duration in ticks.
type SSF struct {
	HashID   int64
	Duration int64
	Ops      []Op
}

// Trigger schedules one SSF record onto a voice. Delta is the tick
// delay since the previous trigger in the stream.
type Trigger struct {
	Delta    int64
	SSFIndex int
	Voice    int64
}

// Bundle is a complete beta99 image: the SSF table plus the trigger
// stream that indexes into it.
type Bundle struct {
	SSFs     []SSF
	Triggers []Trigger
}

// TotalOps counts ops across every record in the table.
func (b *Bundle) TotalOps() int {
	n := 0
	for _, s := range b.SSFs {
		n += len(s.Ops)
	}
	return n
}

// FragmentCount counts distinct fragment hashes in the table. Chunked
// fragments span several records but count once.
func (b *Bundle) FragmentCount() int {
	seen := make(map[int64]struct{}, len(b.SSFs))
	for _, s := range b.SSFs {
		seen[s.HashID] = struct{}{}
	}
	return len(seen)
}

// EncodedSize returns the byte length EncodeBinary will produce.
func (b *Bundle) EncodedSize() int {
	n := headerSize
	for _, s := range b.SSFs {
		n += ssfHeaderSize
		for _, op := range s.Ops {
			n += opHeaderSize + len(op.Data)
		}
	}
	return n + len(b.Triggers)*triggerSize
}
