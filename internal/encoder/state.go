package encoder

// lastInt remembers the raw value most recently emitted for a wide
// register. Change detection compares raw values even though the wire
// payload is masked to 16 bits.
type lastInt struct {
	val int64
	ok  bool
}

func (l *lastInt) changed(v int64) bool { return !l.ok || l.val != v }
func (l *lastInt) set(v int64)          { l.val, l.ok = v, true }

// lastByte remembers the byte most recently emitted for a packed or
// masked register.
type lastByte struct {
	val uint8
	ok  bool
}

func (l *lastByte) changed(v uint8) bool { return !l.ok || l.val != v }

// changedRaw compares an unmasked incoming value against the stored
// masked byte. Only the masked nibble is remembered, so raw 16 after
// raw 0 counts as a change and re-emits an identical 0x00 payload.
func (l *lastByte) changedRaw(v int64) bool { return !l.ok || int64(l.val) != v }

func (l *lastByte) set(v uint8) { l.val, l.ok = v, true }

// voiceState tracks everything already said about one fragment's
// registers: sticky flag and nibble accumulators, plus the last value
// emitted per opcode so unchanged writes are dropped.
type voiceState struct {
	ctrl [8]bool // gate, sync, ring, test, tri, saw, pulse, noise
	mode [3]bool // low-pass, band-pass, high-pass
	atk  uint8
	dec  uint8
	sus  uint8
	rel  uint8

	freq    lastInt
	pw      lastInt
	modFreq lastInt
	cutoff  lastInt

	ctrlByte lastByte
	ad       lastByte
	sr       lastByte
	modTest  lastByte
	route    lastByte
	ext      lastByte
	res      lastByte
	modeByte lastByte
	vol      lastByte
}
