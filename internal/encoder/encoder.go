package encoder

import (
	"sort"

	"github.com/Misfitd4/b99pack/internal/b99"
	"github.com/Misfitd4/b99pack/internal/desid"
)

// groupEncoder turns one fragment's rows into delta-encoded ops.
type groupEncoder struct {
	state voiceState
	ops   []b99.Op

	// pendingDelta is the delay the next emitted op carries. Every row
	// overwrites it, so a row that emits nothing drops its share of
	// time from the op stream.
	pendingDelta int64
}

func (e *groupEncoder) emit(code b99.Opcode, data ...byte) {
	e.ops = append(e.ops, b99.Op{Delta: e.pendingDelta, Code: code, Data: data})
	e.pendingDelta = 0
}

// encodeRow applies one sampled row to the register state, emitting an
// op for every register whose effective value changed. Emission order
// within a row is fixed: freq, pw, ctrl, ad, sr, mod freq, mod test,
// filter route, filter ext, cutoff, resonance, filter mode, volume.
func (e *groupEncoder) encodeRow(row desid.SSFRow) {
	st := &e.state

	if row.Freq.Valid && st.freq.changed(row.Freq.Int) {
		e.emit(b99.OpSetFreq, byte(row.Freq.Int), byte(row.Freq.Int>>8))
		st.freq.set(row.Freq.Int)
	}
	if row.PW.Valid && st.pw.changed(row.PW.Int) {
		e.emit(b99.OpSetPW, byte(row.PW.Int), byte(row.PW.Int>>8))
		st.pw.set(row.PW.Int)
	}

	// Control flags are sticky: absent cells keep their bit, present
	// cells rewrite it. The packed byte is what gets compared, so a
	// row may touch flags without producing an op.
	if updateFlags(st.ctrl[:], row.Gate, row.Sync, row.Ring, row.Test, row.Tri, row.Saw, row.Pulse, row.Noise) {
		v := packBits(st.ctrl[:])
		if st.ctrlByte.changed(v) {
			e.emit(b99.OpSetCtrl, v)
			st.ctrlByte.set(v)
		}
	}

	if row.Atk.Valid {
		st.atk = uint8(row.Atk.Int) & 0x0F
	}
	if row.Dec.Valid {
		st.dec = uint8(row.Dec.Int) & 0x0F
	}
	if row.Atk.Valid || row.Dec.Valid {
		if v := st.atk<<4 | st.dec; st.ad.changed(v) {
			e.emit(b99.OpSetAD, v)
			st.ad.set(v)
		}
	}

	if row.Sus.Valid {
		st.sus = uint8(row.Sus.Int) & 0x0F
	}
	if row.Rel.Valid {
		st.rel = uint8(row.Rel.Int) & 0x0F
	}
	if row.Sus.Valid || row.Rel.Valid {
		if v := st.sus<<4 | st.rel; st.sr.changed(v) {
			e.emit(b99.OpSetSR, v)
			st.sr.set(v)
		}
	}

	if row.ModFreq.Valid && st.modFreq.changed(row.ModFreq.Int) {
		e.emit(b99.OpSetModFreq, byte(row.ModFreq.Int), byte(row.ModFreq.Int>>8))
		st.modFreq.set(row.ModFreq.Int)
	}
	if row.ModTest.Valid {
		if v := boolByte(row.ModTest.Int != 0); st.modTest.changed(v) {
			e.emit(b99.OpSetModTest, v)
			st.modTest.set(v)
		}
	}
	if row.Route.Valid {
		if v := boolByte(row.Route.Int != 0); st.route.changed(v) {
			e.emit(b99.OpSetFilterRoute, v)
			st.route.set(v)
		}
	}
	if row.Ext.Valid {
		if v := boolByte(row.Ext.Int != 0); st.ext.changed(v) {
			e.emit(b99.OpSetFilterExt, v)
			st.ext.set(v)
		}
	}
	if row.Cutoff.Valid && st.cutoff.changed(row.Cutoff.Int) {
		e.emit(b99.OpSetFilterCutoff, byte(row.Cutoff.Int), byte(row.Cutoff.Int>>8))
		st.cutoff.set(row.Cutoff.Int)
	}

	// Resonance and volume remember the masked nibble but compare the
	// raw cell value.
	if row.Res.Valid && st.res.changedRaw(row.Res.Int) {
		v := uint8(row.Res.Int) & 0x0F
		e.emit(b99.OpSetFilterRes, v)
		st.res.set(v)
	}

	if updateFlags(st.mode[:], row.Lo, row.Band, row.Hi) {
		v := packBits(st.mode[:])
		if st.modeByte.changed(v) {
			e.emit(b99.OpSetFilterMode, v)
			st.modeByte.set(v)
		}
	}

	if row.Vol.Valid && st.vol.changedRaw(row.Vol.Int) {
		v := uint8(row.Vol.Int) & 0x0F
		e.emit(b99.OpSetVolume, v)
		st.vol.set(v)
	}
}

// encodeGroup encodes one fragment's rows in clock order. It returns
// the op stream and the fragment's final clock value. Rows with equal
// clocks keep their input order.
func encodeGroup(rows []desid.SSFRow) ([]b99.Op, int64) {
	sorted := make([]desid.SSFRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Clock < sorted[j].Clock })

	var enc groupEncoder
	var prevClock, lastClock int64
	for _, row := range sorted {
		enc.pendingDelta = row.Clock - prevClock
		prevClock = row.Clock
		lastClock = row.Clock
		enc.encodeRow(row)
	}
	return enc.ops, lastClock
}

// updateFlags folds present cells into sticky flag state, reporting
// whether any cell was present at all.
func updateFlags(flags []bool, cells ...desid.Field) bool {
	touched := false
	for i, c := range cells {
		if !c.Valid {
			continue
		}
		flags[i] = c.Int != 0
		touched = true
	}
	return touched
}

// packBits packs flags into a byte, bit i from flags[i].
func packBits(flags []bool) uint8 {
	var v uint8
	for i, f := range flags {
		if f {
			v |= 1 << i
		}
	}
	return v
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
