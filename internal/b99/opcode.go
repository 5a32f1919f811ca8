package b99

import "fmt"

// Opcode identifies a register mutation in an SSF op stream.
type Opcode uint8

// Register write opcodes understood by the beta99 player.
const (
	OpSetFreq         Opcode = 0x01
	OpSetPW           Opcode = 0x02
	OpSetCtrl         Opcode = 0x03
	OpSetAD           Opcode = 0x04
	OpSetSR           Opcode = 0x05
	OpSetModFreq      Opcode = 0x06
	OpSetModTest      Opcode = 0x07
	OpSetFilterRoute  Opcode = 0x08
	OpSetFilterExt    Opcode = 0x09
	OpSetFilterCutoff Opcode = 0x0A
	OpSetFilterRes    Opcode = 0x0B
	OpSetFilterMode   Opcode = 0x0C
	OpSetVolume       Opcode = 0x0D
)

var opcodeNames = map[Opcode]string{
	OpSetFreq:         "SET_FREQ",
	OpSetPW:           "SET_PW",
	OpSetCtrl:         "SET_CTRL",
	OpSetAD:           "SET_AD",
	OpSetSR:           "SET_SR",
	OpSetModFreq:      "SET_MOD_FREQ",
	OpSetModTest:      "SET_MOD_TEST",
	OpSetFilterRoute:  "SET_FILTER_ROUTE",
	OpSetFilterExt:    "SET_FILTER_EXT",
	OpSetFilterCutoff: "SET_FILTER_CUTOFF",
	OpSetFilterRes:    "SET_FILTER_RES",
	OpSetFilterMode:   "SET_FILTER_MODE",
	OpSetVolume:       "SET_VOLUME",
}

// Fixed payload widths for known opcodes. Opcodes absent from this
// table are passed through with any payload up to MaxOpPayload.
var opcodeSizes = map[Opcode]int{
	OpSetFreq:         2,
	OpSetPW:           2,
	OpSetCtrl:         1,
	OpSetAD:           1,
	OpSetSR:           1,
	OpSetModFreq:      2,
	OpSetModTest:      1,
	OpSetFilterRoute:  1,
	OpSetFilterExt:    1,
	OpSetFilterCutoff: 2,
	OpSetFilterRes:    1,
	OpSetFilterMode:   1,
	OpSetVolume:       1,
}

// String returns the canonical mnemonic for known opcodes, or a hex
// placeholder like "OP_7F" for unknown ones.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OP_%02X", uint8(o))
}

// Known reports whether the opcode has an assigned mnemonic and a
// fixed payload width.
func (o Opcode) Known() bool {
	_, ok := opcodeSizes[o]
	return ok
}

// PayloadSize returns the fixed payload width of a known opcode, or
// -1 when any length up to MaxOpPayload is accepted.
func (o Opcode) PayloadSize() int {
	if n, ok := opcodeSizes[o]; ok {
		return n
	}
	return -1
}

// ParseOpcode resolves a mnemonic like "SET_FREQ" to its opcode.
func ParseOpcode(s string) (Opcode, error) {
	for op, name := range opcodeNames {
		if name == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown opcode mnemonic %q", s)
}
