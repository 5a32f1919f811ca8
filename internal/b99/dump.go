package b99

import (
	"encoding/json"
	"fmt"
)

// Dump is the JSON-friendly mirror of a Bundle, used for debugging and
// for diffing bundles in tests. Field order matches the binary layout.
// Payload bytes appear as plain integer lists so dumps stay readable;
// empty tables marshal as [] rather than null.
type Dump struct {
	SSFs     []DumpSSF     `json:"ssfs"`
	Triggers []DumpTrigger `json:"triggers"`
}

// DumpSSF mirrors one SSF record.
type DumpSSF struct {
	HashID   int64    `json:"hashid"`
	Duration int64    `json:"duration"`
	Ops      []DumpOp `json:"ops"`
}

// DumpOp mirrors one op.
type DumpOp struct {
	Delta  int64 `json:"delta"`
	Opcode uint8 `json:"opcode"`
	Data   []int `json:"data"`
}

// DumpTrigger mirrors one trigger.
type DumpTrigger struct {
	Delta    int64 `json:"delta"`
	SSFIndex int   `json:"ssf_index"`
	Voice    int64 `json:"voice"`
}

// Dump converts the bundle to its JSON mirror.
func (b *Bundle) Dump() Dump {
	d := Dump{
		SSFs:     make([]DumpSSF, 0, len(b.SSFs)),
		Triggers: make([]DumpTrigger, 0, len(b.Triggers)),
	}
	for _, s := range b.SSFs {
		ds := DumpSSF{
			HashID:   s.HashID,
			Duration: s.Duration,
			Ops:      make([]DumpOp, 0, len(s.Ops)),
		}
		for _, op := range s.Ops {
			data := make([]int, len(op.Data))
			for k, v := range op.Data {
				data[k] = int(v)
			}
			ds.Ops = append(ds.Ops, DumpOp{
				Delta:  op.Delta,
				Opcode: uint8(op.Code),
				Data:   data,
			})
		}
		d.SSFs = append(d.SSFs, ds)
	}
	for _, t := range b.Triggers {
		d.Triggers = append(d.Triggers, DumpTrigger{
			Delta:    t.Delta,
			SSFIndex: t.SSFIndex,
			Voice:    t.Voice,
		})
	}
	return d
}

// EncodeDump serializes the bundle's JSON mirror with two-space
// indentation.
func (b *Bundle) EncodeDump() ([]byte, error) {
	out, err := json.MarshalIndent(b.Dump(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling bundle dump: %w", err)
	}
	return out, nil
}

// DecodeDump parses a JSON dump produced by EncodeDump.
func DecodeDump(data []byte) (Dump, error) {
	var d Dump
	if err := json.Unmarshal(data, &d); err != nil {
		return Dump{}, fmt.Errorf("parsing bundle dump: %w", err)
	}
	return d, nil
}

// Bundle converts the dump back into a Bundle. Payload values must fit
// in a byte.
func (d Dump) Bundle() (*Bundle, error) {
	var b Bundle
	for i, ds := range d.SSFs {
		s := SSF{HashID: ds.HashID, Duration: ds.Duration}
		for j, dop := range ds.Ops {
			op := Op{Delta: dop.Delta, Code: Opcode(dop.Opcode)}
			for _, v := range dop.Data {
				if v < 0 || v > 0xFF {
					return nil, fmt.Errorf("dump ssf %d op %d: data value %d out of byte range", i, j, v)
				}
				op.Data = append(op.Data, byte(v))
			}
			s.Ops = append(s.Ops, op)
		}
		b.SSFs = append(b.SSFs, s)
	}
	for _, dt := range d.Triggers {
		b.Triggers = append(b.Triggers, Trigger{
			Delta:    dt.Delta,
			SSFIndex: dt.SSFIndex,
			Voice:    dt.Voice,
		})
	}
	return &b, nil
}
