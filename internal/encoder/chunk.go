package encoder

import "github.com/Misfitd4/b99pack/internal/b99"

// DefaultMaxOps caps ops per record when the caller does not choose a
// limit.
const DefaultMaxOps = 512

// chunkOps slices an op stream into consecutive runs of at most maxOps
// ops. A stream at or under the cap comes back as a single chunk
// sharing the input's backing array. maxOps must be positive.
func chunkOps(ops []b99.Op, maxOps int) [][]b99.Op {
	if len(ops) <= maxOps {
		return [][]b99.Op{ops}
	}
	chunks := make([][]b99.Op, 0, (len(ops)+maxOps-1)/maxOps)
	for start := 0; start < len(ops); start += maxOps {
		end := min(start+maxOps, len(ops))
		chunks = append(chunks, ops[start:end])
	}
	return chunks
}

// opsDuration sums the deltas inside one record. Chunked or not, a
// record's duration counts only the time its own ops span.
func opsDuration(ops []b99.Op) int64 {
	var total int64
	for _, op := range ops {
		total += op.Delta
	}
	return total
}
