package coprime

// BatchResult is the outcome of one RunBatch call.
//
// Hits never exceeds Size.
type BatchResult struct {
	Size uint64
	Hits uint64
}

// RunBatch calls s.NextOutcome exactly n times and counts the coprime pairs.
//
// RunBatch touches no shared state; the batch size only trades lock
// frequency against report latency. n <= 0 yields an empty result.
func RunBatch(s Outcomer, n int) BatchResult {
	if n <= 0 {
		return BatchResult{}
	}

	var hits uint64
	for i := 0; i < n; i++ {
		if s.NextOutcome() {
			hits++
		}
	}
	return BatchResult{Size: uint64(n), Hits: hits}
}
