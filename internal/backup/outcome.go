package backup

// SkipReason explains why a record was excluded from the synced count.
type SkipReason string

const (
	SkipMissingField SkipReason = "missing_field"
	SkipShortData    SkipReason = "short_data"
	SkipDecodeFailed SkipReason = "decode_failed"
	SkipBadSignature SkipReason = "bad_signature"
	SkipTooSmall     SkipReason = "too_small"
	SkipNoDiary      SkipReason = "no_diary"
	SkipPersistence  SkipReason = "persistence_error"
)

// BatchResult tags every record of a batch as created, updated or skipped,
// instead of collapsing everything into one integer. The wire-level synced
// count is Created+Updated; skips are visible here for logging and tests.
type BatchResult struct {
	Created int
	Updated int
	Skipped map[SkipReason]int
}

func newBatchResult() *BatchResult {
	return &BatchResult{Skipped: make(map[SkipReason]int)}
}

func (r *BatchResult) skip(reason SkipReason) {
	r.Skipped[reason]++
}

// Synced is the number of records successfully reconciled.
func (r *BatchResult) Synced() int {
	return r.Created + r.Updated
}

// SkippedTotal is the number of records excluded for any reason.
func (r *BatchResult) SkippedTotal() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}
