package entity

// ExportRequestedMessage is the queue payload for one export job. The worker
// regenerates the population from (Seed, Count) instead of shipping floats
// over the broker; generation is deterministic so both sides agree.
type ExportRequestedMessage struct {
	JobID           string       `json:"job_id"`
	SessionID       string       `json:"session_id"`
	Seed            int64        `json:"seed"`
	Count           int          `json:"count"`
	Format          ExportFormat `json:"format"`
	IncludeProfiles bool         `json:"include_profiles"`
	Criteria        Criteria     `json:"criteria"`
}
