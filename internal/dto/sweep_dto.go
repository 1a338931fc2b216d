// FILE: internal/dto/sweep_dto.go
package dto

type SweepStats struct {
	Active    int64 `json:"active"`
	Pending   int64 `json:"pending"`
	Cancelled int64 `json:"cancelled"`
	Expired   int64 `json:"expired"`
}

// SweepReport summarizes one reconciliation pass. Failed counts records
// that errored individually; the pass itself keeps going past them.
type SweepReport struct {
	ExpiredCount    int64      `json:"expired_count"`
	RemindedCount   int64      `json:"reminded_count"`
	FailedCount     int64      `json:"failed_count"`
	StalePendingOld int64      `json:"stale_pending_old"`
	Stats           SweepStats `json:"stats"`
	DurationMs      int64      `json:"duration_ms"`
}
