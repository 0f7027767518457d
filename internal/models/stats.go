package models

type HomeStats struct {
	Reviews      int64 `json:"reviews"`
	Universities int64 `json:"universities"`
	Dorms        int64 `json:"dorms"`
}

// MaintenanceSummary describes how far the cached dorm stats and the
// references between collections have drifted.
type MaintenanceSummary struct {
	TotalDorms     int64 `json:"totalDorms"`
	StaleDorms     int64 `json:"staleDorms"`
	OrphanDorms    int64 `json:"orphanDorms"`
	TotalReviews   int64 `json:"totalReviews"`
	OrphanReviews  int64 `json:"orphanReviews"`
	FlaggedReviews int64 `json:"flaggedReviews"`
}

// RecomputeRequest is the body of /recompute-ratings.
type RecomputeRequest struct {
	Parallelism int `json:"parallelism"`
}

type RecomputeResult struct {
	ProcessedDorms int `json:"processedDorms"`
	UpdatedDorms   int `json:"updatedDorms"`
	Parallelism    int `json:"parallelism"`
}

// DeleteSummary counts the documents removed by a cascading delete or an
// orphan prune.
type DeleteSummary struct {
	DeletedDorms   int64 `json:"deletedDorms"`
	DeletedReviews int64 `json:"deletedReviews"`
}
