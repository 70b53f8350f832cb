package domain

// ConsultationStats aggregate counts by workflow status.
type ConsultationStats struct {
	Total     int
	Pending   int
	Scheduled int
	Completed int
}

// StatsFromCounts builds stats from per-status counts. Total is the sum of all statuses.
func StatsFromCounts(counts map[WorkflowStatus]int) ConsultationStats {
	stats := ConsultationStats{
		Pending:   counts[WorkflowPending],
		Scheduled: counts[WorkflowScheduled],
		Completed: counts[WorkflowCompleted],
	}
	for _, c := range counts {
		stats.Total += c
	}
	return stats
}
