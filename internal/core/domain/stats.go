package domain

// JobStats holds client-side counts of jobs per status.
type JobStats struct {
	Total    int
	ByStatus map[JobStatus]int
}

// Count returns the number of jobs in status s.
func (s JobStats) Count(status JobStatus) int {
	return s.ByStatus[status]
}

func (s JobStats) Pending() int   { return s.Count(StatusPending) }
func (s JobStats) OnSite() int    { return s.Count(StatusOnSite) }
func (s JobStats) Completed() int { return s.Count(StatusCompleted) }

// AggregateJobs counts jobs per status. Statuses the client does not know are
// still counted in Total and under their own key.
func AggregateJobs(jobs []Job) JobStats {
	stats := JobStats{ByStatus: make(map[JobStatus]int, len(Statuses))}
	for _, s := range Statuses {
		stats.ByStatus[s] = 0
	}
	for _, j := range jobs {
		stats.Total++
		stats.ByStatus[j.Status]++
	}
	return stats
}
