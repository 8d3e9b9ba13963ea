package submission

import (
	"sort"
	"time"
)

// CustomerSummary is the de-duplicated view of one customer
type CustomerSummary struct {
	CustomerID      string
	Email           string
	SubmissionCount int
	LastSubmittedAt time.Time
	Latest          Record
}

// SortNewestFirst orders records by submission time, newest first
func SortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].NewerThan(&records[j].Submission)
	})
}

// GroupByCustomer folds a submission log into one summary per customer.
// The latest submission of a group is the one with the greatest SubmittedAt,
// ties going to the later insertion. Summaries are ordered by
// LastSubmittedAt, newest first.
func GroupByCustomer(records []Record) []CustomerSummary {
	index := make(map[string]int)
	summaries := make([]CustomerSummary, 0)

	for _, r := range records {
		i, ok := index[r.CustomerID]
		if !ok {
			index[r.CustomerID] = len(summaries)
			summaries = append(summaries, CustomerSummary{
				CustomerID:      r.CustomerID,
				Email:           r.Email,
				SubmissionCount: 1,
				LastSubmittedAt: r.SubmittedAt,
				Latest:          r,
			})
			continue
		}

		s := &summaries[i]
		s.SubmissionCount++
		if r.NewerThan(&s.Latest.Submission) {
			s.Latest = r
			s.LastSubmittedAt = r.SubmittedAt
		}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Latest.NewerThan(&summaries[j].Latest.Submission)
	})
	return summaries
}
