package plan

import "github.com/mind-engage/mindengage-batches/internal/topics"

// RotateTopics assigns one topic per (week, batch). A single pointer walks
// the topic list across the whole schedule and is never reset between
// weeks, so the batch-to-topic mapping shifts from week to week unless the
// batch count is a multiple of the topic count.
func RotateTopics(batches []Batch, list []topics.Topic, weeks int) ([]WeeklyAssignment, error) {
	if len(list) == 0 {
		return nil, &ConfigurationError{Field: "topics", Reason: "at least one topic is required"}
	}
	if weeks < 1 {
		return nil, &ConfigurationError{Field: "weeks", Reason: "must be a positive integer"}
	}

	out := make([]WeeklyAssignment, 0, len(batches)*weeks)
	next := 0
	for week := 1; week <= weeks; week++ {
		for _, b := range batches {
			out = append(out, WeeklyAssignment{Week: week, BatchID: b.ID, TopicTitle: list[next].Title})
			next = (next + 1) % len(list)
		}
	}
	return out, nil
}
