package plan

import (
	"fmt"
)

// Header returns the column names of the combined table.
func Header(weeks int) []string {
	h := make([]string, 0, weeks+2)
	h = append(h, "Name", "Batch")
	for w := 1; w <= weeks; w++ {
		h = append(h, fmt.Sprintf("Week %d Topic", w))
	}
	return h
}

type slot struct{ batch, week int }

// Compose joins batch membership with the weekly assignments. Rows follow
// batch order, then the order of students inside each batch.
func Compose(batches []Batch, assignments []WeeklyAssignment, weeks int) ([]OutputRow, error) {
	byslot := make(map[slot]string, len(assignments))
	for _, a := range assignments {
		byslot[slot{a.BatchID, a.Week}] = a.TopicTitle
	}

	var rows []OutputRow
	for _, b := range batches {
		perWeek := make([]string, weeks)
		for w := 1; w <= weeks; w++ {
			title, ok := byslot[slot{b.ID, w}]
			if !ok {
				return nil, fmt.Errorf("no topic assigned to %s in week %d", b.Label(), w)
			}
			perWeek[w-1] = title
		}
		for _, s := range b.Students {
			topicsCopy := make([]string, weeks)
			copy(topicsCopy, perWeek)
			rows = append(rows, OutputRow{Name: s.Name, BatchID: b.ID, Topics: topicsCopy})
		}
	}
	return rows, nil
}

// Cells renders the row in Header order.
func (r OutputRow) Cells() []string {
	out := make([]string, 0, len(r.Topics)+2)
	out = append(out, r.Name, BatchLabel(r.BatchID))
	return append(out, r.Topics...)
}
