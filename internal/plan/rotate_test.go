package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-batches/internal/roster"
	"github.com/mind-engage/mindengage-batches/internal/topics"
)

func topicList(titles ...string) []topics.Topic {
	out := make([]topics.Topic, len(titles))
	for i, t := range titles {
		out[i] = topics.Topic{Title: t}
	}
	return out
}

func emptyBatches(n int) []Batch {
	out := make([]Batch, n)
	for i := range out {
		out[i] = Batch{ID: i + 1}
	}
	return out
}

func TestRotateTopics(t *testing.T) {
	t.Run("pointer carries across weeks", func(t *testing.T) {
		got, err := RotateTopics(emptyBatches(3), topicList("A", "B"), 2)

		require.NoError(t, err)
		require.Equal(t, []WeeklyAssignment{
			{Week: 1, BatchID: 1, TopicTitle: "A"},
			{Week: 1, BatchID: 2, TopicTitle: "B"},
			{Week: 1, BatchID: 3, TopicTitle: "A"},
			{Week: 2, BatchID: 1, TopicTitle: "B"},
			{Week: 2, BatchID: 2, TopicTitle: "A"},
			{Week: 2, BatchID: 3, TopicTitle: "B"},
		}, got)
	})

	t.Run("one assignment per batch and week in pointer order", func(t *testing.T) {
		list := topicList("A", "B", "C", "D", "E", "F", "G")
		got, err := RotateTopics(emptyBatches(4), list, 5)

		require.NoError(t, err)
		require.Len(t, got, 20)
		for k, a := range got {
			require.Equal(t, list[k%len(list)].Title, a.TopicTitle)
			require.Equal(t, k/4+1, a.Week)
			require.Equal(t, k%4+1, a.BatchID)
		}
	})

	t.Run("no batches no assignments", func(t *testing.T) {
		got, err := RotateTopics(nil, topicList("A"), 3)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("empty topic list is a configuration error", func(t *testing.T) {
		_, err := RotateTopics(emptyBatches(1), nil, 2)
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("non-positive weeks is a configuration error", func(t *testing.T) {
		_, err := RotateTopics(emptyBatches(1), topicList("A"), 0)
		require.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestCompose(t *testing.T) {
	batches := []Batch{
		{ID: 1, Students: []roster.StudentRecord{{Name: "Ada"}, {Name: "Bob"}}},
		{ID: 2, Students: []roster.StudentRecord{{Name: "Cy"}}},
	}
	assignments, err := RotateTopics(batches, topicList("A", "B", "C"), 2)
	require.NoError(t, err)

	rows, err := Compose(batches, assignments, 2)

	require.NoError(t, err)
	require.Equal(t, []OutputRow{
		{Name: "Ada", BatchID: 1, Topics: []string{"A", "C"}},
		{Name: "Bob", BatchID: 1, Topics: []string{"A", "C"}},
		{Name: "Cy", BatchID: 2, Topics: []string{"B", "A"}},
	}, rows)
	require.Equal(t, []string{"Name", "Batch", "Week 1 Topic", "Week 2 Topic"}, Header(2))
	require.Equal(t, []string{"Cy", "Batch 2", "B", "A"}, rows[2].Cells())

	rows[0].Topics[0] = "changed"
	require.Equal(t, "A", rows[1].Topics[0])
}

func TestComposeMissingAssignment(t *testing.T) {
	batches := emptyBatches(1)
	batches[0].Students = []roster.StudentRecord{{Name: "Ada"}}

	_, err := Compose(batches, []WeeklyAssignment{{Week: 1, BatchID: 1, TopicTitle: "A"}}, 2)

	require.Error(t, err)
	require.Contains(t, err.Error(), "week 2")
}
