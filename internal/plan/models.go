package plan

import (
	"fmt"
	"time"

	"github.com/mind-engage/mindengage-batches/internal/roster"
	"github.com/mind-engage/mindengage-batches/internal/topics"
)

// DefaultWeeks is the schedule length when the caller does not pick one.
const DefaultWeeks = 5

// Batch is a small mixed-ability group. IDs start at 1 in creation order.
type Batch struct {
	ID       int                    `json:"id"`
	Students []roster.StudentRecord `json:"students"`
}

// Label renders the batch the way it appears in exported tables.
func (b Batch) Label() string { return BatchLabel(b.ID) }

// Count returns how many members of the batch belong to tier t.
func (b Batch) Count(t roster.Tier) int {
	n := 0
	for _, s := range b.Students {
		if s.Tier == t {
			n++
		}
	}
	return n
}

func BatchLabel(id int) string { return fmt.Sprintf("Batch %d", id) }

type WeeklyAssignment struct {
	Week       int    `json:"week"`
	BatchID    int    `json:"batch"`
	TopicTitle string `json:"topic"`
}

// OutputRow is one line of the combined table. Topics[w-1] is week w.
type OutputRow struct {
	Name    string   `json:"name"`
	BatchID int      `json:"batch"`
	Topics  []string `json:"topics"`
}

// Composition is the per-batch quota for each tier.
type Composition struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// DefaultComposition is two High, two Medium and one Low student per batch.
var DefaultComposition = Composition{High: 2, Medium: 2, Low: 1}

func (c Composition) IsZero() bool { return c == Composition{} }

// Size is the largest possible batch.
func (c Composition) Size() int { return c.High + c.Medium + c.Low }

// Plan is the full result of one run. It is never mutated after creation.
type Plan struct {
	ID          string             `json:"id"`
	Hash        string             `json:"hash"`
	Weeks       int                `json:"weeks"`
	Composition Composition        `json:"composition"`
	Topics      []topics.Topic     `json:"topics"`
	Batches     []Batch            `json:"batches"`
	Assignments []WeeklyAssignment `json:"assignments"`
	Rows        []OutputRow        `json:"rows"`
	Report      *roster.Report     `json:"-"`
	CreatedAt   time.Time          `json:"created_at"`
}

// StudentCount is the number of students placed into batches.
func (p *Plan) StudentCount() int {
	n := 0
	for _, b := range p.Batches {
		n += len(b.Students)
	}
	return n
}

// Validate rejects quotas that could leave students unplaced.
func (c Composition) Validate() error {
	if c.High < 1 || c.Medium < 1 || c.Low < 1 {
		return &ConfigurationError{
			Field:  "composition",
			Reason: fmt.Sprintf("every tier quota must be at least 1 (got high=%d medium=%d low=%d)", c.High, c.Medium, c.Low),
		}
	}
	return nil
}
