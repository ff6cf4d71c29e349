// Package runlog keeps an append-only record of generated plans.
package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mind-engage/mindengage-batches/internal/plan"
)

const TypePlanGenerated = "PlanGenerated"

type Event struct {
	Seq       int64
	SiteID    string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

// PlanSummary is the payload stored for TypePlanGenerated events.
type PlanSummary struct {
	Hash          string           `json:"hash"`
	Weeks         int              `json:"weeks"`
	Composition   plan.Composition `json:"composition"`
	Topics        []string         `json:"topics"`
	Students      int              `json:"students"`
	Batches       int              `json:"batches"`
	RejectedFiles []string         `json:"rejected_files,omitempty"`
	RejectedRows  int              `json:"rejected_rows"`
	Warnings      int              `json:"warnings"`
}

type Repo struct {
	db     *sql.DB
	siteID string
	now    func() time.Time
}

var _ plan.Journal = (*Repo)(nil)

func NewRepo(db *sql.DB, siteID string) *Repo {
	if siteID == "" {
		siteID = "local"
	}
	return &Repo{db: db, siteID: siteID, now: time.Now}
}

func (r *Repo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = r.siteID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, r.now().Unix())
	return err
}

// PlanGenerated appends a summary of p keyed by the plan id.
func (r *Repo) PlanGenerated(ctx context.Context, p *plan.Plan) error {
	s := PlanSummary{
		Hash:        p.Hash,
		Weeks:       p.Weeks,
		Composition: p.Composition,
		Students:    p.StudentCount(),
		Batches:     len(p.Batches),
	}
	for _, t := range p.Topics {
		s.Topics = append(s.Topics, t.Title)
	}
	if p.Report != nil {
		for _, f := range p.Report.RejectedFiles() {
			s.RejectedFiles = append(s.RejectedFiles, f.Name)
		}
		s.RejectedRows = len(p.Report.RowErrors)
		s.Warnings = len(p.Report.Warnings)
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Append(ctx, Event{Type: TypePlanGenerated, Key: p.ID, DataJSON: string(b)})
}

// Since returns events with a sequence number above after, oldest first.
func (r *Repo) Since(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at
		   FROM event_log WHERE seq > $1 ORDER BY seq LIMIT $2`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
