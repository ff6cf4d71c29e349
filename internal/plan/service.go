package plan

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/zeebo/xxh3"

	"github.com/mind-engage/mindengage-batches/internal/logging"
	"github.com/mind-engage/mindengage-batches/internal/roster"
	"github.com/mind-engage/mindengage-batches/internal/topics"
)

// DefaultCacheTTL bounds how long a generated plan stays retrievable.
const DefaultCacheTTL = 30 * time.Minute

// Metrics receives counters about generated plans.
type Metrics interface {
	PlanGenerated(students, batches int)
	PlanCached()
	FilesRejected(n int)
	RowsRejected(n int)
	Warnings(n int)
}

// Journal records a summary of each freshly generated plan.
type Journal interface {
	PlanGenerated(ctx context.Context, p *Plan) error
}

// Request carries everything one run depends on. Topics are always passed
// in explicitly; the service never looks them up itself.
type Request struct {
	Sources     []roster.Source
	Topics      []topics.Topic
	Weeks       int         // 0 means DefaultWeeks
	Composition Composition // zero value means DefaultComposition
}

type Option func(*Service)

func WithLogger(l logging.Logger) Option    { return func(s *Service) { s.logger = l } }
func WithMetrics(m Metrics) Option          { return func(s *Service) { s.metrics = m } }
func WithJournal(j Journal) Option          { return func(s *Service) { s.journal = j } }
func WithCacheTTL(ttl time.Duration) Option { return func(s *Service) { s.ttl = ttl } }

// Service runs the batching pipeline and memoizes plans by content hash.
type Service struct {
	cache   *cache.Cache
	ttl     time.Duration
	logger  logging.Logger
	metrics Metrics
	journal Journal
	now     func() time.Time
}

func NewService(opts ...Option) *Service {
	s := &Service{
		ttl:     DefaultCacheTTL,
		logger:  logging.Nop(),
		metrics: nopMetrics{},
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.ttl > 0 {
		s.cache = cache.New(s.ttl, 2*s.ttl)
	} else {
		s.cache = cache.New(cache.NoExpiration, 0)
	}
	return s
}

// Generate validates the run parameters, loads every source and builds the
// plan. Configuration problems are reported before any file is read.
func (s *Service) Generate(ctx context.Context, req Request) (*Plan, error) {
	weeks := req.Weeks
	if weeks == 0 {
		weeks = DefaultWeeks
	}
	if weeks < 1 {
		return nil, &ConfigurationError{Field: "weeks", Reason: "must be a positive integer"}
	}
	comp := req.Composition
	if comp.IsZero() {
		comp = DefaultComposition
	}
	if err := comp.Validate(); err != nil {
		return nil, err
	}
	list := topics.Clean(req.Topics)
	if len(list) == 0 {
		return nil, &ConfigurationError{Field: "topics", Reason: "at least one topic is required"}
	}

	hash := contentHash(req.Sources, list, weeks, comp)
	if v, ok := s.cache.Get(hashKey(hash)); ok {
		p := v.(*Plan)
		s.metrics.PlanCached()
		s.logger.Debug("plan served from cache", "plan", p.ID, "hash", hash)
		return p, nil
	}

	report := roster.Load(req.Sources)
	s.logReport(report)

	if len(report.Records) == 0 {
		if err := report.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoData, err)
		}
		return nil, ErrNoData
	}

	high, medium, low := SplitByTier(report.Records)
	batches := comp.Build(high, medium, low)
	assignments, err := RotateTopics(batches, list, weeks)
	if err != nil {
		return nil, err
	}
	rows, err := Compose(batches, assignments, weeks)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		ID:          uuid.NewString(),
		Hash:        hash,
		Weeks:       weeks,
		Composition: comp,
		Topics:      list,
		Batches:     batches,
		Assignments: assignments,
		Rows:        rows,
		Report:      report,
		CreatedAt:   s.now().UTC(),
	}
	s.cache.SetDefault(hashKey(hash), p)
	s.cache.SetDefault(idKey(p.ID), p)
	s.metrics.PlanGenerated(p.StudentCount(), len(batches))
	s.logger.Info("plan generated",
		"plan", p.ID, "students", p.StudentCount(), "batches", len(batches),
		"weeks", weeks, "topics", len(list))

	if s.journal != nil {
		if err := s.journal.PlanGenerated(ctx, p); err != nil {
			s.logger.Warn("run log append failed", "plan", p.ID, "error", err)
		}
	}
	return p, nil
}

// Lookup returns a previously generated plan that is still cached.
func (s *Service) Lookup(id string) (*Plan, bool) {
	v, ok := s.cache.Get(idKey(id))
	if !ok {
		return nil, false
	}
	return v.(*Plan), true
}

func (s *Service) logReport(r *roster.Report) {
	rejected := r.RejectedFiles()
	for _, f := range rejected {
		s.logger.Warn("file rejected", "file", f.Name, "error", f.Err)
	}
	for _, e := range r.RowErrors {
		s.logger.Warn("row rejected", "file", e.File, "row", e.Row, "error", e.Err)
	}
	for _, w := range r.Warnings {
		s.logger.Warn("score outside 0-100", "file", w.File, "row", w.Row, "name", w.Name, "score", w.Score)
	}
	s.metrics.FilesRejected(len(rejected))
	s.metrics.RowsRejected(len(r.RowErrors))
	s.metrics.Warnings(len(r.Warnings))
}

func hashKey(h string) string { return "hash:" + h }
func idKey(id string) string  { return "id:" + id }

// contentHash fingerprints everything a plan depends on. Fields are length
// prefixed so adjacent values cannot run into each other.
func contentHash(sources []roster.Source, list []topics.Topic, weeks int, comp Composition) string {
	h := xxh3.New()
	field := func(b []byte) {
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(len(b)))
		_, _ = h.Write(n[:])
		_, _ = h.Write(b)
	}
	field([]byte(fmt.Sprintf("weeks=%d high=%d medium=%d low=%d topics=%d sources=%d",
		weeks, comp.High, comp.Medium, comp.Low, len(list), len(sources))))
	for _, t := range list {
		field([]byte(t.Title))
		field([]byte(t.Description))
	}
	for _, src := range sources {
		field([]byte(src.Name))
		field(src.Data)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

type nopMetrics struct{}

func (nopMetrics) PlanGenerated(int, int) {}
func (nopMetrics) PlanCached()            {}
func (nopMetrics) FilesRejected(int)      {}
func (nopMetrics) RowsRejected(int)       {}
func (nopMetrics) Warnings(int)           {}
