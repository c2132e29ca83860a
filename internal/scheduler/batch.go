package scheduler

import (
	"fmt"
	"slices"
	"time"

	"github.com/rhyrak/exam-seating/internal/logging"
	"github.com/rhyrak/exam-seating/internal/metrics"
	"github.com/rhyrak/exam-seating/pkg/model"
)

// Input is everything a batch run allocates from.
type Input struct {
	Courses  []*model.Course
	Sessions []model.SessionSpec
	Rooms    []*model.Room
}

// SessionsFromSchedule expands schedule rows into held sessions.
func SessionsFromSchedule(rows []*model.ScheduleRow) []model.SessionSpec {
	var specs []model.SessionSpec
	for _, r := range rows {
		specs = append(specs, r.Specs()...)
	}
	return specs
}

// OrderSessions sorts sessions by date, Morning before Evening. Sessions on
// the same slot keep their input order.
func OrderSessions(specs []model.SessionSpec) []model.SessionSpec {
	ordered := slices.Clone(specs)
	slices.SortStableFunc(ordered, func(a, b model.SessionSpec) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return a.Session.Order() - b.Session.Order()
	})
	return ordered
}

type Scheduler struct {
	cfg     *Configuration
	mode    Mode
	logger  logging.Logger
	metrics metrics.Collector
}

type Option func(*Scheduler)

func WithLogger(logger logging.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *Scheduler) { s.metrics = collector }
}

// NewScheduler validates the configuration and resolves the arrangement mode.
// The configuration is copied.
func NewScheduler(cfg *Configuration, opts ...Option) (*Scheduler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", ErrInvalidConfig)
	}
	s := &Scheduler{logger: logging.NewNop(), metrics: metrics.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	copied := *cfg
	s.mode = copied.Normalize(s.logger)
	if err := copied.Validate(); err != nil {
		return nil, err
	}
	s.cfg = &copied
	return s, nil
}

// Mode returns the resolved arrangement mode.
func (s *Scheduler) Mode() Mode {
	return s.mode
}

// NewRoomPool builds a fresh pool from the configured blocks and policy.
func (s *Scheduler) NewRoomPool(rooms []*model.Room) (*RoomPool, error) {
	return NewRoomPool(rooms, s.cfg.PrimaryBlock, s.cfg.OverflowBlock, s.mode, s.cfg.SeatMargin)
}

// Run allocates every session in calendar order against one shared room pool
// and one roster ledger. Unless ResetPoolsPerSession is set, seats used in one
// session stay used for the rest of the run.
func (s *Scheduler) Run(in *Input) (*model.SeatingPlan, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: nil input", ErrInvalidInput)
	}
	start := time.Now()

	pool, err := s.NewRoomPool(in.Rooms)
	if err != nil {
		return nil, err
	}
	for _, r := range pool.Ignored() {
		s.logger.Debug("room outside primary and overflow blocks ignored", "room", r.ID, "block", r.Block)
	}
	s.logger.Info("room pools ready",
		"primary", len(pool.Primary()), "overflow", len(pool.Overflow()),
		"seats", pool.TotalRemaining(), "mode", s.mode, "margin", s.cfg.SeatMargin)

	ledger := NewRosterLedger(in.Courses)
	plan := model.NewSeatingPlan()
	scheduled := make(map[string]bool)
	slots := make(map[string]bool)
	sittings := make(map[string]time.Time)

	for i, spec := range OrderSessions(in.Sessions) {
		if i > 0 && s.cfg.ResetPoolsPerSession {
			pool.Reset()
		}
		for _, code := range spec.Courses {
			key := sessionKey(spec, code)
			if prev, ok := sittings[code]; ok && prev.Equal(spec.Date) && !slots[key] {
				s.logger.Warn("course sits twice on the same date", "course", code, "date", spec.Date.Format(model.DateLayout))
			}
			sittings[code] = spec.Date
			slots[key] = true
			scheduled[code] = true
		}

		result := AllocateSession(spec, pool, ledger)
		plan.Assignments = append(plan.Assignments, result.Assignments...)
		plan.Shortfalls = append(plan.Shortfalls, result.Shortfalls...)

		s.metrics.RecordSession(string(spec.Session), len(spec.Courses))
		for name, n := range result.SeatedByPool {
			s.metrics.AddSeated(name, n)
		}
		for _, short := range result.Shortfalls {
			s.logger.Warn("students left without a seat",
				"date", spec.Date.Format(model.DateLayout), "session", spec.Session,
				"course", short.CourseCode, "unseated", short.Unseated)
		}
		s.logger.Debug("session allocated",
			"date", spec.Date.Format(model.DateLayout), "session", spec.Session,
			"courses", len(spec.Courses), "assignments", len(result.Assignments))
	}

	for code, n := range ledger.Remaining() {
		if scheduled[code] {
			plan.Unseated[code] = n
		}
	}
	s.metrics.AddUnseated(plan.TotalUnseated())
	s.metrics.RecordBatch(time.Since(start).Seconds())
	s.logger.Info("seating plan ready", "assignments", len(plan.Assignments), "unseated", plan.TotalUnseated())

	return plan, nil
}

func sessionKey(spec model.SessionSpec, code string) string {
	return spec.Date.Format(model.DateLayout) + "/" + string(spec.Session) + "/" + code
}
