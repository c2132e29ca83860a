// Package store archives finished seating plans in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/rhyrak/exam-seating/pkg/model"
)

// ErrPlanNotFound is returned when no plan has the requested id.
var ErrPlanNotFound = errors.New("plan not found")

// Plan statuses.
const (
	StatusComplete   = "complete"
	StatusIncomplete = "incomplete"
)

// PlanMeta describes an archived plan.
type PlanMeta struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      string    `json:"status"`
	Report      string    `json:"report"`
	Assignments int       `json:"assignments"`
	Unseated    int       `json:"unseated"`
}

// PlanStore persists plans to a single SQLite file.
type PlanStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewID returns a fresh plan identifier.
func NewID() string {
	return uuid.NewString()
}

// Open opens or creates the database at path.
func Open(path string) (*PlanStore, error) {
	if path == "" {
		path = "seating.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	s := &PlanStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PlanStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS plan (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			status TEXT NOT NULL,
			report TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS assignment (
			plan_id TEXT NOT NULL REFERENCES plan(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			exam_date TEXT NOT NULL,
			session TEXT NOT NULL,
			course_code TEXT NOT NULL,
			room TEXT NOT NULL,
			seated INTEGER NOT NULL,
			students TEXT NOT NULL,
			PRIMARY KEY (plan_id, seq)
		)`,
		`CREATE TABLE IF NOT EXISTS shortfall (
			plan_id TEXT NOT NULL REFERENCES plan(id) ON DELETE CASCADE,
			course_code TEXT NOT NULL,
			unseated INTEGER NOT NULL,
			PRIMARY KEY (plan_id, course_code)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *PlanStore) Close() error {
	return s.db.Close()
}

// Save stores the plan and its validation report under id.
func (s *PlanStore) Save(ctx context.Context, id string, plan *model.SeatingPlan, report string) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	status := StatusComplete
	if plan.TotalUnseated() > 0 {
		status = StatusIncomplete
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO plan (id, created_at, status, report) VALUES (?, ?, ?, ?)`,
		id, s.now().UTC().Format(time.RFC3339), status, report); err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, `INSERT INTO assignment
		(plan_id, seq, exam_date, session, course_code, room, seated, students)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insert.Close()
	for i, a := range plan.Assignments {
		if _, err := insert.ExecContext(ctx, id, i, a.Date.Format(model.DateLayout), string(a.Session),
			a.CourseCode, a.RoomID, a.Seated, strings.Join(a.Students, model.StudentSeparator)); err != nil {
			return fmt.Errorf("insert assignment %d: %w", i, err)
		}
	}

	for code, n := range plan.Unseated {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO shortfall (plan_id, course_code, unseated) VALUES (?, ?, ?)`, id, code, n); err != nil {
			return fmt.Errorf("insert shortfall %s: %w", code, err)
		}
	}
	return tx.Commit()
}

const metaQuery = `SELECT p.id, p.created_at, p.status, p.report,
	(SELECT COUNT(*) FROM assignment a WHERE a.plan_id = p.id),
	(SELECT COALESCE(SUM(unseated), 0) FROM shortfall f WHERE f.plan_id = p.id)
	FROM plan p`

// List returns every archived plan, newest first.
func (s *PlanStore) List(ctx context.Context) ([]PlanMeta, error) {
	rows, err := s.db.QueryContext(ctx, metaQuery+` ORDER BY p.created_at DESC, p.id`)
	if err != nil {
		return nil, fmt.Errorf("select plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	metas := []PlanMeta{}
	for rows.Next() {
		meta, err := scanMeta(rows)
		if err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMeta(row scanner) (PlanMeta, error) {
	var meta PlanMeta
	var created string
	if err := row.Scan(&meta.ID, &created, &meta.Status, &meta.Report, &meta.Assignments, &meta.Unseated); err != nil {
		return meta, err
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return meta, fmt.Errorf("plan %s: %w", meta.ID, err)
	}
	meta.CreatedAt = t
	return meta, nil
}

// Meta returns the description of one plan.
func (s *PlanStore) Meta(ctx context.Context, id string) (PlanMeta, error) {
	meta, err := scanMeta(s.db.QueryRowContext(ctx, metaQuery+` WHERE p.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return meta, ErrPlanNotFound
	}
	return meta, err
}

// Load rebuilds an archived plan.
func (s *PlanStore) Load(ctx context.Context, id string) (*model.SeatingPlan, error) {
	if _, err := s.Meta(ctx, id); err != nil {
		return nil, err
	}
	plan := model.NewSeatingPlan()

	rows, err := s.db.QueryContext(ctx, `SELECT exam_date, session, course_code, room, seated, students
		FROM assignment WHERE plan_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("select assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var a model.Assignment
		var date, session, students string
		if err := rows.Scan(&date, &session, &a.CourseCode, &a.RoomID, &a.Seated, &students); err != nil {
			return nil, err
		}
		if a.Date, err = time.Parse(model.DateLayout, date); err != nil {
			return nil, err
		}
		a.Session = model.Session(session)
		if students != "" {
			a.Students = strings.Split(students, model.StudentSeparator)
		}
		plan.Assignments = append(plan.Assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	short, err := s.db.QueryContext(ctx, `SELECT course_code, unseated FROM shortfall WHERE plan_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("select shortfalls: %w", err)
	}
	defer func() { _ = short.Close() }()
	for short.Next() {
		var code string
		var n int
		if err := short.Scan(&code, &n); err != nil {
			return nil, err
		}
		plan.Unseated[code] = n
	}
	return plan, short.Err()
}

// Delete removes a plan and everything stored with it.
func (s *PlanStore) Delete(ctx context.Context, id string) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, table := range []string{"assignment", "shortfall"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE plan_id = ?`, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM plan WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrPlanNotFound
	}
	return tx.Commit()
}
