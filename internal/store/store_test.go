package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rhyrak/exam-seating/pkg/model"
)

func openTestStore(t *testing.T) *PlanStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "seating.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func samplePlan() *model.SeatingPlan {
	date := time.Date(2024, time.May, 7, 0, 0, 0, 0, time.UTC)
	plan := model.NewSeatingPlan()
	plan.Assignments = []model.Assignment{
		{Date: date, Session: model.Morning, CourseCode: "CS101", RoomID: "101", Seated: 2, Students: []string{"r1", "r2"}},
		{Date: date, Session: model.Evening, CourseCode: "MA101", RoomID: "LT-1", Seated: 1, Students: []string{"r3"}},
	}
	return plan
}

func TestPlanStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a plan", func(t *testing.T) {
		s := openTestStore(t)
		plan := samplePlan()
		plan.Unseated["PH101"] = 4
		id := NewID()

		require.NoError(t, s.Save(ctx, id, plan, "[FAIL]: Every student has a seat check.\n"))

		loaded, err := s.Load(ctx, id)
		require.NoError(t, err)
		require.Equal(t, plan.Assignments, loaded.Assignments)
		require.Equal(t, map[string]int{"PH101": 4}, loaded.Unseated)

		meta, err := s.Meta(ctx, id)
		require.NoError(t, err)
		require.Equal(t, StatusIncomplete, meta.Status)
		require.Equal(t, 2, meta.Assignments)
		require.Equal(t, 4, meta.Unseated)
	})

	t.Run("lists newest first", func(t *testing.T) {
		s := openTestStore(t)
		base := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
		s.now = func() time.Time { return base }
		require.NoError(t, s.Save(ctx, "old", samplePlan(), ""))
		s.now = func() time.Time { return base.Add(time.Hour) }
		require.NoError(t, s.Save(ctx, "new", samplePlan(), ""))

		metas, err := s.List(ctx)

		require.NoError(t, err)
		require.Len(t, metas, 2)
		require.Equal(t, "new", metas[0].ID)
		require.Equal(t, StatusComplete, metas[0].Status)
		require.Equal(t, base, metas[1].CreatedAt)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		s := openTestStore(t)
		require.NoError(t, s.Save(ctx, "dup", samplePlan(), ""))
		require.Error(t, s.Save(ctx, "dup", samplePlan(), ""))

		loaded, err := s.Load(ctx, "dup")
		require.NoError(t, err)
		require.Len(t, loaded.Assignments, 2)
	})

	t.Run("deletes plans", func(t *testing.T) {
		s := openTestStore(t)
		require.NoError(t, s.Save(ctx, "gone", samplePlan(), ""))

		require.NoError(t, s.Delete(ctx, "gone"))

		_, err := s.Load(ctx, "gone")
		require.ErrorIs(t, err, ErrPlanNotFound)
		require.ErrorIs(t, s.Delete(ctx, "gone"), ErrPlanNotFound)
	})

	t.Run("empty store lists nothing", func(t *testing.T) {
		s := openTestStore(t)

		metas, err := s.List(ctx)

		require.NoError(t, err)
		require.Empty(t, metas)
	})
}
