package scheduler

import (
	"testing"

	"github.com/rhyrak/exam-seating/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	rooms := []*model.Room{room("9", "A", 10), room("LT", "L", 10)}
	courses := []*model.Course{course("X", 12)}
	newPool := func(t *testing.T) *RoomPool {
		pool, err := NewRoomPool(rooms, "9", "LT", Dense, 0)
		require.NoError(t, err)
		return pool
	}
	assignment := func(roomID string, from, to int) model.Assignment {
		return model.Assignment{
			Date: day(1), Session: model.Morning, CourseCode: "X", RoomID: roomID,
			Seated: to - from, Students: courses[0].Roster[from:to],
		}
	}

	t.Run("accepts a correct plan", func(t *testing.T) {
		plan := model.NewSeatingPlan()
		plan.Assignments = []model.Assignment{assignment("A", 0, 10), assignment("L", 10, 12)}

		valid, msg := Validate(plan, courses, newPool(t), false)

		require.True(t, valid, msg)
		require.Contains(t, msg, "[  OK]: Every student has a seat check.")
	})

	t.Run("flags roster order violations", func(t *testing.T) {
		plan := model.NewSeatingPlan()
		plan.Assignments = []model.Assignment{assignment("A", 2, 10)}

		valid, msg := Validate(plan, courses, newPool(t), false)

		require.False(t, valid)
		require.Contains(t, msg, "[FAIL]: Roster order check.")
	})

	t.Run("flags overflow use while primary seats are free", func(t *testing.T) {
		plan := model.NewSeatingPlan()
		plan.Assignments = []model.Assignment{assignment("L", 0, 5)}

		valid, msg := Validate(plan, courses, newPool(t), false)

		require.False(t, valid)
		require.Contains(t, msg, "[FAIL]: Pool order check.")
	})

	t.Run("flags rooms over capacity", func(t *testing.T) {
		plan := model.NewSeatingPlan()
		plan.Assignments = []model.Assignment{assignment("A", 0, 12)}

		valid, msg := Validate(plan, courses, newPool(t), false)

		require.False(t, valid)
		require.Contains(t, msg, "[FAIL]: Room capacity check.")
	})

	t.Run("refills rooms per session when pools reset", func(t *testing.T) {
		two := []*model.Course{course("X", 8), course("Y", 8)}
		plan := model.NewSeatingPlan()
		plan.Assignments = []model.Assignment{
			{Date: day(1), Session: model.Morning, CourseCode: "X", RoomID: "A", Seated: 8, Students: two[0].Roster},
			{Date: day(1), Session: model.Evening, CourseCode: "Y", RoomID: "A", Seated: 8, Students: two[1].Roster},
		}

		valid, _ := Validate(plan, two, newPool(t), true)
		require.True(t, valid)

		valid, msg := Validate(plan, two, newPool(t), false)
		require.False(t, valid)
		require.Contains(t, msg, "[FAIL]: Room capacity check.")
	})

	t.Run("lists unseated courses", func(t *testing.T) {
		plan := model.NewSeatingPlan()
		plan.Unseated["X"] = 12

		valid, msg := Validate(plan, courses, newPool(t), false)

		require.False(t, valid)
		require.Contains(t, msg, "There are 12 unseated students")
		require.Contains(t, msg, "    X 12\n")
	})
}
