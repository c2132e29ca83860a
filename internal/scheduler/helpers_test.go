package scheduler

import (
	"fmt"
	"time"

	"github.com/rhyrak/exam-seating/pkg/model"
)

func room(block, id string, capacity int) *model.Room {
	return &model.Room{Block: block, ID: id, Capacity: capacity}
}

func course(code string, students int) *model.Course {
	c := &model.Course{Code: code}
	for i := 1; i <= students; i++ {
		c.Roster = append(c.Roster, fmt.Sprintf("%s-%03d", code, i))
	}
	return c
}

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func session(d int, s model.Session, codes ...string) model.SessionSpec {
	return model.SessionSpec{Date: day(d), Session: s, Courses: codes}
}

type seat struct {
	course string
	room   string
	count  int
}

func seats(assignments []model.Assignment) []seat {
	out := make([]seat, len(assignments))
	for i, a := range assignments {
		out[i] = seat{course: a.CourseCode, room: a.RoomID, count: a.Seated}
	}
	return out
}
