package scheduler

import (
	"slices"

	"github.com/rhyrak/exam-seating/pkg/model"
)

// SessionResult holds the allocation of a single exam session.
type SessionResult struct {
	Assignments  []model.Assignment
	Shortfalls   []model.Shortfall
	SeatedByPool map[string]int
}

// Unseated maps each short course to the students it could not seat.
func (r *SessionResult) Unseated() map[string]int {
	out := make(map[string]int, len(r.Shortfalls))
	for _, s := range r.Shortfalls {
		out[s.CourseCode] = s.Unseated
	}
	return out
}

type pendingCourse struct {
	code    string
	pending int
}

// rankCourses collapses repeated codes and orders the courses by pending
// students, largest first. Ties keep the order of the session list.
func rankCourses(codes []string, ledger *RosterLedger) []pendingCourse {
	ranked := make([]pendingCourse, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true
		ranked = append(ranked, pendingCourse{code: code, pending: ledger.Pending(code)})
	}
	slices.SortStableFunc(ranked, func(a, b pendingCourse) int {
		return b.pending - a.pending
	})
	return ranked
}

// AllocateSession seats the courses of one session. Courses are served largest
// first and each course drains the pool in order until its students are
// seated or no room has space left. Students that do not fit are reported as
// shortfalls and stay in the ledger.
func AllocateSession(spec model.SessionSpec, pool *RoomPool, ledger *RosterLedger) *SessionResult {
	result := &SessionResult{SeatedByPool: make(map[string]int)}
	rooms := pool.Rooms()

	for _, course := range rankCourses(spec.Courses, ledger) {
		pending := course.pending
		for _, room := range rooms {
			if pending <= 0 {
				break
			}
			n := pool.Allocate(room, pending)
			if n == 0 {
				continue
			}
			pending -= n

			students := ledger.Take(course.code, n)
			if len(students) == 0 {
				continue
			}
			result.Assignments = append(result.Assignments, model.Assignment{
				Date:       spec.Date,
				Session:    spec.Session,
				CourseCode: course.code,
				RoomID:     room.ID,
				Seated:     len(students),
				Students:   students,
			})
			result.SeatedByPool[pool.PoolOf(room)] += len(students)
		}
		if pending > 0 {
			result.Shortfalls = append(result.Shortfalls, model.Shortfall{
				Date:       spec.Date,
				Session:    spec.Session,
				CourseCode: course.code,
				Unseated:   pending,
			})
		}
	}
	return result
}
