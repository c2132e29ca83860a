package scheduler

import (
	"fmt"
	"slices"

	"github.com/rhyrak/exam-seating/pkg/model"
)

// Validate replays the plan against fresh room capacities and checks it for
// roster order, room overuse, pool order and unseated students.
// Returns false and a message for invalid plans.
func Validate(plan *model.SeatingPlan, courses []*model.Course, pool *RoomPool, resetPerSession bool) (bool, string) {
	var message string
	var valid bool = true
	var hasOrderViolation bool = false
	var hasRoomOveruse bool = false
	var hasPoolViolation bool = false

	rosters := make(map[string][]string, len(courses))
	for _, c := range courses {
		rosters[c.Code] = append(rosters[c.Code], c.Roster...)
	}
	consumed := make(map[string]int, len(courses))
	for _, a := range plan.Assignments {
		roster := rosters[a.CourseCode]
		offset := consumed[a.CourseCode]
		if a.Seated != len(a.Students) || offset+len(a.Students) > len(roster) ||
			!slices.Equal(roster[offset:offset+len(a.Students)], a.Students) {
			valid = false
			hasOrderViolation = true
			message += fmt.Sprintf("- Course %s seated out of roster order in room %s\n", a.CourseCode, a.RoomID)
			continue
		}
		consumed[a.CourseCode] = offset + len(a.Students)
	}

	rooms := make(map[string]*model.Room)
	for _, r := range pool.Rooms() {
		rooms[r.ID] = r
	}
	remaining := make(map[string]int, len(rooms))
	refill := func() {
		for id, r := range rooms {
			remaining[id] = pool.Usable(r)
		}
	}
	refill()
	primaryLeft := func() bool {
		for _, r := range pool.Primary() {
			if remaining[r.ID] > 0 {
				return true
			}
		}
		return false
	}

	var slot string
	for _, a := range plan.Assignments {
		current := a.Date.Format(model.DateLayout) + "/" + string(a.Session)
		if resetPerSession && current != slot {
			refill()
		}
		slot = current

		room, ok := rooms[a.RoomID]
		if !ok {
			valid = false
			hasRoomOveruse = true
			message += "- Room " + a.RoomID + " is not part of any pool\n"
			continue
		}
		if pool.PoolOf(room) == OverflowPool && primaryLeft() {
			valid = false
			hasPoolViolation = true
			message += fmt.Sprintf("- Course %s used overflow room %s while primary seats were free\n", a.CourseCode, a.RoomID)
		}
		remaining[a.RoomID] -= a.Seated
		if remaining[a.RoomID] < 0 {
			valid = false
			hasRoomOveruse = true
			message += fmt.Sprintf("- Room %s over capacity on %s\n", a.RoomID, current)
		}
	}

	unseated := plan.TotalUnseated()
	if unseated > 0 {
		valid = false
		message += fmt.Sprintf("- There are %d unseated students:\n", unseated)
		codes := make([]string, 0, len(plan.Unseated))
		for code := range plan.Unseated {
			codes = append(codes, code)
		}
		slices.Sort(codes)
		for _, code := range codes {
			message += fmt.Sprintf("    %s %d\n", code, plan.Unseated[code])
		}
	}

	if hasPoolViolation {
		message = "[FAIL]: Pool order check.\n" + message
	} else {
		message = "[  OK]: Pool order check.\n" + message
	}
	if hasRoomOveruse {
		message = "[FAIL]: Room capacity check.\n" + message
	} else {
		message = "[  OK]: Room capacity check.\n" + message
	}
	if hasOrderViolation {
		message = "[FAIL]: Roster order check.\n" + message
	} else {
		message = "[  OK]: Roster order check.\n" + message
	}
	if unseated > 0 {
		message = "[FAIL]: Every student has a seat check.\n" + message
	} else {
		message = "[  OK]: Every student has a seat check.\n" + message
	}

	return valid, message
}

// Validate checks a plan produced by this scheduler for the given input.
func (s *Scheduler) Validate(plan *model.SeatingPlan, in *Input) (bool, string, error) {
	pool, err := s.NewRoomPool(in.Rooms)
	if err != nil {
		return false, "", err
	}
	valid, msg := Validate(plan, in.Courses, pool, s.cfg.ResetPoolsPerSession)
	return valid, msg, nil
}
