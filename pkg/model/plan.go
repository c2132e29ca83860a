package model

import (
	"strings"
	"time"
)

// Assignment seats a contiguous slice of one course's roster in one room.
type Assignment struct {
	Date       time.Time
	Session    Session
	CourseCode string
	RoomID     string
	Seated     int
	Students   []string
}

// Shortfall records students of a course left without a seat in a session.
type Shortfall struct {
	Date       time.Time
	Session    Session
	CourseCode string
	Unseated   int
}

// SeatingPlan is the ordered output of one batch run.
type SeatingPlan struct {
	Assignments []Assignment
	Shortfalls  []Shortfall
	Unseated    map[string]int // course code -> students still without a seat
}

// NewSeatingPlan creates an empty plan.
func NewSeatingPlan() *SeatingPlan {
	return &SeatingPlan{Unseated: make(map[string]int)}
}

// SeatedFor returns the total number of seated students of a course.
func (p *SeatingPlan) SeatedFor(course string) int {
	total := 0
	for _, a := range p.Assignments {
		if a.CourseCode == course {
			total += a.Seated
		}
	}
	return total
}

// TotalUnseated sums the unseated counts of all courses.
func (p *SeatingPlan) TotalUnseated() int {
	total := 0
	for _, n := range p.Unseated {
		total += n
	}
	return total
}

type SeatingPlanRow struct {
	Date              string `csv:"Date"`
	Session           string `csv:"Session"`
	CourseCode        string `csv:"Course_Code"`
	Room              string `csv:"Room"`
	AllocatedStudents int    `csv:"Allocated_Students"`
	Students          string `csv:"Students"`
}

// StudentSeparator joins roll numbers in a plan row.
const StudentSeparator = "; "

// Row flattens the assignment for export.
func (a *Assignment) Row() *SeatingPlanRow {
	return &SeatingPlanRow{
		Date:              a.Date.Format(DateLayout),
		Session:           string(a.Session),
		CourseCode:        a.CourseCode,
		Room:              a.RoomID,
		AllocatedStudents: a.Seated,
		Students:          strings.Join(a.Students, StudentSeparator),
	}
}
