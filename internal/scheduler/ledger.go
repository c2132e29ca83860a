package scheduler

import "github.com/rhyrak/exam-seating/pkg/model"

// RosterLedger tracks the students of each course that still need a seat.
// Rosters are consumed from the front and never reordered.
type RosterLedger struct {
	order   []string
	rosters map[string][]string
}

// NewRosterLedger copies the course rosters. The courses are not modified.
func NewRosterLedger(courses []*model.Course) *RosterLedger {
	l := &RosterLedger{rosters: make(map[string][]string, len(courses))}
	for _, c := range courses {
		if _, seen := l.rosters[c.Code]; !seen {
			l.order = append(l.order, c.Code)
		}
		l.rosters[c.Code] = append(l.rosters[c.Code], c.Roster...)
	}
	return l
}

// Pending returns how many students of the course are not yet seated.
// Unknown courses have none.
func (l *RosterLedger) Pending(code string) int {
	return len(l.rosters[code])
}

// Take pops up to count students off the front of the course roster.
func (l *RosterLedger) Take(code string, count int) []string {
	roster := l.rosters[code]
	n := min(max(count, 0), len(roster))
	if n == 0 {
		return nil
	}
	taken := make([]string, n)
	copy(taken, roster[:n])
	l.rosters[code] = roster[n:]
	return taken
}

// Remaining returns the pending count of every course that still has students.
func (l *RosterLedger) Remaining() map[string]int {
	out := make(map[string]int)
	for _, code := range l.order {
		if n := len(l.rosters[code]); n > 0 {
			out[code] = n
		}
	}
	return out
}

// Courses lists course codes in the order they were loaded.
func (l *RosterLedger) Courses() []string {
	return l.order
}
