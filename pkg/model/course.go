package model

type EnrollmentRow struct {
	CourseCode string `csv:"course_code"`
	RollNo     string `csv:"rollno"`
}

// Course holds the roster of a course in enrollment order.
type Course struct {
	Code   string
	Roster []string
}

// Enrolled returns the original enrollment count.
func (c *Course) Enrolled() int {
	return len(c.Roster)
}

// GroupEnrollment builds courses from enrollment rows. Courses are returned in
// order of first appearance and each roster keeps the row order.
func GroupEnrollment(rows []*EnrollmentRow) []*Course {
	var courses []*Course
	index := make(map[string]*Course)
	for _, r := range rows {
		c, ok := index[r.CourseCode]
		if !ok {
			c = &Course{Code: r.CourseCode}
			index[r.CourseCode] = c
			courses = append(courses, c)
		}
		c.Roster = append(c.Roster, r.RollNo)
	}
	return courses
}
