package model

import (
	"fmt"
	"strings"
	"time"
)

type Session string

const (
	Morning Session = "Morning"
	Evening Session = "Evening"
)

// Sessions lists the exam sessions of a day in the order they are held.
var Sessions = []Session{Morning, Evening}

// Order returns the position of the session within a day, or -1.
func (s Session) Order() int {
	for i, known := range Sessions {
		if s == known {
			return i
		}
	}
	return -1
}

// DateLayout is the layout used when a date is written back out.
const DateLayout = "2006-01-02"

// Day-first layouts accepted on input.
var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",
	"2-1-2006",
	"2/1/2006",
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ExamDate is a calendar date read from a schedule sheet.
type ExamDate struct {
	time.Time
}

// ParseExamDate parses a day-first date.
func ParseExamDate(s string) (ExamDate, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ExamDate{Time: t}, nil
		}
	}
	return ExamDate{}, fmt.Errorf("unparseable date %q", s)
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (d *ExamDate) UnmarshalCSV(s string) error {
	parsed, err := ParseExamDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (d ExamDate) MarshalCSV() (string, error) {
	return d.Format(DateLayout), nil
}

type ScheduleRow struct {
	Date    ExamDate `csv:"Date"`
	Morning string   `csv:"Morning"`
	Evening string   `csv:"Evening"`
}

// SessionSpec is one held exam slot and the courses sitting in it.
type SessionSpec struct {
	Date    time.Time
	Session Session
	Courses []string
}

// Specs expands the row into the sessions held that day. A blank cell means
// the session is not held.
func (r *ScheduleRow) Specs() []SessionSpec {
	var specs []SessionSpec
	for _, s := range Sessions {
		cell := r.Morning
		if s == Evening {
			cell = r.Evening
		}
		codes := SplitCourseList(cell)
		if len(codes) == 0 {
			continue
		}
		specs = append(specs, SessionSpec{Date: r.Date.Time, Session: s, Courses: codes})
	}
	return specs
}

// SplitCourseList splits a ';'-separated course cell, dropping blanks.
func SplitCourseList(cell string) []string {
	var codes []string
	for _, part := range strings.Split(cell, ";") {
		if code := strings.TrimSpace(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
