package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rhyrak/exam-seating/internal/scheduler"
	"github.com/rhyrak/exam-seating/pkg/model"
)

// ErrMalformedInput is returned when an input table cannot be used.
var ErrMalformedInput = errors.New("malformed input")

func init() {
	// A missing required column is a malformed table.
	gocsv.FailIfUnmatchedStructTags = true
}

func newReader(in io.Reader, delim rune) gocsv.CSVReader {
	r := csv.NewReader(in)
	r.Comma = delim
	r.TrimLeadingSpace = true
	return r
}

func readTable(in io.Reader, delim rune, out any, name string) error {
	if err := gocsv.UnmarshalCSV(newReader(in, delim), out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedInput, name, err)
	}
	return nil
}

func openTable(path string, delim rune, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", ErrMalformedInput, path, err)
	}
	defer f.Close()
	return readTable(f, delim, out, path)
}

// ReadEnrollment parses course_code,rollno rows into courses.
func ReadEnrollment(in io.Reader, delim rune) ([]*model.Course, error) {
	rows := []*model.EnrollmentRow{}
	if err := readTable(in, delim, &rows, "enrollment"); err != nil {
		return nil, err
	}
	return groupEnrollment(rows)
}

// LoadEnrollment reads and parses the given csv file for enrollment data.
func LoadEnrollment(path string, delim rune) ([]*model.Course, error) {
	rows := []*model.EnrollmentRow{}
	if err := openTable(path, delim, &rows); err != nil {
		return nil, err
	}
	return groupEnrollment(rows)
}

func groupEnrollment(rows []*model.EnrollmentRow) ([]*model.Course, error) {
	for i, r := range rows {
		r.CourseCode = strings.TrimSpace(r.CourseCode)
		r.RollNo = strings.TrimSpace(r.RollNo)
		if r.CourseCode == "" || r.RollNo == "" {
			return nil, fmt.Errorf("%w: enrollment row %d has an empty course code or roll number", ErrMalformedInput, i+2)
		}
		if strings.Contains(r.RollNo, model.StudentSeparator) {
			return nil, fmt.Errorf("%w: enrollment row %d: roll number %q contains %q", ErrMalformedInput, i+2, r.RollNo, model.StudentSeparator)
		}
	}
	return model.GroupEnrollment(rows), nil
}

// ReadSchedule parses Date,Morning,Evening rows. Dates are day-first.
func ReadSchedule(in io.Reader, delim rune) ([]*model.ScheduleRow, error) {
	rows := []*model.ScheduleRow{}
	if err := readTable(in, delim, &rows, "schedule"); err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadSchedule reads and parses the given csv file for the exam timetable.
func LoadSchedule(path string, delim rune) ([]*model.ScheduleRow, error) {
	rows := []*model.ScheduleRow{}
	if err := openTable(path, delim, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadRooms parses Block,Room No.,Exam Capacity rows.
func ReadRooms(in io.Reader, delim rune) ([]*model.Room, error) {
	rooms := []*model.Room{}
	if err := readTable(in, delim, &rooms, "rooms"); err != nil {
		return nil, err
	}
	return checkRooms(rooms)
}

// LoadRooms reads and parses the given csv file for room data.
func LoadRooms(path string, delim rune) ([]*model.Room, error) {
	rooms := []*model.Room{}
	if err := openTable(path, delim, &rooms); err != nil {
		return nil, err
	}
	return checkRooms(rooms)
}

func checkRooms(rooms []*model.Room) ([]*model.Room, error) {
	blocks := make(map[string]string, len(rooms))
	for _, r := range rooms {
		r.ID = strings.TrimSpace(r.ID)
		r.Block = strings.TrimSpace(r.Block)
		if r.ID == "" {
			return nil, fmt.Errorf("%w: room without a number in block %q", ErrMalformedInput, r.Block)
		}
		if r.Capacity < 0 {
			return nil, fmt.Errorf("%w: room %s has negative capacity %d", ErrMalformedInput, r.ID, r.Capacity)
		}
		if block, dup := blocks[r.ID]; dup {
			return nil, fmt.Errorf("%w: room %s listed in block %q and block %q", ErrMalformedInput, r.ID, block, r.Block)
		}
		blocks[r.ID] = r.Block
	}
	return rooms, nil
}

// ReadNames parses Roll,Name rows into a lookup table.
func ReadNames(in io.Reader, delim rune) (map[string]string, error) {
	rows := []*model.RollName{}
	if err := readTable(in, delim, &rows, "names"); err != nil {
		return nil, err
	}
	return nameIndex(rows), nil
}

// LoadNames reads and parses the given csv file for roll to name mapping.
func LoadNames(path string, delim rune) (map[string]string, error) {
	rows := []*model.RollName{}
	if err := openTable(path, delim, &rows); err != nil {
		return nil, err
	}
	return nameIndex(rows), nil
}

func nameIndex(rows []*model.RollName) map[string]string {
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		names[strings.TrimSpace(r.Roll)] = strings.TrimSpace(r.Name)
	}
	return names
}

// LoadInput loads every table named by the configuration. Any failure aborts
// the whole load. The names table is optional.
func LoadInput(cfg *scheduler.Configuration) (*scheduler.Input, map[string]string, error) {
	delim := cfg.Comma()

	courses, err := LoadEnrollment(cfg.EnrollmentFile, delim)
	if err != nil {
		return nil, nil, err
	}
	schedule, err := LoadSchedule(cfg.ScheduleFile, delim)
	if err != nil {
		return nil, nil, err
	}
	rooms, err := LoadRooms(cfg.RoomsFile, delim)
	if err != nil {
		return nil, nil, err
	}
	names := map[string]string{}
	if cfg.NamesFile != "" {
		if names, err = LoadNames(cfg.NamesFile, delim); err != nil {
			return nil, nil, err
		}
	}

	return &scheduler.Input{
		Courses:  courses,
		Sessions: scheduler.SessionsFromSchedule(schedule),
		Rooms:    rooms,
	}, names, nil
}
