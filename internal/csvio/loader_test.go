package csvio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rhyrak/exam-seating/internal/scheduler"
	"github.com/rhyrak/exam-seating/pkg/model"
)

const (
	enrollmentCSV = `course_code,rollno
CS101,2201CS01
MA101,2201MA01
CS101,2201CS02
CS101,2201CS03
`
	scheduleCSV = `Date,Morning,Evening
07-05-2024,CS101; MA101,
08/05/2024,,PH101
`
	roomsCSV = `Block,Room No.,Exam Capacity
9,102,30
LT,LT-1,120
9,101,40
`
	namesCSV = `Roll,Name
2201CS01,Ada Lovelace
2201CS02,Alan Turing
`
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig(t *testing.T) *scheduler.Configuration {
	t.Helper()
	dir := t.TempDir()
	cfg := scheduler.NewDefaultConfiguration()
	cfg.EnrollmentFile = writeFile(t, dir, "enrollment.csv", enrollmentCSV)
	cfg.ScheduleFile = writeFile(t, dir, "schedule.csv", scheduleCSV)
	cfg.RoomsFile = writeFile(t, dir, "rooms.csv", roomsCSV)
	cfg.NamesFile = writeFile(t, dir, "names.csv", namesCSV)
	return cfg
}

func TestLoadInput(t *testing.T) {
	t.Run("loads every table", func(t *testing.T) {
		cfg := testConfig(t)

		in, names, err := LoadInput(cfg)

		require.NoError(t, err)
		require.Len(t, in.Courses, 2)
		require.Equal(t, "CS101", in.Courses[0].Code)
		require.Equal(t, []string{"2201CS01", "2201CS02", "2201CS03"}, in.Courses[0].Roster)
		require.Equal(t, []string{"2201MA01"}, in.Courses[1].Roster)

		require.Len(t, in.Sessions, 2)
		require.Equal(t, time.Date(2024, time.May, 7, 0, 0, 0, 0, time.UTC), in.Sessions[0].Date)
		require.Equal(t, model.Morning, in.Sessions[0].Session)
		require.Equal(t, []string{"CS101", "MA101"}, in.Sessions[0].Courses)
		require.Equal(t, model.Evening, in.Sessions[1].Session)
		require.Equal(t, []string{"PH101"}, in.Sessions[1].Courses)

		require.Len(t, in.Rooms, 3)
		require.Equal(t, &model.Room{Block: "9", ID: "102", Capacity: 30}, in.Rooms[0])
		require.Equal(t, "Ada Lovelace", names["2201CS01"])
	})

	t.Run("names table is optional", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.NamesFile = ""

		_, names, err := LoadInput(cfg)

		require.NoError(t, err)
		require.Empty(t, names)
	})

	t.Run("missing file aborts the load", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.RoomsFile = filepath.Join(t.TempDir(), "nope.csv")

		_, _, err := LoadInput(cfg)

		require.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("reads semicolon separated files", func(t *testing.T) {
		dir := t.TempDir()
		cfg := scheduler.NewDefaultConfiguration()
		cfg.Delimiter = ";"
		cfg.EnrollmentFile = writeFile(t, dir, "e.csv", "course_code;rollno\nEE201;r1\n")
		cfg.ScheduleFile = writeFile(t, dir, "s.csv", "Date;Morning;Evening\n2024-05-09;\"EE201\";\n")
		cfg.RoomsFile = writeFile(t, dir, "r.csv", "Block;Room No.;Exam Capacity\n9;1;10\n")
		cfg.NamesFile = ""

		in, _, err := LoadInput(cfg)

		require.NoError(t, err)
		require.Equal(t, []string{"EE201"}, in.Sessions[0].Courses)
	})
}

func TestReadTables_Malformed(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		_, err := ReadRooms(strings.NewReader("Block,Room No.\n9,101\n"), ',')
		require.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("unparseable date", func(t *testing.T) {
		_, err := ReadSchedule(strings.NewReader("Date,Morning,Evening\nsoon,CS101,\n"), ',')
		require.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("negative capacity", func(t *testing.T) {
		_, err := ReadRooms(strings.NewReader("Block,Room No.,Exam Capacity\n9,101,-4\n"), ',')
		require.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("non numeric capacity", func(t *testing.T) {
		_, err := ReadRooms(strings.NewReader("Block,Room No.,Exam Capacity\n9,101,lots\n"), ',')
		require.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("room number in two blocks", func(t *testing.T) {
		_, err := ReadRooms(strings.NewReader("Block,Room No.,Exam Capacity\n9,101,10\nLT, 101,10\n"), ',')
		require.ErrorIs(t, err, ErrMalformedInput)
		require.Contains(t, err.Error(), "room 101")
	})

	t.Run("roll number containing the student separator", func(t *testing.T) {
		_, err := ReadEnrollment(strings.NewReader("course_code,rollno\nCS101,\"r1; r2\"\n"), ',')
		require.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("blank roll number", func(t *testing.T) {
		_, err := ReadEnrollment(strings.NewReader("course_code,rollno\nCS101,\n"), ',')
		require.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := ReadNames(strings.NewReader(""), ',')
		require.ErrorIs(t, err, ErrMalformedInput)
	})
}
