package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rhyrak/exam-seating/pkg/model"
)

// UnknownName stands in for rolls missing from the name table.
const UnknownName = "Unknown Name"

// signatureRows is the number of blank rows left for invigilator and TA signatures.
const signatureRows = 5

func marshal(rows any, out io.Writer) error {
	w := gocsv.NewSafeCSVWriter(csv.NewWriter(out))
	if err := gocsv.MarshalCSV(rows, w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func planRows(plan *model.SeatingPlan) []*model.SeatingPlanRow {
	rows := make([]*model.SeatingPlanRow, len(plan.Assignments))
	for i := range plan.Assignments {
		rows[i] = plan.Assignments[i].Row()
	}
	return rows
}

// WritePlan writes the seating plan as CSV.
func WritePlan(plan *model.SeatingPlan, out io.Writer) error {
	rows := planRows(plan)
	return marshal(&rows, out)
}

// ExportPlan writes the seating plan to the CSV file at path, replacing it.
func ExportPlan(plan *model.SeatingPlan, path string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := WritePlan(plan, out); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ExportPlanString formats the seating plan as a CSV string.
func ExportPlanString(plan *model.SeatingPlan) (string, error) {
	rows := planRows(plan)
	return gocsv.MarshalString(&rows)
}

// AttendanceFileName names the sheet of one assignment, e.g.
// 07_05_2024_CS101_101_morning.csv.
func AttendanceFileName(a *model.Assignment) string {
	return fmt.Sprintf("%s_%s_%s_%s.csv", a.Date.Format("02_01_2006"), a.CourseCode, a.RoomID, strings.ToLower(string(a.Session)))
}

// WriteAttendance writes one attendance sheet: every seated roll with its
// name and an empty signature column, then blank rows for staff signatures.
func WriteAttendance(a *model.Assignment, names map[string]string, out io.Writer) error {
	rows := make([]*model.AttendanceRow, 0, len(a.Students)+signatureRows)
	for _, roll := range a.Students {
		name, ok := names[roll]
		if !ok || name == "" {
			name = UnknownName
		}
		rows = append(rows, &model.AttendanceRow{Roll: roll, Name: name})
	}
	for i := 0; i < signatureRows; i++ {
		rows = append(rows, &model.AttendanceRow{})
	}
	return marshal(&rows, out)
}

// ExportAttendance writes one attendance sheet per assignment into dir and
// returns the written paths in plan order. Two assignments sharing a sheet
// name are an error; nothing is overwritten.
func ExportAttendance(plan *model.SeatingPlan, names map[string]string, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(plan.Assignments))
	written := make(map[string]bool, len(plan.Assignments))
	for i := range plan.Assignments {
		a := &plan.Assignments[i]
		path := filepath.Join(dir, AttendanceFileName(a))
		if written[path] {
			return paths, fmt.Errorf("attendance sheet %s would be written twice", path)
		}
		written[path] = true
		if err := writeAttendanceFile(a, names, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeAttendanceFile(a *model.Assignment, names map[string]string, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := WriteAttendance(a, names, out); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// PrintPlan prints the seating plan grouped by exam slot, followed by any
// students left without a seat.
func PrintPlan(plan *model.SeatingPlan, out io.Writer) {
	var slot string
	for _, a := range plan.Assignments {
		current := a.Date.Format("Mon 02 Jan 2006") + " " + string(a.Session)
		if current != slot {
			slot = current
			fmt.Fprintf(out, "\n%s %s %s\n", strings.Repeat("-", max(0, (40-len(slot))/2)), slot, strings.Repeat("-", max(0, (41-len(slot))/2)))
		}
		fmt.Fprintf(out, "%-12s %-10s %4d\n", a.CourseCode, a.RoomID, a.Seated)
	}
	fmt.Fprintf(out, "Printed rows: %d\n", len(plan.Assignments))

	if len(plan.Unseated) == 0 {
		return
	}
	codes := make([]string, 0, len(plan.Unseated))
	for code := range plan.Unseated {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	fmt.Fprintln(out, "Unseated students:")
	for _, code := range codes {
		fmt.Fprintf(out, "%-12s %4d\n", code, plan.Unseated[code])
	}
}
