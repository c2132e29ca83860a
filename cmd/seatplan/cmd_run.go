package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rhyrak/exam-seating/internal/csvio"
	"github.com/rhyrak/exam-seating/internal/logging"
	"github.com/rhyrak/exam-seating/internal/scheduler"
	"github.com/rhyrak/exam-seating/internal/store"
)

// configure loads the configuration file, if any, and applies the flags the
// user actually set on top of it.
func configure(cmd *cobra.Command, flags *runFlags) (*scheduler.Configuration, error) {
	cfg := scheduler.NewDefaultConfiguration()
	if flags.configPath != "" {
		loaded, err := scheduler.LoadConfiguration(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	set := cmd.Flags().Changed
	if set("enrollment") {
		cfg.EnrollmentFile = flags.enrollment
	}
	if set("schedule") {
		cfg.ScheduleFile = flags.schedule
	}
	if set("rooms") {
		cfg.RoomsFile = flags.rooms
	}
	if set("names") {
		cfg.NamesFile = flags.names
	}
	if set("delimiter") {
		cfg.Delimiter = flags.delimiter
	}
	if set("margin") {
		cfg.SeatMargin = flags.margin
	}
	if set("mode") {
		cfg.ArrangementMode = flags.mode
	}
	if set("primary-block") {
		cfg.PrimaryBlock = flags.primaryBlock
	}
	if set("overflow-block") {
		cfg.OverflowBlock = flags.overflowBlock
	}
	if set("reset-pools") {
		cfg.ResetPoolsPerSession = flags.resetPools
	}
	if set("export") {
		cfg.ExportFile = flags.exportFile
	}
	if set("attendance-dir") {
		cfg.AttendanceDir = flags.attendanceDir
	}
	if set("db") {
		cfg.DatabaseFile = flags.database
	}
	if set("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	return cfg, nil
}

func runPlan(cmd *cobra.Command, flags *runFlags) error {
	out := cmd.OutOrStdout()

	cfg, err := configure(cmd, flags)
	if err != nil {
		return err
	}
	logger := logging.NewText(cmd.ErrOrStderr(), cfg.LogLevel)

	sched, err := scheduler.NewScheduler(cfg, scheduler.WithLogger(logger))
	if err != nil {
		return err
	}

	in, names, err := csvio.LoadInput(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %d courses, %d sessions, %d rooms\n", len(in.Courses), len(in.Sessions), len(in.Rooms))

	start := time.Now()
	plan, err := sched.Run(in)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	valid, report, err := sched.Validate(plan, in)
	if err != nil {
		return err
	}
	if !valid {
		fmt.Fprintln(out, "Invalid seating plan:")
	} else {
		fmt.Fprintln(out, "Passed all tests")
	}
	fmt.Fprint(out, report)

	if flags.printPlan {
		csvio.PrintPlan(plan, out)
	}

	outPath, err := csvio.ExportPlan(plan, cfg.ExportFile)
	if err != nil {
		return err
	}

	if cfg.AttendanceDir != "" {
		sheets, err := csvio.ExportAttendance(plan, names, cfg.AttendanceDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Attendance sheets: %d in %s\n", len(sheets), cfg.AttendanceDir)
	}

	if cfg.DatabaseFile != "" {
		plans, err := store.Open(cfg.DatabaseFile)
		if err != nil {
			return err
		}
		defer plans.Close()
		id := store.NewID()
		if err := plans.Save(cmd.Context(), id, plan, report); err != nil {
			return err
		}
		fmt.Fprintf(out, "Archived plan: %s\n", id)
	}

	fmt.Fprintf(out, "Mode: %s, margin: %d\n", sched.Mode(), cfg.SeatMargin)
	fmt.Fprintf(out, "Assignments: %d\n", len(plan.Assignments))
	fmt.Fprintf(out, "Unseated: %d\n", plan.TotalUnseated())
	fmt.Fprintf(out, "Timer: %f ms\n", float64(elapsed.Nanoseconds())/1000000.0)
	fmt.Fprintln(out, "Exported output to: "+outPath)
	return nil
}
