package main

import (
	"github.com/spf13/cobra"
)

// runFlags holds command line overrides for the configuration file.
type runFlags struct {
	configPath    string
	enrollment    string
	schedule      string
	rooms         string
	names         string
	delimiter     string
	margin        int
	mode          string
	primaryBlock  string
	overflowBlock string
	resetPools    bool
	exportFile    string
	attendanceDir string
	database      string
	logLevel      string
	printPlan     bool
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "seatplan",
		Short:        "Allocate exam seats and print attendance sheets",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRunCmd(), newPlansCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Seat every scheduled course and export the plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, flags)
		},
	}

	f := runCmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "YAML configuration file")
	f.StringVar(&flags.enrollment, "enrollment", "", "enrollment table (course_code,rollno)")
	f.StringVar(&flags.schedule, "schedule", "", "exam timetable (Date,Morning,Evening)")
	f.StringVar(&flags.rooms, "rooms", "", "room table (Block,Room No.,Exam Capacity)")
	f.StringVar(&flags.names, "names", "", "roll to name table (Roll,Name), empty to skip")
	f.StringVar(&flags.delimiter, "delimiter", ",", "CSV field delimiter")
	f.IntVar(&flags.margin, "margin", 0, "seats withheld per room")
	f.StringVar(&flags.mode, "mode", "dense", "arrangement mode (dense or sparse)")
	f.StringVar(&flags.primaryBlock, "primary-block", "9", "block filled first")
	f.StringVar(&flags.overflowBlock, "overflow-block", "LT", "block used once the primary block is full")
	f.BoolVar(&flags.resetPools, "reset-pools", false, "restore room capacity at the start of every session")
	f.StringVarP(&flags.exportFile, "export", "o", "", "seating plan output file")
	f.StringVar(&flags.attendanceDir, "attendance-dir", "", "directory for attendance sheets, empty to skip")
	f.StringVar(&flags.database, "db", "", "SQLite file to archive the plan in, empty to skip")
	f.StringVar(&flags.logLevel, "log-level", "info", "debug, info, warn or error")
	f.BoolVarP(&flags.printPlan, "print", "p", false, "print every assignment")

	return runCmd
}

func newPlansCmd() *cobra.Command {
	var database string
	plansCmd := &cobra.Command{
		Use:   "plans",
		Short: "Inspect archived seating plans",
	}
	plansCmd.PersistentFlags().StringVar(&database, "db", "seating.db", "SQLite archive")

	plansCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List archived plans",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return listPlans(cmd, database)
			},
		},
		&cobra.Command{
			Use:   "show [id]",
			Short: "Print an archived plan",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return showPlan(cmd, database, args[0])
			},
		},
		&cobra.Command{
			Use:   "delete [id]",
			Short: "Delete an archived plan",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return deletePlan(cmd, database, args[0])
			},
		},
	)
	return plansCmd
}
