package scheduler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rhyrak/exam-seating/internal/logging"
)

type Configuration struct {
	EnrollmentFile       string `yaml:"enrollment_file"`
	ScheduleFile         string `yaml:"schedule_file"`
	RoomsFile            string `yaml:"rooms_file"`
	NamesFile            string `yaml:"names_file"`
	ExportFile           string `yaml:"export_file"`
	AttendanceDir        string `yaml:"attendance_dir"`
	DatabaseFile         string `yaml:"database_file"`
	Delimiter            string `yaml:"delimiter" validate:"len=1"`
	SeatMargin           int    `yaml:"seat_margin" validate:"min=0"`
	ArrangementMode      string `yaml:"arrangement_mode"`
	PrimaryBlock         string `yaml:"primary_block" validate:"required"`
	OverflowBlock        string `yaml:"overflow_block" validate:"required,nefield=PrimaryBlock"`
	ResetPoolsPerSession bool   `yaml:"reset_pools_per_session"`
	LogLevel             string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

func NewDefaultConfiguration() *Configuration {
	return &Configuration{
		EnrollmentFile:  "./res/enrollment.csv",
		ScheduleFile:    "./res/schedule.csv",
		RoomsFile:       "./res/rooms.csv",
		NamesFile:       "./res/names.csv",
		ExportFile:      "seating_plan.csv",
		AttendanceDir:   "attendance",
		Delimiter:       ",",
		SeatMargin:      0,
		ArrangementMode: string(Dense),
		PrimaryBlock:    "9",
		OverflowBlock:   "LT",
		LogLevel:        "info",
	}
}

var configValidate = validator.New()

// LoadConfiguration reads a YAML file on top of the defaults.
func LoadConfiguration(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfiguration(data)
}

// ParseConfiguration decodes YAML on top of the defaults. Unknown keys are rejected.
func ParseConfiguration(data []byte) (*Configuration, error) {
	cfg := NewDefaultConfiguration()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks the numeric and block settings.
func (c *Configuration) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Normalize resolves the arrangement mode. Anything other than dense or sparse
// is replaced by dense and a warning is logged.
func (c *Configuration) Normalize(logger logging.Logger) Mode {
	mode, err := ParseMode(c.ArrangementMode)
	if err != nil {
		logger.Warn("invalid arrangement mode, defaulting to dense", "mode", c.ArrangementMode)
		mode = Dense
	}
	c.ArrangementMode = string(mode)
	c.PrimaryBlock = strings.TrimSpace(c.PrimaryBlock)
	c.OverflowBlock = strings.TrimSpace(c.OverflowBlock)
	return mode
}

// Comma returns the CSV delimiter rune.
func (c *Configuration) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}
