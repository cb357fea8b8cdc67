// Package jobconfig loads, validates, and deduplicates job descriptors
// from a directory of JSON files (spec.md §4.2).
package jobconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/loykin/ezcron/internal/model"
	"github.com/loykin/ezcron/internal/schedule"
)

var validate = validator.New()

// Load enumerates regular *.json files under dir, parses and validates
// each as a JobConfig, and returns them in ascending id order. Any
// parse, validation, or duplicate-id failure rejects the whole set and
// names the offending file in the returned error.
func Load(dir string) ([]model.JobConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read jobs dir %s: %w", dir, err)
	}

	var jobs []model.JobConfig
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.ToLower(filepath.Ext(name)) != ".json" {
			continue
		}

		full := filepath.Join(dir, name)
		job, err := loadOne(full)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", full, err)
		}

		if _, dup := seen[job.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate job id %q", full, job.ID)
		}
		seen[job.ID] = struct{}{}
		jobs = append(jobs, job)
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs, nil
}

// loadOne parses and validates a single job descriptor file.
func loadOne(path string) (model.JobConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return model.JobConfig{}, fmt.Errorf("read: %w", err)
	}

	var job model.JobConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &job,
	})
	if err != nil {
		return model.JobConfig{}, err
	}
	if err := dec.Decode(v.AllSettings()); err != nil {
		return model.JobConfig{}, fmt.Errorf("decode: %w", err)
	}

	if err := Validate(job); err != nil {
		return model.JobConfig{}, fmt.Errorf("invalid job %q: %w", job.ID, err)
	}
	return job, nil
}

// Validate checks a JobConfig against spec.md §4.2's rules: non-empty
// id/name/program, schedule-specific parameter requirements (§4.1), cron
// grammar acceptance, and once_at format.
func Validate(job model.JobConfig) error {
	if strings.TrimSpace(job.ID) == "" {
		return errors.New("id is required")
	}
	if strings.TrimSpace(job.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(job.Command.Program) == "" {
		return errors.New("command.program is required")
	}
	if err := validate.Struct(job); err != nil {
		return err
	}

	switch job.Schedule.Type {
	case model.ScheduleCron:
		if _, err := schedule.ParseCronExpression(job.Schedule.Expression); err != nil {
			return err
		}

	case model.ScheduleSimple:
		if err := validateSimple(job.Schedule); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown schedule type %q", job.Schedule.Type)
	}

	return nil
}

func validateSimple(sc model.ScheduleConfig) error {
	switch sc.Repeat {
	case model.RepeatDaily:
		_, _, err := schedule.ParseHHMM(sc.Time)
		return err

	case model.RepeatWeekly:
		if sc.Weekday < 1 || sc.Weekday > 7 {
			return errors.New("weekday must be 1..7 for weekly")
		}
		_, _, err := schedule.ParseHHMM(sc.Time)
		return err

	case model.RepeatMonthly:
		if sc.Day < 1 || sc.Day > 31 {
			return errors.New("day must be 1..31 for monthly")
		}
		_, _, err := schedule.ParseHHMM(sc.Time)
		return err

	case model.RepeatEveryMinute:
		if sc.Time != "" {
			return errors.New("time is not allowed for everyminute")
		}
		return nil

	case model.RepeatOnce:
		if sc.OnceAt == "" {
			return errors.New("once_at is required for once")
		}
		if _, err := schedule.ParseOnceAt(sc.OnceAt); err != nil {
			return fmt.Errorf("invalid once_at: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown repeat %q", sc.Repeat)
	}
}
