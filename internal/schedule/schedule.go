// Package schedule computes the next fire time for a job's schedule and
// renders a short human label for it. It is a pure function of
// (JobConfig, instant) -> instant; it owns no state and performs no I/O.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/loykin/ezcron/internal/model"
)

// onceLayout is the wire format for ScheduleConfig.OnceAt.
const onceLayout = "2006-01-02 15:04"

// cronParser accepts the standard five fields plus an optional leading
// seconds field, matching spec.md's "second-resolution" cron grammar.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseCronExpression validates expr under the cron grammar without
// computing a fire time; used by the loader to reject bad expressions.
func ParseCronExpression(expr string) (cron.Schedule, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return sched, nil
}

// ParseOnceAt parses a once_at value in the "YYYY-MM-DD HH:MM" wire format.
func ParseOnceAt(s string) (time.Time, error) {
	return time.ParseInLocation(onceLayout, s, time.Local)
}

// ParseHHMM validates and parses a "HH:MM" string.
func ParseHHMM(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time must be HH:MM, got %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time out of range: %q", s)
	}
	return hour, minute, nil
}

// NextRunAfter returns the next fire instant strictly after `after`, or
// nil if the job is disabled or no further instant exists (a "once"
// schedule already in the past).
func NextRunAfter(job model.JobConfig, after time.Time) (*time.Time, error) {
	if !job.IsEnabled() {
		return nil, nil
	}

	switch job.Schedule.Type {
	case model.ScheduleCron:
		sched, err := ParseCronExpression(job.Schedule.Expression)
		if err != nil {
			return nil, err
		}
		next := sched.Next(after)
		if next.IsZero() {
			return nil, nil
		}
		return &next, nil

	case model.ScheduleSimple:
		return nextSimple(job.Schedule, after)

	default:
		return nil, fmt.Errorf("unknown schedule type %q", job.Schedule.Type)
	}
}

func nextSimple(sc model.ScheduleConfig, after time.Time) (*time.Time, error) {
	switch sc.Repeat {
	case model.RepeatDaily:
		hh, mm, err := ParseHHMM(sc.Time)
		if err != nil {
			return nil, err
		}
		t := nextDaily(after, hh, mm)
		return &t, nil

	case model.RepeatWeekly:
		hh, mm, err := ParseHHMM(sc.Time)
		if err != nil {
			return nil, err
		}
		t := nextWeekly(after, hh, mm, sc.Weekday)
		return &t, nil

	case model.RepeatMonthly:
		hh, mm, err := ParseHHMM(sc.Time)
		if err != nil {
			return nil, err
		}
		t := nextMonthly(after, hh, mm, sc.Day)
		return &t, nil

	case model.RepeatEveryMinute:
		t := nextEveryMinute(after)
		return &t, nil

	case model.RepeatOnce:
		naive, err := ParseOnceAt(sc.OnceAt)
		if err != nil {
			return nil, fmt.Errorf("invalid once_at: %w", err)
		}
		if !naive.After(after) {
			return nil, nil
		}
		return &naive, nil

	default:
		return nil, fmt.Errorf("unknown repeat %q", sc.Repeat)
	}
}

// ScheduleLabel renders a short display label for a job's schedule, e.g.
// "daily@09:00", "weekly(3)@08:30", "cron(* * * * * *)".
func ScheduleLabel(sc model.ScheduleConfig) string {
	switch sc.Type {
	case model.ScheduleCron:
		return fmt.Sprintf("cron(%s)", sc.Expression)
	case model.ScheduleSimple:
		timeLabel := sc.Time
		if timeLabel == "" {
			timeLabel = "-"
		}
		switch sc.Repeat {
		case model.RepeatDaily:
			return fmt.Sprintf("daily@%s", timeLabel)
		case model.RepeatWeekly:
			return fmt.Sprintf("weekly(%d)@%s", sc.Weekday, timeLabel)
		case model.RepeatMonthly:
			return fmt.Sprintf("monthly(%d)@%s", sc.Day, timeLabel)
		case model.RepeatEveryMinute:
			return "every-minute"
		case model.RepeatOnce:
			onceLabel := sc.OnceAt
			if onceLabel == "" {
				onceLabel = "-"
			}
			return fmt.Sprintf("once@%s", onceLabel)
		default:
			return string(sc.Repeat)
		}
	default:
		return string(sc.Type)
	}
}

func nextDaily(after time.Time, hour, minute int) time.Time {
	y, mo, d := after.Date()
	candidate := localDateTime(y, mo, d, hour, minute)
	if !candidate.After(after) {
		y, mo, d = addDays(y, mo, d, 1)
		candidate = localDateTime(y, mo, d, hour, minute)
	}
	return candidate
}

func nextEveryMinute(after time.Time) time.Time {
	t := after.Add(time.Minute)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

// nextWeekly scans forward up to 8 days for the target weekday, matching
// spec.md's "scan forward up to 8 days" rule. weekday is 1=Mon..7=Sun.
func nextWeekly(after time.Time, hour, minute, weekday int) time.Time {
	target := isoWeekdayToTime(weekday)
	y, mo, d := after.Date()

	for i := 0; i < 8; i++ {
		if time.Date(y, mo, d, 0, 0, 0, 0, time.Local).Weekday() == target {
			candidate := localDateTime(y, mo, d, hour, minute)
			if candidate.After(after) {
				return candidate
			}
		}
		y, mo, d = addDays(y, mo, d, 1)
	}
	return localDateTime(y, mo, d, hour, minute)
}

// nextMonthly scans forward up to 24 months, clamping `day` to the last
// day of any shorter month.
func nextMonthly(after time.Time, hour, minute, day int) time.Time {
	year, month := int(after.Year()), int(after.Month())

	for i := 0; i < 24; i++ {
		maxDay := daysInMonth(year, time.Month(month))
		targetDay := day
		if targetDay > maxDay {
			targetDay = maxDay
		}
		candidate := localDateTime(year, time.Month(month), targetDay, hour, minute)
		if candidate.After(after) {
			return candidate
		}
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return localDateTime(year, time.Month(month), 1, hour, minute)
}

func addDays(y int, mo time.Month, d, n int) (int, time.Month, int) {
	t := time.Date(y, mo, d, 0, 0, 0, 0, time.Local).AddDate(0, 0, n)
	ny, nmo, nd := t.Date()
	return ny, nmo, nd
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

func isoWeekdayToTime(weekday int) time.Weekday {
	switch weekday {
	case 1:
		return time.Monday
	case 2:
		return time.Tuesday
	case 3:
		return time.Wednesday
	case 4:
		return time.Thursday
	case 5:
		return time.Friday
	case 6:
		return time.Saturday
	default:
		return time.Sunday
	}
}

// localDateTime builds a local instant for (year, month, day, hour,
// minute), advancing the minute forward when the requested wall clock
// does not exist because of a spring-forward DST gap (spec.md §4.1).
// When the wall clock is ambiguous (fall-back overlap), time.Date's own
// normalization picks one of the two valid offsets, which this function
// accepts as "the earlier offset" per spec.md.
func localDateTime(year int, month time.Month, day, hour, minute int) time.Time {
	t := time.Date(year, month, day, hour, minute, 0, 0, time.Local)
	if t.Hour() == hour && t.Minute() == minute {
		return t
	}
	// The requested wall clock does not exist (DST gap): time.Date
	// normalized it forward. Advance the minute until a valid instant
	// reproduces the requested wall clock, within the requested hour; if
	// none does, return the forward-normalized instant from time.Date.
	for m := minute + 1; m <= 59; m++ {
		candidate := time.Date(year, month, day, hour, m, 0, 0, time.Local)
		if candidate.Hour() == hour && candidate.Minute() == m {
			return candidate
		}
	}
	return t
}
