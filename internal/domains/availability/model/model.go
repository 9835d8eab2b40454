package model

import (
	"time"

	"appointly/internal/scheduling"
	"appointly/shared/constant"
	"appointly/shared/model"
)

const (
	RuleTableName  = "availability_rules"
	RuleEntityName = "availability_rule"

	ExceptionTableName  = "availability_exceptions"
	ExceptionEntityName = "availability_exception"

	FieldID            = "id"
	FieldOwnerID       = "owner_id"
	FieldDayOfWeek     = "day_of_week"
	FieldStartTime     = "start_time"
	FieldEndTime       = "end_time"
	FieldIsAvailable   = "is_available"
	FieldExceptionDate = "exception_date"
)

// Rule is a recurring weekly window. DayOfWeek follows time.Weekday (0 = Sunday).
type Rule struct {
	ID          string `db:"id"`
	OwnerID     string `db:"owner_id"`
	DayOfWeek   int    `db:"day_of_week"`
	StartTime   string `db:"start_time"`
	EndTime     string `db:"end_time"`
	IsAvailable bool   `db:"is_available"`
	model.Metadata
}

func (r Rule) ToScheduling() scheduling.Rule {
	return scheduling.Rule{
		DayOfWeek: time.Weekday(r.DayOfWeek),
		Start:     r.StartTime,
		End:       r.EndTime,
		Available: r.IsAvailable,
	}
}

// Exception overrides the rules on one date. A nil range covers the whole day.
type Exception struct {
	ID            string    `db:"id"`
	OwnerID       string    `db:"owner_id"`
	ExceptionDate time.Time `db:"exception_date"`
	StartTime     *string   `db:"start_time"`
	EndTime       *string   `db:"end_time"`
	IsAvailable   bool      `db:"is_available"`
	Reason        *string   `db:"reason"`
	model.Metadata
}

// Day renders the stored DATE without any zone shift; the driver returns it at UTC midnight.
func (e Exception) Day() string {
	return e.ExceptionDate.Format(constant.DayFormat)
}

func (e Exception) ToScheduling() scheduling.Exception {
	exception := scheduling.Exception{
		Date:      e.Day(),
		Available: e.IsAvailable,
	}

	if e.StartTime != nil && e.EndTime != nil {
		exception.Start = *e.StartTime
		exception.End = *e.EndTime
	}

	return exception
}

// Snapshot is everything the slot generator needs from an owner's calendar.
type Snapshot struct {
	Rules      []scheduling.Rule      `json:"rules"`
	Exceptions []scheduling.Exception `json:"exceptions"`
}
