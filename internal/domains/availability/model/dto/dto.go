package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"appointly/internal/domains/availability/model"
	"appointly/internal/scheduling"
	"appointly/shared/constant"
	gDto "appointly/shared/dto"
	gModel "appointly/shared/model"
	"appointly/shared/timezone"
)

type CreateRuleRequest struct {
	DayOfWeek   *int   `json:"day_of_week"  validate:"required,min=0,max=6"`
	StartTime   string `json:"start_time"   validate:"required,hhmm"`
	EndTime     string `json:"end_time"     validate:"required,hhmm"`
	IsAvailable *bool  `json:"is_available" validate:"omitempty"`
}

// Window checks the range independently of struct tags so the service can trust it.
func (c *CreateRuleRequest) Window() (scheduling.Window, error) {
	return scheduling.ParseWindow(c.StartTime, c.EndTime) //nolint:wrapcheck
}

func (c *CreateRuleRequest) ToModel(owner string) model.Rule {
	available := true
	if c.IsAvailable != nil {
		available = *c.IsAvailable
	}

	now := timezone.Now()

	return model.Rule{
		ID:          uuid.NewString(),
		OwnerID:     owner,
		DayOfWeek:   *c.DayOfWeek,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		IsAvailable: available,
		Metadata:    gModel.NewMetadata(now, owner),
	}
}

type RuleResponse struct {
	ID          string `json:"id"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
	gDto.Metadata
}

func (r *RuleResponse) FromModel(model model.Rule) {
	r.ID = model.ID
	r.DayOfWeek = model.DayOfWeek
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.IsAvailable = model.IsAvailable
	r.Metadata.FromModel(model.Metadata)
}

type GetRulesResponse struct {
	Rules []RuleResponse `json:"rules"`
}

func (r *GetRulesResponse) FromModels(models []model.Rule) {
	r.Rules = make([]RuleResponse, len(models))
	for i, mod := range models {
		r.Rules[i].FromModel(mod)
	}
}

type CreateExceptionRequest struct {
	ExceptionDate string  `json:"exception_date" validate:"required,day"`
	StartTime     *string `json:"start_time"     validate:"omitempty,hhmm"`
	EndTime       *string `json:"end_time"       validate:"omitempty,hhmm"`
	IsAvailable   bool    `json:"is_available"`
	Reason        *string `json:"reason"         validate:"omitempty,max=255"`
}

// Check enforces that a range, when given, is complete and ordered.
func (c *CreateExceptionRequest) Check() error {
	if (c.StartTime == nil) != (c.EndTime == nil) {
		return fmt.Errorf("start_time and end_time must be provided together")
	}

	if c.StartTime == nil {
		if c.IsAvailable {
			return fmt.Errorf("an available exception needs a time range")
		}

		return nil
	}

	if _, err := scheduling.ParseWindow(*c.StartTime, *c.EndTime); err != nil {
		return err //nolint:wrapcheck
	}

	return nil
}

func (c *CreateExceptionRequest) ToModel(owner string) (model.Exception, error) {
	day, err := time.Parse(constant.DayFormat, c.ExceptionDate)
	if err != nil {
		return model.Exception{}, fmt.Errorf("invalid exception_date: %w", err)
	}

	now := timezone.Now()

	return model.Exception{
		ID:            uuid.NewString(),
		OwnerID:       owner,
		ExceptionDate: day,
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
		IsAvailable:   c.IsAvailable,
		Reason:        c.Reason,
		Metadata:      gModel.NewMetadata(now, owner),
	}, nil
}

type ExceptionResponse struct {
	ID            string  `json:"id"`
	ExceptionDate string  `json:"exception_date"`
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
	IsAvailable   bool    `json:"is_available"`
	Reason        *string `json:"reason,omitempty"`
	gDto.Metadata
}

func (r *ExceptionResponse) FromModel(model model.Exception) {
	r.ID = model.ID
	r.ExceptionDate = model.Day()
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.IsAvailable = model.IsAvailable
	r.Reason = model.Reason
	r.Metadata.FromModel(model.Metadata)
}

type GetExceptionsResponse struct {
	Exceptions []ExceptionResponse `json:"exceptions"`
}

func (r *GetExceptionsResponse) FromModels(models []model.Exception) {
	r.Exceptions = make([]ExceptionResponse, len(models))
	for i, mod := range models {
		r.Exceptions[i].FromModel(mod)
	}
}
