package cache

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

const dateLayout = "2006-01-02"

// AppletSnapshot is the cached state of one applet as synced from the backend.
type AppletSnapshot struct {
	Applet  AppletRecord        `json:"applet"`
	Details AppletDetailsRecord `json:"details"`
	Events  []EventRecord       `json:"events"`
}

type AppletRecord struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type EntityRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsHidden    bool   `json:"isHidden"`
}

type SubjectRecord struct {
	ID string `json:"id"`
}

type AssignmentRecord struct {
	ActivityID        string        `json:"activityId,omitempty"`
	ActivityFlowID    string        `json:"activityFlowId,omitempty"`
	RespondentSubject SubjectRecord `json:"respondentSubject"`
	TargetSubject     SubjectRecord `json:"targetSubject"`
}

type AppletDetailsRecord struct {
	Activities    []EntityRecord     `json:"activities"`
	ActivityFlows []EntityRecord     `json:"activityFlows"`
	Assignments   []AssignmentRecord `json:"assignments"`
}

type AvailabilityRecord struct {
	AvailabilityType  string  `json:"availabilityType"`
	PeriodicityType   string  `json:"periodicityType"`
	StartDate         *string `json:"startDate,omitempty"`
	EndDate           *string `json:"endDate,omitempty"`
	TimeFrom          *string `json:"timeFrom,omitempty"`
	TimeTo            *string `json:"timeTo,omitempty"`
	OneTimeCompletion bool    `json:"oneTimeCompletion"`
}

type TriggerRecord struct {
	TriggerType string  `json:"triggerType"`
	At          *string `json:"at,omitempty"`
	From        *string `json:"from,omitempty"`
	To          *string `json:"to,omitempty"`
}

type ReminderRecord struct {
	ActivityIncomplete int    `json:"activityIncomplete"`
	ReminderTime       string `json:"reminderTime"`
}

type NotificationSettingsRecord struct {
	Notifications []TriggerRecord `json:"notifications"`
	Reminder      *ReminderRecord `json:"reminder,omitempty"`
}

type EventRecord struct {
	ID                   string                     `json:"id"`
	EntityID             string                     `json:"entityId"`
	Availability         AvailabilityRecord         `json:"availability"`
	NotificationSettings NotificationSettingsRecord `json:"notificationSettings"`
}

func (r AppletRecord) toDomain() domain.Applet {
	return domain.Applet{ID: r.ID, DisplayName: r.DisplayName}
}

func (r AppletDetailsRecord) toDomain(appletID string) *domain.AppletDetails {
	details := &domain.AppletDetails{
		AppletID:      appletID,
		Activities:    make([]domain.Entity, 0, len(r.Activities)),
		ActivityFlows: make([]domain.Entity, 0, len(r.ActivityFlows)),
		Assignments:   make([]domain.AssignmentRef, 0, len(r.Assignments)),
	}
	for _, a := range r.Activities {
		details.Activities = append(details.Activities, a.toDomain(domain.PipelineTypeRegular))
	}
	for _, f := range r.ActivityFlows {
		details.ActivityFlows = append(details.ActivityFlows, f.toDomain(domain.PipelineTypeFlow))
	}
	for _, a := range r.Assignments {
		entityID := a.ActivityID
		if entityID == "" {
			entityID = a.ActivityFlowID
		}
		details.Assignments = append(details.Assignments, domain.AssignmentRef{
			EntityID: entityID,
			Assignment: domain.Assignment{
				Respondent: domain.Subject{ID: a.RespondentSubject.ID},
				Target:     domain.Subject{ID: a.TargetSubject.ID},
			},
		})
	}
	return details
}

func (r EntityRecord) toDomain(pipelineType domain.PipelineType) domain.Entity {
	return domain.Entity{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		IsVisible:    !r.IsHidden,
		PipelineType: pipelineType,
	}
}

// toDomain converts the record; dates are interpreted as local calendar days in loc.
func (r EventRecord) toDomain(loc *time.Location) (domain.ScheduleEvent, error) {
	periodicity, err := domain.ParsePeriodicity(r.Availability.PeriodicityType)
	if err != nil {
		return domain.ScheduleEvent{}, fmt.Errorf("event %s: %w", r.ID, err)
	}

	availability := domain.Availability{
		AvailabilityType:  domain.AvailabilityType(r.Availability.AvailabilityType),
		PeriodicityType:   periodicity,
		OneTimeCompletion: r.Availability.OneTimeCompletion,
	}
	switch availability.AvailabilityType {
	case domain.AvailabilityTypeAlwaysAvailable, domain.AvailabilityTypeScheduledAccess:
	default:
		return domain.ScheduleEvent{}, fmt.Errorf("event %s: %w: availability type %q", r.ID, ErrInvalidCacheData, r.Availability.AvailabilityType)
	}

	if availability.StartDate, err = parseDate(r.Availability.StartDate, loc); err != nil {
		return domain.ScheduleEvent{}, fmt.Errorf("event %s start date: %w", r.ID, err)
	}
	if availability.EndDate, err = parseDate(r.Availability.EndDate, loc); err != nil {
		return domain.ScheduleEvent{}, fmt.Errorf("event %s end date: %w", r.ID, err)
	}
	if availability.TimeFrom, err = parseOptionalTime(r.Availability.TimeFrom); err != nil {
		return domain.ScheduleEvent{}, fmt.Errorf("event %s time from: %w", r.ID, err)
	}
	if availability.TimeTo, err = parseOptionalTime(r.Availability.TimeTo); err != nil {
		return domain.ScheduleEvent{}, fmt.Errorf("event %s time to: %w", r.ID, err)
	}

	triggers := make([]domain.NotificationTrigger, 0, len(r.NotificationSettings.Notifications))
	for i, n := range r.NotificationSettings.Notifications {
		trigger, err := n.toDomain()
		if err != nil {
			return domain.ScheduleEvent{}, fmt.Errorf("event %s notification %d: %w", r.ID, i, err)
		}
		triggers = append(triggers, trigger)
	}

	var reminder *domain.ReminderSetting
	if rr := r.NotificationSettings.Reminder; rr != nil {
		at, err := domain.ParseTimeOfDay(rr.ReminderTime)
		if err != nil {
			return domain.ScheduleEvent{}, fmt.Errorf("event %s reminder: %w", r.ID, err)
		}
		reminder = &domain.ReminderSetting{ActivityIncomplete: rr.ActivityIncomplete, ReminderTime: at}
	}

	return domain.ScheduleEvent{
		ID:           r.ID,
		EntityID:     r.EntityID,
		Availability: availability,
		NotificationSettings: domain.NotificationSettings{
			Notifications: triggers,
			Reminder:      reminder,
		},
	}, nil
}

func (r TriggerRecord) toDomain() (domain.NotificationTrigger, error) {
	switch domain.TriggerType(r.TriggerType) {
	case domain.TriggerTypeFixed:
		at, err := parseRequiredTime(r.At)
		if err != nil {
			return nil, err
		}
		return domain.FixedTrigger{At: at}, nil
	case domain.TriggerTypeRandom:
		from, err := parseRequiredTime(r.From)
		if err != nil {
			return nil, err
		}
		to, err := parseRequiredTime(r.To)
		if err != nil {
			return nil, err
		}
		return domain.RandomTrigger{From: from, To: to}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTriggerType, r.TriggerType)
	}
}

func parseDate(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, *s, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCacheData, err)
	}
	return &t, nil
}

func parseOptionalTime(s *string) (*domain.TimeOfDay, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := domain.ParseTimeOfDay(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseRequiredTime(s *string) (domain.TimeOfDay, error) {
	if s == nil {
		return domain.TimeOfDay{}, fmt.Errorf("%w: missing time", ErrInvalidCacheData)
	}
	return domain.ParseTimeOfDay(*s)
}
