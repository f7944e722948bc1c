package domain

import "time"

type Progress struct {
	AppletID        string     `json:"applet_id"`
	EntityID        string     `json:"entity_id"`
	EventID         string     `json:"event_id"`
	TargetSubjectID *string    `json:"target_subject_id,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
}

// ProgressKey identifies the latest progress of an entity within an event for a subject.
func ProgressKey(entityID, eventID string, targetSubjectID *string) string {
	key := entityID + "/" + eventID
	if targetSubjectID != nil {
		key += "/" + *targetSubjectID
	}
	return key
}

// CompletionChecker answers completion questions against a progress snapshot.
type CompletionChecker interface {
	IsCompleted(entityID, eventID string, targetSubjectID *string) bool
	IsCompletedWithin(entityID, eventID string, targetSubjectID *string, interval Interval) bool
}

// ProgressSnapshot is an immutable view of progress taken once per refresh.
type ProgressSnapshot struct {
	records map[string]Progress
}

func NewProgressSnapshot(records []Progress) *ProgressSnapshot {
	m := make(map[string]Progress, len(records))
	for _, r := range records {
		key := ProgressKey(r.EntityID, r.EventID, r.TargetSubjectID)
		if existing, ok := m[key]; ok && existing.StartedAt.After(r.StartedAt) {
			continue
		}
		m[key] = r
	}
	return &ProgressSnapshot{records: m}
}

func (s *ProgressSnapshot) Get(entityID, eventID string, targetSubjectID *string) (Progress, bool) {
	if s == nil {
		return Progress{}, false
	}
	p, ok := s.records[ProgressKey(entityID, eventID, targetSubjectID)]
	return p, ok
}

func (s *ProgressSnapshot) IsCompleted(entityID, eventID string, targetSubjectID *string) bool {
	p, ok := s.Get(entityID, eventID, targetSubjectID)
	return ok && p.EndedAt != nil
}

func (s *ProgressSnapshot) IsCompletedWithin(entityID, eventID string, targetSubjectID *string, interval Interval) bool {
	p, ok := s.Get(entityID, eventID, targetSubjectID)
	if !ok || p.EndedAt == nil {
		return false
	}
	return interval.Contains(*p.EndedAt)
}

func (s *ProgressSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}
