package domain

type PipelineType string

const (
	PipelineTypeRegular PipelineType = "regular"
	PipelineTypeFlow    PipelineType = "flow"
)

// Entity is an activity or an activity flow.
type Entity struct {
	ID           string
	Name         string
	Description  string
	IsVisible    bool
	PipelineType PipelineType
}

type Subject struct {
	ID string
}

type Assignment struct {
	Respondent Subject
	Target     Subject
}

// TargetSubjectID is nil for self-report assignments.
func (a *Assignment) TargetSubjectID() *string {
	if a == nil || a.Target.ID == a.Respondent.ID {
		return nil
	}
	id := a.Target.ID
	return &id
}

type EventEntity struct {
	Event      ScheduleEvent
	Entity     Entity
	Assignment *Assignment
}

type Applet struct {
	ID          string
	DisplayName string
}

type AppletDetails struct {
	AppletID      string
	Activities    []Entity
	ActivityFlows []Entity
	Assignments   []AssignmentRef
}

// AssignmentRef binds an assignment to the entity it applies to.
type AssignmentRef struct {
	EntityID   string
	Assignment Assignment
}
