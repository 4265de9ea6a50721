package model

// Settings holds the planning parameters published by JPI.
type Settings struct {
	PlanningStart           string `json:"PlanningStart"`
	DaysBeforePlanningStart *int   `json:"DaysBeforePlanningStart"`
	PlanningHorizon         *int   `json:"PlanningHorizon"` // weeks
}

// Validate checks that every field the timeline depends on is present.
func (s Settings) Validate() error {
	if s.PlanningStart == "" {
		return shapeErr("settings", "PlanningStart", "missing")
	}
	if s.DaysBeforePlanningStart == nil {
		return shapeErr("settings", "DaysBeforePlanningStart", "missing")
	}
	if s.PlanningHorizon == nil {
		return shapeErr("settings", "PlanningHorizon", "missing")
	}
	return nil
}

// Job is a production order made of tasks.
type Job struct {
	Guid              string `json:"Guid"`
	Name              string `json:"Name"`
	CustomFieldValue1 string `json:"CustomFieldValue1"` // production lines
	ExecuteStatus     string `json:"ExecuteStatus"`
	Tasks             []Task `json:"Tasks"`

	keys presence
}

// Task is a single scheduled operation of a job.
type Task struct {
	Guid              string             `json:"Guid"`
	Name              string             `json:"Name"`
	TaskNo            string             `json:"TaskNo"`
	Start             string             `json:"Start"`
	End               string             `json:"End"`
	CustomFieldValue1 string             `json:"CustomFieldValue1"` // resin
	TaskStatus        string             `json:"TaskStatus"`
	AssignedResources []AssignedResource `json:"AssignedResources"`

	keys presence
}

// DisplayName returns the task name, falling back to its number.
func (t Task) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.TaskNo
}

// AssignedResource references a resource booked on a task.
type AssignedResource struct {
	Guid string `json:"Guid"`
	Name string `json:"Name"`

	keys presence
}

// Resource is a JPI resource: a machine, an operator, a tool...
type Resource struct {
	Guid               string              `json:"Guid"`
	Name               string              `json:"Name"`
	ResourceGroups     []ResourceGroup     `json:"ResourceGroups"`
	CalendarExceptions []CalendarException `json:"CalendarExceptions"`

	keys presence
}

// InGroup reports whether the resource belongs to the group with the given GUID.
func (r Resource) InGroup(guid string) bool {
	for _, g := range r.ResourceGroups {
		if g.Guid == guid {
			return true
		}
	}
	return false
}

// ResourceGroup is a named set of resources.
type ResourceGroup struct {
	Guid string `json:"Guid"`
	Name string `json:"Name"`
}

// CalendarException overrides a resource calendar for one day.
// WorkTime lists the on-duty windows as "HH:MM-HH:MM" separated by commas;
// an empty WorkTime means the whole day is off.
type CalendarException struct {
	Date     string `json:"Date"`
	WorkTime string `json:"WorkTime"`

	keys presence
}
