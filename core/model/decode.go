package model

import (
	"encoding/json"
	"slices"
)

// presence remembers which required keys were absent from a decoded record.
// Records built in code have no absent keys.
type presence struct {
	absent []string
}

func (p presence) has(key string) bool {
	return !slices.Contains(p.absent, key)
}

func absentKeys(data []byte, keys ...string) presence {
	var fields map[string]json.RawMessage
	_ = json.Unmarshal(data, &fields)
	var p presence
	for _, k := range keys {
		if _, ok := fields[k]; !ok {
			p.absent = append(p.absent, k)
		}
	}
	return p
}

func (j *Job) UnmarshalJSON(data []byte) error {
	type plain Job
	if err := json.Unmarshal(data, (*plain)(j)); err != nil {
		return err
	}
	j.keys = absentKeys(data, "ExecuteStatus")
	return nil
}

func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	if err := json.Unmarshal(data, (*plain)(t)); err != nil {
		return err
	}
	t.keys = absentKeys(data, "TaskStatus")
	return nil
}

func (a *AssignedResource) UnmarshalJSON(data []byte) error {
	type plain AssignedResource
	if err := json.Unmarshal(data, (*plain)(a)); err != nil {
		return err
	}
	a.keys = absentKeys(data, "Guid")
	return nil
}

func (r *Resource) UnmarshalJSON(data []byte) error {
	type plain Resource
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	r.keys = absentKeys(data, "Guid", "Name")
	return nil
}

func (c *CalendarException) UnmarshalJSON(data []byte) error {
	type plain CalendarException
	if err := json.Unmarshal(data, (*plain)(c)); err != nil {
		return err
	}
	c.keys = absentKeys(data, "Date", "WorkTime")
	return nil
}

// requireString fails when key was absent or decoded to an empty string.
func requireString(record string, p presence, key, value string) error {
	if !p.has(key) || value == "" {
		return shapeErr(record, key, "missing")
	}
	return nil
}

// requireKey fails only when key was absent; empty values are allowed.
func requireKey(record string, p presence, key string) error {
	if !p.has(key) {
		return shapeErr(record, key, "missing")
	}
	return nil
}
