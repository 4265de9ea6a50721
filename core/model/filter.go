package model

import (
	"fmt"
	"slices"
)

// Filter selects the records relevant to the machine schedule.
type Filter struct {
	ActiveJobStatuses  []string
	ActiveTaskStatuses []string
	MachineGroup       string
}

// ActiveJobs returns the jobs whose status is active, each carrying only its
// active tasks. The input is left untouched.
func (f Filter) ActiveJobs(jobs []Job) ([]Job, error) {
	var out []Job
	for i, j := range jobs {
		rec := fmt.Sprintf("jobs[%d]", i)
		if err := requireString(rec, j.keys, "ExecuteStatus", j.ExecuteStatus); err != nil {
			return nil, err
		}
		if !slices.Contains(f.ActiveJobStatuses, j.ExecuteStatus) {
			continue
		}
		if j.Tasks == nil {
			return nil, shapeErr(rec, "Tasks", "missing or not a list")
		}
		job := j
		job.Tasks = nil
		for k, t := range j.Tasks {
			task, ok, err := f.activeTask(fmt.Sprintf("%s.Tasks[%d]", rec, k), t)
			if err != nil {
				return nil, err
			}
			if ok {
				job.Tasks = append(job.Tasks, task)
			}
		}
		if job.Tasks == nil {
			job.Tasks = []Task{}
		}
		out = append(out, job)
	}
	return out, nil
}

func (f Filter) activeTask(rec string, t Task) (Task, bool, error) {
	if err := requireString(rec, t.keys, "TaskStatus", t.TaskStatus); err != nil {
		return Task{}, false, err
	}
	if !slices.Contains(f.ActiveTaskStatuses, t.TaskStatus) {
		return Task{}, false, nil
	}
	if t.AssignedResources == nil {
		return Task{}, false, shapeErr(rec, "AssignedResources", "missing or not a list")
	}
	for n, res := range t.AssignedResources {
		if err := requireString(fmt.Sprintf("%s.AssignedResources[%d]", rec, n), res.keys, "Guid", res.Guid); err != nil {
			return Task{}, false, err
		}
	}
	task := t
	task.AssignedResources = slices.Clone(t.AssignedResources)
	return task, true, nil
}

// Machines returns the resources belonging to the tracked machine group,
// preserving input order.
func (f Filter) Machines(resources []Resource) ([]Resource, error) {
	var out []Resource
	for i, r := range resources {
		rec := fmt.Sprintf("resources[%d]", i)
		if r.ResourceGroups == nil {
			return nil, shapeErr(rec, "ResourceGroups", "missing or not a list")
		}
		if !r.InGroup(f.MachineGroup) {
			continue
		}
		if err := requireString(rec, r.keys, "Guid", r.Guid); err != nil {
			return nil, err
		}
		if err := requireKey(rec, r.keys, "Name"); err != nil {
			return nil, err
		}
		if r.CalendarExceptions == nil {
			return nil, shapeErr(rec, "CalendarExceptions", "missing or not a list")
		}
		for n, exc := range r.CalendarExceptions {
			erec := fmt.Sprintf("%s.CalendarExceptions[%d]", rec, n)
			if err := requireString(erec, exc.keys, "Date", exc.Date); err != nil {
				return nil, err
			}
			if err := requireKey(erec, exc.keys, "WorkTime"); err != nil {
				return nil, err
			}
		}
		m := r
		m.ResourceGroups = slices.Clone(r.ResourceGroups)
		m.CalendarExceptions = slices.Clone(r.CalendarExceptions)
		out = append(out, m)
	}
	return out, nil
}
