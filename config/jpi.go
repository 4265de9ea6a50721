package config

import (
	"fmt"
	"time"

	"github.com/jpi-tools/schedule-export/core/model"
)

// JPIConfig describes how to reach the JPI API and which records matter.
type JPIConfig struct {
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// MaxRetries defaults to 2 when unset; a negative value disables retries.
	MaxRetries         int      `json:"max_retries"`
	BackoffMS          int      `json:"backoff_ms"`
	ActiveJobStatuses  []string `json:"active_job_statuses"`
	ActiveTaskStatuses []string `json:"active_task_statuses"`
	// MachineGroup is the GUID of the resource group whose members get a column.
	MachineGroup string `json:"machine_group"`
}

// SetDefaults applies the values used by the production JPI tenant.
func (c *JPIConfig) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.just-plan-it.com/v1"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	switch {
	case c.MaxRetries == 0:
		c.MaxRetries = 2
	case c.MaxRetries < 0:
		c.MaxRetries = 0
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 500
	}
	if len(c.ActiveJobStatuses) == 0 {
		c.ActiveJobStatuses = []string{"Planned", "Started"}
	}
	if len(c.ActiveTaskStatuses) == 0 {
		c.ActiveTaskStatuses = []string{"Planned", "Started"}
	}
	if c.MachineGroup == "" {
		c.MachineGroup = "5345152d-48f0-47aa-b86a-300e0442da3a"
	}
}

// Validate checks mandatory fields.
func (c JPIConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	return nil
}

// Timeout returns the per-request HTTP timeout.
func (c JPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Backoff returns the delay before the first retry.
func (c JPIConfig) Backoff() time.Duration {
	return time.Duration(c.BackoffMS) * time.Millisecond
}

// Filter returns the record filter configured for this tenant.
func (c JPIConfig) Filter() model.Filter {
	return model.Filter{
		ActiveJobStatuses:  c.ActiveJobStatuses,
		ActiveTaskStatuses: c.ActiveTaskStatuses,
		MachineGroup:       c.MachineGroup,
	}
}
