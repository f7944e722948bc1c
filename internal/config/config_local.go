//go:build !gcloud

package config

import "errors"

func (c *TaskQueueConfig) Validate() error {
	if c.PrimindTasksURL == "" {
		return errors.New("PRIMIND_TASKS_URL is required")
	}
	return nil
}
