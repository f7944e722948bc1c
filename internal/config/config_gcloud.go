//go:build gcloud

package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the Cloud Tasks settings. Notification tasks are delivered
// to GCLOUD_TARGET_URL, so it must be an absolute http(s) URL.
func (c *TaskQueueConfig) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"GCLOUD_PROJECT_ID", c.GCloudProjectID},
		{"GCLOUD_LOCATION_ID", c.GCloudLocationID},
		{"GCLOUD_QUEUE_ID", c.GCloudQueueID},
		{"GCLOUD_TARGET_URL", c.GCloudTargetURL},
	}

	var errs []error
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}

	if c.GCloudTargetURL != "" {
		u, err := url.Parse(c.GCloudTargetURL)
		if err != nil || !u.IsAbs() || (u.Scheme != "https" && u.Scheme != "http") {
			errs = append(errs, errors.New("GCLOUD_TARGET_URL must be an absolute http(s) URL"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("task queue configuration errors: %w", errors.Join(errs...))
	}

	return nil
}
