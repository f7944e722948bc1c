//go:build gcloud

package config

import (
	"strings"
	"testing"
)

func TestTaskQueueConfigValidate(t *testing.T) {
	valid := TaskQueueConfig{
		GCloudProjectID:  "primind",
		GCloudLocationID: "asia-northeast1",
		GCloudQueueID:    "notifications",
		GCloudTargetURL:  "https://notify.example.com/deliver",
	}

	tests := []struct {
		name    string
		mutate  func(*TaskQueueConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*TaskQueueConfig) {}},
		{name: "missing project", mutate: func(c *TaskQueueConfig) { c.GCloudProjectID = "" }, wantErr: "GCLOUD_PROJECT_ID"},
		{name: "relative target", mutate: func(c *TaskQueueConfig) { c.GCloudTargetURL = "/deliver" }, wantErr: "absolute"},
		{name: "non http target", mutate: func(c *TaskQueueConfig) { c.GCloudTargetURL = "ftp://notify.example.com" }, wantErr: "absolute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
