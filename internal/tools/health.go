package tools

import (
	"context"
	"encoding/json"
	"time"
)

// HealthTool reports server liveness plus the probe snapshots registered at
// startup (open presentations, template counts, renderer circuit state).
type HealthTool struct {
	version string
	started time.Time
	probes  map[string]func() interface{}
}

func NewHealthTool(version string, probes map[string]func() interface{}) *HealthTool {
	return &HealthTool{
		version: version,
		started: time.Now(),
		probes:  probes,
	}
}

func (t *HealthTool) Name() string {
	return "health_check"
}

func (t *HealthTool) Title() string {
	return "Health Check"
}

func (t *HealthTool) Description() string {
	return `Report server health: version, uptime, open presentation count, and
renderer availability. Cheap to call; changes nothing.`
}

func (t *HealthTool) Annotations() map[string]bool {
	return ReadOnlyAnnotations()
}

func (t *HealthTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {}
	}`)
}

func (t *HealthTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result := map[string]interface{}{
		"status":         "ok",
		"version":        t.version,
		"uptime_seconds": int64(time.Since(t.started).Seconds()),
	}
	for name, probe := range t.probes {
		result[name] = probe()
	}
	return result, nil
}
