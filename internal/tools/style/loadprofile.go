package style

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/analyzer"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// LoadProfileTool restores a profile from the store or a JSON export.
type LoadProfileTool struct {
	profiles *Profiles
	store    *ProfileStore
}

func NewLoadProfileTool(profiles *Profiles, store *ProfileStore) *LoadProfileTool {
	return &LoadProfileTool{profiles: profiles, store: store}
}

func (t *LoadProfileTool) Name() string {
	return "load_style_profile"
}

func (t *LoadProfileTool) Title() string {
	return "Load Style Profile"
}

func (t *LoadProfileTool) Description() string {
	return `Load a style profile into memory, either by profile_name from the
profile database or by file_path from a JSON export. The loaded profile is
returned and becomes available under its name.`
}

func (t *LoadProfileTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *LoadProfileTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"profile_name": {
				"type": "string",
				"description": "Name of a persisted profile"
			},
			"file_path": {
				"type": "string",
				"description": "Path of a JSON profile export"
			}
		}
	}`)
}

func (t *LoadProfileTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		ProfileName string `json:"profile_name"`
		FilePath    string `json:"file_path"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if (req.ProfileName == "") == (req.FilePath == "") {
		return nil, tools.NewBadArgument("provide exactly one of profile_name or file_path")
	}

	var profile *analyzer.StyleProfile
	var err error
	if req.FilePath != "" {
		profile, err = analyzer.LoadProfile(req.FilePath)
	} else {
		if t.store == nil {
			return nil, tools.NewInvalidState("profile store is not configured")
		}
		profile, err = t.store.Load(req.ProfileName)
	}
	if err != nil {
		return nil, err
	}

	t.profiles.Put(profile)
	log.Info("loaded style profile", "name", profile.Name, "from_file", req.FilePath != "")

	return profile, nil
}
