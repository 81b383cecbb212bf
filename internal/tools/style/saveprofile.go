package style

import (
	"context"
	"encoding/json"

	"github.com/slidesmith/slidesmith-mcp/internal/analyzer"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// SaveProfileTool persists an in-memory profile to the profile store.
type SaveProfileTool struct {
	profiles *Profiles
	store    *ProfileStore
}

func NewSaveProfileTool(profiles *Profiles, store *ProfileStore) *SaveProfileTool {
	return &SaveProfileTool{profiles: profiles, store: store}
}

func (t *SaveProfileTool) Name() string {
	return "save_style_profile"
}

func (t *SaveProfileTool) Title() string {
	return "Save Style Profile"
}

func (t *SaveProfileTool) Description() string {
	return `Persist a style profile so it survives server restarts.

The profile must be loaded in memory (created or loaded earlier in this
run). It is written to the profile database; with file_path it is also
exported as a JSON document that load_style_profile can read back on any
machine.`
}

func (t *SaveProfileTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *SaveProfileTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"profile_name": {
				"type": "string",
				"description": "Name of the loaded profile to persist"
			},
			"file_path": {
				"type": "string",
				"description": "Optional JSON export path"
			}
		},
		"required": ["profile_name"]
	}`)
}

func (t *SaveProfileTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
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

	profile, err := t.profiles.Get(req.ProfileName)
	if err != nil {
		return nil, err
	}
	if t.store == nil {
		return nil, tools.NewInvalidState("profile store is not configured")
	}
	if err := t.store.Save(profile); err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"saved":        true,
		"profile_name": profile.Name,
	}
	if req.FilePath != "" {
		if err := analyzer.SaveProfile(profile, req.FilePath); err != nil {
			return nil, err
		}
		result["file_path"] = req.FilePath
	}

	log.Info("saved style profile", "name", profile.Name, "exported", req.FilePath != "")
	return result, nil
}
