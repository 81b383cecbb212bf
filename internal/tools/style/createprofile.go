package style

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/analyzer"
	"github.com/slidesmith/slidesmith-mcp/internal/pptx"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// CreateProfileTool turns an analysis into a reusable style profile.
type CreateProfileTool struct {
	profiles *Profiles
}

func NewCreateProfileTool(profiles *Profiles) *CreateProfileTool {
	return &CreateProfileTool{profiles: profiles}
}

func (t *CreateProfileTool) Name() string {
	return "create_style_profile"
}

func (t *CreateProfileTool) Title() string {
	return "Create Style Profile"
}

func (t *CreateProfileTool) Description() string {
	return `Create a reusable style profile from a style analysis.

Pass either the analysis object returned by analyze_presentation_style or a
file_path to analyze in one step. The profile derives a text hierarchy
(title, subtitle, body, bullet, caption fonts and sizes), a tagged color
palette, and layout patterns, with sensible fallbacks where the source deck
was sparse. The profile is kept in memory under profile_name; persist it
with save_style_profile.`
}

func (t *CreateProfileTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *CreateProfileTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"analysis": {
				"type": "object",
				"description": "Analysis object from analyze_presentation_style"
			},
			"file_path": {
				"type": "string",
				"description": "A .pptx to analyze instead of passing analysis"
			},
			"profile_name": {
				"type": "string",
				"description": "Name to register the profile under (default: source file stem)"
			}
		}
	}`)
}

func (t *CreateProfileTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		Analysis    *analyzer.Analysis `json:"analysis"`
		FilePath    string             `json:"file_path"`
		ProfileName string             `json:"profile_name"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if (req.Analysis == nil) == (req.FilePath == "") {
		return nil, tools.NewBadArgument("provide exactly one of analysis or file_path")
	}

	analysis := req.Analysis
	if analysis == nil {
		d, err := pptx.Read(req.FilePath)
		if err != nil {
			return nil, err
		}
		analysis = analyzer.Analyze(d)
	}

	name := req.ProfileName
	if name == "" {
		if analysis.SourcePath != "" {
			base := filepath.Base(analysis.SourcePath)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		} else {
			name = "profile"
		}
	}

	profile := analyzer.BuildProfile(analysis, name)
	t.profiles.Put(profile)
	log.Info("created style profile", "name", name, "confidence", profile.Confidence)

	return profile, nil
}
