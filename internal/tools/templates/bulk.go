package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/slidesmith/slidesmith-mcp/internal/pptx"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/templating"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// BulkTool generates one presentation per dataset from a single template.
type BulkTool struct {
	sessions *session.Registry
	store    *templating.Store
	safeDir  string
}

func NewBulkTool(sessions *session.Registry, store *templating.Store, safeDir string) *BulkTool {
	return &BulkTool{sessions: sessions, store: store, safeDir: safeDir}
}

func (t *BulkTool) Name() string {
	return "bulk_generate_presentations"
}

func (t *BulkTool) Title() string {
	return "Bulk Generate Presentations"
}

func (t *BulkTool) Description() string {
	return `Generate one presentation per dataset from a single template.

Each entry of datasets is a data object as accepted by apply_template. A
failing dataset is reported in its result slot and the batch continues.

With auto_save=true each deck is written to <file_prefix>_<N>.pptx (N
starting at 1) under output_path and then released; results carry the final
file paths. Without auto_save each deck stays open and results carry
presentation_ids for further editing.`
}

func (t *BulkTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *BulkTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"template_id": {
				"type": "string",
				"description": "Template handle to instantiate"
			},
			"datasets": {
				"type": "array",
				"items": {"type": "object"},
				"description": "One data object per presentation"
			},
			"auto_save": {
				"type": "boolean",
				"description": "Write each deck to disk and release it"
			},
			"output_path": {
				"type": "string",
				"description": "Directory for auto-saved files"
			},
			"file_prefix": {
				"type": "string",
				"description": "Filename prefix for auto-saved files (default: presentation)"
			}
		},
		"required": ["template_id", "datasets"]
	}`)
}

// bulkResult is one slot of the batch response.
type bulkResult struct {
	Index          int    `json:"index"`
	PresentationID string `json:"presentation_id,omitempty"`
	FilePath       string `json:"file_path,omitempty"`
	SlideCount     int    `json:"slide_count,omitempty"`
	Error          string `json:"error,omitempty"`
}

func (t *BulkTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		TemplateID string                   `json:"template_id"`
		Datasets   []map[string]interface{} `json:"datasets"`
		AutoSave   bool                     `json:"auto_save"`
		OutputPath string                   `json:"output_path"`
		FilePrefix string                   `json:"file_prefix"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, tools.NewBadArgument("invalid request: %v", err)
	}
	if len(req.Datasets) == 0 {
		return nil, tools.NewBadArgument("datasets must not be empty")
	}
	if req.FilePrefix == "" {
		req.FilePrefix = "presentation"
	}

	tpl, err := t.store.Get(req.TemplateID)
	if err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	results := make([]bulkResult, len(req.Datasets))
	succeeded := 0

	for i, data := range req.Datasets {
		results[i].Index = i
		if err := ctx.Err(); err != nil {
			results[i].Error = err.Error()
			continue
		}

		d, err := templating.BuildDeck(tpl, data)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		t.store.RecordUse(req.TemplateID)
		results[i].SlideCount = d.SlideCount()

		if req.AutoSave {
			requested := filepath.Join(req.OutputPath, fmt.Sprintf("%s_%d.pptx", req.FilePrefix, i+1))
			final, _, err := pptx.ResolveOutputPath(requested, t.safeDir)
			if err != nil {
				results[i].Error = err.Error()
				continue
			}
			if err := pptx.Write(d, final); err != nil {
				results[i].Error = err.Error()
				continue
			}
			results[i].FilePath = final
		} else {
			s := t.sessions.Allocate(d, "")
			results[i].PresentationID = s.ID
		}
		succeeded++
	}

	log.Info("bulk generation finished",
		"batch", batchID, "template", req.TemplateID,
		"total", len(req.Datasets), "succeeded", succeeded)

	return map[string]interface{}{
		"batch_id":  batchID,
		"total":     len(req.Datasets),
		"succeeded": succeeded,
		"failed":    len(req.Datasets) - succeeded,
		"results":   results,
	}, nil
}
