package render

import (
	"time"

	"github.com/iDorgham/DocGen-sub001/internal/model"
	"github.com/iDorgham/DocGen-sub001/internal/template"
)

// checksumPlaceholder stands in for the content checksum, which can
// only be computed after rendering completes.
const checksumPlaceholder = ""

// BuildContext layers the variable context, lowest to highest
// priority: template-chain defaults, derived system variables,
// project fields, then caller-supplied extras. Caller extras always
// win.
func BuildContext(resolved *template.Resolved, project *model.Project, extra map[string]any, now time.Time) map[string]any {
	ctx := make(map[string]any, len(resolved.Defaults)+len(extra)+16)

	for k, v := range resolved.Defaults {
		ctx[k] = v
	}

	// Derived system variables.
	ctx["current_date"] = now
	ctx["generated_at"] = now
	ctx["content_checksum"] = checksumPlaceholder
	ctx["template_name"] = resolved.Name
	ctx["template_version"] = resolved.Version

	// Project fields flattened into named variables.
	if project != nil {
		ctx["project_id"] = project.ID
		ctx["project_name"] = project.Name
		ctx["project_description"] = project.Description
		ctx["project_status"] = string(project.Status)
		ctx["created_at"] = project.CreatedAt
		ctx["updated_at"] = project.UpdatedAt
		ctx["features"] = project.Features
		ctx["phases"] = project.Phases
		ctx["feature_count"] = len(project.Features)
		ctx["phase_count"] = len(project.Phases)
		if project.Metadata != nil {
			ctx["metadata"] = project.Metadata
		} else {
			ctx["metadata"] = map[string]any{}
		}
	}

	for k, v := range extra {
		ctx[k] = v
	}
	return ctx
}
