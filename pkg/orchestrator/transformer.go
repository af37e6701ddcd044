package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Transformer mutates the index after parsing and before overrides and
// subsets apply. Implementations can rename the title, rewrite descriptions
// or drop actions.
type Transformer interface {
	Transform(ctx context.Context, index *Index) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, index *Index) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, index *Index) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, index)
}

// JSONPresetTransformer applies declarative patches loaded from JSON:
//
//	{
//	  "title": "Shop API",
//	  "groups": {"pets": {"description": "Pet management"}},
//	  "actions": {
//	    "pets.listPets": {"summary": "Browse pets"},
//	    "pets.deletePet": {"hidden": true}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Title   string                     `json:"title"`
	Version string                     `json:"version"`
	Groups  map[string]jsonGroupPatch  `json:"groups"`
	Actions map[string]jsonActionPatch `json:"actions"`
}

type jsonGroupPatch struct {
	Description string `json:"description"`
	Rename      string `json:"rename"`
}

type jsonActionPatch struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Method      string `json:"method"`
	Template    string `json:"template"`
	Hidden      bool   `json:"hidden"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	for id, patch := range document.Actions {
		if err := patch.override(id).validate(); err != nil {
			return nil, fmt.Errorf("json preset transformer: %w", err)
		}
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied index. Patches
// naming unknown groups or actions are errors.
func (t *JSONPresetTransformer) Transform(ctx context.Context, index *Index) error {
	if index == nil {
		return errors.New("json preset transformer: index is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		index.Title = t.document.Title
	}
	if t.document.Version != "" {
		index.Version = t.document.Version
	}

	// Actions are matched before renames so ids refer to the parsed names.
	ids := make([]string, 0, len(t.document.Actions))
	for id := range t.document.Actions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !applyOverride(index, t.document.Actions[id].override(id)) {
			return fmt.Errorf("json preset transformer: action %q not found", id)
		}
	}

	for name, patch := range t.document.Groups {
		group := index.group(name)
		if group == nil {
			return fmt.Errorf("json preset transformer: group %q not found", name)
		}
		if patch.Description != "" {
			group.Description = patch.Description
		}
		if rename := strings.TrimSpace(patch.Rename); rename != "" {
			group.Name = rename
			for i := range group.Actions {
				group.Actions[i].Group = rename
			}
		}
	}
	return nil
}

func (p jsonActionPatch) override(id string) ActionOverride {
	return ActionOverride{
		Action:      id,
		Summary:     p.Summary,
		Description: p.Description,
		Method:      p.Method,
		Template:    p.Template,
		Hidden:      p.Hidden,
	}
}
