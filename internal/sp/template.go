package sp

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

// templateJSON holds the default sub-documents the target requires next to
// project and task: tags, notes, planner, global config, archives and so on.
//
//go:embed template.json
var templateJSON []byte

// siblingTemplate is decoded once and copied into every new backup.
var siblingTemplate map[string]json.RawMessage

func init() {
	siblingTemplate = mustDecodeTemplate(templateJSON)
}

func mustDecodeTemplate(raw []byte) map[string]json.RawMessage {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		panic(fmt.Sprintf("failed to parse embedded template.json: %v", err))
	}
	if _, ok := m["project"]; ok {
		panic("embedded template.json must not define project")
	}
	if _, ok := m["task"]; ok {
		panic("embedded template.json must not define task")
	}
	return m
}

// TemplateKeys returns the sorted names of the default sub-documents.
func TemplateKeys() []string {
	return slices.Sorted(maps.Keys(siblingTemplate))
}

// NewBackup returns an empty backup stamped with now.
func NewBackup(now time.Time) *Backup {
	ts := now.UnixMilli()
	lastUpdate := ts
	version := CrossModelVersion

	siblings := make(map[string]json.RawMessage, len(siblingTemplate))
	for k, v := range siblingTemplate {
		siblings[k] = slices.Clone(v)
	}

	return &Backup{
		Timestamp:         &ts,
		LastUpdate:        &lastUpdate,
		CrossModelVersion: &version,
		Data: &Data{
			Project: &ProjectState{
				IDs:      []string{},
				Entities: map[string]*Project{},
			},
			Task: &TaskState{
				IDs:          []string{},
				Entities:     map[string]*Task{},
				IsDataLoaded: true,
			},
			Siblings: siblings,
		},
	}
}
