// Package sp models the Super Productivity complete-backup import format.
package sp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// CrossModelVersion is the backup schema version written by this tool.
const CrossModelVersion = 4.4

// DefaultProjectColor is the theme colour given to imported projects.
const DefaultProjectColor = "#4285f4"

// Backup is the CompleteBackup envelope.
//
// Top-level fields are pointers so a loaded document can report which
// of them were missing.
type Backup struct {
	Timestamp         *int64   `json:"timestamp,omitempty"`
	LastUpdate        *int64   `json:"lastUpdate,omitempty"`
	CrossModelVersion *float64 `json:"crossModelVersion,omitempty"`
	Data              *Data    `json:"data,omitempty"`
}

// Data holds the model sub-documents of a backup. Project and Task are
// typed; everything else the target requires is carried in Siblings.
type Data struct {
	Project  *ProjectState
	Task     *TaskState
	Siblings map[string]json.RawMessage
}

// ProjectState is the project entity collection.
type ProjectState struct {
	IDs      []string            `json:"ids"`
	Entities map[string]*Project `json:"entities"`
}

// TaskState is the task entity collection.
type TaskState struct {
	IDs                   []string         `json:"ids"`
	Entities              map[string]*Task `json:"entities"`
	CurrentTaskID         *string          `json:"currentTaskId"`
	SelectedTaskID        *string          `json:"selectedTaskId"`
	TaskDetailTargetPanel *string          `json:"taskDetailTargetPanel"`
	LastCurrentTaskID     *string          `json:"lastCurrentTaskId"`
	IsDataLoaded          bool             `json:"isDataLoaded"`
}

// Task is a converted task entity.
type Task struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Notes          string            `json:"notes"`
	ProjectID      string            `json:"projectId"`
	IsDone         bool              `json:"isDone"`
	DoneOn         *int64            `json:"doneOn,omitempty"`
	DueDay         *string           `json:"dueDay,omitempty"`
	ParentID       *string           `json:"parentId,omitempty"`
	SubTaskIDs     []string          `json:"subTaskIds"`
	TagIDs         []string          `json:"tagIds"`
	TimeSpent      int64             `json:"timeSpent"`
	TimeEstimate   int64             `json:"timeEstimate"`
	TimeSpentOnDay map[string]int64  `json:"timeSpentOnDay"`
	Created        int64             `json:"created"`
	Updated        int64             `json:"updated"`
	Attachments    []json.RawMessage `json:"attachments"`
	OriginalID     string            `json:"_originalGoogleTaskId,omitempty"`
}

// Project is a converted task list.
type Project struct {
	ID               string                `json:"id"`
	Title            string                `json:"title"`
	TaskIDs          []string              `json:"taskIds"`
	BacklogTaskIDs   []string              `json:"backlogTaskIds"`
	NoteIDs          []string              `json:"noteIds"`
	Theme            ProjectTheme          `json:"theme"`
	IsArchived       bool                  `json:"isArchived"`
	IsEnableBacklog  bool                  `json:"isEnableBacklog"`
	IsHiddenFromMenu bool                  `json:"isHiddenFromMenu"`
	Icon             *string               `json:"icon"`
	AdvancedCfg      ProjectAdvancedConfig `json:"advancedCfg"`
}

// ProjectTheme is the per-project colour scheme.
type ProjectTheme struct {
	Primary        string `json:"primary"`
	IsAutoContrast bool   `json:"isAutoContrast"`
}

// ProjectAdvancedConfig holds per-project worklog settings.
type ProjectAdvancedConfig struct {
	WorklogExportSettings WorklogExportSettings `json:"worklogExportSettings"`
}

// WorklogExportSettings mirrors the target's worklog export defaults.
type WorklogExportSettings struct {
	Cols             []string `json:"cols"`
	RoundWorkTimeTo  *string  `json:"roundWorkTimeTo"`
	RoundStartTimeTo *string  `json:"roundStartTimeTo"`
	RoundEndTimeTo   *string  `json:"roundEndTimeTo"`
	SeparateTasksBy  string   `json:"separateTasksBy"`
	GroupBy          string   `json:"groupBy"`
}

// NewTask returns a task with every list field initialised so it encodes
// as [] or {} rather than null.
func NewTask(id, projectID string) *Task {
	return &Task{
		ID:             id,
		ProjectID:      projectID,
		SubTaskIDs:     []string{},
		TagIDs:         []string{},
		TimeSpentOnDay: map[string]int64{},
		Attachments:    []json.RawMessage{},
	}
}

// HasParent reports whether the task references a parent.
func (t *Task) HasParent() bool {
	return t.ParentID != nil && *t.ParentID != ""
}

// Parent returns the parent id, or "" for a top-level task.
func (t *Task) Parent() string {
	if t.ParentID == nil {
		return ""
	}
	return *t.ParentID
}

// SetParent sets the parent id; an empty id clears it.
func (t *Task) SetParent(id string) {
	if id == "" {
		t.ParentID = nil
		return
	}
	t.ParentID = &id
}

// HasSubTask reports whether id is already listed as a subtask.
func (t *Task) HasSubTask(id string) bool {
	for _, sub := range t.SubTaskIDs {
		if sub == id {
			return true
		}
	}
	return false
}

// AddSubTask appends id to the subtask list unless it is already present.
func (t *Task) AddSubTask(id string) {
	if !t.HasSubTask(id) {
		t.SubTaskIDs = append(t.SubTaskIDs, id)
	}
}

// NewProject returns a project with the target's default settings.
func NewProject(id, title, color string) *Project {
	if color == "" {
		color = DefaultProjectColor
	}
	return &Project{
		ID:             id,
		Title:          title,
		TaskIDs:        []string{},
		BacklogTaskIDs: []string{},
		NoteIDs:        []string{},
		Theme: ProjectTheme{
			Primary:        color,
			IsAutoContrast: true,
		},
		AdvancedCfg: ProjectAdvancedConfig{
			WorklogExportSettings: WorklogExportSettings{
				Cols:            []string{"DATE", "START", "END", "TIME_CLOCK", "TITLES_INCLUDING_SUB"},
				SeparateTasksBy: "\n",
				GroupBy:         "DATE",
			},
		},
	}
}

// Add appends a task to the collection.
func (s *TaskState) Add(t *Task) {
	if s.Entities == nil {
		s.Entities = make(map[string]*Task)
	}
	s.IDs = append(s.IDs, t.ID)
	s.Entities[t.ID] = t
}

// Get returns a task by id, or nil if not found.
func (s *TaskState) Get(id string) *Task {
	if s == nil {
		return nil
	}
	return s.Entities[id]
}

// Add appends a project to the collection.
func (s *ProjectState) Add(p *Project) {
	if s.Entities == nil {
		s.Entities = make(map[string]*Project)
	}
	s.IDs = append(s.IDs, p.ID)
	s.Entities[p.ID] = p
}

// Get returns a project by id, or nil if not found.
func (s *ProjectState) Get(id string) *Project {
	if s == nil {
		return nil
	}
	return s.Entities[id]
}

// MarshalJSON merges the typed sub-documents with the sibling template.
func (d Data) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Siblings)+2)
	for k, v := range d.Siblings {
		out[k] = v
	}
	if d.Project != nil {
		out["project"] = d.Project
	}
	if d.Task != nil {
		out["task"] = d.Task
	}
	return marshalNoEscape(out)
}

// UnmarshalJSON splits project and task out of the data document and keeps
// everything else verbatim.
func (d *Data) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	d.Siblings = make(map[string]json.RawMessage, len(raw))
	for key, value := range raw {
		switch key {
		case "project":
			if isNull(value) {
				continue
			}
			var p ProjectState
			if err := json.Unmarshal(value, &p); err != nil {
				return fmt.Errorf("decode project state: %w", err)
			}
			d.Project = &p
		case "task":
			if isNull(value) {
				continue
			}
			var t TaskState
			if err := json.Unmarshal(value, &t); err != nil {
				return fmt.Errorf("decode task state: %w", err)
			}
			d.Task = &t
		default:
			d.Siblings[key] = value
		}
	}
	return nil
}

// Encode writes the backup as 2-space indented JSON with a trailing newline.
// Non-ASCII text and HTML characters are written as-is.
func (b *Backup) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// Save writes the backup to path.
func (b *Backup) Save(path string) error {
	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		return fmt.Errorf("marshal backup: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}

	return nil
}

// Load reads and parses a backup file from path.
func Load(path string) (*Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup file: %w", err)
	}

	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse backup file: %w", err)
	}

	return &b, nil
}

// TaskCount returns the number of task ids in the backup.
func (b *Backup) TaskCount() int {
	if b.Data == nil || b.Data.Task == nil {
		return 0
	}
	return len(b.Data.Task.IDs)
}

// ProjectCount returns the number of project ids in the backup.
func (b *Backup) ProjectCount() int {
	if b.Data == nil || b.Data.Project == nil {
		return 0
	}
	return len(b.Data.Project.IDs)
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
