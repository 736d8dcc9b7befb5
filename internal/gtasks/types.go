// Package gtasks reads Google Tasks Takeout exports.
//
// A Takeout export (Tasks.json) looks like:
//
//	{
//	  "kind": "tasks#taskLists",
//	  "items": [
//	    {
//	      "kind": "tasks#tasks",
//	      "id": "MTIzNDU2",
//	      "title": "My Tasks",
//	      "updated": "2020-10-10T03:46:42.098751Z",
//	      "items": [
//	        {
//	          "kind": "tasks#task",
//	          "id": "abc",
//	          "title": "Buy milk",
//	          "notes": "2 litres",
//	          "status": "needsAction",
//	          "due": "2020-10-12T00:00:00.000Z",
//	          "parent": "def",
//	          "updated": "2020-10-10T03:46:42.098751Z"
//	        }
//	      ]
//	    }
//	  ]
//	}
//
// Identifiers are not guaranteed to be unique across lists, and any string
// field may be missing. Missing strings decode as "".
package gtasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ExpectedKind marks a Takeout task-list export.
const ExpectedKind = "tasks#taskLists"

// Status values used by Google Tasks.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

var (
	// ErrNotFound is returned when the export file does not exist.
	ErrNotFound = errors.New("input file not found")
	// ErrMalformed is returned when the export is not valid JSON.
	ErrMalformed = errors.New("invalid JSON in input file")
)

// Export is the top-level Takeout document.
type Export struct {
	Kind  string     `json:"kind"`
	Items []TaskList `json:"items"`
}

// TaskList is a named collection of tasks.
type TaskList struct {
	Kind    string `json:"kind,omitempty"`
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Updated string `json:"updated,omitempty"`
	Items   []Task `json:"items"`
}

// Task is a single exported task.
type Task struct {
	Kind      string `json:"kind,omitempty"`
	ID        string `json:"id,omitempty"`
	Title     string `json:"title,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Status    string `json:"status,omitempty"`
	Completed string `json:"completed,omitempty"`
	Due       string `json:"due,omitempty"`
	Parent    string `json:"parent,omitempty"`
	Position  string `json:"position,omitempty"`
	Updated   string `json:"updated,omitempty"`
	SelfLink  string `json:"selfLink,omitempty"`
	Deleted   bool   `json:"deleted,omitempty"`
	Hidden    bool   `json:"hidden,omitempty"`
}

// Eligible reports whether the task should be converted.
// Deleted and hidden tasks are dropped.
func (t *Task) Eligible() bool {
	return !t.Deleted && !t.Hidden
}

// IsCompleted reports whether the task status is "completed".
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// HasParent reports whether the task declares a parent.
func (t *Task) HasParent() bool {
	return t.Parent != ""
}

// KindMatches reports whether the export carries the expected kind marker.
func (e *Export) KindMatches() bool {
	return e.Kind == ExpectedKind
}

// TaskCount returns the number of tasks across all lists, including
// deleted and hidden ones.
func (e *Export) TaskCount() int {
	n := 0
	for i := range e.Items {
		n += len(e.Items[i].Items)
	}
	return n
}

// Load reads and parses a Takeout export from path.
func Load(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: '%s'", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a Takeout export.
func Parse(data []byte) (*Export, error) {
	var e Export
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &e, nil
}
