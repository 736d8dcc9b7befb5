// Package convert turns a Google Tasks export into a Super Productivity
// backup.
//
// Conversion runs in two passes. The first pass (remapList) converts every
// eligible task of every list, assigning fresh ids and guessing parents from
// whatever has been seen so far. The second pass (buildHierarchy) runs once
// over the whole flat set, fixes forward references, and fills subtask
// lists. Project task lists are filtered to top-level tasks only after the
// second pass.
package convert

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nibzard/gtasks2sp/internal/gtasks"
	"github.com/nibzard/gtasks2sp/internal/logging"
	"github.com/nibzard/gtasks2sp/internal/sp"
	"github.com/nibzard/gtasks2sp/internal/utils"
)

// DefaultPlaceholderTitle replaces empty task and list titles.
const DefaultPlaceholderTitle = "Untitled Task"

// ErrNilExport is returned when Convert is called without an export.
var ErrNilExport = errors.New("no export to convert")

// Options configures a Converter. Zero values select defaults.
type Options struct {
	NewID            func() string    // defaults to uuid.NewString
	Now              func() time.Time // defaults to time.Now
	PlaceholderTitle string
	ProjectColor     string
	Diagnostics      *logging.Diagnostics
}

// Converter converts Takeout exports. A Converter holds no per-run state
// and may be reused.
type Converter struct {
	newID       func() string
	now         func() time.Time
	placeholder string
	color       string
	diag        *logging.Diagnostics
}

// Stats summarises a conversion run.
type Stats struct {
	Lists     int // projects produced
	Tasks     int // tasks produced
	Completed int
	Subtasks  int // tasks with a resolved parent
	Skipped   int // deleted or hidden source tasks
	Shadowed  int // tasks whose original id was already claimed
}

// Result is the outcome of a conversion.
type Result struct {
	Backup  *sp.Backup
	Stats   Stats
	Mapping *IDMapping
}

// New creates a Converter.
func New(opts Options) *Converter {
	c := &Converter{
		newID:       opts.NewID,
		now:         opts.Now,
		placeholder: opts.PlaceholderTitle,
		color:       opts.ProjectColor,
		diag:        opts.Diagnostics,
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.placeholder == "" {
		c.placeholder = DefaultPlaceholderTitle
	}
	if c.color == "" {
		c.color = sp.DefaultProjectColor
	}
	return c
}

// run is the state of one Convert call.
type run struct {
	backup    *sp.Backup
	mapping   *IDMapping
	origins   map[string]*gtasks.Task // converted id → source task
	nowMillis int64
	stats     Stats
}

// Convert converts export into a new backup.
func (c *Converter) Convert(export *gtasks.Export) (*Result, error) {
	if export == nil {
		return nil, ErrNilExport
	}
	if !export.KindMatches() {
		c.diag.Warn("input does not look like a Google Tasks export", "kind", export.Kind, "expected", gtasks.ExpectedKind)
	}

	now := c.now()
	r := &run{
		backup:    sp.NewBackup(now),
		mapping:   NewIDMapping(),
		origins:   make(map[string]*gtasks.Task, export.TaskCount()),
		nowMillis: now.UnixMilli(),
	}
	c.diag.Debug("found task lists", "count", len(export.Items))

	projectTasks := make(map[string][]string, len(export.Items))
	for i := range export.Items {
		list := &export.Items[i]

		projectID, err := c.generateID(r)
		if err != nil {
			return nil, err
		}
		project := sp.NewProject(projectID, utils.SanitizeTitle(list.Title, c.placeholder), c.color)
		r.backup.Data.Project.Add(project)
		r.stats.Lists++

		taskIDs, err := c.remapList(r, list, projectID)
		if err != nil {
			return nil, fmt.Errorf("convert list %q: %w", list.Title, err)
		}
		projectTasks[projectID] = taskIDs

		c.diag.Debug("converted list", "title", project.Title, "tasks", len(taskIDs))
	}

	subtasks := buildHierarchy(r.backup.Data.Task, r.origins, r.mapping, c.diag)
	r.stats.Subtasks = len(subtasks)
	if len(subtasks) > 0 {
		c.diag.Debug("found subtasks", "count", len(subtasks))
	}

	for _, projectID := range r.backup.Data.Project.IDs {
		project := r.backup.Data.Project.Get(projectID)
		for _, id := range projectTasks[projectID] {
			if !subtasks[id] {
				project.TaskIDs = append(project.TaskIDs, id)
			}
		}
	}

	r.stats.Shadowed = r.mapping.ShadowedCount()
	for _, original := range r.mapping.Shadowed() {
		c.diag.Warn("duplicate task id; only the first task can be used as a parent", "id", original)
	}

	c.diag.Debug("total tasks converted", "tasks", r.stats.Tasks, "completed", r.stats.Completed)

	return &Result{
		Backup:  r.backup,
		Stats:   r.stats,
		Mapping: r.mapping,
	}, nil
}

// remapList converts the eligible tasks of one list and returns their new
// ids in arrival order. Each task is added to the backup's task state and
// its source recorded in r.origins.
func (c *Converter) remapList(r *run, list *gtasks.TaskList, projectID string) ([]string, error) {
	ids := make([]string, 0, len(list.Items))

	for i := range list.Items {
		src := &list.Items[i]
		if !src.Eligible() {
			r.stats.Skipped++
			continue
		}

		newID, err := c.generateID(r)
		if err != nil {
			return nil, err
		}
		r.mapping.Register(src.ID, newID)

		task := c.convertTask(r, src, newID, projectID)
		r.backup.Data.Task.Add(task)
		r.origins[newID] = src
		ids = append(ids, newID)

		r.stats.Tasks++
		if task.IsDone {
			r.stats.Completed++
		}
	}

	return ids, nil
}

// convertTask maps the fields of one source task. The parent is a first
// guess that buildHierarchy confirms or clears.
func (c *Converter) convertTask(r *run, src *gtasks.Task, id, projectID string) *sp.Task {
	task := sp.NewTask(id, projectID)
	task.Title = utils.SanitizeTitle(src.Title, c.placeholder)
	task.Notes = src.Notes
	task.OriginalID = src.ID

	if src.IsCompleted() {
		task.IsDone = true
		task.DoneOn = c.millis(src.Completed, "completed", src.ID)
	}

	if src.Due != "" {
		due, err := utils.ParseDateString(src.Due)
		if err != nil {
			c.diag.Warn("failed to parse due date", "task", src.ID, "value", src.Due, "err", err)
		}
		task.DueDay = due
	}

	created := r.nowMillis
	if updated := c.millis(src.Updated, "updated", src.ID); updated != nil {
		created = *updated
	}
	task.Created = created
	task.Updated = created

	if src.HasParent() {
		if parentID, ok := r.mapping.Lookup(src.Parent); ok {
			task.SetParent(parentID)
		}
	}

	return task
}

// millis parses a timestamp field, warning when a present value is malformed.
func (c *Converter) millis(value, field, taskID string) *int64 {
	ms, err := utils.ParseTimestampMillis(value)
	if err != nil {
		c.diag.Warn("failed to parse timestamp", "task", taskID, "field", field, "value", value, "err", err)
		return nil
	}
	return ms
}

// generateID returns a fresh id not yet used by any task or project.
func (c *Converter) generateID(r *run) (string, error) {
	id := c.newID()
	if id == "" {
		return "", errors.New("id generator returned an empty id")
	}
	if r.backup.Data.Task.Get(id) != nil || r.backup.Data.Project.Get(id) != nil {
		return "", fmt.Errorf("id generator returned duplicate id %q", id)
	}
	return id, nil
}
