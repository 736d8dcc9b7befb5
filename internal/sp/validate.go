package sp

import (
	"fmt"
	"maps"
	"slices"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // location of the offending value, e.g. task[abc].parentId
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is an optional JSON Schema file checked after the
	// structural checks.
	SchemaPath string
	// UseEmbeddedSchema checks the document against the bundled
	// backup.schema.json when SchemaPath is empty.
	UseEmbeddedSchema bool
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Messages returns the text of every error, in the order found.
func (r *ValidationResult) Messages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

func (r *ValidationResult) add(path, format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{
		Path: path,
		Err:  fmt.Errorf(format, args...),
	})
}

// Validate re-derives every structural invariant of the backup from the
// finished document and reports all violations in one pass.
func (b *Backup) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	b.validateStructure(result)

	if opts.SchemaPath != "" || opts.UseEmbeddedSchema {
		validateWithSchema(b, opts, result)
	}

	return result
}

func (b *Backup) validateStructure(result *ValidationResult) {
	if b.Data == nil {
		result.add("data", "Missing 'data' field in backup")
		return
	}
	if b.CrossModelVersion == nil {
		result.add("crossModelVersion", "Missing 'crossModelVersion' field in backup")
	}
	if b.Timestamp == nil {
		result.add("timestamp", "Missing 'timestamp' field in backup")
	}
	if b.LastUpdate == nil {
		result.add("lastUpdate", "Missing 'lastUpdate' field in backup")
	}

	taskState := b.Data.Task
	if taskState == nil {
		result.add("data.task", "Missing 'data.task' field in backup")
		taskState = &TaskState{}
	}
	projectState := b.Data.Project
	if projectState == nil {
		result.add("data.project", "Missing 'data.project' field in backup")
		projectState = &ProjectState{}
	}

	tasks := taskState.Entities
	projects := projectState.Entities
	taskKeys := slices.Sorted(maps.Keys(tasks))
	projectKeys := slices.Sorted(maps.Keys(projects))

	checkTaskIDs(result, taskState.IDs, tasks)
	checkProjectRefs(result, taskKeys, tasks, projects)
	checkParentRefs(result, taskKeys, tasks)
	checkSubTasks(result, taskKeys, tasks)
	checkProjectTasks(result, projectKeys, projects, tasks)
}

// checkTaskIDs flags duplicate ids and ids without an entity.
func checkTaskIDs(result *ValidationResult, ids []string, tasks map[string]*Task) {
	seen := make(map[string]int, len(ids))
	for _, id := range ids {
		seen[id]++
		if seen[id] == 2 {
			result.add("task.ids", "Duplicate task IDs found: '%s'", id)
		}
	}

	for _, id := range ids {
		if _, ok := tasks[id]; !ok {
			result.add("task.ids", "Task ID '%s' in ids list but not in entities", id)
		}
	}
}

func checkProjectRefs(result *ValidationResult, keys []string, tasks map[string]*Task, projects map[string]*Project) {
	for _, id := range keys {
		task := tasks[id]
		path := taskPath(id, "projectId")
		if task == nil {
			result.add(taskPath(id, ""), "Task '%s' has no entity data", id)
			continue
		}
		if task.ProjectID == "" {
			result.add(path, "Task '%s' has no project", id)
			continue
		}
		if _, ok := projects[task.ProjectID]; !ok {
			result.add(path, "Task '%s' references non-existent project '%s'", id, task.ProjectID)
		}
	}
}

// checkParentRefs flags dangling parents, self-parents, and indirect cycles.
// The ancestor walk is bounded by the visited set.
func checkParentRefs(result *ValidationResult, keys []string, tasks map[string]*Task) {
	for _, id := range keys {
		task := tasks[id]
		if task == nil || !task.HasParent() {
			continue
		}
		parentID := task.Parent()
		path := taskPath(id, "parentId")

		if _, ok := tasks[parentID]; !ok {
			result.add(path, "Task '%s' references non-existent parent '%s'", id, parentID)
			continue
		}
		if parentID == id {
			result.add(path, "Task '%s' is its own parent (circular reference)", id)
			continue
		}

		visited := map[string]bool{id: true}
		current := parentID
		for current != "" {
			if visited[current] {
				result.add(path, "Circular parent reference detected involving task '%s'", id)
				break
			}
			visited[current] = true
			next := tasks[current]
			if next == nil {
				break
			}
			current = next.Parent()
		}
	}
}

// checkSubTasks checks that every listed subtask exists and points back.
func checkSubTasks(result *ValidationResult, keys []string, tasks map[string]*Task) {
	for _, id := range keys {
		task := tasks[id]
		if task == nil {
			continue
		}
		for _, subID := range task.SubTaskIDs {
			sub, ok := tasks[subID]
			if !ok || sub == nil {
				result.add(taskPath(id, "subTaskIds"), "Task '%s' lists non-existent subtask '%s'", id, subID)
				continue
			}
			if sub.Parent() != id {
				result.add(taskPath(subID, "parentId"), "Subtask '%s' doesn't reference parent '%s'", subID, id)
			}
		}
	}
}

// checkProjectTasks checks that projects list only existing top-level tasks.
func checkProjectTasks(result *ValidationResult, keys []string, projects map[string]*Project, tasks map[string]*Task) {
	for _, projectID := range keys {
		project := projects[projectID]
		if project == nil {
			continue
		}
		path := fmt.Sprintf("project[%s].taskIds", projectID)
		for _, taskID := range project.TaskIDs {
			task, ok := tasks[taskID]
			if !ok || task == nil {
				result.add(path, "Project '%s' lists non-existent task '%s'", projectID, taskID)
				continue
			}
			if task.HasParent() {
				result.add(path, "Project '%s' lists subtask '%s' (should only list top-level tasks)", projectID, taskID)
			}
		}
	}
}

func taskPath(id, field string) string {
	if field == "" {
		return fmt.Sprintf("task[%s]", id)
	}
	return fmt.Sprintf("task[%s].%s", id, field)
}
