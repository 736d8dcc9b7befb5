package convert

import (
	"github.com/nibzard/gtasks2sp/internal/gtasks"
	"github.com/nibzard/gtasks2sp/internal/logging"
	"github.com/nibzard/gtasks2sp/internal/sp"
)

// buildHierarchy links every converted task to its parent once all tasks
// exist, so children listed before their parent are resolved too.
//
// For each task whose source declared a parent, the parent's original id is
// resolved through mapping. A resolved parent gets the child appended to its
// subtask list (at most once) and the child is marked non-top-level, even
// when the parent is the task itself; such loops are left for the validator.
// A task whose parent cannot be resolved loses any parent guess from the
// first pass and stays top-level.
//
// Tasks are visited in state order so subtask lists follow arrival order.
// The returned set holds the ids of all non-top-level tasks.
func buildHierarchy(tasks *sp.TaskState, origins map[string]*gtasks.Task, mapping *IDMapping, diag *logging.Diagnostics) map[string]bool {
	subtasks := make(map[string]bool)

	for _, id := range tasks.IDs {
		task := tasks.Get(id)
		src := origins[id]
		if task == nil || src == nil || !src.HasParent() {
			continue
		}

		parentID, ok := mapping.Lookup(src.Parent)
		parent := tasks.Get(parentID)
		if !ok || parent == nil {
			task.SetParent("")
			diag.Warn("parent task not found; keeping task at top level", "task", src.ID, "parent", src.Parent)
			continue
		}

		task.SetParent(parentID)
		parent.AddSubTask(id)
		subtasks[id] = true
	}

	return subtasks
}
