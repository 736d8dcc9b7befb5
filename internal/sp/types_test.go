package sp

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestNewBackup(t *testing.T) {
	b := NewBackup(testNow)

	if b.Timestamp == nil || *b.Timestamp != testNow.UnixMilli() {
		t.Errorf("Timestamp = %v, want %d", b.Timestamp, testNow.UnixMilli())
	}
	if b.LastUpdate == nil || *b.LastUpdate != testNow.UnixMilli() {
		t.Errorf("LastUpdate = %v, want %d", b.LastUpdate, testNow.UnixMilli())
	}
	if b.CrossModelVersion == nil || *b.CrossModelVersion != CrossModelVersion {
		t.Errorf("CrossModelVersion = %v, want %v", b.CrossModelVersion, CrossModelVersion)
	}
	if b.TaskCount() != 0 || b.ProjectCount() != 0 {
		t.Errorf("new backup should be empty, got %d tasks, %d projects", b.TaskCount(), b.ProjectCount())
	}
	if !b.Data.Task.IsDataLoaded {
		t.Error("task state should be marked as loaded")
	}
}

func TestNewBackupCopiesTemplate(t *testing.T) {
	first := NewBackup(testNow)
	second := NewBackup(testNow)

	first.Data.Siblings["tag"][0] = 'X'
	if second.Data.Siblings["tag"][0] == 'X' {
		t.Fatal("backups share template storage")
	}
	if siblingTemplate["tag"][0] == 'X' {
		t.Fatal("backup mutated the package template")
	}
}

func TestTemplateKeys(t *testing.T) {
	want := []string{
		"archiveOld", "archiveYoung", "boards", "globalConfig", "improvement",
		"issueProvider", "menuTree", "metric", "note", "obstruction", "planner",
		"pluginMetadata", "pluginUserData", "reminders", "simpleCounter", "tag",
		"taskRepeatCfg", "timeTracking",
	}
	got := TemplateKeys()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("TemplateKeys() = %v, want %v", got, want)
	}
}

func TestBackupEncode(t *testing.T) {
	b := NewBackup(testNow)
	p := NewProject("p1", "Inbox <work>", "")
	b.Data.Project.Add(p)

	task := NewTask("t1", "p1")
	task.Title = "Tâche française 🎯"
	b.Data.Task.Add(task)
	p.TaskIDs = append(p.TaskIDs, "t1")

	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out := buf.String()

	if !strings.HasSuffix(out, "}\n") {
		t.Error("output should end with a trailing newline")
	}
	if !strings.Contains(out, "\n  \"data\": {") {
		t.Error("output should use 2-space indentation")
	}
	if !strings.Contains(out, "Tâche française 🎯") {
		t.Error("non-ASCII title should be written as-is")
	}
	if !strings.Contains(out, "Inbox <work>") {
		t.Error("HTML characters should not be escaped")
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	data := doc["data"].(map[string]any)
	for _, key := range append(TemplateKeys(), "project", "task") {
		if _, ok := data[key]; !ok {
			t.Errorf("data is missing %q", key)
		}
	}

	encodedTask := data["task"].(map[string]any)["entities"].(map[string]any)["t1"].(map[string]any)
	for _, absent := range []string{"doneOn", "dueDay", "parentId", "_originalGoogleTaskId"} {
		if _, ok := encodedTask[absent]; ok {
			t.Errorf("unset optional field %q should be omitted", absent)
		}
	}
	for _, list := range []string{"subTaskIds", "tagIds", "attachments"} {
		if v, ok := encodedTask[list].([]any); !ok || len(v) != 0 {
			t.Errorf("%s = %v, want []", list, encodedTask[list])
		}
	}
	if _, ok := encodedTask["timeSpentOnDay"].(map[string]any); !ok {
		t.Errorf("timeSpentOnDay = %v, want {}", encodedTask["timeSpentOnDay"])
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	b := NewBackup(testNow)
	b.Data.Project.Add(NewProject("p1", "Inbox", "#123456"))
	parent := NewTask("t1", "p1")
	parent.Title = "Parent"
	child := NewTask("t2", "p1")
	child.Title = "Child"
	child.SetParent("t1")
	due := "2024-01-05"
	child.DueDay = &due
	parent.AddSubTask("t2")
	b.Data.Task.Add(parent)
	b.Data.Task.Add(child)

	if err := b.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.TaskCount() != 2 || loaded.ProjectCount() != 1 {
		t.Fatalf("loaded %d tasks, %d projects; want 2, 1", loaded.TaskCount(), loaded.ProjectCount())
	}
	got := loaded.Data.Task.Get("t2")
	if got == nil || got.Parent() != "t1" {
		t.Fatalf("child parent = %v, want t1", got)
	}
	if got.DueDay == nil || *got.DueDay != due {
		t.Errorf("child dueDay = %v, want %s", got.DueDay, due)
	}
	if p := loaded.Data.Project.Get("p1"); p == nil || p.Theme.Primary != "#123456" {
		t.Errorf("project theme not preserved: %+v", p)
	}
	if len(loaded.Data.Siblings) != len(TemplateKeys()) {
		t.Errorf("loaded %d sibling documents, want %d", len(loaded.Data.Siblings), len(TemplateKeys()))
	}
}

func TestLoadMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"data": {"project": null, "tag": {"ids": [], "entities": {}}}}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b.Timestamp != nil || b.LastUpdate != nil || b.CrossModelVersion != nil {
		t.Error("missing top-level fields should decode as nil")
	}
	if b.Data.Project != nil || b.Data.Task != nil {
		t.Error("null or missing project/task should decode as nil")
	}
	if _, ok := b.Data.Siblings["tag"]; !ok {
		t.Error("sibling documents should be kept")
	}
}

func TestTaskHelpers(t *testing.T) {
	task := NewTask("t1", "p1")
	if task.HasParent() || task.Parent() != "" {
		t.Error("new task should be top-level")
	}

	task.SetParent("t0")
	if !task.HasParent() || task.Parent() != "t0" {
		t.Errorf("Parent() = %q, want t0", task.Parent())
	}
	task.SetParent("")
	if task.HasParent() || task.ParentID != nil {
		t.Error("SetParent(\"\") should clear the parent")
	}

	task.AddSubTask("c1")
	task.AddSubTask("c2")
	task.AddSubTask("c1")
	if len(task.SubTaskIDs) != 2 || task.SubTaskIDs[0] != "c1" || task.SubTaskIDs[1] != "c2" {
		t.Errorf("SubTaskIDs = %v, want [c1 c2]", task.SubTaskIDs)
	}
}

func TestNewProjectDefaults(t *testing.T) {
	p := NewProject("p1", "Inbox", "")
	if p.Theme.Primary != DefaultProjectColor || !p.Theme.IsAutoContrast {
		t.Errorf("theme = %+v, want default colour with auto contrast", p.Theme)
	}
	if p.TaskIDs == nil || p.BacklogTaskIDs == nil || p.NoteIDs == nil {
		t.Error("project lists should be non-nil")
	}
	if got := p.AdvancedCfg.WorklogExportSettings.GroupBy; got != "DATE" {
		t.Errorf("worklog groupBy = %q, want DATE", got)
	}
}
