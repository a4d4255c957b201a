package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"serene-api/domain"
)

func TestPostTaskWithoutSession(t *testing.T) {
	store := &mockStore{}
	h := postTask(store, mockAuth{}, testLogger())

	body := strings.NewReader(`{"title":"Test Task","priority":"medium","dueDate":"2025-10-30"}`)
	c, rec := newTestContext(t, http.MethodPost, "/api/tasks", body)
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	env := decodeErrorBody(t, rec.Body.Bytes())
	if env.Error.Code != codeUnauthorized {
		t.Fatalf("unexpected code: %s", env.Error.Code)
	}
	if store.insertedTask != nil {
		t.Fatalf("task persisted despite missing session")
	}
}

func TestPostTaskCreated(t *testing.T) {
	store := &mockStore{}
	h := postTask(store, userAuth(), testLogger())

	body := strings.NewReader(`{"title":"Test Task","priority":"medium","dueDate":"2025-10-30"}`)
	c, rec := newTestContext(t, http.MethodPost, "/api/tasks", body)
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data domain.TaskDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Data.ID != "generated-task-id" {
		t.Fatalf("unexpected task id: %s", env.Data.ID)
	}
	if env.Data.Title != "Test Task" {
		t.Fatalf("unexpected title: %s", env.Data.Title)
	}
	if env.Data.Priority != domain.PriorityMedium {
		t.Fatalf("priority not normalized: %s", env.Data.Priority)
	}
	if store.insertedTask == nil || store.insertedTask.UserID != "user-1" {
		t.Fatalf("task not persisted under caller: %+v", store.insertedTask)
	}
}

func TestPostTaskValidation(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing title", body: `{"priority":"High","dueDate":"2025-10-30"}`, field: "title"},
		{name: "bad priority", body: `{"title":"T","priority":"urgent","dueDate":"2025-10-30"}`, field: "priority"},
		{name: "bad due date", body: `{"title":"T","priority":"High","dueDate":"next tuesday"}`, field: "dueDate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := postTask(&mockStore{}, userAuth(), testLogger())
			c, rec := newTestContext(t, http.MethodPost, "/api/tasks", strings.NewReader(tc.body))
			if err := h(c); err != nil {
				t.Fatalf("handler: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
			}
			env := decodeErrorBody(t, rec.Body.Bytes())
			if env.Error.Code != codeValidation {
				t.Fatalf("unexpected code: %s", env.Error.Code)
			}
			if !strings.Contains(rec.Body.String(), `"`+tc.field+`"`) {
				t.Fatalf("details do not cite %q: %s", tc.field, rec.Body.String())
			}
		})
	}
}

func TestGetTasksListsOwnTasks(t *testing.T) {
	store := &mockStore{tasks: []domain.Task{{ID: "t1", UserID: "user-1", Title: "First"}}}
	h := getTasks(store, userAuth(), testLogger())

	c, rec := newTestContext(t, http.MethodGet, "/api/tasks", nil)
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if store.lastUserID != "user-1" {
		t.Fatalf("listed for wrong user: %s", store.lastUserID)
	}

	var env struct {
		Data []domain.TaskDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].ID != "t1" {
		t.Fatalf("unexpected payload: %+v", env.Data)
	}
}

func TestPutTaskUnknownID(t *testing.T) {
	store := &mockStore{updateMatched: false}
	h := putTask(store, userAuth(), testLogger())

	c, rec := newTestContext(t, http.MethodPut, "/api/tasks/does-not-exist", strings.NewReader(`{"completed":true}`))
	c.SetParamNames("id")
	c.SetParamValues("does-not-exist")
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
	}
	env := decodeErrorBody(t, rec.Body.Bytes())
	if env.Error.Code != codeNotFound {
		t.Fatalf("unexpected code: %s", env.Error.Code)
	}
}

func TestPutTaskAppliesPatch(t *testing.T) {
	store := &mockStore{updateMatched: true}
	h := putTask(store, userAuth(), testLogger())

	c, rec := newTestContext(t, http.MethodPut, "/api/tasks/t1", strings.NewReader(`{"completed":true,"priority":"high"}`))
	c.SetParamNames("id")
	c.SetParamValues("t1")
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d, body %s", rec.Code, rec.Body.String())
	}
	if store.lastTaskID != "t1" || store.lastUserID != "user-1" {
		t.Fatalf("update keyed wrongly: user %s task %s", store.lastUserID, store.lastTaskID)
	}
	if got := store.lastFields["completed"]; got != true {
		t.Fatalf("completed not applied: %v", got)
	}
	if got := store.lastFields["priority"]; got != string(domain.PriorityHigh) {
		t.Fatalf("priority not normalized: %v", got)
	}
}

func TestDeleteTaskUnknownID(t *testing.T) {
	store := &mockStore{deleteMatched: false}
	h := deleteTask(store, userAuth(), testLogger())

	c, rec := newTestContext(t, http.MethodDelete, "/api/tasks/ghost", nil)
	c.SetParamNames("id")
	c.SetParamValues("ghost")
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestDeleteTaskSuccess(t *testing.T) {
	store := &mockStore{deleteMatched: true}
	h := deleteTask(store, userAuth(), testLogger())

	c, rec := newTestContext(t, http.MethodDelete, "/api/tasks/t1", nil)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestTaskPatch(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		fields, issues := taskPatch(map[string]any{})
		if fields != nil || issues == nil {
			t.Fatalf("empty patch accepted: %v", fields)
		}
	})

	t.Run("unknown fields dropped", func(t *testing.T) {
		fields, issues := taskPatch(map[string]any{"completed": true, "userId": "intruder"})
		if issues != nil {
			t.Fatalf("unexpected issues: %v", issues)
		}
		if _, ok := fields["userId"]; ok {
			t.Fatalf("unknown field leaked into patch")
		}
	})

	t.Run("empty title rejected", func(t *testing.T) {
		if _, issues := taskPatch(map[string]any{"title": ""}); issues == nil {
			t.Fatalf("empty title accepted")
		}
	})

	t.Run("subtasks need titles", func(t *testing.T) {
		body := map[string]any{"subtasks": []any{map[string]any{"completed": true}}}
		if _, issues := taskPatch(body); issues == nil {
			t.Fatalf("untitled subtask accepted")
		}
	})

	t.Run("subtasks get ids", func(t *testing.T) {
		body := map[string]any{"subtasks": []any{map[string]any{"title": "step one"}}}
		fields, issues := taskPatch(body)
		if issues != nil {
			t.Fatalf("unexpected issues: %v", issues)
		}
		subtasks, ok := fields["subtasks"].([]domain.Subtask)
		if !ok || len(subtasks) != 1 || subtasks[0].ID == "" {
			t.Fatalf("subtask id not assigned: %+v", fields["subtasks"])
		}
	})
}
