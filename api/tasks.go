package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"serene-api/domain"
)

type subtaskPayload struct {
	ID        string `json:"id"`
	Title     string `json:"title" validate:"required"`
	Completed bool   `json:"completed"`
}

type createTaskRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description"`
	Completed   bool             `json:"completed"`
	DueDate     string           `json:"dueDate" validate:"required"`
	Priority    string           `json:"priority" validate:"required"`
	Subtasks    []subtaskPayload `json:"subtasks" validate:"dive"`
}

// toTask validates the payload and converts it to a domain task. Subtasks
// without an id get one assigned; they only ever live inside their parent.
func (r createTaskRequest) toTask(userID string) (domain.Task, []FieldIssue) {
	var issues []FieldIssue
	if err := validate.Struct(r); err != nil {
		issues = fieldIssues(asValidationErrors(err))
	}

	priority, ok := domain.ParsePriority(r.Priority)
	if r.Priority != "" && !ok {
		issues = append(issues, FieldIssue{Field: "priority", Message: "must be one of Low, Medium or High"})
	}
	due, dateErr := parseWireDate(r.DueDate)
	if r.DueDate != "" && dateErr != nil {
		issues = append(issues, FieldIssue{Field: "dueDate", Message: "must be an RFC 3339 date"})
	}
	if len(issues) > 0 {
		return domain.Task{}, issues
	}

	now := time.Now().UTC()
	subtasks := make([]domain.Subtask, 0, len(r.Subtasks))
	for _, s := range r.Subtasks {
		id := s.ID
		if id == "" {
			id = uuid.NewString()
		}
		subtasks = append(subtasks, domain.Subtask{ID: id, Title: s.Title, Completed: s.Completed})
	}

	return domain.Task{
		UserID:      userID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		DueDate:     due,
		Priority:    priority,
		Subtasks:    subtasks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func getTasks(store Storage, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return wrapHandler(http.MethodGet, "/api/tasks", auth, logger, wrapOptions{}, func(c echo.Context, sess *Session) (any, int, error) {
		tasks, err := store.ListTasks(c.Request().Context(), sess.UserID)
		if err != nil {
			return nil, 0, err
		}
		dtos := make([]domain.TaskDTO, 0, len(tasks))
		for _, t := range tasks {
			dtos = append(dtos, domain.ToTaskDTO(t))
		}
		return dtos, http.StatusOK, nil
	})
}

func postTask(store Storage, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return wrapHandler(http.MethodPost, "/api/tasks", auth, logger, wrapOptions{}, func(c echo.Context, sess *Session) (any, int, error) {
		var req createTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return nil, 0, err
		}
		task, issues := req.toTask(sess.UserID)
		if issues != nil {
			return nil, 0, errValidation(issues)
		}
		created, err := store.InsertTask(c.Request().Context(), task)
		if err != nil {
			return nil, 0, err
		}
		return domain.ToTaskDTO(created), http.StatusCreated, nil
	})
}

// taskPatch validates a partial update and returns the storable field set.
// Only known fields are applied; anything else in the body is dropped.
func taskPatch(body map[string]any) (map[string]any, []FieldIssue) {
	fields := map[string]any{}
	var issues []FieldIssue

	if v, ok := body["title"]; ok {
		title, isString := v.(string)
		if !isString || title == "" {
			issues = append(issues, FieldIssue{Field: "title", Message: "must be a non-empty string"})
		} else {
			fields["title"] = title
		}
	}
	if v, ok := body["description"]; ok {
		if desc, isString := v.(string); isString {
			fields["description"] = desc
		} else {
			issues = append(issues, FieldIssue{Field: "description", Message: "must be a string"})
		}
	}
	if v, ok := body["completed"]; ok {
		if completed, isBool := v.(bool); isBool {
			fields["completed"] = completed
		} else {
			issues = append(issues, FieldIssue{Field: "completed", Message: "must be a boolean"})
		}
	}
	if v, ok := body["dueDate"]; ok {
		raw, isString := v.(string)
		due, err := time.Time{}, error(nil)
		if isString {
			due, err = parseWireDate(raw)
		}
		if !isString || err != nil {
			issues = append(issues, FieldIssue{Field: "dueDate", Message: "must be an RFC 3339 date"})
		} else {
			fields["dueDate"] = due
		}
	}
	if v, ok := body["priority"]; ok {
		raw, isString := v.(string)
		priority, parsed := domain.Priority(""), false
		if isString {
			priority, parsed = domain.ParsePriority(raw)
		}
		if !parsed {
			issues = append(issues, FieldIssue{Field: "priority", Message: "must be one of Low, Medium or High"})
		} else {
			fields["priority"] = string(priority)
		}
	}
	if v, ok := body["subtasks"]; ok {
		rawList, isList := v.([]any)
		if !isList {
			issues = append(issues, FieldIssue{Field: "subtasks", Message: "must be a list"})
		} else {
			subtasks := make([]domain.Subtask, 0, len(rawList))
			valid := true
			for _, item := range rawList {
				entry, isMap := item.(map[string]any)
				if !isMap {
					valid = false
					break
				}
				title, _ := entry["title"].(string)
				if title == "" {
					valid = false
					break
				}
				id, _ := entry["id"].(string)
				if id == "" {
					id = uuid.NewString()
				}
				completed, _ := entry["completed"].(bool)
				subtasks = append(subtasks, domain.Subtask{ID: id, Title: title, Completed: completed})
			}
			if !valid {
				issues = append(issues, FieldIssue{Field: "subtasks", Message: "entries need a non-empty title"})
			} else {
				fields["subtasks"] = subtasks
			}
		}
	}

	if issues != nil {
		return nil, issues
	}
	if len(fields) == 0 {
		return nil, []FieldIssue{{Field: "body", Message: "no updatable fields provided"}}
	}
	return fields, nil
}

func putTask(store Storage, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return wrapHandler(http.MethodPut, "/api/tasks/:id", auth, logger, wrapOptions{}, func(c echo.Context, sess *Session) (any, int, error) {
		var body map[string]any
		if err := decodeBody(c, &body); err != nil {
			return nil, 0, err
		}
		fields, issues := taskPatch(body)
		if issues != nil {
			return nil, 0, errValidation(issues)
		}
		matched, err := store.UpdateTask(c.Request().Context(), sess.UserID, c.Param("id"), fields)
		if err != nil {
			return nil, 0, err
		}
		if !matched {
			return nil, 0, errNotFound("Task not found")
		}
		return map[string]bool{"success": true}, http.StatusOK, nil
	})
}

func deleteTask(store Storage, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return wrapHandler(http.MethodDelete, "/api/tasks/:id", auth, logger, wrapOptions{}, func(c echo.Context, sess *Session) (any, int, error) {
		deleted, err := store.DeleteTask(c.Request().Context(), sess.UserID, c.Param("id"))
		if err != nil {
			return nil, 0, err
		}
		if !deleted {
			return nil, 0, errNotFound("Task not found")
		}
		return map[string]bool{"success": true}, http.StatusOK, nil
	})
}

// parseWireDate accepts an RFC 3339 timestamp or a bare calendar date.
func parseWireDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
