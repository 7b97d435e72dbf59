package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"focustimer/internal/db"
	"focustimer/internal/handler"
	"focustimer/internal/model"
	"focustimer/internal/repository"
	"focustimer/internal/router"
	"focustimer/internal/service"
)

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type taskEnvelope struct {
	Task model.Task `json:"task"`
}

type taskListEnvelope struct {
	Tasks []model.Task `json:"tasks"`
}

type sessionListEnvelope struct {
	Sessions []model.Session `json:"sessions"`
}

type settingsEnvelope struct {
	Settings model.TimerConfig `json:"settings"`
}

type apiErrorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestTaskSyncAndUserIsolation(t *testing.T) {
	engine := setupTestEngine(t)

	user1 := registerUser(t, engine, "user1@example.com", "123456")
	user2 := registerUser(t, engine, "user2@example.com", "123456")

	// The client mints the id; the server must store it verbatim.
	status, body := requestJSON(t, engine, http.MethodPost, "/api/tasks", user1.Token, map[string]interface{}{
		"id":        "task-client-1",
		"title":     "write weekly report",
		"priority":  "high",
		"createdAt": time.Now().UnixMilli(),
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 on create, got %d: %s", status, string(body))
	}
	var created taskEnvelope
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("unmarshal created task: %v", err)
	}
	if created.Task.ID != "task-client-1" {
		t.Fatalf("server rewrote client id: %s", created.Task.ID)
	}

	// A task without an id is rejected.
	status, _ = requestJSON(t, engine, http.MethodPost, "/api/tasks", user1.Token, map[string]interface{}{
		"title": "missing id",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing id, got %d", status)
	}

	// Patch completion.
	status, body = requestJSON(t, engine, http.MethodPatch, "/api/tasks/task-client-1", user1.Token, map[string]interface{}{
		"completed": true,
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on patch, got %d: %s", status, string(body))
	}
	var patched taskEnvelope
	if err := json.Unmarshal(body, &patched); err != nil {
		t.Fatalf("unmarshal patched task: %v", err)
	}
	if !patched.Task.Completed {
		t.Fatal("expected task marked completed")
	}

	// User2 must not see or touch user1's task.
	status, body = requestJSON(t, engine, http.MethodGet, "/api/tasks", user2.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for user2 tasks, got %d", status)
	}
	var user2Tasks taskListEnvelope
	if err := json.Unmarshal(body, &user2Tasks); err != nil {
		t.Fatalf("unmarshal user2 tasks: %v", err)
	}
	if len(user2Tasks.Tasks) != 0 {
		t.Fatalf("expected no tasks for user2, got %d", len(user2Tasks.Tasks))
	}

	status, _ = requestJSON(t, engine, http.MethodDelete, "/api/tasks/task-client-1", user2.Token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 deleting another user's task, got %d", status)
	}

	// Owner delete succeeds.
	status, _ = requestJSON(t, engine, http.MethodDelete, "/api/tasks/task-client-1", user1.Token, nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", status)
	}

	status, body = requestJSON(t, engine, http.MethodGet, "/api/tasks", user1.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for user1 tasks, got %d", status)
	}
	var user1Tasks taskListEnvelope
	if err := json.Unmarshal(body, &user1Tasks); err != nil {
		t.Fatalf("unmarshal user1 tasks: %v", err)
	}
	if len(user1Tasks.Tasks) != 0 {
		t.Fatalf("expected empty task list after delete, got %d", len(user1Tasks.Tasks))
	}
}

func TestSessionMirroring(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "user@example.com", "123456")

	status, body := requestJSON(t, engine, http.MethodPost, "/api/sessions", user.Token, map[string]interface{}{
		"id":          "session-1",
		"duration":    25,
		"completedAt": time.Now().UnixMilli(),
		"type":        "focus",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 on save session, got %d: %s", status, string(body))
	}

	// Invalid durations are rejected.
	status, _ = requestJSON(t, engine, http.MethodPost, "/api/sessions", user.Token, map[string]interface{}{
		"id":          "session-2",
		"duration":    0,
		"completedAt": time.Now().UnixMilli(),
		"type":        "focus",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero duration, got %d", status)
	}

	status, body = requestJSON(t, engine, http.MethodGet, "/api/sessions?limit=10", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on list sessions, got %d", status)
	}
	var sessions sessionListEnvelope
	if err := json.Unmarshal(body, &sessions); err != nil {
		t.Fatalf("unmarshal sessions: %v", err)
	}
	if len(sessions.Sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.Sessions))
	}
	if sessions.Sessions[0].ID != "session-1" {
		t.Fatalf("expected client session id kept, got %s", sessions.Sessions[0].ID)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "user@example.com", "123456")

	// Registration seeds the defaults.
	status, body := requestJSON(t, engine, http.MethodGet, "/api/settings", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on get settings, got %d", status)
	}
	var initial settingsEnvelope
	if err := json.Unmarshal(body, &initial); err != nil {
		t.Fatalf("unmarshal settings: %v", err)
	}
	if initial.Settings != model.DefaultTimerConfig() {
		t.Fatalf("expected default settings, got %+v", initial.Settings)
	}

	status, _ = requestJSON(t, engine, http.MethodPut, "/api/settings", user.Token, map[string]interface{}{
		"focusDuration":           50,
		"shortBreakDuration":      10,
		"longBreakDuration":       20,
		"sessionsBeforeLongBreak": 3,
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on save settings, got %d", status)
	}

	status, body = requestJSON(t, engine, http.MethodGet, "/api/settings", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on get settings, got %d", status)
	}
	var updated settingsEnvelope
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("unmarshal updated settings: %v", err)
	}
	if updated.Settings.FocusMinutes != 50 || updated.Settings.SessionsBeforeLongBreak != 3 {
		t.Fatalf("settings not persisted: %+v", updated.Settings)
	}

	// A cadence of 1 can never produce a long-break rollover.
	status, body = requestJSON(t, engine, http.MethodPut, "/api/settings", user.Token, map[string]interface{}{
		"focusDuration":           25,
		"shortBreakDuration":      5,
		"longBreakDuration":       15,
		"sessionsBeforeLongBreak": 1,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid cadence, got %d", status)
	}
	var apiErr apiErrorEnvelope
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if apiErr.Error.Code != "invalid_cadence" {
		t.Fatalf("expected invalid_cadence, got %s", apiErr.Error.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	engine := setupTestEngine(t)

	status, _ := requestJSON(t, engine, http.MethodGet, "/api/tasks", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	status, _ = requestJSON(t, engine, http.MethodGet, "/api/tasks", "not-a-token", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", status)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	engine := setupTestEngine(t)
	registerUser(t, engine, "user@example.com", "123456")

	status, body := requestJSON(t, engine, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "user@example.com",
		"password": "123456",
	})
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", status)
	}
	var apiErr apiErrorEnvelope
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if apiErr.Error.Code != "email_exists" {
		t.Fatalf("expected email_exists, got %s", apiErr.Error.Code)
	}
}

func TestLogin(t *testing.T) {
	engine := setupTestEngine(t)
	registerUser(t, engine, "user@example.com", "123456")

	status, body := requestJSON(t, engine, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "user@example.com",
		"password": "123456",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d: %s", status, string(body))
	}
	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token on login")
	}

	status, _ = requestJSON(t, engine, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "user@example.com",
		"password": "wrong-password",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", status)
	}
}

func TestCORSPreflight(t *testing.T) {
	engine := setupTestEngine(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	recorder := httptest.NewRecorder()

	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", recorder.Code)
	}
	if recorder.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin header: %s", recorder.Header().Get("Access-Control-Allow-Origin"))
	}
}

func setupTestEngine(t *testing.T) http.Handler {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	if err := db.RunMigrations(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	taskRepo := repository.NewTaskRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)

	authService := service.NewAuthService(userRepo, settingsRepo, "test-secret", 24*time.Hour)
	syncService := service.NewSyncService(taskRepo, sessionRepo, settingsRepo)

	authHandler := handler.NewAuthHandler(authService)
	syncHandler := handler.NewSyncHandler(syncService)

	return router.New(authService, authHandler, syncHandler, []string{"http://localhost:5173"})
}

func registerUser(t *testing.T, server http.Handler, email, password string) authResponse {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s failed with status %d: %s", email, status, string(body))
	}
	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal register response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("empty token for user %s", email)
	}
	return resp
}

func requestJSON(
	t *testing.T,
	server http.Handler,
	method, path, token string,
	body interface{},
) (int, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		payload = raw
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder.Code, recorder.Body.Bytes()
}
