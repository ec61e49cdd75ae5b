package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"contactbox/internal/models"
	"contactbox/internal/service"

	"github.com/gin-gonic/gin"
)

type stubRepo struct {
	messages map[string]models.Message
	nextID   int
	saveErr  error
}

func newStubRepo() *stubRepo {
	return &stubRepo{messages: make(map[string]models.Message)}
}

func (r *stubRepo) Save(msg models.Message) (models.Message, error) {
	if r.saveErr != nil {
		return models.Message{}, r.saveErr
	}
	if msg.ID == "" {
		r.nextID++
		msg.ID = fmt.Sprintf("msg-%d", r.nextID)
	}
	r.messages[msg.ID] = msg
	return msg, nil
}

func (r *stubRepo) FindByID(id string) (*models.Message, error) {
	if msg, ok := r.messages[id]; ok {
		return &msg, nil
	}
	return nil, nil
}

func (r *stubRepo) FindByEmail(email string) (*models.Message, error) {
	for _, msg := range r.messages {
		if msg.Email == email {
			found := msg
			return &found, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) FindByFingerprint(fingerprint string) (*models.Message, error) {
	for _, msg := range r.messages {
		if msg.Fingerprint == fingerprint {
			found := msg
			return &found, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) FindAll() ([]models.Message, error) {
	var all []models.Message
	for _, msg := range r.messages {
		all = append(all, msg)
	}
	return all, nil
}

func (r *stubRepo) ExistsByID(id string) (bool, error) {
	_, ok := r.messages[id]
	return ok, nil
}

func (r *stubRepo) DeleteByID(id string) error {
	delete(r.messages, id)
	return nil
}

func (r *stubRepo) DeleteAll() error {
	r.messages = make(map[string]models.Message)
	return nil
}

type failingNotifier struct{}

func (failingNotifier) SendNotification(name, email, body, fingerprint, messageID string) error {
	return fmt.Errorf("simulated notification failure")
}

func (failingNotifier) SendConfirmation(name, email, messageID string) error {
	return fmt.Errorf("simulated confirmation failure")
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(repo service.MessageRepository, dispatcher *service.Dispatcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAPIHandler(service.NewMessageService(repo, dispatcher))
	r := gin.New()
	messages := r.Group("/api/messages")
	{
		messages.POST("/push", handler.SaveMessage)
		messages.PUT("/:id", handler.UpdateMessage)
		messages.GET("/:id", handler.GetMessageByID)
		messages.GET("/email/:email", handler.GetMessageByEmail)
		messages.GET("/fingerprint/:fingerprint", handler.GetMessageByFingerprint)
		messages.GET("", handler.GetAllMessages)
		messages.DELETE("/:id", handler.DeleteMessage)
	}
	return r
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v (%s)", err, w.Body.String())
	}
	return w, env
}

func decodeMessage(t *testing.T, env envelope) models.Message {
	t.Helper()
	var msg models.Message
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		t.Fatalf("envelope data is not a message: %v", err)
	}
	return msg
}

func TestMessageLifecycle(t *testing.T) {
	router := newTestRouter(newStubRepo(), nil)

	w, env := doRequest(t, router, http.MethodPost, "/api/messages/push", map[string]string{
		"name":        "Alice",
		"email":       "a@x.com",
		"message":     "hi",
		"fingerPrint": "fp1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if !env.Success {
		t.Fatalf("expected success envelope, got %q", env.Message)
	}
	created := decodeMessage(t, env)
	if created.ID == "" {
		t.Error("expected a generated id")
	}
	if created.Email != "a@x.com" {
		t.Errorf("expected email a@x.com, got %s", created.Email)
	}
	if created.CreatedAt != created.UpdatedAt {
		t.Errorf("expected createdAt == updatedAt, got %d and %d", created.CreatedAt, created.UpdatedAt)
	}

	w, env = doRequest(t, router, http.MethodGet, "/api/messages/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	fetched := decodeMessage(t, env)
	if fetched.ID != created.ID || fetched.Email != created.Email {
		t.Errorf("fetched message differs from created: %+v", fetched)
	}

	w, env = doRequest(t, router, http.MethodPut, "/api/messages/"+created.ID, map[string]string{
		"name": "Alice B.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	updated := decodeMessage(t, env)
	if updated.Name != "Alice B." {
		t.Errorf("expected updated name, got %s", updated.Name)
	}
	if updated.Email != "a@x.com" {
		t.Errorf("email must be unchanged by partial update, got %s", updated.Email)
	}

	w, env = doRequest(t, router, http.MethodDelete, "/api/messages/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !env.Success {
		t.Errorf("expected success envelope on delete, got %q", env.Message)
	}
	if len(env.Data) != 0 {
		t.Errorf("delete response must carry no data, got %s", env.Data)
	}

	w, env = doRequest(t, router, http.MethodGet, "/api/messages/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	if env.Success {
		t.Error("not-found envelope must have success=false")
	}
}

func TestLookupRoutes(t *testing.T) {
	router := newTestRouter(newStubRepo(), nil)

	_, _ = doRequest(t, router, http.MethodPost, "/api/messages/push", map[string]string{
		"name":        "Alice",
		"email":       "a@x.com",
		"fingerPrint": "fp1",
	})

	w, env := doRequest(t, router, http.MethodGet, "/api/messages/email/a@x.com", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if msg := decodeMessage(t, env); msg.Email != "a@x.com" {
		t.Errorf("expected matching email, got %s", msg.Email)
	}

	w, _ = doRequest(t, router, http.MethodGet, "/api/messages/email/nobody@x.com", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown email, got %d", w.Code)
	}

	w, env = doRequest(t, router, http.MethodGet, "/api/messages/fingerprint/fp1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if msg := decodeMessage(t, env); msg.Fingerprint != "fp1" {
		t.Errorf("expected matching fingerprint, got %s", msg.Fingerprint)
	}

	w, _ = doRequest(t, router, http.MethodGet, "/api/messages/fingerprint/fp2", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown fingerprint, got %d", w.Code)
	}
}

func TestGetAllMessages(t *testing.T) {
	router := newTestRouter(newStubRepo(), nil)

	w, env := doRequest(t, router, http.MethodGet, "/api/messages", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var empty []models.Message
	if err := json.Unmarshal(env.Data, &empty); err != nil {
		t.Fatalf("expected a list payload: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty list, got %d", len(empty))
	}

	for i := 0; i < 2; i++ {
		_, _ = doRequest(t, router, http.MethodPost, "/api/messages/push", map[string]string{
			"email": fmt.Sprintf("u%d@x.com", i),
		})
	}
	_, env = doRequest(t, router, http.MethodGet, "/api/messages", nil)
	var all []models.Message
	if err := json.Unmarshal(env.Data, &all); err != nil {
		t.Fatalf("expected a list payload: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 messages, got %d", len(all))
	}
}

func TestUpdateUnknownIDReturns404(t *testing.T) {
	router := newTestRouter(newStubRepo(), nil)
	w, env := doRequest(t, router, http.MethodPut, "/api/messages/missing", map[string]string{"name": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if env.Success {
		t.Error("not-found envelope must have success=false")
	}
}

func TestStoreFailureReturns500(t *testing.T) {
	repo := newStubRepo()
	repo.saveErr = fmt.Errorf("simulated store failure")
	router := newTestRouter(repo, nil)

	w, env := doRequest(t, router, http.MethodPost, "/api/messages/push", map[string]string{"email": "a@x.com"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if env.Success {
		t.Error("failure envelope must have success=false")
	}
}

func TestCreateSucceedsWhenEmailsFail(t *testing.T) {
	dispatcher := service.NewDispatcher(failingNotifier{}, nil, 4)
	if err := dispatcher.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer dispatcher.Stop()
	router := newTestRouter(newStubRepo(), dispatcher)

	w, env := doRequest(t, router, http.MethodPost, "/api/messages/push", map[string]string{
		"name":  "Alice",
		"email": "a@x.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("email failure must not change the response, expected 201 got %d", w.Code)
	}
	if !env.Success {
		t.Errorf("expected success envelope, got %q", env.Message)
	}
}
