package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"vilo-admin/internal/config"
	"vilo-admin/internal/db"
	"vilo-admin/internal/events"
	"vilo-admin/internal/logging"
	"vilo-admin/internal/mailer"
	"vilo-admin/internal/models"
)

type fakeStore struct {
	contacts     []models.Contact
	appointments []models.Appointment
	testimonials []models.Testimonial

	updatedKind   string
	updatedID     int64
	updatedStatus string
	updateErr     error
	listErr       error
	created       interface{}
}

func (f *fakeStore) ListContacts(ctx context.Context, status string) ([]models.Contact, error) {
	return f.filterContacts(status), f.listErr
}

func (f *fakeStore) filterContacts(status string) []models.Contact {
	if status == "" {
		return f.contacts
	}
	var out []models.Contact
	for _, c := range f.contacts {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeStore) GetContact(ctx context.Context, id int64) (models.Contact, error) {
	for _, c := range f.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Contact{}, db.ErrNotFound
}

func (f *fakeStore) UpdateContactStatus(ctx context.Context, id int64, status string) error {
	f.updatedKind, f.updatedID, f.updatedStatus = "contact", id, status
	return f.updateErr
}

func (f *fakeStore) ListAppointments(ctx context.Context, status string) ([]models.Appointment, error) {
	return f.appointments, f.listErr
}

func (f *fakeStore) GetAppointment(ctx context.Context, id int64) (models.Appointment, error) {
	for _, a := range f.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Appointment{}, db.ErrNotFound
}

func (f *fakeStore) UpdateAppointmentStatus(ctx context.Context, id int64, status string) error {
	f.updatedKind, f.updatedID, f.updatedStatus = "appointment", id, status
	return f.updateErr
}

func (f *fakeStore) CreateAppointment(ctx context.Context, a models.Appointment) (int64, error) {
	f.created = a
	return 42, nil
}

func (f *fakeStore) ListTestimonials(ctx context.Context, status string) ([]models.Testimonial, error) {
	if status == "" {
		return f.testimonials, f.listErr
	}
	var out []models.Testimonial
	for _, tm := range f.testimonials {
		if tm.Status == status {
			out = append(out, tm)
		}
	}
	return out, f.listErr
}

func (f *fakeStore) GetTestimonial(ctx context.Context, id int64) (models.Testimonial, error) {
	for _, tm := range f.testimonials {
		if tm.ID == id {
			return tm, nil
		}
	}
	return models.Testimonial{}, db.ErrNotFound
}

func (f *fakeStore) UpdateTestimonialStatus(ctx context.Context, id int64, status string) error {
	f.updatedKind, f.updatedID, f.updatedStatus = "testimonial", id, status
	return f.updateErr
}

func (f *fakeStore) CreateTestimonial(ctx context.Context, tm models.Testimonial) (int64, error) {
	f.created = tm
	return 43, nil
}

type fakeMail struct {
	sent      []models.EmailRequest
	sendErr   error
	verifyErr error
}

func (f *fakeMail) Send(req models.EmailRequest) (string, error) {
	f.sent = append(f.sent, req)
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return "<test@viloassist.com>", nil
}

func (f *fakeMail) Verify() error { return f.verifyErr }

func testConfig() config.Config {
	var cfg config.Config
	cfg.Env = "development"
	cfg.API.BasePath = "/api"
	cfg.API.AdminToken = "admin-token"
	cfg.API.ViewerToken = "viewer-token"
	return cfg
}

func newTestRouter(store *fakeStore, mail *fakeMail) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logging.Discard()
	cfg := testConfig()
	h := NewHandler(store, mail, events.NewHub(logger), logger, cfg)
	return NewRouter(logger, cfg, h)
}

func doRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestGetContactsEnvelope(t *testing.T) {
	store := &fakeStore{contacts: []models.Contact{
		{ID: 1, Name: "Marie", Email: "marie@example.com", Status: "nouveau"},
		{ID: 2, Name: "Paul", Email: "paul@example.com", Status: "traité"},
	}}
	r := newTestRouter(store, &fakeMail{})

	w := doRequest(r, http.MethodGet, "/api/admin/contacts", "admin-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp["success"] != true {
		t.Fatalf("success = %v", resp["success"])
	}
	if resp["count"] != float64(2) {
		t.Fatalf("count = %v, want 2", resp["count"])
	}
	if data := resp["data"].([]interface{}); len(data) != 2 {
		t.Fatalf("data length = %d", len(data))
	}
}

func TestGetContactsStatusFilter(t *testing.T) {
	store := &fakeStore{contacts: []models.Contact{
		{ID: 1, Name: "Marie", Email: "marie@example.com", Status: "nouveau"},
		{ID: 2, Name: "Paul", Email: "paul@example.com", Status: "traité"},
	}}
	r := newTestRouter(store, &fakeMail{})

	w := doRequest(r, http.MethodGet, "/api/admin/contacts?status=nouveau", "admin-token", nil)
	resp := decode(t, w)
	if resp["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", resp["count"])
	}
}

func TestAuthMiddleware(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(store, &fakeMail{})

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		code   int
	}{
		{"no token", http.MethodGet, "/api/admin/contacts", "", http.StatusUnauthorized},
		{"unknown token", http.MethodGet, "/api/admin/contacts", "wrong", http.StatusUnauthorized},
		{"admin read", http.MethodGet, "/api/admin/contacts", "admin-token", http.StatusOK},
		{"viewer read", http.MethodGet, "/api/admin/contacts", "viewer-token", http.StatusOK},
		{"viewer write", http.MethodPut, "/api/admin/contacts/1", "viewer-token", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body interface{}
			if tc.method == http.MethodPut {
				body = map[string]string{"status": "traité"}
			}
			w := doRequest(r, tc.method, tc.path, tc.token, body)
			if w.Code != tc.code {
				t.Fatalf("code = %d, want %d (body %s)", w.Code, tc.code, w.Body.String())
			}
		})
	}
}

func TestSessionExpiredMessage(t *testing.T) {
	r := newTestRouter(&fakeStore{}, &fakeMail{})
	w := doRequest(r, http.MethodGet, "/api/admin/contacts", "", nil)
	resp := decode(t, w)
	if resp["message"] != "Session expirée" {
		t.Fatalf("message = %v", resp["message"])
	}
}

func TestUpdateContactStatus(t *testing.T) {
	store := &fakeStore{contacts: []models.Contact{
		{ID: 1, Name: "Marie", Email: "marie@example.com", Status: "nouveau"},
	}}
	r := newTestRouter(store, &fakeMail{})

	w := doRequest(r, http.MethodPut, "/api/admin/contacts/1", "admin-token", map[string]string{"status": "traité"})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	if store.updatedKind != "contact" || store.updatedID != 1 || store.updatedStatus != "traité" {
		t.Fatalf("store update = %s %d %s", store.updatedKind, store.updatedID, store.updatedStatus)
	}
	resp := decode(t, w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != "traité" || data["id"] != float64(1) {
		t.Fatalf("data = %v", data)
	}
}

func TestUpdateStatusRejectsBadInput(t *testing.T) {
	store := &fakeStore{contacts: []models.Contact{
		{ID: 1, Name: "Marie", Email: "marie@example.com", Status: "nouveau"},
	}}
	r := newTestRouter(store, &fakeMail{})

	w := doRequest(r, http.MethodPut, "/api/admin/contacts/abc", "admin-token", map[string]string{"status": "traité"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id: code = %d", w.Code)
	}
	resp := decode(t, w)
	if resp["message"] != "Erreur de validation" {
		t.Fatalf("message = %v", resp["message"])
	}
	if errs := resp["errors"].([]interface{}); errs[0] != "L'ID doit être un nombre entier positif" {
		t.Fatalf("errors = %v", errs)
	}

	w = doRequest(r, http.MethodPut, "/api/admin/contacts/1", "admin-token", map[string]string{"status": "archivé"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: code = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	store := &fakeStore{updateErr: db.ErrNotFound}
	r := newTestRouter(store, &fakeMail{})

	w := doRequest(r, http.MethodPut, "/api/admin/contacts/99", "admin-token", map[string]string{"status": "traité"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp["message"] != "Contact non trouvé" {
		t.Fatalf("message = %v", resp["message"])
	}
}

func TestSendEmail(t *testing.T) {
	mail := &fakeMail{}
	r := newTestRouter(&fakeStore{}, mail)

	w := doRequest(r, http.MethodPost, "/api/admin/send-email", "admin-token", models.EmailRequest{
		To:   "marie@example.com",
		Name: "Marie",
		Type: "contact",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp["message"] != "Email envoyé avec succès." {
		t.Fatalf("message = %v", resp["message"])
	}
	if len(mail.sent) != 1 || mail.sent[0].To != "marie@example.com" {
		t.Fatalf("sent = %+v", mail.sent)
	}
}

func TestSendEmailNotConfigured(t *testing.T) {
	mail := &fakeMail{sendErr: mailer.ErrNotConfigured}
	r := newTestRouter(&fakeStore{}, mail)

	w := doRequest(r, http.MethodPost, "/api/admin/send-email", "admin-token", models.EmailRequest{
		To: "marie@example.com",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", w.Code)
	}
	resp := decode(t, w)
	if resp["message"] != "Configuration serveur incomplète" {
		t.Fatalf("message = %v", resp["message"])
	}
}

func TestTestSMTPFailure(t *testing.T) {
	mail := &fakeMail{verifyErr: errors.New("dial tcp: connection refused")}
	r := newTestRouter(&fakeStore{}, mail)

	w := doRequest(r, http.MethodGet, "/api/admin/test-smtp", "admin-token", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", w.Code)
	}
	resp := decode(t, w)
	if resp["message"] != "Échec de connexion SMTP" {
		t.Fatalf("message = %v", resp["message"])
	}
}

func TestCreateAppointmentPublic(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(store, &fakeMail{})

	w := doRequest(r, http.MethodPost, "/api/appointments", "", models.AppointmentCreate{
		ClientName:  "Luc Petit",
		ClientEmail: "luc@example.com",
		Date:        "2026-09-15",
		Time:        "14:00",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	created, ok := store.created.(models.Appointment)
	if !ok {
		t.Fatalf("created = %T", store.created)
	}
	if created.Status != "en_attente" {
		t.Fatalf("status = %q, want en_attente", created.Status)
	}
}

func TestCreateAppointmentRejectsBadDate(t *testing.T) {
	r := newTestRouter(&fakeStore{}, &fakeMail{})

	w := doRequest(r, http.MethodPost, "/api/appointments", "", models.AppointmentCreate{
		ClientName:  "Luc Petit",
		ClientEmail: "luc@example.com",
		Date:        "15/09/2026",
		Time:        "14:00",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCreateTestimonialValidation(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(store, &fakeMail{})

	w := doRequest(r, http.MethodPost, "/api/testimonials", "", models.TestimonialCreate{
		Name:    "Sophie Leroy",
		Role:    "Directrice",
		Company: "Acme SARL",
		Comment: "Excellent service",
		Rating:  6,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("rating out of range: code = %d", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/api/testimonials", "", models.TestimonialCreate{
		Name:    "Sophie Leroy",
		Role:    "Directrice",
		Company: "Acme SARL",
		Comment: "Excellent service",
		Rating:  5,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	created := store.created.(models.Testimonial)
	if created.Status != "pending" {
		t.Fatalf("status = %q, want pending", created.Status)
	}
}

func TestGetApprovedTestimonialsPublic(t *testing.T) {
	store := &fakeStore{testimonials: []models.Testimonial{
		{ID: 1, Name: "Sophie", Status: "approved"},
		{ID: 2, Name: "Anonyme", Status: "pending"},
	}}
	r := newTestRouter(store, &fakeMail{})

	w := doRequest(r, http.MethodGet, "/api/testimonials", "", nil)
	resp := decode(t, w)
	if resp["count"] != float64(1) {
		t.Fatalf("count = %v, want only approved", resp["count"])
	}
}

func TestChat(t *testing.T) {
	r := newTestRouter(&fakeStore{}, &fakeMail{})

	w := doRequest(r, http.MethodPost, "/api/chat", "", map[string]string{"message": "Quels sont vos tarifs ?"})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	reply, _ := resp["reply"].(string)
	if reply == "" {
		t.Fatal("empty chatbot reply")
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&fakeStore{}, &fakeMail{})
	w := doRequest(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
}
