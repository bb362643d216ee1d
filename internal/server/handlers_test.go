package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linklift/linklift/internal/db"
	"github.com/linklift/linklift/internal/ingest"
	"github.com/linklift/linklift/internal/payments"
	"github.com/linklift/linklift/internal/profile"
)

const testJWTSecret = "test-secret"

type memStore struct {
	resumes map[uuid.UUID]*db.Resume
	pingErr error
}

func newMemStore() *memStore {
	return &memStore{resumes: make(map[uuid.UUID]*db.Resume)}
}

func (m *memStore) CreateResume(_ context.Context, userID, filePath, fileURL, slug string) (uuid.UUID, error) {
	id := uuid.New()
	m.resumes[id] = &db.Resume{
		ID: id, UserID: userID, FilePath: filePath, FileURL: fileURL,
		Slug: slug, TemplateID: "default", CreatedAt: time.Now(),
	}
	return id, nil
}

func (m *memStore) GetResume(_ context.Context, id uuid.UUID) (*db.Resume, error) {
	return m.resumes[id], nil
}

func (m *memStore) GetResumeBySlug(_ context.Context, slug string) (*db.Resume, error) {
	for _, r := range m.resumes {
		if r.Slug == slug {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListResumesByUser(_ context.Context, userID string) ([]db.Resume, error) {
	var out []db.Resume
	for _, r := range m.resumes {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) UpdateSlug(_ context.Context, id uuid.UUID, slug string) error {
	if r, ok := m.resumes[id]; ok {
		r.Slug = slug
	}
	return nil
}

func (m *memStore) SetTemplate(_ context.Context, id uuid.UUID, templateID string) error {
	if r, ok := m.resumes[id]; ok {
		r.TemplateID = templateID
	}
	return nil
}

func (m *memStore) MarkPaid(_ context.Context, id uuid.UUID) error {
	r, ok := m.resumes[id]
	if !ok {
		return &db.StorageError{Op: "mark paid", Cause: fmt.Errorf("no such resume")}
	}
	r.IsPaid = true
	return nil
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

type fakeAnalyzer struct {
	profile *profile.Profile
	err     error
	gotURL  string
	gotID   uuid.UUID
}

func (f *fakeAnalyzer) Analyze(_ context.Context, fileURL string, resumeID uuid.UUID) (*profile.Profile, error) {
	f.gotURL = fileURL
	f.gotID = resumeID
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakeOrders struct {
	order *payments.Order
	err   error
}

func (f *fakeOrders) CreateOrder(context.Context, string) (*payments.Order, error) {
	return f.order, f.err
}

func (f *fakeOrders) KeyID() string { return "rzp_test_key" }

func newTestServer(store ResumeStore, analyzer ResumeAnalyzer, orders OrderCreator) *Server {
	return &Server{
		store:         store,
		analyzer:      analyzer,
		orders:        orders,
		webhookSecret: "whsec",
		validate:      validator.New(),
		jwtService:    NewJWTService(testJWTSecret),
	}
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleAnalyzeSuccess(t *testing.T) {
	store := newMemStore()
	id, _ := store.CreateResume(context.Background(), "user_1", "f.pdf", "https://files.test/f.pdf", "user-123456")

	analyzer := &fakeAnalyzer{profile: &profile.Profile{Name: "Jane Public", Role: "Engineer", Score: 88}}
	s := newTestServer(store, analyzer, nil)

	rec := doJSON(t, s.routes(), http.MethodPost, "/analyze-resume", AnalyzeRequest{
		FileURL:  "https://files.test/f.pdf",
		ResumeID: id.String(),
	}, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, id, analyzer.gotID)

	var resp struct {
		Success bool            `json:"success"`
		Data    profile.Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Jane Public", resp.Data.Name)

	// The slug is finalized from the extracted name.
	r, _ := store.GetResume(context.Background(), id)
	assert.Regexp(t, `^jane-public-\d{4}$`, r.Slug)
}

func TestHandleAnalyzeValidation(t *testing.T) {
	s := newTestServer(newMemStore(), &fakeAnalyzer{}, nil)

	tests := []struct {
		name string
		body AnalyzeRequest
	}{
		{"missing file url", AnalyzeRequest{ResumeID: uuid.NewString()}},
		{"bad file url", AnalyzeRequest{FileURL: "not-a-url", ResumeID: uuid.NewString()}},
		{"bad resume id", AnalyzeRequest{FileURL: "https://x.test/a.pdf", ResumeID: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s.routes(), http.MethodPost, "/analyze-resume", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"fetch failure", &ingest.FetchError{URL: "u", StatusCode: 404, Message: "upstream 404"}, http.StatusBadGateway},
		{"extraction failure", &ingest.ExtractError{Message: "bad pdf"}, http.StatusUnprocessableEntity},
		{"storage failure", &db.StorageError{Op: "update", Cause: fmt.Errorf("down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(newMemStore(), &fakeAnalyzer{err: tt.err}, nil)
			rec := doJSON(t, s.routes(), http.MethodPost, "/analyze-resume", AnalyzeRequest{
				FileURL:  "https://files.test/f.pdf",
				ResumeID: uuid.NewString(),
			}, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleCreateAndListResumes(t *testing.T) {
	store := newMemStore()
	s := newTestServer(store, &fakeAnalyzer{}, nil)
	token := signToken(t, "user_1")

	rec := doJSON(t, s.routes(), http.MethodPost, "/resumes", CreateResumeRequest{
		FilePath: "resumes/f.pdf",
		FileURL:  "https://files.test/f.pdf",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID   uuid.UUID `json:"id"`
		Slug string    `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Regexp(t, `^user-\d{6}$`, created.Slug)

	rec = doJSON(t, s.routes(), http.MethodGet, "/resumes", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Data []db.Resume `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, created.ID, listed.Data[0].ID)

	// Another user sees nothing.
	rec = doJSON(t, s.routes(), http.MethodGet, "/resumes", nil, signToken(t, "user_2"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed.Data)
}

func TestResumeRoutesRequireAuth(t *testing.T) {
	s := newTestServer(newMemStore(), &fakeAnalyzer{}, nil)

	rec := doJSON(t, s.routes(), http.MethodPost, "/resumes", CreateResumeRequest{
		FilePath: "f.pdf", FileURL: "https://x.test/f.pdf",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s.routes(), http.MethodGet, "/resumes", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleSelectTemplate(t *testing.T) {
	store := newMemStore()
	id, _ := store.CreateResume(context.Background(), "user_1", "f.pdf", "https://x.test/f.pdf", "user-111111")
	s := newTestServer(store, &fakeAnalyzer{}, nil)

	t.Run("valid selection", func(t *testing.T) {
		rec := doJSON(t, s.routes(), http.MethodPut, "/resumes/"+id.String()+"/template",
			SelectTemplateRequest{TemplateID: "cyber"}, signToken(t, "user_1"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		r, _ := store.GetResume(context.Background(), id)
		assert.Equal(t, "cyber", r.TemplateID)
	})

	t.Run("unknown template", func(t *testing.T) {
		rec := doJSON(t, s.routes(), http.MethodPut, "/resumes/"+id.String()+"/template",
			SelectTemplateRequest{TemplateID: "vaporwave"}, signToken(t, "user_1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not the owner", func(t *testing.T) {
		rec := doJSON(t, s.routes(), http.MethodPut, "/resumes/"+id.String()+"/template",
			SelectTemplateRequest{TemplateID: "zen"}, signToken(t, "user_2"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown resume", func(t *testing.T) {
		rec := doJSON(t, s.routes(), http.MethodPut, "/resumes/"+uuid.NewString()+"/template",
			SelectTemplateRequest{TemplateID: "zen"}, signToken(t, "user_1"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleTemplates(t *testing.T) {
	s := newTestServer(newMemStore(), &fakeAnalyzer{}, nil)

	rec := doJSON(t, s.routes(), http.MethodGet, "/templates", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
	assert.Equal(t, "default", resp.Data[0].ID)
}

func TestHandlePortfolio(t *testing.T) {
	store := newMemStore()
	id, _ := store.CreateResume(context.Background(), "user_1", "f.pdf", "https://x.test/f.pdf", "user-111111")
	s := newTestServer(store, &fakeAnalyzer{}, nil)

	t.Run("not analyzed yet", func(t *testing.T) {
		rec := doJSON(t, s.routes(), http.MethodGet, "/portfolio/user-111111", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("published", func(t *testing.T) {
		r := store.resumes[id]
		r.ParsedJSON = json.RawMessage(`{"name":"Jane Public","score":88}`)
		r.Slug = "jane-public-1234"
		r.TemplateID = "zen"
		r.IsPaid = true

		rec := doJSON(t, s.routes(), http.MethodGet, "/portfolio/jane-public-1234", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp PortfolioResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "zen", resp.TemplateID)
		assert.True(t, resp.IsPaid)
		assert.JSONEq(t, `{"name":"Jane Public","score":88}`, string(resp.Profile))
	})

	t.Run("unknown slug", func(t *testing.T) {
		rec := doJSON(t, s.routes(), http.MethodGet, "/portfolio/nobody-0000", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleCheckout(t *testing.T) {
	store := newMemStore()
	id, _ := store.CreateResume(context.Background(), "user_1", "f.pdf", "https://x.test/f.pdf", "user-111111")

	t.Run("creates order", func(t *testing.T) {
		orders := &fakeOrders{order: &payments.Order{ID: "order_abc", Amount: payments.AmountPaise, Currency: payments.Currency}}
		s := newTestServer(store, &fakeAnalyzer{}, orders)

		rec := doJSON(t, s.routes(), http.MethodPost, "/checkout", CheckoutRequest{ResumeID: id.String()}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp CheckoutResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "order_abc", resp.OrderID)
		assert.Equal(t, 10000, resp.Amount)
		assert.Equal(t, "INR", resp.Currency)
		assert.Equal(t, "rzp_test_key", resp.KeyID)
	})

	t.Run("unknown resume", func(t *testing.T) {
		s := newTestServer(store, &fakeAnalyzer{}, &fakeOrders{})
		rec := doJSON(t, s.routes(), http.MethodPost, "/checkout", CheckoutRequest{ResumeID: uuid.NewString()}, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("payments unconfigured", func(t *testing.T) {
		s := newTestServer(store, &fakeAnalyzer{}, nil)
		rec := doJSON(t, s.routes(), http.MethodPost, "/checkout", CheckoutRequest{ResumeID: id.String()}, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func webhookBody(event, resumeID string) []byte {
	return []byte(fmt.Sprintf(`{
		"event": %q,
		"payload": {"order": {"entity": {"notes": {"resumeId": %q}}}}
	}`, event, resumeID))
}

func signWebhook(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHandleWebhook(t *testing.T) {
	store := newMemStore()
	id, _ := store.CreateResume(context.Background(), "user_1", "f.pdf", "https://x.test/f.pdf", "user-111111")
	s := newTestServer(store, &fakeAnalyzer{}, nil)

	t.Run("order paid", func(t *testing.T) {
		body := webhookBody(payments.EventOrderPaid, id.String())
		req := httptest.NewRequest(http.MethodPost, "/webhook/razorpay", bytes.NewReader(body))
		req.Header.Set(payments.SignatureHeader, signWebhook(body, "whsec"))
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		r, _ := store.GetResume(context.Background(), id)
		assert.True(t, r.IsPaid)
	})

	t.Run("bad signature", func(t *testing.T) {
		body := webhookBody(payments.EventOrderPaid, id.String())
		req := httptest.NewRequest(http.MethodPost, "/webhook/razorpay", bytes.NewReader(body))
		req.Header.Set(payments.SignatureHeader, signWebhook(body, "wrong-secret"))
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing signature", func(t *testing.T) {
		body := webhookBody(payments.EventOrderPaid, id.String())
		req := httptest.NewRequest(http.MethodPost, "/webhook/razorpay", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("other events acknowledged", func(t *testing.T) {
		body := webhookBody("payment.failed", id.String())
		req := httptest.NewRequest(http.MethodPost, "/webhook/razorpay", bytes.NewReader(body))
		req.Header.Set(payments.SignatureHeader, signWebhook(body, "whsec"))
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ignored")
	})
}

func TestHandleContact(t *testing.T) {
	s := newTestServer(newMemStore(), &fakeAnalyzer{}, nil)

	rec := doJSON(t, s.routes(), http.MethodPost, "/contact", ContactRequest{
		Name: "Visitor", Email: "v@example.com", Message: "Hi, love the portfolio!", ToName: "Jane",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s.routes(), http.MethodPost, "/contact", ContactRequest{
		Name: "Visitor", Email: "not-an-email", Message: "Hi",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	store := newMemStore()
	s := newTestServer(store, &fakeAnalyzer{}, nil)

	rec := doJSON(t, s.routes(), http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	store.pingErr = fmt.Errorf("pool exhausted")
	rec = doJSON(t, s.routes(), http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
