package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/linklift/linklift/internal/db"
	"github.com/linklift/linklift/internal/payments"
	"github.com/linklift/linklift/internal/server/middleware"
	"github.com/linklift/linklift/internal/slug"
	"github.com/linklift/linklift/internal/templates"
)

// maxWebhookBody bounds webhook payload reads.
const maxWebhookBody = 1 << 20

// AnalyzeRequest is the request body for /analyze-resume.
type AnalyzeRequest struct {
	FileURL  string `json:"file_url" validate:"required,url"`
	ResumeID string `json:"resume_id" validate:"required,uuid"`
}

// CreateResumeRequest is the request body for POST /resumes.
type CreateResumeRequest struct {
	FilePath string `json:"file_path" validate:"required"`
	FileURL  string `json:"file_url" validate:"required,url"`
}

// SelectTemplateRequest is the request body for PUT /resumes/{id}/template.
type SelectTemplateRequest struct {
	TemplateID string `json:"template_id" validate:"required"`
}

// CheckoutRequest is the request body for /checkout.
type CheckoutRequest struct {
	ResumeID string `json:"resume_id" validate:"required,uuid"`
}

// ContactRequest is the request body for /contact.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
	ToName  string `json:"to_name"`
}

// PortfolioResponse is the public portfolio payload for GET /portfolio/{slug}.
type PortfolioResponse struct {
	Profile    json.RawMessage `json:"profile"`
	TemplateID string          `json:"template_id"`
	IsPaid     bool            `json:"is_paid"`
}

// CheckoutResponse carries what the frontend needs to open the payment modal.
type CheckoutResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// decodeValid decodes a JSON body and runs struct validation. On failure it
// writes the error response and returns false.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			verr := &ErrValidation{Field: errs[0].Field(), Message: "failed on " + errs[0].Tag()}
			s.errorResponse(w, HTTPStatus(verr), verr.Error())
			return false
		}
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleHealth reports service and database health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"database": err.Error(),
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleAnalyze runs the analysis pipeline for an uploaded resume and
// finalizes its public slug.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume_id: "+err.Error())
		return
	}

	p, err := s.analyzer.Analyze(r.Context(), req.FileURL, resumeID)
	if err != nil {
		log.Printf("[ANALYZE] resume %s failed: %v", resumeID, err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// The slug becomes name-based once we know the candidate's name. Losing
	// this update still leaves a working temporary slug, so it is not fatal.
	finalSlug := slug.Final(p.Name)
	if err := s.store.UpdateSlug(r.Context(), resumeID, finalSlug); err != nil {
		log.Printf("[ANALYZE] resume %s: slug update failed: %v", resumeID, err)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    p,
	})
}

// handleCreateResume registers an uploaded resume for the authenticated user.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateResumeRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	tempSlug := slug.Temporary()
	id, err := s.store.CreateResume(r.Context(), userID, req.FilePath, req.FileURL, tempSlug)
	if err != nil {
		log.Printf("[RESUMES] create failed for user %s: %v", userID, err)
		s.errorResponse(w, HTTPStatus(err), "failed to create resume record")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"id":   id,
		"slug": tempSlug,
	})
}

// handleListResumes returns the authenticated user's resumes, newest first.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resumes, err := s.store.ListResumesByUser(r.Context(), userID)
	if err != nil {
		log.Printf("[RESUMES] list failed for user %s: %v", userID, err)
		s.errorResponse(w, HTTPStatus(err), "failed to list resumes")
		return
	}
	if resumes == nil {
		resumes = []db.Resume{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    resumes,
	})
}

// handleSelectTemplate records the portfolio template choice for a resume
// owned by the authenticated user.
func (s *Server) handleSelectTemplate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resumeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume id")
		return
	}

	var req SelectTemplateRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	if !templates.Valid(req.TemplateID) {
		tErr := &ErrInvalidTemplate{TemplateID: req.TemplateID}
		s.errorResponse(w, HTTPStatus(tErr), tErr.Error())
		return
	}

	resume, err := s.store.GetResume(r.Context(), resumeID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "failed to load resume")
		return
	}
	if resume == nil {
		nf := &ErrResumeNotFound{ID: resumeID.String()}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}
	if resume.UserID != userID {
		fb := &ErrForbidden{}
		s.errorResponse(w, HTTPStatus(fb), fb.Error())
		return
	}

	if err := s.store.SetTemplate(r.Context(), resumeID, req.TemplateID); err != nil {
		log.Printf("[TEMPLATES] select failed for resume %s: %v", resumeID, err)
		s.errorResponse(w, HTTPStatus(err), "failed to set template")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":     true,
		"template_id": req.TemplateID,
	})
}

// handleTemplates lists the available portfolio templates.
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    templates.All(),
	})
}

// handlePortfolio serves a published portfolio by slug.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	slugValue := r.PathValue("slug")

	resume, err := s.store.GetResumeBySlug(r.Context(), slugValue)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "failed to load portfolio")
		return
	}
	if resume == nil || len(resume.ParsedJSON) == 0 {
		nf := &ErrPortfolioNotFound{Slug: slugValue}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, PortfolioResponse{
		Profile:    resume.ParsedJSON,
		TemplateID: resume.TemplateID,
		IsPaid:     resume.IsPaid,
	})
}

// handleCheckout creates a payment order for a resume.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if s.orders == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "payments are not configured")
		return
	}

	var req CheckoutRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume_id")
		return
	}

	resume, err := s.store.GetResume(r.Context(), resumeID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "failed to load resume")
		return
	}
	if resume == nil {
		nf := &ErrResumeNotFound{ID: req.ResumeID}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}

	order, err := s.orders.CreateOrder(r.Context(), req.ResumeID)
	if err != nil {
		log.Printf("[PAYMENTS] order creation failed for resume %s: %v", resumeID, err)
		s.errorResponse(w, http.StatusBadGateway, "failed to create payment order")
		return
	}

	s.jsonResponse(w, http.StatusOK, CheckoutResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.orders.KeyID(),
	})
}

// handleWebhook processes Razorpay webhook deliveries. The signature is
// checked against the raw body before any parsing.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read body")
		return
	}

	signature := r.Header.Get(payments.SignatureHeader)
	if !payments.VerifySignature(body, signature, s.webhookSecret) {
		log.Printf("[PAYMENTS] webhook signature rejected")
		s.errorResponse(w, http.StatusBadRequest, "invalid signature")
		return
	}

	event, err := payments.ParseEvent(body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if event.Event != payments.EventOrderPaid {
		// Other events are acknowledged and ignored.
		s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	resumeID, err := uuid.Parse(event.ResumeID())
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "missing resume reference in order notes")
		return
	}

	if err := s.store.MarkPaid(r.Context(), resumeID); err != nil {
		log.Printf("[PAYMENTS] failed to mark resume %s paid: %v", resumeID, err)
		s.errorResponse(w, HTTPStatus(err), "failed to record payment")
		return
	}

	log.Printf("[PAYMENTS] resume %s marked paid", resumeID)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleContact acknowledges a portfolio contact-form submission. Messages
// are logged for manual follow-up; no mail provider is wired.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	log.Printf("[CONTACT] from %s <%s> to %q: %s", req.Name, req.Email, req.ToName, req.Message)
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}
