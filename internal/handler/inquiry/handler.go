package inquiry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/contact-site/backend/internal/model/inquiry"
	inquiryService "github.com/zhouzirui/contact-site/backend/internal/service/inquiry"
	"github.com/zhouzirui/contact-site/backend/pkg/utils"
)

const (
	msgSubmitted = "Inquiry submitted successfully"
	msgInternal  = "Internal server error"

	// maxBodyBytes caps the JSON body at 100 KiB.
	maxBodyBytes = 100 << 10
)

// Submitter stores validated inquiries.
type Submitter interface {
	Submit(ctx context.Context, sub inquiry.Submission) (inquiry.Inquiry, error)
}

// Handler 联系表单的HTTP处理器
type Handler struct {
	inquiries Submitter
	log       logrus.FieldLogger
}

// New 创建联系表单处理器
func New(inquiries Submitter, log logrus.FieldLogger) *Handler {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Handler{
		inquiries: inquiries,
		log:       log,
	}
}

// RegisterRoutes 注册联系表单相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/inquiries", h.handleSubmit)
}

type submitResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Inquiry inquiry.Inquiry `json:"inquiry"`
}

// handleSubmit 提交联系表单。Any failure that is not a validation error,
// including a panic, ends in the generic 500 body.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.fail(w, r, fmt.Errorf("panic: %v", rec))
		}
	}()

	var payload inquiry.Submission
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(&payload); err != nil {
		if !errors.Is(err, io.EOF) {
			h.fail(w, r, fmt.Errorf("decode request body: %w", err))
			return
		}
	} else if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		h.fail(w, r, fmt.Errorf("decode request body: unexpected data after JSON value: %v", err))
		return
	}

	created, err := h.inquiries.Submit(r.Context(), payload)
	if err != nil {
		var verr *inquiryService.ValidationError
		if errors.As(err, &verr) {
			h.log.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"reason":     verr.Reason,
			}).Info("Inquiry rejected")
			utils.RespondError(w, http.StatusBadRequest, verr.Message)
			return
		}
		h.fail(w, r, fmt.Errorf("submit inquiry: %w", err))
		return
	}

	utils.RespondJSON(w, http.StatusOK, submitResponse{
		Success: true,
		Message: msgSubmitted,
		Inquiry: created,
	})
}

// fail logs the cause for operators and returns a body that never leaks it.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
	}).WithError(err).Error("Error processing inquiry")
	utils.RespondError(w, http.StatusInternalServerError, msgInternal)
}
