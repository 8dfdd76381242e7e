package inquiry

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/contact-site/backend/internal/metrics"
	"github.com/zhouzirui/contact-site/backend/internal/model/inquiry"
)

// Service accepts contact-form submissions and keeps them in memory for the
// lifetime of the process.
type Service struct {
	mu        sync.Mutex
	lastID    int64
	inquiries []inquiry.Inquiry

	log logrus.FieldLogger
	now func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger used for the per-inquiry diagnostic record.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService bootstraps an empty in-memory inquiry store.
func NewService(opts ...Option) *Service {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Service{
		inquiries: make([]inquiry.Inquiry, 0, 16),
		log:       discard,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the submission, assigns the next id and appends it to the
// store. Rejected submissions never consume an id.
func (s *Service) Submit(_ context.Context, sub inquiry.Submission) (inquiry.Inquiry, error) {
	if err := Validate(sub); err != nil {
		if verr, ok := err.(*ValidationError); ok {
			metrics.RecordContactRejection(verr.Reason)
		}
		return inquiry.Inquiry{}, err
	}

	s.mu.Lock()
	s.lastID++
	created := inquiry.Inquiry{
		ID:        s.lastID,
		Name:      sub.Name,
		Email:     sub.Email,
		Company:   sub.Company,
		Message:   sub.Message,
		CreatedAt: s.now().UTC(),
	}
	s.inquiries = append(s.inquiries, created)
	s.mu.Unlock()

	s.logReceived(created)
	metrics.RecordContactSubmission()

	return created, nil
}

// Count returns the number of inquiries accepted so far.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inquiries)
}

// logReceived emits the diagnostic record. A failing logger must not fail
// the submission that has already been stored.
func (s *Service) logReceived(created inquiry.Inquiry) {
	defer func() {
		_ = recover()
	}()

	s.log.WithFields(logrus.Fields{
		"id":        created.ID,
		"name":      created.Name,
		"email":     created.Email,
		"company":   created.Company,
		"message":   created.Message,
		"createdAt": created.CreatedAt.Format(time.RFC3339Nano),
	}).Info("New inquiry received")
}
