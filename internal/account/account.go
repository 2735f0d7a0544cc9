package account

import (
	"context"
	"time"

	"github.com/Abu-Issam/buyshea-connect/internal/validation"
	"go.uber.org/zap"
)

// Outcome is the message shown to the visitor once a request completes.
type Outcome struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// Redirect is where the visitor goes next, if anywhere.
	Redirect string `json:"redirect,omitempty"`
}

// Service is the contract a real auth and contact backend implements.
type Service interface {
	Register(ctx context.Context, in validation.RegistrationInput) (Outcome, error)
	Login(ctx context.Context, in validation.LoginInput) (Outcome, error)
	SubmitContact(ctx context.Context, in validation.ContactInput) (Outcome, error)
}

// MockService stands in for the backend: it validates, waits, and accepts any
// non-empty input. Nothing is stored.
type MockService struct {
	delay  time.Duration
	logger *zap.Logger
}

func NewMockService(delay time.Duration, logger *zap.Logger) *MockService {
	return &MockService{delay: delay, logger: logger}
}

func (s *MockService) Register(ctx context.Context, in validation.RegistrationInput) (Outcome, error) {
	if fe := validation.ValidateRegistration(in); !fe.Valid() {
		return Outcome{}, fe
	}
	if err := s.wait(ctx); err != nil {
		return Outcome{}, err
	}
	s.logger.Info("registration accepted", zap.String("email", in.Email))
	return Outcome{
		Title:       "Registration successful!",
		Description: "Your account has been created.",
		Redirect:    "/login",
	}, nil
}

func (s *MockService) Login(ctx context.Context, in validation.LoginInput) (Outcome, error) {
	if fe := validation.ValidateLogin(in); !fe.Valid() {
		return Outcome{}, fe
	}
	if err := s.wait(ctx); err != nil {
		return Outcome{}, err
	}
	s.logger.Info("login accepted", zap.String("email", in.Email))
	return Outcome{Title: "Welcome back!", Redirect: "/"}, nil
}

func (s *MockService) SubmitContact(ctx context.Context, in validation.ContactInput) (Outcome, error) {
	if fe := validation.ValidateContact(in); !fe.Valid() {
		return Outcome{}, fe
	}
	if err := s.wait(ctx); err != nil {
		return Outcome{}, err
	}
	s.logger.Info("contact message received",
		zap.String("email", in.Email),
		zap.String("subject", in.Subject))
	return Outcome{
		Title:       "Message sent successfully!",
		Description: "We'll get back to you as soon as possible.",
	}, nil
}

func (s *MockService) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
