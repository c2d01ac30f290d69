// Package contact handles messages sent through the public contact form.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Message is a contact form submission.
type Message struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=2,max=100"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

// Envelope is a validated message ready for delivery.
type Envelope struct {
	ID         string    `json:"id"`
	To         string    `json:"to"`
	ReceivedAt time.Time `json:"receivedAt"`
	Message
}

// Mailer delivers envelopes.
type Mailer interface {
	Send(ctx context.Context, env Envelope) error
}

// LogMailer records each message in the log instead of sending it.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) Send(ctx context.Context, env Envelope) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "contact message received",
		"id", env.ID,
		"to", env.To,
		"from", env.Email,
		"name", env.Name,
		"subject", env.Subject,
		"length", len(env.Message.Message),
	)
	return nil
}

// FieldError names a field that broke a rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists the rules a message broke.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" ("+f.Rule+")")
	}
	return "invalid message: " + strings.Join(parts, ", ")
}

// Service validates submissions and hands them to a Mailer.
type Service struct {
	mailer    Mailer
	recipient string
	validate  *validator.Validate
	now       func() time.Time
}

// NewService builds a Service delivering to recipient.
func NewService(mailer Mailer, recipient string) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &Service{mailer: mailer, recipient: recipient, validate: v, now: time.Now}
}

// Submit trims and validates msg, then sends it. A rule violation is
// returned as a *ValidationError.
func (s *Service) Submit(ctx context.Context, msg Message) (Envelope, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)

	if err := s.validate.Struct(msg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Envelope{}, fmt.Errorf("validate message: %w", err)
		}
		out := &ValidationError{}
		for _, fe := range verrs {
			out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		return Envelope{}, out
	}

	env := Envelope{
		ID:         uuid.NewString(),
		To:         s.recipient,
		ReceivedAt: s.now().UTC(),
		Message:    msg,
	}
	if err := s.mailer.Send(ctx, env); err != nil {
		return Envelope{}, fmt.Errorf("send message: %w", err)
	}
	return env, nil
}
