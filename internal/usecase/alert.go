package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"safelens/internal/domain"
)

// BatchDispatcher fans an alert out to a recipient list. It reports
// failures through the result, never through an error.
type BatchDispatcher interface {
	Dispatch(ctx context.Context, recipients []string, body string) domain.DispatchResult
}

// ContactStore persists a user's trusted emergency contacts.
type ContactStore interface {
	SaveContact(ctx context.Context, contact domain.Contact) error
	ListContacts(ctx context.Context, userID string) ([]domain.Contact, error)
}

// ContactFactory builds a storable contact record from its fields.
type ContactFactory func(userID, name, phone string) domain.Contact

// LocationProvider supplies the live-tracking URL appended to alerts.
type LocationProvider interface {
	TrackingURL() string
}

// AlertService composes the emergency message and hands the recipient
// list to the dispatcher. Recipients come either explicitly from the
// request or from the user's stored contacts.
type AlertService struct {
	dispatcher BatchDispatcher
	contacts   ContactStore
	newContact ContactFactory
	location   LocationProvider
}

type AlertInput struct {
	Recipients     []string
	UserID         string
	TriggerMessage string
}

type SaveContactInput struct {
	UserID string
	Name   string
	Phone  string
}

func NewAlertService(d BatchDispatcher, contacts ContactStore, newContact ContactFactory, loc LocationProvider) (*AlertService, error) {
	if d == nil {
		return nil, errors.New("usecase: dispatcher must not be nil")
	}
	if contacts == nil {
		return nil, errors.New("usecase: contact store must not be nil")
	}
	if newContact == nil {
		return nil, errors.New("usecase: contact factory must not be nil")
	}
	if loc == nil {
		return nil, errors.New("usecase: location provider must not be nil")
	}
	return &AlertService{dispatcher: d, contacts: contacts, newContact: newContact, location: loc}, nil
}

// Trigger sends the emergency alert. An empty resolved recipient list is
// not an error; the dispatcher reports it as a zero-count success so the
// caller can tell nobody was notified.
func (s *AlertService) Trigger(ctx context.Context, in AlertInput) (domain.DispatchResult, error) {
	message := strings.TrimSpace(in.TriggerMessage)
	if message == "" {
		return domain.DispatchResult{}, newError(ErrorInvalidInput, "empty_trigger_message", nil)
	}

	recipients := in.Recipients
	if len(recipients) == 0 && strings.TrimSpace(in.UserID) != "" {
		stored, err := s.contacts.ListContacts(ctx, strings.TrimSpace(in.UserID))
		if err != nil {
			return domain.DispatchResult{}, newError(ErrorInternal, "contact_lookup_error", err)
		}
		recipients = make([]string, 0, len(stored))
		for _, c := range stored {
			recipients = append(recipients, c.Phone)
		}
	}

	body := composeAlertBody(message, s.location.TrackingURL())
	return s.dispatcher.Dispatch(ctx, recipients, body), nil
}

// SaveContact registers one trusted contact. A missing user id gets a
// generated one so first-time users can register without an account step.
func (s *AlertService) SaveContact(ctx context.Context, in SaveContactInput) (domain.Contact, error) {
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return domain.Contact{}, newError(ErrorInvalidInput, "empty_phone", nil)
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		userID = newUUID()
	}

	contact := s.newContact(userID, strings.TrimSpace(in.Name), phone)
	if err := s.contacts.SaveContact(ctx, contact); err != nil {
		return domain.Contact{}, newError(ErrorInternal, "contact_save_error", err)
	}
	return contact, nil
}

// ListContacts returns the user's registered contacts.
func (s *AlertService) ListContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, newError(ErrorInvalidInput, "empty_user_id", nil)
	}
	contacts, err := s.contacts.ListContacts(ctx, userID)
	if err != nil {
		return nil, newError(ErrorInternal, "contact_lookup_error", err)
	}
	return contacts, nil
}

func composeAlertBody(message, locationURL string) string {
	return fmt.Sprintf("URGENT SafeLens Alert!\n\n%s\n\nCurrent Location: %s", message, locationURL)
}

var newUUID = func() string {
	return uuid.NewString()
}
