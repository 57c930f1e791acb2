package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"safelens/internal/domain"
)

type stubDispatcher struct {
	out        domain.DispatchResult
	recipients []string
	body       string
}

func (s *stubDispatcher) Dispatch(_ context.Context, recipients []string, body string) domain.DispatchResult {
	s.recipients = recipients
	s.body = body
	return s.out
}

type stubContactStore struct {
	saved    []domain.Contact
	saveErr  error
	contacts []domain.Contact
	listErr  error
	listedID string
}

func (s *stubContactStore) SaveContact(_ context.Context, contact domain.Contact) error {
	s.saved = append(s.saved, contact)
	return s.saveErr
}

func (s *stubContactStore) ListContacts(_ context.Context, userID string) ([]domain.Contact, error) {
	s.listedID = userID
	return s.contacts, s.listErr
}

type stubLocation struct{ url string }

func (s *stubLocation) TrackingURL() string { return s.url }

func fakeContactFactory(userID, name, phone string) domain.Contact {
	return domain.Contact{PK: "USER#" + userID, SK: "CONTACT#" + phone, UserID: userID, Name: name, Phone: phone}
}

func newTestAlertService(t *testing.T, d *stubDispatcher, store *stubContactStore) *AlertService {
	t.Helper()
	svc, err := NewAlertService(d, store, fakeContactFactory, &stubLocation{url: "https://track.example/t?lat=1&lon=2"})
	require.NoError(t, err)
	return svc
}

func TestNewAlertService_Validation(t *testing.T) {
	d := &stubDispatcher{}
	store := &stubContactStore{}
	loc := &stubLocation{}

	_, err := NewAlertService(nil, store, fakeContactFactory, loc)
	require.Error(t, err)
	_, err = NewAlertService(d, nil, fakeContactFactory, loc)
	require.Error(t, err)
	_, err = NewAlertService(d, store, nil, loc)
	require.Error(t, err)
	_, err = NewAlertService(d, store, fakeContactFactory, nil)
	require.Error(t, err)
}

func TestTrigger_ExplicitRecipients(t *testing.T) {
	d := &stubDispatcher{out: domain.DispatchResult{Status: domain.DispatchSuccess, SentCount: 2}}
	store := &stubContactStore{}
	svc := newTestAlertService(t, d, store)

	got, err := svc.Trigger(context.Background(), AlertInput{
		Recipients:     []string{"+15551000001", "+15551000002"},
		TriggerMessage: "I need help",
	})
	require.NoError(t, err)
	require.Equal(t, domain.DispatchSuccess, got.Status)
	require.Equal(t, []string{"+15551000001", "+15551000002"}, d.recipients)
	require.Equal(t, "URGENT SafeLens Alert!\n\nI need help\n\nCurrent Location: https://track.example/t?lat=1&lon=2", d.body)
	require.Empty(t, store.listedID, "explicit recipients must not trigger a contact lookup")
}

func TestTrigger_EmptyMessage(t *testing.T) {
	svc := newTestAlertService(t, &stubDispatcher{}, &stubContactStore{})

	_, err := svc.Trigger(context.Background(), AlertInput{Recipients: []string{"+15551000001"}})
	require.Error(t, err)

	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, ErrorInvalidInput, ucErr.Code)
	require.Equal(t, "empty_trigger_message", ucErr.Reason)
}

func TestTrigger_ResolvesStoredContacts(t *testing.T) {
	d := &stubDispatcher{out: domain.DispatchResult{Status: domain.DispatchSuccess, SentCount: 2}}
	store := &stubContactStore{contacts: []domain.Contact{
		{UserID: "user-1", Phone: "+15551000001"},
		{UserID: "user-1", Phone: "+15551000002"},
	}}
	svc := newTestAlertService(t, d, store)

	_, err := svc.Trigger(context.Background(), AlertInput{UserID: " user-1 ", TriggerMessage: "help"})
	require.NoError(t, err)
	require.Equal(t, "user-1", store.listedID)
	require.Equal(t, []string{"+15551000001", "+15551000002"}, d.recipients)
}

func TestTrigger_ContactLookupError(t *testing.T) {
	store := &stubContactStore{listErr: errors.New("dynamo down")}
	svc := newTestAlertService(t, &stubDispatcher{}, store)

	_, err := svc.Trigger(context.Background(), AlertInput{UserID: "user-1", TriggerMessage: "help"})
	require.Error(t, err)

	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, ErrorInternal, ucErr.Code)
	require.Equal(t, "contact_lookup_error", ucErr.Reason)
}

func TestTrigger_NoRecipientsDispatchesEmptyBatch(t *testing.T) {
	d := &stubDispatcher{out: domain.DispatchResult{
		Status:  domain.DispatchSuccess,
		Summary: "Alerts sent: 0. Failed: 0.",
	}}
	svc := newTestAlertService(t, d, &stubContactStore{})

	got, err := svc.Trigger(context.Background(), AlertInput{TriggerMessage: "help"})
	require.NoError(t, err)
	require.Equal(t, domain.DispatchSuccess, got.Status)
	require.Empty(t, d.recipients)
}

func TestSaveContact_HappyPath(t *testing.T) {
	store := &stubContactStore{}
	svc := newTestAlertService(t, &stubDispatcher{}, store)

	contact, err := svc.SaveContact(context.Background(), SaveContactInput{UserID: "user-1", Name: " Alex ", Phone: " +15551000001 "})
	require.NoError(t, err)
	require.Equal(t, "user-1", contact.UserID)
	require.Equal(t, "Alex", contact.Name)
	require.Equal(t, "+15551000001", contact.Phone)
	require.Len(t, store.saved, 1)
}

func TestSaveContact_GeneratesUserID(t *testing.T) {
	orig := newUUID
	newUUID = func() string { return "generated-id" }
	defer func() { newUUID = orig }()

	svc := newTestAlertService(t, &stubDispatcher{}, &stubContactStore{})

	contact, err := svc.SaveContact(context.Background(), SaveContactInput{Phone: "+15551000001"})
	require.NoError(t, err)
	require.Equal(t, "generated-id", contact.UserID)
}

func TestSaveContact_EmptyPhone(t *testing.T) {
	svc := newTestAlertService(t, &stubDispatcher{}, &stubContactStore{})

	_, err := svc.SaveContact(context.Background(), SaveContactInput{UserID: "user-1"})
	require.Error(t, err)

	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, ErrorInvalidInput, ucErr.Code)
	require.Equal(t, "empty_phone", ucErr.Reason)
}

func TestSaveContact_StoreError(t *testing.T) {
	svc := newTestAlertService(t, &stubDispatcher{}, &stubContactStore{saveErr: errors.New("boom")})

	_, err := svc.SaveContact(context.Background(), SaveContactInput{UserID: "user-1", Phone: "+15551000001"})
	require.Error(t, err)

	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, ErrorInternal, ucErr.Code)
}

func TestListContacts_EmptyUserID(t *testing.T) {
	svc := newTestAlertService(t, &stubDispatcher{}, &stubContactStore{})

	_, err := svc.ListContacts(context.Background(), "  ")
	require.Error(t, err)

	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, ErrorInvalidInput, ucErr.Code)
}

func TestListContacts_HappyPath(t *testing.T) {
	store := &stubContactStore{contacts: []domain.Contact{{UserID: "user-1", Phone: "+15551000001"}}}
	svc := newTestAlertService(t, &stubDispatcher{}, store)

	contacts, err := svc.ListContacts(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	require.Equal(t, "user-1", store.listedID)
}
