package contact

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/notify"
	"github.com/futurnod/siteapi/internal/store"
)

func validForm() model.ContactForm {
	return model.ContactForm{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "+123456789",
		Budget:  "10k-50k",
		Message: "We need help with our marketing site.",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.ContactForm)
		field  string
	}{
		{"valid", func(f *model.ContactForm) {}, ""},
		{"short name", func(f *model.ContactForm) { f.Name = "J" }, "name"},
		{"bad email", func(f *model.ContactForm) { f.Email = "not-an-email" }, "email"},
		{"email without tld", func(f *model.ContactForm) { f.Email = "jane@host" }, "email"},
		{"short phone", func(f *model.ContactForm) { f.Phone = "12345" }, "phone"},
		{"empty budget", func(f *model.ContactForm) { f.Budget = "  " }, "budget"},
		{"short message", func(f *model.ContactForm) { f.Message = "help" }, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)
			err := Validate(form)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *store.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

// recordingSender captures dispatched messages.
type recordingSender struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recordingSender) Send(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recordingSender) wait(t *testing.T) notify.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		if len(r.msgs) > 0 {
			msg := r.msgs[0]
			r.mu.Unlock()
			return msg
		}
		r.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no notification dispatched")
	return notify.Message{}
}

// stubContacts is an in-memory store.Contacts.
type stubContacts struct {
	created []model.ContactSubmission
}

func (s *stubContacts) List(context.Context) ([]model.ContactSubmission, error) {
	return s.created, nil
}

func (s *stubContacts) Create(_ context.Context, form model.ContactForm) (*model.ContactSubmission, error) {
	sub := model.ContactSubmission{
		ID:        "contact-1",
		Name:      form.Name,
		Email:     form.Email,
		Phone:     form.Phone,
		Website:   form.Website,
		Budget:    form.Budget,
		Company:   form.Company,
		Message:   form.Message,
		CreatedAt: time.Now().UTC(),
		Status:    model.ContactStatusNew,
	}
	s.created = append(s.created, sub)
	return &sub, nil
}

func (s *stubContacts) UpdateStatus(context.Context, string, string) error { return nil }
func (s *stubContacts) Delete(context.Context, string) error              { return nil }

func TestSubmitPipeline(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := notify.NewDispatcher(sender, nil, notify.Config{Workers: 1})
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	contacts := &stubContacts{}
	svc := NewService(contacts, dispatcher, "admin@futurnod.com", "noreply@futurnod.com")

	sub, err := svc.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusNew, sub.Status)
	require.Len(t, contacts.created, 1)

	msg := sender.wait(t)
	assert.Equal(t, "admin@futurnod.com", msg.To)
	assert.Equal(t, "noreply@futurnod.com", msg.From)
	assert.Equal(t, "New Contact Form Submission from Jane Doe", msg.Subject)
	assert.Contains(t, msg.Text, "Website: Not provided")
	assert.Contains(t, msg.HTML, "<h2>New Contact Form Submission</h2>")
}

func TestSubmitValidationStopsPipeline(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := notify.NewDispatcher(sender, nil, notify.Config{Workers: 1})
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	contacts := &stubContacts{}
	svc := NewService(contacts, dispatcher, "admin@futurnod.com", "noreply@futurnod.com")

	form := validForm()
	form.Email = "broken"
	_, err := svc.Submit(context.Background(), form)
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))
	assert.Empty(t, contacts.created, "nothing should persist on validation failure")
}

func TestNotificationEscapesHTML(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := notify.NewDispatcher(sender, nil, notify.Config{Workers: 1})
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	svc := NewService(&stubContacts{}, dispatcher, "admin@futurnod.com", "noreply@futurnod.com")

	form := validForm()
	form.Name = `<script>alert("x")</script>`
	_, err := svc.Submit(context.Background(), form)
	require.NoError(t, err)

	msg := sender.wait(t)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.True(t, strings.Contains(msg.HTML, "&lt;script&gt;"))
}
