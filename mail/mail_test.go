package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/storeapi-go/config"
)

func TestWelcomeMessage(t *testing.T) {
	msg := WelcomeMessage("alice", "alice@example.com")
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "Successfully signed up", msg.Subject)
	assert.Contains(t, msg.Text, "Hi alice!")
}

func TestNewFallsBackToLogMailer(t *testing.T) {
	log, hook := test.NewNullLogger()
	m := New(&config.MailConfig{From: "a@b.c"}, log)

	require.IsType(t, &LogMailer{}, m)
	require.NoError(t, m.Send(context.Background(), WelcomeMessage("bob", "bob@example.com")))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "bob@example.com", entry.Data["to"])
}

func TestResendMailerPostsEmail(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	client := resend.NewClient("re_test")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	log, _ := test.NewNullLogger()
	m := NewResendMailer(client, "Stores API <no-reply@example.com>", log)
	require.NoError(t, m.Send(context.Background(), WelcomeMessage("alice", "alice@example.com")))

	assert.Equal(t, "Stores API <no-reply@example.com>", got["from"])
	assert.Equal(t, []interface{}{"alice@example.com"}, got["to"])
	assert.Equal(t, "Successfully signed up", got["subject"])
}

func TestResendMailerWrapsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from"}`))
	}))
	defer srv.Close()

	client := resend.NewClient("re_test")
	base, _ := url.Parse(srv.URL + "/")
	client.BaseURL = base

	log, _ := test.NewNullLogger()
	err := NewResendMailer(client, "bad", log).Send(context.Background(), WelcomeMessage("alice", "alice@example.com"))
	require.Error(t, err)
}
