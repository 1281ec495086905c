package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gatewatch/auth-service/internal/domain/models"
	"github.com/gatewatch/auth-service/internal/infrastructure/notification"
)

func TestClient_SendEmail(t *testing.T) {
	var gotToken string
	var gotPayload map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/email", r.URL.Path)
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := notification.NewClient("server-token", "auth@example.com", server.URL)
	recipient, err := models.ParseEmail("user@example.com")
	require.NoError(t, err)

	err = client.SendEmail(context.Background(), recipient, "Your login verification code", "code body")
	require.NoError(t, err)

	assert.Equal(t, "server-token", gotToken)
	assert.Equal(t, "auth@example.com", gotPayload["From"])
	assert.Equal(t, "user@example.com", gotPayload["To"])
	assert.Equal(t, "Your login verification code", gotPayload["Subject"])
	assert.Equal(t, "code body", gotPayload["TextBody"])
}

func TestClient_SendEmail_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ErrorCode":10,"Message":"bad token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := notification.NewClient("server-token", "auth@example.com", server.URL)
	recipient, err := models.ParseEmail("user@example.com")
	require.NoError(t, err)

	err = client.SendEmail(context.Background(), recipient, "subject", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_SendEmail_Unconfigured(t *testing.T) {
	client := notification.NewClient("", "auth@example.com", "http://unused")
	recipient, err := models.ParseEmail("user@example.com")
	require.NoError(t, err)

	assert.False(t, client.Configured())
	assert.Error(t, client.SendEmail(context.Background(), recipient, "subject", "body"))
}

func TestLogClient_SendEmail(t *testing.T) {
	client := notification.NewLogClient(zap.NewNop())
	recipient, err := models.ParseEmail("user@example.com")
	require.NoError(t, err)

	assert.NoError(t, client.SendEmail(context.Background(), recipient, "subject", "body"))
}
