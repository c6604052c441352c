package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

func TestSendAlertPostsToStandardEndpoint(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.SendAlert(context.Background(), &entity.AlertPayload{
		PetID:     42,
		AlertType: entity.AlertTypeUnusualBehavior,
		Severity:  "medium",
	})
	require.NoError(t, err)

	assert.Equal(t, "/alert", gotPath)
	// pet_id crosses the wire as a string.
	assert.Equal(t, "42", gotBody["pet_id"])
	assert.Equal(t, "unusual_behavior", gotBody["alert_type"])
}

func TestSendCriticalAlertPostsToCriticalEndpoint(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.NoError(t, c.SendCriticalAlert(context.Background(), &entity.AlertPayload{PetID: 1}))
	assert.Equal(t, "/alert/critical", gotPath)
}

func TestSendAlertNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.SendAlert(context.Background(), &entity.AlertPayload{PetID: 1})
	assert.Error(t, err)
}
