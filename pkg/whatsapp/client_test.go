package whatsapp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	c := NewClient("http://gateway", "u", "p", "api")

	tests := []struct {
		in   string
		want string
	}{
		{"+56 9 1111 2222", "56911112222"},
		{"56911112222", "56911112222"},
		{"9 1111 2222", "56911112222"},
		{"09-1111-2222", "56911112222"},
		{"+1 (555) 123-4567", "15551234567"},
		{"n/a", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, c.NormalizePhone(tt.in))
		})
	}
}

func TestSendTextMessage(t *testing.T) {
	var got SendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/send/message", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":true,"message":"ok","data":{"message_id":"m1"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", "user", "secret", "/api/")
	require.NoError(t, c.SendTextMessage("+56 9 1111 2222", "Your car is ready"))
	assert.Equal(t, "56911112222@s.whatsapp.net", got.Phone)
	assert.Equal(t, "Your car is ready", got.Message)
	assert.False(t, got.IsForwarded)
}

func TestSendTextMessage_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `boom`},
		{"rejected", http.StatusOK, `{"success":false,"message":"not on whatsapp"}`},
		{"garbage", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(server.URL, "u", "p", "api")
			assert.Error(t, c.SendTextMessage("911112222", "hi"))
		})
	}

	c := NewClient("http://127.0.0.1:0", "u", "p", "api")
	assert.Error(t, c.SendTextMessage("", "hi"))
}
