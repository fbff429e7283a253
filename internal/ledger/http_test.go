package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docreview/internal/config"
	"docreview/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(config.LedgerConfig{Target: srv.URL, TimeoutSec: 2})
	require.NoError(t, err)
	return c
}

func TestNewHTTPClient_FailClosed(t *testing.T) {
	t.Run("unresolved target", func(t *testing.T) {
		c, err := NewHTTPClient(config.LedgerConfig{})
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrTargetUnresolved)
	})

	t.Run("override beats default", func(t *testing.T) {
		var hit string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hit = r.Host
		}))
		defer srv.Close()

		c, err := NewHTTPClient(config.LedgerConfig{Target: srv.URL, DefaultTarget: "http://ledger-default:9"})
		require.NoError(t, err)
		require.NoError(t, c.Register(context.Background(), "abc"))
		assert.NotEmpty(t, hit)
	})
}

func TestHTTPClient_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/documents", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "abc", body["content_id"])

			w.WriteHeader(http.StatusCreated)
		}))

		assert.NoError(t, c.Register(context.Background(), "abc"))
	})

	t.Run("duplicate register is success-equivalent", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))

		assert.NoError(t, c.Register(context.Background(), "abc"))
	})

	t.Run("server error is transport failure", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		err := c.Register(context.Background(), "abc")
		var te *TransportError
		assert.ErrorAs(t, err, &te)
		assert.Equal(t, "register", te.Op)
	})
}

func TestHTTPClient_GetStatus(t *testing.T) {
	t.Run("parses wire status", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/documents/abc/status", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]string{"status": "approved"})
		}))

		s, err := c.GetStatus(context.Background(), "abc")
		assert.NoError(t, err)
		assert.Equal(t, model.StatusApproved, s)
	})

	t.Run("rejects out-of-enum status", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"status": "maybe"})
		}))

		_, err := c.GetStatus(context.Background(), "abc")
		var te *TransportError
		assert.ErrorAs(t, err, &te)
	})

	t.Run("unreachable target is transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		c, err := NewHTTPClient(config.LedgerConfig{Target: srv.URL, TimeoutSec: 1})
		require.NoError(t, err)
		srv.Close()

		_, err = c.GetStatus(context.Background(), "abc")
		var te *TransportError
		assert.ErrorAs(t, err, &te)
	})
}

func TestHTTPClient_Moderation(t *testing.T) {
	t.Run("approve success", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/documents/abc/approve", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))

		assert.NoError(t, c.Approve(context.Background(), "abc"))
	})

	t.Run("deny on decided document is rejected", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/documents/abc/deny", r.URL.Path)
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "already decided"})
		}))

		err := c.Deny(context.Background(), "abc")
		var re *RejectedError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, http.StatusConflict, re.Status)
		assert.Equal(t, "already decided", re.Reason)
	})

	t.Run("transport failure is not a rejection", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))

		err := c.Approve(context.Background(), "abc")
		var re *RejectedError
		assert.False(t, errors.As(err, &re))
		var te *TransportError
		assert.ErrorAs(t, err, &te)
	})
}
