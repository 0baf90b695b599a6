package authenticate

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"xtvredirect/entity"
	"xtvredirect/lib/api/cont"

	"github.com/stretchr/testify/assert"
)

type tokens map[string]string

func (t tokens) AuthenticateByToken(token string) (*entity.ApiClient, error) {
	if name, ok := t[token]; ok {
		return &entity.ApiClient{Name: name}, nil
	}
	return nil, errors.New("unknown token")
}

func TestBearer(t *testing.T) {
	for header, want := range map[string]bool{
		"Bearer abc":  true,
		"Bearer  abc": true,
		"Bearer":      false,
		"Bearer ":     false,
		"Basic abc":   false,
		"":            false,
	} {
		_, ok := bearer(header)
		assert.Equal(t, want, ok, header)
	}
}

func TestNew(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	var seen string
	h := New(log, tokens{"s3cret": "operator"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := cont.GetClient(r.Context()); c != nil {
			seen = c.Name
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	for header, status := range map[string]int{
		"":              http.StatusUnauthorized,
		"Bearer":        http.StatusUnauthorized,
		"Bearer wrong":  http.StatusUnauthorized,
		"Bearer s3cret": http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, status, rec.Code, header)
	}
	assert.Equal(t, "operator", seen)
}
