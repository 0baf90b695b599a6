package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"xtvredirect/entity"
	"xtvredirect/impl/auth"
	"xtvredirect/impl/core"
	"xtvredirect/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, records int) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	db := database.NewMemoryDB()
	for i := 0; i < records; i++ {
		code := fmt.Sprintf("code%02d", i)
		require.NoError(t, db.CreateRedirect(ctx, &entity.RedirectRecord{
			Code:       code,
			SeriesName: "Series",
			CatalogId:  1,
			MediaType:  "tv",
			ChannelId:  -100,
			InviteLink: "https://t.me/+static",
		}))
		require.NoError(t, db.IncrementUsage(ctx, code, time.Now()))
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := core.New(db, log)
	c.SetAuthService(auth.New("s3cret"))

	srv := httptest.NewServer(NewRouter(log, c, true))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestHealth(t *testing.T) {
	srv := newServer(t, 0)
	resp, body := get(t, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}

func TestStats_RequiresToken(t *testing.T) {
	srv := newServer(t, 2)

	resp, _ := get(t, srv.URL+"/v1/stats", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/v1/stats", "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := get(t, srv.URL+"/v1/stats", "s3cret")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total_links"])
	assert.Equal(t, float64(2), data["total_served"])
}

func TestRedirects_Paging(t *testing.T) {
	srv := newServer(t, 12)

	resp, body := get(t, srv.URL+"/v1/redirects?page=1", "s3cret")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(12), data["total"])
	items := data["items"].([]interface{})
	assert.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "series", first["media_type"])
	assert.NotContains(t, first, "invite_link")

	resp, _ = get(t, srv.URL+"/v1/redirects?page=-1", "s3cret")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, page := range []string{"1000001", "9223372036854775807", "abc"} {
		resp, _ = get(t, srv.URL+"/v1/redirects?page="+page, "s3cret")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, page)
	}
}

func TestNotFound(t *testing.T) {
	srv := newServer(t, 0)
	resp, body := get(t, srv.URL+"/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}
