package push

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
)

func TestListFollowsCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer dir-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/accounts/acct-1/storage/kv/namespaces/ns-1/keys", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{"result":[{"name":"U001"},{"name":"U002"}],"result_info":{"cursor":"page-2"}}`)
		case "page-2":
			fmt.Fprint(w, `{"result":[{"name":"U003"}],"result_info":{"cursor":""}}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	d := NewDirectory(config.DirectoryConfig{
		BaseURL:     srv.URL,
		AccountID:   "acct-1",
		NamespaceID: "ns-1",
		APIToken:    "dir-token",
		Timeout:     5,
	}, zap.NewNop())

	recipients, err := d.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"U001", "U002", "U003"}, recipients)
}

func TestListPropagatesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d := NewDirectory(config.DirectoryConfig{
		BaseURL:     srv.URL,
		AccountID:   "acct-1",
		NamespaceID: "ns-1",
		APIToken:    "bad",
		Timeout:     5,
	}, zap.NewNop())

	_, err := d.List(context.Background())
	assert.Error(t, err)
}

func TestConfigured(t *testing.T) {
	d := NewDirectory(config.DirectoryConfig{Timeout: 5}, zap.NewNop())
	assert.False(t, d.Configured())

	d = NewDirectory(config.DirectoryConfig{
		AccountID:   "acct",
		NamespaceID: "ns",
		Timeout:     5,
	}, zap.NewNop())
	assert.True(t, d.Configured())
}
