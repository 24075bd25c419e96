package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sycomix/inpoint-ai-backend/internal/config"
	"github.com/sycomix/inpoint-ai-backend/internal/model"
)

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/workspaces", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": "w1", "OwnerId": "u1", "Description": "<p>City &amp; transport</p>", "Summary": "<b>summary</b>"}
		]`))
	})
	mux.HandleFunc("/discussions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": "d1", "SpaceId": "w1", "UserId": "u1", "Position": 2, "DiscussionText": "<p>the issue</p>"},
			{"id": "d2", "SpaceId": "w1", "UserId": "u2", "Position": 1, "DiscussionText": "in favor"},
			{"id": "d3", "SpaceId": "w1", "UserId": "u3", "Position": -2, "DiscussionText": "a solution"},
			{"id": "d4", "SpaceId": "w1", "UserId": "u4", "Position": 99, "DiscussionText": "unknown code"}
		]`))
	})
	return httptest.NewServer(mux)
}

func TestFetch(t *testing.T) {
	srv := fixtureServer(t)
	defer srv.Close()

	c := NewClient(config.UpstreamConfig{
		WorkspacesURL:  srv.URL + "/workspaces",
		DiscussionsURL: srv.URL + "/discussions",
	})

	workspaces, discussions, err := c.Fetch(context.Background())
	assert.NoError(t, err)

	assert.Len(t, workspaces, 1)
	assert.Equal(t, "w1", workspaces[0].ID)
	assert.Equal(t, "City & transport", workspaces[0].Description)
	assert.Equal(t, "summary", workspaces[0].Summary)

	assert.Len(t, discussions, 4)
	assert.Equal(t, model.PositionIssue, discussions[0].Position)
	assert.Equal(t, "the issue", discussions[0].Text)
	assert.Equal(t, model.PositionInFavor, discussions[1].Position)
	assert.Equal(t, model.PositionSolution, discussions[2].Position)
	// Unknown position codes fall back to Issue.
	assert.Equal(t, model.PositionIssue, discussions[3].Position)
}

func TestFetchRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(config.UpstreamConfig{
		WorkspacesURL:  srv.URL + "/workspaces",
		DiscussionsURL: srv.URL + "/discussions",
	})

	_, _, err := c.Fetch(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
