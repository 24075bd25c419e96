package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sycomix/inpoint-ai-backend/internal/config"
	"github.com/sycomix/inpoint-ai-backend/internal/model"
	"github.com/sycomix/inpoint-ai-backend/internal/text"
)

// Source provides the workspace and discussion snapshots for one run.
type Source interface {
	Fetch(ctx context.Context) ([]model.Workspace, []model.Discussion, error)
}

// Client reads the two Ergologic collection endpoints. A non-200 response
// from either aborts data retrieval for the run.
type Client struct {
	http           *http.Client
	workspacesURL  string
	discussionsURL string
}

func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{
		http:           &http.Client{Timeout: 30 * time.Second},
		workspacesURL:  cfg.WorkspacesURL,
		discussionsURL: cfg.DiscussionsURL,
	}
}

type wireWorkspace struct {
	ID          string `json:"id"`
	OwnerID     string `json:"OwnerId"`
	Description string `json:"Description"`
	Summary     string `json:"Summary"`
}

type wireDiscussion struct {
	ID       string `json:"id"`
	SpaceID  string `json:"SpaceId"`
	UserID   string `json:"UserId"`
	Position int    `json:"Position"`
	Text     string `json:"DiscussionText"`
}

func (c *Client) Fetch(ctx context.Context) ([]model.Workspace, []model.Discussion, error) {
	var wireWorkspaces []wireWorkspace
	if err := c.getJSON(ctx, c.workspacesURL, &wireWorkspaces); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch workspaces: %w", err)
	}

	var wireDiscussions []wireDiscussion
	if err := c.getJSON(ctx, c.discussionsURL, &wireDiscussions); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch discussions: %w", err)
	}

	workspaces := make([]model.Workspace, 0, len(wireWorkspaces))
	for _, w := range wireWorkspaces {
		workspaces = append(workspaces, model.Workspace{
			ID:          w.ID,
			OwnerID:     w.OwnerID,
			Description: text.StripMarkup(w.Description),
			Summary:     text.StripMarkup(w.Summary),
		})
	}

	discussions := make([]model.Discussion, 0, len(wireDiscussions))
	for _, d := range wireDiscussions {
		discussions = append(discussions, model.Discussion{
			ID:       d.ID,
			SpaceID:  d.SpaceID,
			UserID:   d.UserID,
			Position: model.PositionFromCode(d.Position),
			Text:     text.StripMarkup(d.Text),
		})
	}

	return workspaces, discussions, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
