// SPDX-License-Identifier: AGPL-3.0-or-later
package relnotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PullRequest is the slice of the GitHub pull-request payload the compiler
// needs: the body to splice generated notes into, the link target, and the
// commit messages to compile.
type PullRequest struct {
	Number  int
	HTMLURL string
	Body    string

	// CommitMessages are the full messages of the pull request's commits,
	// oldest first.
	CommitMessages []string
}

// Client fetches pull requests from the GitHub API. Token is optional; it is
// only needed for private repositories.
type Client struct {
	HTTPClient *http.Client
	Token      string
}

type pullRequestPayload struct {
	Number     int    `json:"number"`
	HTMLURL    string `json:"html_url"`
	Body       string `json:"body"`
	CommitsURL string `json:"commits_url"`
}

type commitPayload struct {
	Commit struct {
		Message string `json:"message"`
	} `json:"commit"`
}

// FetchPullRequest retrieves a pull request and its commit messages. url is
// the API URL of the pull request, e.g. the value of
// github.event.pull_request.url in a GitHub workflow.
func (c *Client) FetchPullRequest(ctx context.Context, url string) (*PullRequest, error) {
	var payload pullRequestPayload
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("fetching pull request: %w", err)
	}

	var commits []commitPayload
	if err := c.getJSON(ctx, payload.CommitsURL, &commits); err != nil {
		return nil, fmt.Errorf("fetching pull request commits: %w", err)
	}

	pr := &PullRequest{
		Number:  payload.Number,
		HTMLURL: payload.HTMLURL,
		Body:    payload.Body,
	}
	for _, commit := range commits {
		pr.CommitMessages = append(pr.CommitMessages, commit.Commit.Message)
	}
	return pr, nil
}

func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(target)
}
