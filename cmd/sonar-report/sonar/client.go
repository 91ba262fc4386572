// Package sonar is a small client for the SonarQube Web API endpoints the
// report needs: project badges, issue search and component search.
package sonar

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// pageSize caps issue and component searches. Only the first page is read,
// so projects with more than pageSize vulnerabilities are truncated.
const pageSize = 500

const badgeDataURIPrefix = "data:image/svg+xml;base64,"

// ErrNoIssues is returned when the issue search succeeds but finds nothing.
var ErrNoIssues = errors.New("no vulnerabilities found")

// APIError is returned for any non-200 response.
type APIError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Path, e.StatusCode, e.Body)
}

// Client is a thin SonarQube REST API client.
// It uses HTTP Basic auth with the token as username and an empty password,
// which is the authentication scheme documented by Sonar. The user token is
// only used to issue badge tokens; every other call uses the primary token.
type Client struct {
	baseURL   string
	token     string
	userToken string
	http      *http.Client
}

func NewClient(baseURL, token, userToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		userToken: userToken,
		http:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, path, token string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(token, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Path: path, StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(body)), 200)}
	}
	return body, nil
}

// FetchBadgeToken issues a badge token for a project, authenticated with the
// user token. Private projects need it to render their badges.
func (c *Client) FetchBadgeToken(ctx context.Context, projectKey string) (string, error) {
	body, err := c.get(ctx, "/api/project_badges/token", c.userToken, url.Values{"project": {projectKey}})
	if err != nil {
		return "", err
	}
	var r struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("decoding badge token: %w", err)
	}
	if r.Token == "" {
		return "", fmt.Errorf("decoding badge token: empty token in response")
	}
	return r.Token, nil
}

// FetchQualityGateBadge downloads the quality gate SVG badge and returns it
// as a base64 data URI ready to inline in HTML. branch and badgeToken are
// sent only when non-empty.
func (c *Client) FetchQualityGateBadge(ctx context.Context, projectKey, branch, badgeToken string) (string, error) {
	params := url.Values{"project": {projectKey}}
	if branch != "" {
		params.Set("branch", branch)
	}
	if badgeToken != "" {
		params.Set("token", badgeToken)
	}
	body, err := c.get(ctx, "/api/project_badges/quality_gate", c.token, params)
	if err != nil {
		return "", err
	}
	return badgeDataURIPrefix + base64.StdEncoding.EncodeToString(body), nil
}

// FetchVulnerabilities retrieves the first page of VULNERABILITY issues for
// a project. It returns ErrNoIssues when the search matches nothing.
func (c *Client) FetchVulnerabilities(ctx context.Context, projectKey string) ([]Issue, error) {
	params := url.Values{
		"componentKeys": {projectKey},
		"types":         {"VULNERABILITY"},
		"ps":            {strconv.Itoa(pageSize)},
	}
	body, err := c.get(ctx, "/api/issues/search", c.token, params)
	if err != nil {
		return nil, err
	}
	var r struct {
		Total  int     `json:"total"`
		Issues []Issue `json:"issues"`
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decoding issue search (unauthorised or wrong token?): %w", err)
	}
	if len(r.Issues) == 0 {
		return nil, ErrNoIssues
	}
	return r.Issues, nil
}

// FetchProjects lists the projects visible to the primary token.
func (c *Client) FetchProjects(ctx context.Context) ([]Project, error) {
	params := url.Values{
		"qualifiers": {"TRK"},
		"ps":         {strconv.Itoa(pageSize)},
	}
	body, err := c.get(ctx, "/api/components/search", c.token, params)
	if err != nil {
		return nil, err
	}
	var r struct {
		Components []Project `json:"components"`
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decoding component search: %w", err)
	}
	return r.Components, nil
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
