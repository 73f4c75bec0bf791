package directory

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/vanderheijden86/orgchart/pkg/debug"
)

// graphScope requests the app's statically granted Graph permissions.
const graphScope = "https://graph.microsoft.com/.default"

// maxPages bounds @odata.nextLink paging.
const maxPages = 1000

// User is the subset of a Graph user the chart needs.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	JobTitle    string `json:"jobTitle"`
	Department  string `json:"department"`
	Mail        string `json:"mail"`
}

// UserFetcher lists directory users.
type UserFetcher interface {
	FetchUsers(ctx context.Context) ([]User, error)
}

// Client talks to the Graph users endpoint.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient returns a client whose requests carry a client-credentials
// token. The token is fetched lazily and refreshed by the transport.
func NewClient(ctx context.Context, creds Credentials) *Client {
	cfg := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL(),
		Scopes:       []string{graphScope},
	}
	return NewClientWithHTTP(cfg.Client(ctx), creds.GraphURL)
}

// NewClientWithHTTP uses hc as is.
func NewClientWithHTTP(hc *http.Client, baseURL string) *Client {
	return &Client{http: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

type usersPage struct {
	Value    []User `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// FetchUsers lists all users, following paging links.
func (c *Client) FetchUsers(ctx context.Context) ([]User, error) {
	q := url.Values{}
	q.Set("$select", "id,displayName,jobTitle,department,mail")
	q.Set("$top", "999")
	next := c.baseURL + "/users?" + q.Encode()

	var users []User
	for page := 0; next != ""; page++ {
		if page >= maxPages {
			return nil, fmt.Errorf("listing users: more than %d pages", maxPages)
		}
		p, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("listing users (page %d): %w", page+1, err)
		}
		users = append(users, p.Value...)
		next = p.NextLink
	}
	debug.Log("directory: fetched %d users", len(users))
	return users, nil
}

func (c *Client) fetchPage(ctx context.Context, u string) (usersPage, error) {
	var p usersPage
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return p, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return p, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return p, fmt.Errorf("graph returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return p, fmt.Errorf("decoding users: %w", err)
	}
	return p, nil
}
