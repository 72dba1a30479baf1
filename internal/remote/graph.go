package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/hoitkn/processqa/internal/submission"
	"github.com/hoitkn/processqa/internal/translate"
)

// GraphConfig locates the SharePoint site and its two lists.
type GraphConfig struct {
	// BaseURL is the Graph API root, overridable for tests.
	BaseURL string
	// SitePath is the host-relative site address, e.g.
	// "masangroup.sharepoint.com:/sites/MCH.MMB.QA".
	SitePath string
	// DataListName and ParameterListName are the display names of the
	// submission list and the parameter list.
	DataListName      string
	ParameterListName string
}

// GraphClient writes submissions to the list service via Microsoft Graph,
// using the list schema (translate.List).
type GraphClient struct {
	cfg    GraphConfig
	client *http.Client
	tokens TokenSource
	now    func() time.Time

	mu          sync.Mutex
	siteID      string
	dataListID  string
	paramListID string
}

// NewGraphClient builds a client; list IDs are resolved lazily on first use
// so construction never touches the network.
func NewGraphClient(cfg GraphConfig, tokens TokenSource) *GraphClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://graph.microsoft.com/v1.0"
	}
	return &GraphClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		tokens: tokens,
		now:    time.Now,
	}
}

// Submit translates the submission with the list mapping and creates a list
// item. The returned string is the list item ID.
func (c *GraphClient) Submit(ctx context.Context, sub submission.Submission) (string, error) {
	listID, err := c.resolveDataList(ctx)
	if err != nil {
		return "", err
	}

	fields := translate.List.Translate(sub, c.now())
	body, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return "", fmt.Errorf("marshal item: %w", err)
	}

	endpoint := fmt.Sprintf("%s/sites/%s/lists/%s/items", c.cfg.BaseURL, c.siteIDLocked(), listID)
	var created struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, endpoint, body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// FetchRecent returns the latest submissions from the data list, newest
// first.
func (c *GraphClient) FetchRecent(ctx context.Context, limit int) ([]Record, error) {
	listID, err := c.resolveDataList(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	query := url.Values{
		"$expand":  {"fields"},
		"$top":     {strconv.Itoa(limit)},
		"$orderby": {"fields/Created desc"},
	}
	endpoint := fmt.Sprintf("%s/sites/%s/lists/%s/items?%s",
		c.cfg.BaseURL, c.siteIDLocked(), listID, query.Encode())
	return c.fetchItems(ctx, endpoint)
}

// FetchParameters returns every item of the parameter list, used to seed
// the catalog from the list service instead of the workbooks.
func (c *GraphClient) FetchParameters(ctx context.Context) ([]Record, error) {
	if err := c.resolveIDs(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	paramID := c.paramListID
	c.mu.Unlock()
	if paramID == "" {
		return nil, &RejectionError{Msg: fmt.Sprintf("parameter list %q not found", c.cfg.ParameterListName)}
	}

	query := url.Values{
		"$expand": {"fields"},
		"$top":    {"100"},
	}
	endpoint := fmt.Sprintf("%s/sites/%s/lists/%s/items?%s",
		c.cfg.BaseURL, c.siteIDLocked(), paramID, query.Encode())
	return c.fetchItems(ctx, endpoint)
}

func (c *GraphClient) fetchItems(ctx context.Context, endpoint string) ([]Record, error) {
	var resp struct {
		Value []struct {
			ID     string         `json:"id"`
			Fields map[string]any `json:"fields"`
		} `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(resp.Value))
	for _, item := range resp.Value {
		records = append(records, Record{ID: item.ID, Fields: item.Fields})
	}
	return records, nil
}

// resolveDataList resolves the site and list IDs once and returns the data
// list ID.
func (c *GraphClient) resolveDataList(ctx context.Context) (string, error) {
	if err := c.resolveIDs(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dataListID == "" {
		return "", &RejectionError{Msg: fmt.Sprintf("data list %q not found", c.cfg.DataListName)}
	}
	return c.dataListID, nil
}

func (c *GraphClient) resolveIDs(ctx context.Context) error {
	c.mu.Lock()
	resolved := c.siteID != ""
	c.mu.Unlock()
	if resolved {
		return nil
	}

	var site struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+"/sites/"+c.cfg.SitePath, nil, &site); err != nil {
		return err
	}

	var lists struct {
		Value []struct {
			ID          string `json:"id"`
			DisplayName string `json:"displayName"`
		} `json:"value"`
	}
	listsURL := fmt.Sprintf("%s/sites/%s/lists", c.cfg.BaseURL, url.PathEscape(site.ID))
	if err := c.do(ctx, http.MethodGet, listsURL, nil, &lists); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.siteID = site.ID
	for _, l := range lists.Value {
		switch l.DisplayName {
		case c.cfg.DataListName:
			c.dataListID = l.ID
		case c.cfg.ParameterListName:
			c.paramListID = l.ID
		}
	}
	return nil
}

func (c *GraphClient) siteIDLocked() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return url.PathEscape(c.siteID)
}

// do executes one Graph request and decodes the response into out. HTTP
// transport failures become ConnectivityError; 4xx responses become
// RejectionError; 5xx and 408/429 are treated as transient.
func (c *GraphClient) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	if !c.tokens.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.tokens.AuthHeader())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &ConnectivityError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if retryableStatus(resp.StatusCode) {
			return &ConnectivityError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, msg)}
		}
		return &RejectionError{Status: resp.StatusCode, Msg: string(msg)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// retryableStatus marks responses worth queueing for: the service is
// reachable but not currently able to take the write.
func retryableStatus(status int) bool {
	return status >= 500 || status == http.StatusRequestTimeout || status == http.StatusTooManyRequests
}
