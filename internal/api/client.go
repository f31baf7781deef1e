// Package api is the HTTP client for the shopping list REST service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/shoplist/internal/model"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8080/api/v1"

// DefaultUserID is the implicit user every request is scoped to.
const DefaultUserID int64 = 1

// Config holds API client configuration.
type Config struct {
	BaseURL    string
	UserID     int64
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// RequestFailedError is returned by every client operation for transport
// failures and non-2xx responses. Its message is the operation
// description only.
type RequestFailedError struct {
	Op  string
	err error
}

func (e *RequestFailedError) Error() string {
	return e.Op
}

func (e *RequestFailedError) Unwrap() error {
	return e.err
}

// Client issues one request per operation against the list service. It
// never retries and sets no timeout of its own.
type Client struct {
	baseURL    string
	userID     int64
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client, applying defaults for unset fields.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserID == 0 {
		cfg.UserID = DefaultUserID
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userID:     cfg.UserID,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UserID returns the user every request is scoped to.
func (c *Client) UserID() int64 {
	return c.userID
}

type createListRequest struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

type updateListRequest struct {
	Name string `json:"name"`
}

type userRequest struct {
	UserID int64 `json:"user_id"`
}

type createItemRequest struct {
	ListID    int64   `json:"list_id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Purchased bool    `json:"purchased"`
}

type updateItemRequest struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Purchased bool    `json:"purchased"`
}

func (c *Client) CreateList(ctx context.Context, name string) (*model.ShoppingList, error) {
	var list model.ShoppingList
	err := c.do(ctx, "Failed to create list", http.MethodPost, "/lists", createListRequest{UserID: c.userID, Name: name}, &list)
	if err != nil {
		return nil, err
	}
	if list.Items == nil {
		list.Items = []model.ShoppingItem{}
	}
	return &list, nil
}

func (c *Client) ListLists(ctx context.Context) ([]model.ShoppingList, error) {
	var lists []model.ShoppingList
	if err := c.do(ctx, "Failed to fetch lists", http.MethodGet, "/lists?"+c.userQuery(), nil, &lists); err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []model.ShoppingList{}
	}
	return lists, nil
}

func (c *Client) GetList(ctx context.Context, id int64) (*model.ShoppingList, error) {
	var list model.ShoppingList
	if err := c.do(ctx, "Failed to fetch list", http.MethodGet, listPath(id), nil, &list); err != nil {
		return nil, err
	}
	if list.Items == nil {
		list.Items = []model.ShoppingItem{}
	}
	return &list, nil
}

func (c *Client) UpdateList(ctx context.Context, id int64, name string) (*model.ShoppingList, error) {
	var list model.ShoppingList
	if err := c.do(ctx, "Failed to update list", http.MethodPut, listPath(id), updateListRequest{Name: name}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) DeleteList(ctx context.Context, id int64) error {
	return c.do(ctx, "Failed to delete list", http.MethodDelete, listPath(id), nil, nil)
}

func (c *Client) MarkListDone(ctx context.Context, id int64) (*model.ShoppingList, error) {
	var list model.ShoppingList
	if err := c.do(ctx, "Failed to mark list as done", http.MethodPost, listPath(id)+"/done", userRequest{UserID: c.userID}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) CreateItem(ctx context.Context, listID int64, fields model.ItemFields) (*model.ShoppingItem, error) {
	body := createItemRequest{
		ListID:   listID,
		Name:     fields.Name,
		Quantity: fields.Quantity,
		Unit:     fields.Unit,
	}
	var item model.ShoppingItem
	if err := c.do(ctx, "Failed to create item", http.MethodPost, "/items", body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) UpdateItem(ctx context.Context, id int64, fields model.ItemFields, purchased bool) (*model.ShoppingItem, error) {
	body := updateItemRequest{
		Name:      fields.Name,
		Quantity:  fields.Quantity,
		Unit:      fields.Unit,
		Purchased: purchased,
	}
	var item model.ShoppingItem
	if err := c.do(ctx, "Failed to update item", http.MethodPut, itemPath(id), body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, "Failed to delete item", http.MethodDelete, itemPath(id), nil, nil)
}

func (c *Client) ListHistory(ctx context.Context) ([]model.ListHistory, error) {
	var history []model.ListHistory
	if err := c.do(ctx, "Failed to fetch history", http.MethodGet, "/history?"+c.userQuery(), nil, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []model.ListHistory{}
	}
	return history, nil
}

func (c *Client) ReuseHistory(ctx context.Context, historyID int64) (*model.ShoppingList, error) {
	var list model.ShoppingList
	path := "/history/reuse/" + strconv.FormatInt(historyID, 10)
	if err := c.do(ctx, "Failed to reuse list", http.MethodPost, path, userRequest{UserID: c.userID}, &list); err != nil {
		return nil, err
	}
	if list.Items == nil {
		list.Items = []model.ShoppingItem{}
	}
	return &list, nil
}

func (c *Client) userQuery() string {
	return url.Values{"user_id": {strconv.FormatInt(c.userID, 10)}}.Encode()
}

func listPath(id int64) string {
	return "/lists/" + strconv.FormatInt(id, 10)
}

func itemPath(id int64) string {
	return "/items/" + strconv.FormatInt(id, 10)
}

// do performs a single request. A nil out skips response decoding.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	fail := func(err error) error {
		return &RequestFailedError{Op: op, err: err}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fail(fmt.Errorf("marshal request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fail(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return fail(fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer resp.Body.Close()

	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fail(fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
