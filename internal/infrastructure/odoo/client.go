// Package odoo is a read-only JSON-RPC client for an Odoo backend.
package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	core "stockview/internal/core/odoo"
	"stockview/pkg/logger"
)

const maxAttempts = 5

var (
	// ErrAuthFailed is returned when the backend rejects the credentials.
	ErrAuthFailed = errors.New("odoo: authentication failed")
	// ErrUnknownCollection is returned by Fetch for an unmapped collection.
	ErrUnknownCollection = errors.New("odoo: unknown collection")
)

type Config struct {
	URL          string
	DB           string
	User         string
	Password     string
	Timeout      time.Duration
	RateLimitRPS int
	// Limit caps search_read results per collection; 0 means no limit.
	Limit int
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *RateLimiter
	sleep      func(ctx context.Context, d time.Duration) error
	requestID  atomic.Int64

	mu  sync.Mutex
	uid int64
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    NewRateLimiter(cfg.RateLimitRPS),
		sleep:      sleepCtx,
	}
}

// RPCError is an error payload returned by the backend.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"data"`
}

func (e *RPCError) Error() string {
	if e.Data.Message != "" {
		return fmt.Sprintf("odoo rpc error %d: %s: %s", e.Code, e.Message, e.Data.Message)
	}
	return fmt.Sprintf("odoo rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// Version calls common.version; it needs no credentials.
func (c *Client) Version(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.call(ctx, "common", "version", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login authenticates once and caches the user id.
func (c *Client) Login(ctx context.Context) (int64, error) {
	c.mu.Lock()
	uid := c.uid
	c.mu.Unlock()
	if uid != 0 {
		return uid, nil
	}

	var result any
	if err := c.call(ctx, "common", "login", []any{c.cfg.DB, c.cfg.User, c.cfg.Password}, &result); err != nil {
		return 0, err
	}
	n, ok := result.(json.Number)
	if !ok {
		return 0, ErrAuthFailed
	}
	uid, err := n.Int64()
	if err != nil || uid <= 0 {
		return 0, ErrAuthFailed
	}

	c.mu.Lock()
	c.uid = uid
	c.mu.Unlock()
	log(ctx).Debugw("odoo login succeeded", "db", c.cfg.DB, "uid", uid)
	return uid, nil
}

// ExecuteKw runs model.method through object.execute_kw.
func (c *Client) ExecuteKw(ctx context.Context, model, method string, args []any, kwargs map[string]any, out any) error {
	uid, err := c.Login(ctx)
	if err != nil {
		return err
	}
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return c.call(ctx, "object", "execute_kw",
		[]any{c.cfg.DB, uid, c.cfg.Password, model, method, args, kwargs}, out)
}

// SearchRead returns the records of model matching domain.
func (c *Client) SearchRead(ctx context.Context, model string, domain []any, fields []string, order string, limit int) ([]any, error) {
	if domain == nil {
		domain = []any{}
	}
	kwargs := map[string]any{"fields": fields}
	if order != "" {
		kwargs["order"] = order
	}
	if limit > 0 {
		kwargs["limit"] = limit
	}
	var out []any
	if err := c.ExecuteKw(ctx, model, "search_read", []any{domain}, kwargs, &out); err != nil {
		return nil, fmt.Errorf("search_read %s: %w", model, err)
	}
	return out, nil
}

// Read returns the records of model with the given ids.
func (c *Client) Read(ctx context.Context, model string, ids []any, fields []string) ([]any, error) {
	if len(ids) == 0 {
		return []any{}, nil
	}
	var out []any
	if err := c.ExecuteKw(ctx, model, "read", []any{ids}, map[string]any{"fields": fields}, &out); err != nil {
		return nil, fmt.Errorf("read %s: %w", model, err)
	}
	return out, nil
}

// Fetch loads one raw collection. It satisfies cache.Fetcher.
func (c *Client) Fetch(ctx context.Context, collection string) ([]any, error) {
	coll, ok := LookupCollection(collection)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	records, err := c.SearchRead(ctx, coll.Model, coll.Domain, coll.Fields, coll.Order, c.cfg.Limit)
	if err != nil {
		return nil, err
	}
	if collection == CollectionAttributes {
		if err := c.expandAttributeValues(ctx, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// expandAttributeValues replaces value_ids id lists with the value records.
// Ids the backend did not return stay as bare ids.
func (c *Client) expandAttributeValues(ctx context.Context, attributes []any) error {
	var ids []any
	seen := map[string]struct{}{}
	for _, raw := range attributes {
		rec, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for _, id := range core.Many2ManyIDs(rec["value_ids"]) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, recordID(id))
		}
	}
	if len(ids) == 0 {
		return nil
	}

	values, err := c.Read(ctx, attributeValueModel, ids, attributeValueFields)
	if err != nil {
		return err
	}
	byID := make(map[string]any, len(values))
	for _, v := range values {
		if rec, ok := v.(map[string]any); ok {
			byID[core.Many2OneID(rec["id"])] = rec
		}
	}

	for _, raw := range attributes {
		rec, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		list, _ := rec["value_ids"].([]any)
		if list == nil {
			continue
		}
		expanded := make([]any, len(list))
		for i, item := range list {
			if v, found := byID[core.Many2OneID(item)]; found {
				expanded[i] = v
			} else {
				expanded[i] = item
			}
		}
		rec["value_ids"] = expanded
	}
	return nil
}

// recordID sends numeric ids as numbers, which is what read expects.
func recordID(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

func (c *Client) call(ctx context.Context, service, method string, args []any, out any) error {
	if args == nil {
		args = []any{}
	}
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      c.requestID.Add(1),
	})
	if err != nil {
		return err
	}

	body, err := c.post(ctx, payload)
	if err != nil {
		return err
	}

	var resp rpcResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode odoo response: %w", err)
	}
	if resp.Error != nil {
		return resp.Error
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(resp.Result))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode odoo result: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	endpoint := strings.TrimRight(c.cfg.URL, "/") + "/jsonrpc"

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("read odoo response: %w", readErr)
			log(ctx).Warnw("odoo response read failed", "error", readErr, "attempt", attempt)
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < maxAttempts {
				lastErr = fmt.Errorf("odoo status %d", resp.StatusCode)
				log(ctx).Warnw("odoo request retry", "status", resp.StatusCode, "attempt", attempt)
				if err := c.backoff(ctx, attempt); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("odoo http error: status=%d body=%s", resp.StatusCode, truncate(body, 512))
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("odoo request failed")
	}
	return nil, lastErr
}

func log(ctx context.Context) *logger.Logger {
	return logger.FromContext(ctx).WithComponent("odoo")
}

func (c *Client) backoff(ctx context.Context, attempt int) error {
	if attempt >= maxAttempts {
		return nil
	}
	d := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
	return c.sleep(ctx, d)
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
