package project

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/banshee-data/cavity.report/internal/hfss/variables"
	"github.com/banshee-data/cavity.report/internal/hfss/variation"
)

// Client talks to a pyEPR bridge over HTTP. The bridge wraps one open
// project/design/setup and exposes it as JSON endpoints under /api/hfss.
type Client struct {
	baseURL string
	http    *http.Client
	// analyze requests bypass the client timeout: a solve legitimately
	// runs for minutes, bounded only by the caller's context.
	analyzeHTTP *http.Client
}

// NewClient creates a Client for the bridge at baseURL, e.g.
// "http://solver-host:8090".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		http:        &http.Client{Timeout: 30 * time.Second},
		analyzeHTTP: &http.Client{},
	}
}

func (c *Client) DesignInfo(ctx context.Context) (DesignInfo, error) {
	var out DesignInfo
	if err := c.getJSON(ctx, "/api/hfss/design", &out); err != nil {
		return DesignInfo{}, err
	}
	return out, nil
}

func (c *Client) SetVariable(ctx context.Context, v variables.ValuedVariable) error {
	payload := map[string]string{"name": v.Name, "value": v.ValueWithUnit()}
	return c.postJSON(ctx, "/api/hfss/variables", payload, nil)
}

func (c *Client) GetVariable(ctx context.Context, name string) (string, error) {
	var out struct {
		Value string `json:"value"`
	}
	q := url.Values{"name": {name}}
	if err := c.getJSON(ctx, "/api/hfss/variables?"+q.Encode(), &out); err != nil {
		return "", err
	}
	return out.Value, nil
}

func (c *Client) Snapshot(ctx context.Context) (variables.Snapshot, error) {
	var raw map[string]string
	if err := c.getJSON(ctx, "/api/hfss/snapshot", &raw); err != nil {
		return nil, err
	}
	return variation.ParseVariableMap(raw)
}

func (c *Client) Analyze(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/hfss/analyze", nil)
	if err != nil {
		return err
	}
	resp, err := c.analyzeHTTP.Do(req)
	if err != nil {
		return fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return httpError("analyze", resp)
	}
	return nil
}

func (c *Client) Variations(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	if err := c.getJSON(ctx, "/api/hfss/variations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Frequencies(ctx context.Context, variationID string) ([]ModeResult, error) {
	var out []ModeResult
	q := url.Values{"variation": {variationID}}
	if err := c.getJSON(ctx, "/api/hfss/results/frequencies?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Quantum(ctx context.Context, variationID string) (*QuantumResult, error) {
	var out QuantumResult
	q := url.Values{"variation": {variationID}}
	if err := c.getJSON(ctx, "/api/hfss/results/quantum?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return httpError(path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decoding response: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return httpError(path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("POST %s: decoding response: %w", path, err)
	}
	return nil
}

func httpError(what string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: bridge returned %d: %s", what, resp.StatusCode, bytes.TrimSpace(body))
}
