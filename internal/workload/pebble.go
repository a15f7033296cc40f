package workload

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"grafop/pkg/logging"
)

// PebbleClient implements Gateway against a Pebble-style supervisor HTTP API
// served over a unix socket.
type PebbleClient struct {
	socketPath string
	httpClient *http.Client
}

// NewPebbleClient returns a client for the supervisor socket at socketPath.
func NewPebbleClient(socketPath string) *PebbleClient {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
	}
	return &PebbleClient{
		socketPath: socketPath,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}
}

// response is the supervisor's envelope for every API reply.
type response struct {
	Type       string          `json:"type"`
	StatusCode int             `json:"status-code"`
	Status     string          `json:"status"`
	Result     json.RawMessage `json:"result,omitempty"`
}

func (c *PebbleClient) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := &url.URL{Scheme: "http", Host: "localhost", Path: path, RawQuery: query.Encode()}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supervisor request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var envelope response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding supervisor response for %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("supervisor returned %d for %s %s: %s", resp.StatusCode, method, path, envelope.Status)
	}
	return &envelope, nil
}

// Ping checks supervisor reachability via the system info endpoint.
func (c *PebbleClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/v1/system-info", nil, nil)
	return err
}

type writeFilesPayload struct {
	Action string      `json:"action"`
	Files  []fileEntry `json:"files"`
}

type fileEntry struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	MakeDirs bool   `json:"make-dirs,omitempty"`
}

// Push writes content to path inside the workload container.
func (c *PebbleClient) Push(ctx context.Context, path string, content []byte, createDirs bool) error {
	payload := writeFilesPayload{
		Action: "write",
		Files: []fileEntry{{
			Path:     path,
			Content:  base64.StdEncoding.EncodeToString(content),
			MakeDirs: createDirs,
		}},
	}
	if _, err := c.do(ctx, http.MethodPost, "/v1/files", nil, payload); err != nil {
		return fmt.Errorf("pushing %s: %w", path, err)
	}
	logging.Debug("Workload", "pushed %d bytes to %s", len(content), path)
	return nil
}

type addLayerPayload struct {
	Action  string `json:"action"`
	Label   string `json:"label"`
	Format  string `json:"format"`
	Layer   string `json:"layer"`
	Combine bool   `json:"combine"`
}

// SubmitLayer adds a launch layer under the given label.
func (c *PebbleClient) SubmitLayer(ctx context.Context, label string, layer []byte) error {
	payload := addLayerPayload{
		Action:  "add",
		Label:   label,
		Format:  "yaml",
		Layer:   string(layer),
		Combine: true,
	}
	if _, err := c.do(ctx, http.MethodPost, "/v1/layers", nil, payload); err != nil {
		return fmt.Errorf("submitting layer %q: %w", label, err)
	}
	logging.Debug("Workload", "submitted layer %q", label)
	return nil
}

type serviceInfo struct {
	Name    string `json:"name"`
	Current string `json:"current"`
}

// ServiceStatus queries the live status of a service.
func (c *PebbleClient) ServiceStatus(ctx context.Context, name string) (ServiceStatus, error) {
	query := url.Values{"names": []string{name}}
	envelope, err := c.do(ctx, http.MethodGet, "/v1/services", query, nil)
	if err != nil {
		return StatusUnknown, err
	}

	var services []serviceInfo
	if err := json.Unmarshal(envelope.Result, &services); err != nil {
		return StatusUnknown, fmt.Errorf("decoding service list: %w", err)
	}
	for _, svc := range services {
		if svc.Name != name {
			continue
		}
		switch svc.Current {
		case "active":
			return StatusActive, nil
		case "inactive":
			return StatusInactive, nil
		default:
			return StatusUnknown, nil
		}
	}
	return StatusUnknown, nil
}

type serviceActionPayload struct {
	Action   string   `json:"action"`
	Services []string `json:"services,omitempty"`
}

func (c *PebbleClient) serviceAction(ctx context.Context, action string, names ...string) error {
	payload := serviceActionPayload{Action: action, Services: names}
	if _, err := c.do(ctx, http.MethodPost, "/v1/services", nil, payload); err != nil {
		return fmt.Errorf("service %s %v: %w", action, names, err)
	}
	return nil
}

// Start starts a service by name.
func (c *PebbleClient) Start(ctx context.Context, name string) error {
	return c.serviceAction(ctx, "start", name)
}

// Stop stops a service by name.
func (c *PebbleClient) Stop(ctx context.Context, name string) error {
	return c.serviceAction(ctx, "stop", name)
}

// AutoStart starts all startup-enabled services.
func (c *PebbleClient) AutoStart(ctx context.Context) error {
	return c.serviceAction(ctx, "autostart")
}
