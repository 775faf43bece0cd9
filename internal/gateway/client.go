// Package gateway is the HTTP client for the remote device controller that
// drives the physical robot.  The service only depends on the gateway's
// request/response contract: JSON bodies in, {success, status, error} out.
// Every call carries a bounded timeout; a gateway that does not answer in
// time surfaces as ErrTimeout rather than a hung request.
package gateway

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "net/url"
    "strings"
    "time"
)

// Sentinel errors for transport failures.  Their messages are the stable
// error codes surfaced to callers.
var (
    ErrTimeout     = errors.New("gateway_timeout")
    ErrUnreachable = errors.New("gateway_error")
)

// StatusError is returned when the gateway answered but reported failure
// (success=false or a non-2xx status).  The gateway's own message is
// relayed verbatim.
type StatusError struct {
    Message string
}

func (e *StatusError) Error() string { return "gateway_error: " + e.Message }

// ControlRequest is a single movement command for the robot.
type ControlRequest struct {
    Command  string `json:"command"`
    Speed    int    `json:"speed,omitempty"`
    Duration int    `json:"duration,omitempty"`
    UserID   uint64 `json:"user_id"`
}

// ExecuteRequest submits user-written control code for execution.
type ExecuteRequest struct {
    Code   string `json:"code"`
    UserID uint64 `json:"user_id"`
}

// Response is the gateway's answer, relayed to callers without
// transformation.  Sensors is raw JSON because its shape depends on the
// hardware attached to the controller.
type Response struct {
    Success bool            `json:"success"`
    Status  string          `json:"status,omitempty"`
    Error   string          `json:"error,omitempty"`
    Sensors json.RawMessage `json:"sensors,omitempty"`
}

// Client talks to one device controller.
type Client struct {
    baseURL     string
    httpClient  *http.Client
    timeout     time.Duration // control/status/stop calls
    execTimeout time.Duration // code execution, which the controller runs synchronously
}

// NewClient builds a gateway client for the given base URL.  Zero timeouts
// fall back to 5s for commands and 10s for code execution.
func NewClient(baseURL string, timeout, execTimeout time.Duration) *Client {
    if timeout <= 0 {
        timeout = 5 * time.Second
    }
    if execTimeout <= 0 {
        execTimeout = 10 * time.Second
    }
    return &Client{
        baseURL:     strings.TrimRight(baseURL, "/"),
        httpClient:  &http.Client{},
        timeout:     timeout,
        execTimeout: execTimeout,
    }
}

// Control forwards a movement command.
func (c *Client) Control(ctx context.Context, req ControlRequest) (*Response, error) {
    return c.post(ctx, "/api/robot/control", req, c.timeout)
}

// Execute forwards control code for synchronous execution.
func (c *Client) Execute(ctx context.Context, req ExecuteRequest) (*Response, error) {
    return c.post(ctx, "/api/robot/execute", req, c.execTimeout)
}

// Stop issues an immediate stop.
func (c *Client) Stop(ctx context.Context, userID uint64) (*Response, error) {
    return c.post(ctx, "/api/robot/stop", map[string]uint64{"user_id": userID}, c.timeout)
}

// Status fetches the controller's current status.
func (c *Client) Status(ctx context.Context) (*Response, error) {
    return c.get(ctx, "/api/robot/status")
}

// Sensors fetches the current sensor readings.
func (c *Client) Sensors(ctx context.Context) (*Response, error) {
    return c.get(ctx, "/api/robot/sensors")
}

func (c *Client) post(ctx context.Context, path string, body any, timeout time.Duration) (*Response, error) {
    payload, err := json.Marshal(body)
    if err != nil {
        return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
    }
    ctx, cancel := context.WithTimeout(ctx, timeout)
    defer cancel()

    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
    if err != nil {
        return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
    }
    req.Header.Set("Content-Type", "application/json")
    return c.do(req)
}

func (c *Client) get(ctx context.Context, path string) (*Response, error) {
    ctx, cancel := context.WithTimeout(ctx, c.timeout)
    defer cancel()

    req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
    if err != nil {
        return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
    }
    return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
    resp, err := c.httpClient.Do(req)
    if err != nil {
        var ue *url.Error
        if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ue) && ue.Timeout()) {
            return nil, ErrTimeout
        }
        return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
    }
    defer resp.Body.Close()

    var out Response
    if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
        return nil, fmt.Errorf("%w: malformed gateway response: %v", ErrUnreachable, err)
    }
    if resp.StatusCode < 200 || resp.StatusCode >= 300 || !out.Success {
        msg := out.Error
        if msg == "" {
            msg = fmt.Sprintf("gateway returned HTTP %d", resp.StatusCode)
        }
        return nil, &StatusError{Message: msg}
    }
    return &out, nil
}
