package control

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pupil-labs/realtime-go/status"
)

// Client talks to one device's HTTP control surface at http://host:port/api.
// It holds a *http.Client, lazily creating transport connections per
// request the way net/http's default transport pools them; Close releases
// idle connections.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for host:port.
func New(host string, port int) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d/api", host, port),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Close releases idle connections held by the underlying transport.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

type envelope struct {
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, int, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, &ControlTransportError{Op: method + " " + path, Err: err}
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, &ControlTransportError{Op: method + " " + path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &ControlTransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &ControlTransportError{Op: method + " " + path, Err: err}
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, resp.StatusCode, &ControlTransportError{Op: method + " " + path, Err: err}
		}
	}
	return &env, resp.StatusCode, nil
}

// GetStatus fetches the full component list and reduces it into a Status.
func (c *Client) GetStatus(ctx context.Context) (*status.Status, error) {
	env, code, err := c.do(ctx, http.MethodGet, "/status", nil)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, &DeviceError{StatusCode: code, Message: env.Message}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(env.Result, &raw); err != nil {
		return nil, &ControlTransportError{Op: "GET /status", Err: err}
	}

	components := make([]status.Component, 0, len(raw))
	for _, r := range raw {
		comp, err := status.ParseComponent(r)
		if err != nil {
			slog.Warn("control: dropping unknown status component", "error", err)
			continue
		}
		components = append(components, comp)
	}
	return status.FromComponents(components), nil
}

// RecordingStart starts a new recording and returns its id.
func (c *Client) RecordingStart(ctx context.Context) (string, error) {
	env, code, err := c.do(ctx, http.MethodPost, "/recording:start", nil)
	if err != nil {
		return "", err
	}
	if code != http.StatusOK {
		return "", &RecordingStartError{Reason: env.Message}
	}
	var result struct{ ID string `json:"id"` }
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return "", &ControlTransportError{Op: "POST /recording:start", Err: err}
	}
	return result.ID, nil
}

// RecordingStopAndSave stops the active recording and keeps its data.
func (c *Client) RecordingStopAndSave(ctx context.Context) error {
	env, code, err := c.do(ctx, http.MethodPost, "/recording:stop_and_save", nil)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return &RecordingStopError{Reason: env.Message}
	}
	return nil
}

// RecordingCancel stops the active recording and discards its data.
func (c *Client) RecordingCancel(ctx context.Context) error {
	env, code, err := c.do(ctx, http.MethodPost, "/recording:cancel", nil)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return &RecordingStopError{Reason: env.Message}
	}
	return nil
}

// SendEvent posts a named event, optionally pre-stamped with
// timestampUnixNS (pass 0 to let the device stamp on arrival), and returns
// the device's authoritative record of it.
func (c *Client) SendEvent(ctx context.Context, name string, timestampUnixNS int64) (status.Event, error) {
	body := map[string]any{"name": name}
	if timestampUnixNS != 0 {
		body["timestamp"] = timestampUnixNS
	}
	env, code, err := c.do(ctx, http.MethodPost, "/event", body)
	if err != nil {
		return status.Event{}, err
	}
	if code != http.StatusOK {
		return status.Event{}, &ControlTransportError{Op: "POST /event", Err: fmt.Errorf("%s", env.Message)}
	}
	var event status.Event
	if err := json.Unmarshal(env.Result, &event); err != nil {
		return status.Event{}, &ControlTransportError{Op: "POST /event", Err: err}
	}
	return event, nil
}

// GetTemplate fetches the template currently selected on the device.
func (c *Client) GetTemplate(ctx context.Context) (*status.Template, error) {
	env, code, err := c.do(ctx, http.MethodGet, "/template", nil)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, &DeviceError{StatusCode: code, Message: env.Message}
	}
	var tmpl status.Template
	if err := json.Unmarshal(env.Result, &tmpl); err != nil {
		return nil, &ControlTransportError{Op: "GET /template", Err: err}
	}
	return &tmpl, nil
}

// GetTemplateData fetches the answers currently entered on the device, in
// the raw API response_map format (item id to list of string values).
func (c *Client) GetTemplateData(ctx context.Context) (status.Responses, error) {
	env, code, err := c.do(ctx, http.MethodGet, "/template/data", nil)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, &DeviceError{StatusCode: code, Message: env.Message}
	}
	var resp status.Responses
	if err := json.Unmarshal(env.Result, &resp); err != nil {
		return nil, &ControlTransportError{Op: "GET /template/data", Err: err}
	}
	return resp, nil
}

// PostTemplateData submits template answers. The device validates them
// against the currently selected template and reports per-item errors.
func (c *Client) PostTemplateData(ctx context.Context, answers status.Responses) error {
	env, code, err := c.do(ctx, http.MethodPost, "/template/data", answers)
	if err != nil {
		return err
	}
	if code == http.StatusOK {
		return nil
	}
	var errs struct {
		Errors []status.ItemError `json:"errors"`
	}
	if len(env.Result) > 0 {
		_ = json.Unmarshal(env.Result, &errs)
	}
	return &status.InvalidTemplateAnswersError{Errors: errs.Errors}
}

// GetCalibration fetches and parses the device's factory calibration blob.
func (c *Client) GetCalibration(ctx context.Context) (*Calibration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/calibration", nil)
	if err != nil {
		return nil, &ControlTransportError{Op: "GET /calibration", Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ControlTransportError{Op: "GET /calibration", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DeviceError{StatusCode: resp.StatusCode, Message: "failed to fetch calibration"}
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ControlTransportError{Op: "GET /calibration", Err: err}
	}
	return ParseCalibration(raw)
}

// DeviceErrorReport is one entry from GET /errors.
type DeviceErrorReport struct {
	Message   string `json:"message"`
	Component string `json:"component,omitempty"`
}

// GetErrors fetches the device's current error list.
func (c *Client) GetErrors(ctx context.Context) ([]DeviceErrorReport, error) {
	env, code, err := c.do(ctx, http.MethodGet, "/errors", nil)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, &DeviceError{StatusCode: code, Message: env.Message}
	}
	var errs []DeviceErrorReport
	if err := json.Unmarshal(env.Result, &errs); err != nil {
		return nil, &ControlTransportError{Op: "GET /errors", Err: err}
	}
	return errs, nil
}
