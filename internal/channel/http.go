package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/casekit/caseflow/internal/domain"
)

// defaultHTTPTimeout bounds manufacturer API calls when the caller supplies
// no client of its own.
const defaultHTTPTimeout = 30 * time.Second

// EndpointResolver maps a manufacturer ID to its API base URL.
// domain.ManufacturerRegistry satisfies the lookup through RegistryResolver.
type EndpointResolver interface {
	Endpoint(manufacturerID string) (string, error)
}

// RegistryResolver resolves endpoints from the manufacturer registry.
type RegistryResolver struct {
	Registry *domain.ManufacturerRegistry
}

// Endpoint returns the registered APIURL for the manufacturer.
func (r RegistryResolver) Endpoint(manufacturerID string) (string, error) {
	m, err := r.Registry.Get(manufacturerID)
	if err != nil {
		return "", err
	}
	if m.APIURL == "" {
		return "", fmt.Errorf("%w: manufacturer %s has no API endpoint", domain.ErrChannel, manufacturerID)
	}
	return m.APIURL, nil
}

// TaskRegistrar records task numbers issued by an external system so a
// reissued number surfaces as domain.ErrDuplicateTaskNumber instead of
// silently binding two cases to one task. *TaskNumberAllocator satisfies it.
type TaskRegistrar interface {
	Register(token string) error
}

// HTTPChannel talks to manufacturers that expose a REST case-intake API:
// POST {base}/cases returns {"task_number": "..."} and
// POST {base}/cases/{task}/reminders acknowledges with 2xx.
type HTTPChannel struct {
	client    *http.Client
	resolver  EndpointResolver
	registrar TaskRegistrar
}

var _ Channel = (*HTTPChannel)(nil)

// NewHTTPChannel creates an HTTP channel. A nil client gets a default with a
// bounded timeout; a nil registrar skips task-number uniqueness checks.
func NewHTTPChannel(client *http.Client, resolver EndpointResolver, registrar TaskRegistrar) *HTTPChannel {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPChannel{client: client, resolver: resolver, registrar: registrar}
}

// Submit posts the case text to the manufacturer's intake endpoint and
// returns the issued task number.
func (c *HTTPChannel) Submit(ctx context.Context, manufacturerID, text string) (string, error) {
	base, err := c.resolver.Endpoint(manufacturerID)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(map[string]string{"description": text})
	if err != nil {
		return "", fmt.Errorf("%w: marshal submission: %w", domain.ErrChannel, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/cases", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", domain.ErrChannel, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: submit to %s: %w", domain.ErrChannel, manufacturerID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: submit to %s: status %d: %s",
			domain.ErrChannel, manufacturerID, resp.StatusCode, payload)
	}

	var parsed struct {
		TaskNumber string `json:"task_number"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrChannel, err)
	}
	if parsed.TaskNumber == "" {
		return "", fmt.Errorf("%w: manufacturer %s returned no task number", domain.ErrChannel, manufacturerID)
	}
	if c.registrar != nil {
		if err := c.registrar.Register(parsed.TaskNumber); err != nil {
			return "", fmt.Errorf("manufacturer %s reissued a task number: %w", manufacturerID, err)
		}
	}

	return parsed.TaskNumber, nil
}

// SendReminder posts a reminder for an open task.
func (c *HTTPChannel) SendReminder(ctx context.Context, taskNumber, manufacturerID string) error {
	base, err := c.resolver.Endpoint(manufacturerID)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/cases/%s/reminders", base, taskNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", domain.ErrChannel, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: remind %s: %w", domain.ErrChannel, taskNumber, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: remind %s: status %d: %s",
			domain.ErrChannel, taskNumber, resp.StatusCode, payload)
	}

	return nil
}
