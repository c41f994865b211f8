package schema_registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Aleph-Alpha/schemasync/v1/schema_registry"

// HTTPClient talks to a Confluent compatible Schema Registry over REST.
// Apicurio works through its ccompat API (Config.ApicurioCompat).
//
// HTTPClient performs exactly one HTTP request per call. Retries and caching
// are layered on by WithRetry and WithCache, see NewFromConfig.
type HTTPClient struct {
	url        string
	httpClient *http.Client

	// Authentication
	username string
	password string
	token    string
}

type registerResponse struct {
	ID int `json:"id"`
}

type compatibilityResponse struct {
	IsCompatible bool `json:"is_compatible"`
}

type configRequest struct {
	Compatibility CompatibilityLevel `json:"compatibility"`
}

// NewClient creates a new HTTP schema registry client.
// Returns the concrete *HTTPClient type.
func NewClient(config Config) (*HTTPClient, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("schema registry URL is required")
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	base := strings.TrimSuffix(config.URL, "/")
	if config.ApicurioCompat && !strings.Contains(base, "/apis/ccompat/") {
		base += apicurioCompatPath
	}

	return &HTTPClient{
		url: base,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		username: config.Username,
		password: config.Password,
		token:    config.Token,
	}, nil
}

// LookupLatest retrieves the latest version of a schema for a subject.
func (c *HTTPClient) LookupLatest(ctx context.Context, subject string) (*RegisteredSchema, error) {
	var registered RegisteredSchema
	path := fmt.Sprintf("/subjects/%s/versions/latest", url.PathEscape(subject))
	if err := c.do(ctx, http.MethodGet, path, nil, &registered); err != nil {
		return nil, err
	}

	registered.Subject = subject
	registered.SchemaType = registered.SchemaType.Normalize()
	return &registered, nil
}

// Register registers schema under subject and returns the stored version.
// The registry answers the registration with the id only, so a lookup of the
// same content follows to learn the version.
func (c *HTTPClient) Register(ctx context.Context, subject string, schema Schema) (*RegisteredSchema, error) {
	payload := wireSchema(schema)

	var registered registerResponse
	path := fmt.Sprintf("/subjects/%s/versions", url.PathEscape(subject))
	if err := c.do(ctx, http.MethodPost, path, payload, &registered); err != nil {
		return nil, err
	}

	var found RegisteredSchema
	path = fmt.Sprintf("/subjects/%s", url.PathEscape(subject))
	if err := c.do(ctx, http.MethodPost, path, payload, &found); err != nil {
		return nil, fmt.Errorf("lookup registered schema %d: %w", registered.ID, err)
	}

	found.Subject = subject
	found.ID = registered.ID
	found.SchemaType = schema.SchemaType.Normalize()
	if found.Schema == "" {
		found.Schema = schema.Schema
	}
	return &found, nil
}

// TestCompatibility checks if a schema is compatible with the latest version of subject.
func (c *HTTPClient) TestCompatibility(ctx context.Context, subject string, schema Schema) (bool, error) {
	var result compatibilityResponse
	path := fmt.Sprintf("/compatibility/subjects/%s/versions/latest", url.PathEscape(subject))
	if err := c.do(ctx, http.MethodPost, path, wireSchema(schema), &result); err != nil {
		return false, err
	}
	return result.IsCompatible, nil
}

// SetCompatibilityLevel sets the subject level compatibility config.
func (c *HTTPClient) SetCompatibilityLevel(ctx context.Context, subject string, level CompatibilityLevel) error {
	path := fmt.Sprintf("/config/%s", url.PathEscape(subject))
	var result configRequest
	return c.do(ctx, http.MethodPut, path, configRequest{Compatibility: level}, &result)
}

// GetSchemaByID retrieves a schema from the registry by its global id.
func (c *HTTPClient) GetSchemaByID(ctx context.Context, id int) (*Schema, error) {
	var schema Schema
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/schemas/ids/%d", id), nil, &schema); err != nil {
		return nil, err
	}
	schema.SchemaType = schema.SchemaType.Normalize()
	return &schema, nil
}

// Close is a no-op; the HTTP transport is managed by the Go runtime.
func (c *HTTPClient) Close() error {
	return nil
}

// wireSchema omits the type tag for AVRO, which is what registries expect.
func wireSchema(schema Schema) Schema {
	out := schema
	if out.SchemaType.Normalize() == SchemaTypeAvro {
		out.SchemaType = ""
	}
	return out
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out interface{}) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "schema_registry "+method, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", contentType)
	if in != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRegistryUnavailable, method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrRegistryUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
