package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultOllamaURL = "http://127.0.0.1:11434"
	DefaultTimeout   = 5 * time.Minute
)

// client is a minimal HTTP client for the Ollama embedding endpoints. It
// speaks the request/response types of the official API package without
// pulling in the full client machinery.
type client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func newClient(baseURL *url.URL, httpClient *http.Client) (*client, error) {
	if baseURL == nil {
		var err error
		baseURL, err = defaultURL()
		if err != nil {
			return nil, err
		}
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

func defaultURL() (*url.URL, error) {
	host := os.Getenv("OLLAMA_URL")
	if host == "" {
		host = DefaultOllamaURL
	}

	baseURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OLLAMA_URL: %w", err)
	}

	return baseURL, nil
}

func (c *client) Embed(ctx context.Context, req *api.EmbedRequest) (*api.EmbedResponse, error) {
	var resp api.EmbedResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/embed", req, &resp); err != nil {
		return nil, fmt.Errorf("embed request failed: %w", err)
	}
	return &resp, nil
}

func (c *client) Show(ctx context.Context, req *api.ShowRequest) (*api.ShowResponse, error) {
	var resp api.ShowResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/show", req, &resp); err != nil {
		return nil, fmt.Errorf("show model request failed: %w", err)
	}
	return &resp, nil
}

func (c *client) doRequest(ctx context.Context, method, path string, reqData, respData any) error {
	var body io.Reader
	if reqData != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(reqData); err != nil {
			return fmt.Errorf("failed to encode request data: %w", err)
		}
		body = buf
	}

	requestURL := c.baseURL.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, method, requestURL.String(), body)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer response.Body.Close()

	if err := checkError(response); err != nil {
		return err
	}

	if respData != nil {
		if err := json.NewDecoder(response.Body).Decode(respData); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func checkError(response *http.Response) error {
	if response.StatusCode < http.StatusBadRequest {
		return nil
	}

	var apiError struct {
		Error string `json:"error"`
	}

	if err := json.NewDecoder(response.Body).Decode(&apiError); err != nil {
		return fmt.Errorf("ollama API error (status %d): %s", response.StatusCode, http.StatusText(response.StatusCode))
	}

	return fmt.Errorf("ollama API error (status %d): %s", response.StatusCode, apiError.Error)
}
