package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Color constants for table output
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[37m"
)

// addRegistryFlags attaches the registry connection flags shared by every
// subcommand.
func addRegistryFlags(flags *pflag.FlagSet) {
	flags.String("registry-url", "", "Registry URL (overrides host/port)")
	flags.String("registry-host", "localhost", "Registry host")
	flags.Int("registry-port", 8000, "Registry port")
	flags.Int("timeout", 10, "Connection timeout in seconds")
}

// registryClient is a thin JSON client for the registry API.
type registryClient struct {
	baseURL string
	http    *http.Client
}

// newRegistryClient resolves the registry address from command flags.
func newRegistryClient(cmd *cobra.Command) *registryClient {
	baseURL, _ := cmd.Flags().GetString("registry-url")
	if baseURL == "" {
		host, _ := cmd.Flags().GetString("registry-host")
		port, _ := cmd.Flags().GetInt("registry-port")
		baseURL = fmt.Sprintf("http://%s:%d", host, port)
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	return &registryClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// apiError carries the status and detail payload of a failed API call.
type apiError struct {
	StatusCode int
	Detail     string
}

func (e *apiError) Error() string {
	return e.Detail
}

// get performs a GET request and decodes the JSON response into out.
func (c *registryClient) get(path string, out interface{}) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("failed to reach registry at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *registryClient) post(path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to reach registry at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Detail != "" {
			return &apiError{StatusCode: resp.StatusCode, Detail: errResp.Detail}
		}
		return &apiError{
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("registry returned HTTP %d", resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// printJSON pretty-prints v for --json output.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
