// Package fetchutil provides shared HTTP download helpers for
// provisioning steps.
package fetchutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// client is shared by all steps. No timeout: a provisioning run blocks
// on its downloads, and cancellation comes from the caller's context.
var client = &http.Client{}

// Fetch retrieves url and returns the response body.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

// FetchString retrieves url and returns the trimmed response body.
// Used for version endpoints that answer with a single line.
func FetchString(ctx context.Context, url string) (string, error) {
	data, err := Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Download streams url into dest with the given mode.
func Download(ctx context.Context, url, dest string, perm os.FileMode) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return out.Close()
}
