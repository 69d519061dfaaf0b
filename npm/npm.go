// Package npm looks up package versions on an npm registry.
package npm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/mod/semver"
)

type (
	Client struct {
		HTTP     *http.Client
		Registry string
	}

	// Versions maps package names to pinned versions. A package missing
	// from the map resolves to the latest dist-tag.
	Versions map[string]string
)

const (
	DefaultRegistry = "https://registry.npmjs.org"

	latestPath = ".dist-tags.latest"

	maxInFlight = 5
)

var ErrBadVersion = errors.New("not a semantic version")

func NewClient(registry string) *Client {
	if registry == "" {
		registry = DefaultRegistry
	}

	return &Client{HTTP: http.DefaultClient, Registry: strings.TrimSuffix(registry, "/")}
}

func (c *Client) packageURL(name string) string {
	// Scoped names keep the @ but escape the slash.
	return c.Registry + "/" + strings.ReplaceAll(url.PathEscape(name), "%40", "@")
}

// Latest returns the version the registry tags as latest for name.
//
// Non-nil returned error wraps [ErrBadVersion] when the registry answered
// with something that is not a semantic version.
func (c *Client) Latest(ctx context.Context, name string) (string, error) {
	endpoint := c.packageURL(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to prepare GET request to %s: %w", endpoint, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to GET %s: %w", endpoint, err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if rc := resp.StatusCode; rc != http.StatusOK {
		return "", fmt.Errorf("failed to GET %s, status code %d", endpoint, rc)
	}

	fr, err := newFieldReader(resp.Body, latestPath)
	if err != nil {
		return "", err
	}

	v, err := fr.read(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read %s from the %s document: %w", latestPath, name, err)
	}

	version, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("the value at %s for %s is not a string", latestPath, name)
	}

	if !semver.IsValid("v" + strings.TrimPrefix(version, "v")) {
		return "", fmt.Errorf("%s@%q: %w", name, version, ErrBadVersion)
	}

	return strings.TrimPrefix(version, "v"), nil
}

// Pin looks up the latest version of every name concurrently. All lookups
// share one deadline.
func (c *Client) Pin(ctx context.Context, names []string, timeout time.Duration) (Versions, error) {
	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)

		defer cancel()
	}

	var (
		wg  sync.WaitGroup
		mux sync.Mutex
	)

	semaphore := make(chan struct{}, maxInFlight)
	errs := make([]error, len(names))
	out := make(Versions, len(names))

	for i, name := range names {
		i, name := i, name

		wg.Add(1)

		go func() {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			v, err := c.Latest(ctx, name)
			if err != nil {
				errs[i] = fmt.Errorf("failed to fetch the latest version of %s: %w", name, err)

				return
			}

			mux.Lock()
			out[name] = v
			mux.Unlock()
		}()
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return out, nil
}

// Spec renders name@version for npx, falling back to name@latest.
func (v Versions) Spec(name string) string {
	if version, ok := v[name]; ok {
		return name + "@" + version
	}

	return name + "@latest"
}
