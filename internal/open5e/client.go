// Package open5e imports monsters from the Open5e API and converts them into
// creature documents.
package open5e

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/suderio/bestiary/internal/data"
	"github.com/suderio/bestiary/internal/log"
)

const BaseURL = "https://api.open5e.com"

const pageSize = 50

var ErrStatus = errors.New("unexpected response status")

type Client struct {
	BaseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		BaseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchPage downloads one page of the monster listing.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: %s", ErrStatus, pageURL, resp.Status)
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode %s: %w", pageURL, err)
	}
	return &page, nil
}

// Monsters walks the listing, following the next links, and calls fn for
// each monster together with the number of monsters it expects to visit.
// A positive limit stops after that many monsters.
func (c *Client) Monsters(ctx context.Context, limit int, fn func(m Monster, total int) error) error {
	l := log.WithOperation(log.WithComponent("open5e"), "monsters")

	size := pageSize
	if limit > 0 && limit < size {
		size = limit
	}
	q := url.Values{"limit": {strconv.Itoa(size)}}
	next := c.BaseURL + "/v1/monsters/?" + q.Encode()

	seen := 0
	for next != "" {
		page, err := c.FetchPage(ctx, next)
		if err != nil {
			return err
		}
		l.Debug("fetched page", "url", next, "results", len(page.Results), "count", page.Count)

		total := page.Count
		if limit > 0 && limit < total {
			total = limit
		}
		for _, m := range page.Results {
			if limit > 0 && seen >= limit {
				return nil
			}
			if err := fn(m, total); err != nil {
				return err
			}
			seen++
		}

		next = ""
		if page.Next != nil && (limit <= 0 || seen < limit) {
			next = *page.Next
		}
	}
	return nil
}

// Save writes c to <dir>/creatures/<slug>.yaml and returns the path.
func Save(dir string, c *data.Creature) (string, error) {
	path := filepath.Join(dir, "creatures", data.Slug(c.Name)+".yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := data.Encode(f, c); err != nil {
		f.Close()
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	log.WithComponent("open5e").Debug("saved creature", "name", c.Name, "path", path)
	return path, nil
}
