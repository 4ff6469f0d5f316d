package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the media host over its REST API: one multipart POST to
// upload, one form POST to destroy.
type Client struct {
	BaseURL   string
	APIKey    string
	APISecret string
	HTTP      *http.Client
}

func NewClient(baseURL, apiKey, apiSecret string) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    apiKey,
		APISecret: apiSecret,
		HTTP:      &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (*Asset, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("api_key", c.APIKey); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(c.APIKey, c.APISecret)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("media upload: unexpected status %d: %s", resp.StatusCode, body)
	}

	var asset Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return nil, fmt.Errorf("media upload: decode response: %w", err)
	}
	if asset.URL == "" || asset.PublicID == "" {
		return nil, fmt.Errorf("media upload: incomplete response")
	}
	return &asset, nil
}

func (c *Client) Remove(ctx context.Context, publicID, kind string) error {
	if publicID == "" {
		return nil
	}

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("resource_type", kind)
	form.Set("api_key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/destroy", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.APIKey, c.APISecret)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("media destroy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("media destroy: unexpected status %d", resp.StatusCode)
	}
	return nil
}
