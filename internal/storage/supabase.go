package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// publicPathPrefix marks public object URLs issued by Supabase Storage.
const publicPathPrefix = "/storage/v1/object/public/"

// SupabaseStore talks to the Supabase Storage REST API for a single bucket.
type SupabaseStore struct {
	baseURL    string
	bucket     string
	serviceKey string
	httpClient *http.Client
}

// SupabaseConfig holds the connection settings for a Supabase project.
type SupabaseConfig struct {
	// BaseURL is the project URL, e.g. https://<project>.supabase.co.
	BaseURL string
	// Bucket is the storage bucket holding avatars.
	Bucket string
	// ServiceKey is the service-role API key used for writes.
	ServiceKey string
	// Timeout bounds each HTTP call; zero means a 30s default.
	Timeout time.Duration
}

// NewSupabaseStore creates a SupabaseStore for the configured bucket.
func NewSupabaseStore(cfg SupabaseConfig) *SupabaseStore {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SupabaseStore{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		bucket:     strings.TrimSpace(cfg.Bucket),
		serviceKey: strings.TrimSpace(cfg.ServiceKey),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Upload stores the object under key with overwrite-allowed semantics.
func (s *SupabaseStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("storage: new upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage: upload %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("storage: upload %s: status=%d body=%s", key, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// Delete removes the object under key.
func (s *SupabaseStore) Delete(ctx context.Context, key string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("storage: new delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("storage: delete %s: status=%d body=%s", key, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// PublicURL returns the stable public URL for a key.
func (s *SupabaseStore) PublicURL(key string) string {
	return fmt.Sprintf("%s%s%s/%s", s.baseURL, publicPathPrefix, s.bucket, key)
}

// KeyFromPublicURL extracts the storage key from a public URL issued by this
// store's bucket. URLs from elsewhere return false.
func (s *SupabaseStore) KeyFromPublicURL(url string) (string, bool) {
	marker := publicPathPrefix + s.bucket + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "", false
	}
	key := url[idx+len(marker):]
	if q := strings.IndexByte(key, '?'); q >= 0 {
		key = key[:q]
	}
	if key == "" {
		return "", false
	}
	return key, true
}
