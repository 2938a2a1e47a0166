// Package phonetic looks up IPA transcriptions for English words.
package phonetic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/thuong-9/pydoan/internal/logger"
)

// DefaultURL is the free dictionary API entries endpoint.
const DefaultURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

const cacheSize = 2048

var errNotFound = errors.New("word not found")

// Client resolves words against a dictionaryapi.dev compatible service.
// Answers, including "no transcription", are cached per normalized word and
// concurrent lookups of one word share a single request.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
	log     *logger.Logger

	cache *lru.Cache[string, string]
	group singleflight.Group
}

func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	cache, _ := lru.New[string, string](cacheSize)
	return &Client{
		base:    strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
		log:     log,
		cache:   cache,
	}
}

// Lookup returns the IPA for word, or "" when none is known or the service
// cannot be reached.
//
// The dictionary is queried with the normalized word so that "Slide" and
// "slide" share one request and one cache entry.
func (c *Client) Lookup(ctx context.Context, word string) string {
	word = strings.TrimSpace(word)
	key := strings.ToLower(word)
	if key == "" {
		return ""
	}
	if ipa, ok := c.cache.Get(key); ok {
		return ipa
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.resolve(ctx, key)
	})
	if err != nil {
		c.log.Warn("phonetic lookup failed", "word", word, "error", err)
		return ""
	}
	ipa := v.(string)
	c.cache.Add(key, ipa)
	return ipa
}

// resolve tries the whole phrase, then its first word. A transport failure
// is returned as an error so the empty answer is not cached.
func (c *Client) resolve(ctx context.Context, word string) (string, error) {
	candidates := []string{word}
	if first, _, found := strings.Cut(word, " "); found && first != "" {
		candidates = append(candidates, first)
	}
	var lastErr error
	for _, w := range candidates {
		ipa, err := c.fetch(ctx, w)
		switch {
		case err == nil && ipa != "":
			return ipa, nil
		case err != nil && !errors.Is(err, errNotFound):
			lastErr = err
		}
	}
	return "", lastErr
}

type entry struct {
	Phonetic  string `json:"phonetic"`
	Phonetics []struct {
		Text string `json:"text"`
	} `json:"phonetics"`
}

func (c *Client) fetch(ctx context.Context, word string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+url.PathEscape(word), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", errNotFound
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("dictionary status %d", resp.StatusCode)
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", errNotFound
	}
	if len(entries) == 0 {
		return "", nil
	}
	if p := strings.TrimSpace(entries[0].Phonetic); p != "" {
		return p, nil
	}
	for _, p := range entries[0].Phonetics {
		if t := strings.TrimSpace(p.Text); t != "" {
			return t, nil
		}
	}
	return "", nil
}
