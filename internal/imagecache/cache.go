package imagecache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidURL marks a key that does not normalize to an absolute URL.
	ErrInvalidURL = errors.New("invalid image url")
	// ErrInvalidData marks a non-2xx response or a body that is not a
	// decodable image.
	ErrInvalidData = errors.New("invalid image data")
	// ErrCanceled is delivered only to a token that was actively canceled.
	ErrCanceled = errors.New("image request canceled")
	// ErrNetwork wraps transport failures.
	ErrNetwork = errors.New("image fetch failed")
)

// Token identifies one caller's attachment to an image request. The zero
// Token is returned for requests that resolved immediately; canceling it is
// a no-op.
type Token struct {
	id uuid.UUID
}

// Result is the terminal outcome of one caller's request.
type Result struct {
	Data []byte
	Err  error
}

// flight is the single outstanding fetch for a key. Waiters are keyed by
// token so one caller can detach without disturbing its siblings.
type flight struct {
	key     string
	cancel  context.CancelFunc
	waiters map[uuid.UUID]chan Result
}

// Cache serves condition-icon images by URL, fetching each key over the
// network at most once concurrently. Completed images are retained in a
// fixed-capacity LRU; entries are never mutated or deleted by callers.
type Cache struct {
	client *http.Client
	log    zerolog.Logger

	mu      sync.Mutex
	entries *lru.Cache[string, []byte]
	flights map[string]*flight
	tokens  map[uuid.UUID]*flight
}

// New creates a Cache retaining up to capacity images.
func New(capacity int, client *http.Client, log zerolog.Logger) (*Cache, error) {
	entries, err := lru.New[string, []byte](capacity)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Cache{
		client:  client,
		log:     log.With().Str("component", "imagecache").Logger(),
		entries: entries,
		flights: make(map[string]*flight),
		tokens:  make(map[uuid.UUID]*flight),
	}, nil
}

// Request resolves key to an image. A cached key resolves immediately with
// no network I/O. Otherwise the caller attaches to the in-flight fetch for
// the key, starting one if none exists. The returned channel is buffered and
// delivers exactly one Result.
func (c *Cache) Request(key string) (Token, <-chan Result) {
	ch := make(chan Result, 1)

	normalized, err := normalizeKey(key)
	if err != nil {
		ch <- Result{Err: err}
		return Token{}, ch
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.entries.Get(normalized); ok {
		ch <- Result{Data: data}
		return Token{}, ch
	}

	token := Token{id: uuid.New()}

	if f, ok := c.flights[normalized]; ok {
		f.waiters[token.id] = ch
		c.tokens[token.id] = f
		return token, ch
	}

	ctx, cancel := context.WithCancel(context.Background())
	f := &flight{
		key:     normalized,
		cancel:  cancel,
		waiters: map[uuid.UUID]chan Result{token.id: ch},
	}
	c.flights[normalized] = f
	c.tokens[token.id] = f

	go c.fetch(ctx, f)

	return token, ch
}

// Cancel detaches the token's caller from its in-flight fetch. The canceled
// caller receives ErrCanceled; siblings attached to the same key are
// unaffected. When the last caller detaches the underlying fetch is aborted
// and no entry is written. Canceling a completed or zero token is a no-op.
func (c *Cache) Cancel(token Token) {
	if token.id == uuid.Nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.tokens[token.id]
	if !ok {
		return
	}
	delete(c.tokens, token.id)

	if ch, ok := f.waiters[token.id]; ok {
		delete(f.waiters, token.id)
		ch <- Result{Err: ErrCanceled}
	}

	if len(f.waiters) == 0 {
		delete(c.flights, f.key)
		f.cancel()
		c.log.Debug().Str("key", f.key).Msg("last caller detached, fetch aborted")
	}
}

// Len reports the number of retained images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// fetch downloads the flight's key and delivers the result to every caller
// still attached. A flight that was removed by Cancel writes nothing.
func (c *Cache) fetch(ctx context.Context, f *flight) {
	defer f.cancel()

	data, err := c.download(ctx, f.key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.flights[f.key]; !ok || cur != f {
		return
	}
	delete(c.flights, f.key)

	if err == nil {
		c.entries.Add(f.key, data)
	} else {
		c.log.Debug().Err(err).Str("key", f.key).Msg("image fetch failed")
	}

	for id, ch := range f.waiters {
		delete(c.tokens, id)
		ch <- Result{Data: data, Err: err}
	}
}

func (c *Cache) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, ErrInvalidURL
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCanceled
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ErrInvalidData
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		return nil, ErrInvalidData
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, ErrInvalidData
	}
	return data, nil
}

// normalizeKey turns an icon identifier into an absolute URL. Identifiers
// without an explicit scheme (WeatherAPI serves protocol-relative icon
// paths) are treated as secure-HTTPS references.
func normalizeKey(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidURL
	}
	if !strings.HasPrefix(raw, "http") {
		raw = "https:" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidURL
	}
	return u.String(), nil
}
