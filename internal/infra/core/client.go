package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"events-app/internal/domain/access"
)

// ErrIdentityUnavailable covers every way the acting user can fail to be
// established: the core service is unreachable, answers with garbage, or
// rejects the token. Callers map it to a 401 and grant nothing.
var ErrIdentityUnavailable = errors.New("identity unavailable")

// Client resolves access tokens into identities against the organization's
// core service, which owns members, bodies and board positions.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *identityCache
	now     func() time.Time
}

func NewClient(baseURL string, ttl time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   newIdentityCache(ttl, 1024),
		now:     time.Now,
	}
}

// member payload of GET /members/me
type memberResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ID         uint `json:"id"`
		Superadmin bool `json:"superadmin"`
		Bodies     []struct {
			ID            uint `json:"id"`
			BoardPosition bool `json:"board_position"`
		} `json:"bodies"`
	} `json:"data"`
}

// Identify resolves the token into an Identity, consulting the TTL cache
// first so a burst of requests from one session costs a single core call.
func (c *Client) Identify(ctx context.Context, token string) (access.Identity, error) {
	if token == "" {
		return access.Identity{}, fmt.Errorf("%w: empty token", ErrIdentityUnavailable)
	}

	key := cacheKey(token)
	if identity, ok := c.cache.get(key, c.now()); ok {
		return identity, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/members/me", nil)
	if err != nil {
		return access.Identity{}, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}
	req.Header.Set("X-Auth-Token", token)

	resp, err := c.http.Do(req)
	if err != nil {
		return access.Identity{}, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return access.Identity{}, fmt.Errorf("%w: core answered %d", ErrIdentityUnavailable, resp.StatusCode)
	}

	var body memberResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return access.Identity{}, fmt.Errorf("%w: malformed response: %v", ErrIdentityUnavailable, err)
	}
	if !body.Success || body.Data.ID == 0 {
		return access.Identity{}, fmt.Errorf("%w: core rejected token", ErrIdentityUnavailable)
	}

	identity := access.Identity{
		ID:         body.Data.ID,
		Superadmin: body.Data.Superadmin,
	}
	for _, b := range body.Data.Bodies {
		identity.Bodies = append(identity.Bodies, b.ID)
		if b.BoardPosition {
			identity.BoardBodies = append(identity.BoardBodies, b.ID)
		}
	}

	c.cache.put(cacheKey(token), identity, c.now())
	return identity, nil
}
