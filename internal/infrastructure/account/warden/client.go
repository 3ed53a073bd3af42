package warden

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/ostvik/league-hub/internal/domain/user"
	"github.com/ostvik/league-hub/internal/platform/logging"
	"github.com/ostvik/league-hub/internal/platform/resilience"
	"github.com/ostvik/league-hub/internal/usecase"
)

const permissionManageRosterLocks = "roster_locks.manage"

var errWardenTransient = errors.New("warden transient failure")

// Client talks to warden, the account service that owns identity and
// permissions. Lock toggles and auth middleware both route through it.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	permissionURL string
	adminKey      string
	breaker       *resilience.CircuitBreaker
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, baseURL, adminKey string, breakerCfg resilience.CircuitBreakerConfig, logger *logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	var breaker *resilience.CircuitBreaker
	if breakerCfg.Enabled {
		cfg := resilience.NormalizeCircuitBreakerConfig(breakerCfg)
		breaker = resilience.NewCircuitBreaker(cfg.FailureThreshold, cfg.OpenTimeout, cfg.HalfOpenMaxReq)
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(baseURL, "/v1/auth/introspect"),
		permissionURL: buildURL(baseURL, "/v1/auth/check"),
		adminKey:      adminKey,
		breaker:       breaker,
		logger:        logger,
	}
}

// VerifyAccessToken resolves a bearer token into the caller's principal.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	var decoded introspectResponse
	err := c.call(ctx, c.introspectURL, introspectRequest{Token: token}, &decoded)
	if err != nil {
		if errors.Is(err, errWardenTransient) {
			return user.Principal{}, fmt.Errorf("%w: warden unavailable", usecase.ErrDependencyUnavailable)
		}
		return user.Principal{}, err
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID: decoded.UserID,
		Alias:  decoded.Alias,
		Roles:  decoded.Roles,
	}, nil
}

// CanManageRosterLocks asks warden whether the actor holds the roster
// lock permission.
func (c *Client) CanManageRosterLocks(ctx context.Context, actorID string) (bool, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return false, nil
	}

	var decoded permissionResponse
	err := c.call(ctx, c.permissionURL, permissionRequest{
		UserID:     actorID,
		Permission: permissionManageRosterLocks,
	}, &decoded)
	if err != nil {
		if errors.Is(err, errWardenTransient) {
			return false, fmt.Errorf("%w: warden unavailable", usecase.ErrDependencyUnavailable)
		}
		return false, err
	}

	return decoded.Allowed, nil
}

func (c *Client) call(ctx context.Context, url string, payload, out any) error {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return fmt.Errorf("%w: %v", errWardenTransient, err)
		}
	}

	err := c.doCall(ctx, url, payload, out)
	if c.breaker != nil {
		if errors.Is(err, errWardenTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}

	return err
}

func (c *Client) doCall(ctx context.Context, url string, payload, out any) error {
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal warden request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("create warden request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errWardenTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: warden denied the request", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read warden response: %v", errWardenTransient, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.WarnContext(ctx, "warden returned server error",
			"status_code", resp.StatusCode,
		)
		return fmt.Errorf("%w: warden status %d", errWardenTransient, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("warden request failed with status %d", resp.StatusCode)
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal warden response: %w", err)
	}

	return nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool     `json:"active"`
	UserID string   `json:"user_id"`
	Alias  string   `json:"alias"`
	Roles  []string `json:"roles"`
}

type permissionRequest struct {
	UserID     string `json:"user_id"`
	Permission string `json:"permission"`
}

type permissionResponse struct {
	Allowed bool `json:"allowed"`
}
