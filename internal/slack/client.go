// Package slack fetches workspace member names for mention completion.
package slack

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/m96-chan/inkpick/internal/mention"
)

// Client is a thin wrapper around slack.Client with rate-limit retry
// and cached identity information.
type Client struct {
	api      *slack.Client
	UserID   string
	TeamName string
}

// New creates a Client and validates the token via AuthTest.
func New(ctx context.Context, token string, opts ...slack.Option) (*Client, error) {
	if !strings.HasPrefix(token, "xox") {
		return nil, fmt.Errorf("token must be a Slack user or bot token (got %s...)", safePrefix(token))
	}

	api := slack.New(token, opts...)

	var resp *slack.AuthTestResponse
	err := retryOnRateLimit(ctx, func() error {
		var e error
		resp, e = api.AuthTestContext(ctx)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("auth test: %w", err)
	}

	return &Client{
		api:      api,
		UserID:   resp.UserID,
		TeamName: resp.Team,
	}, nil
}

// retryOnRateLimit executes fn and, if a RateLimitedError is returned,
// waits for the requested duration and retries once.
func retryOnRateLimit(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	var rle *slack.RateLimitedError
	if errors.As(err, &rle) {
		select {
		case <-time.After(rle.RetryAfter):
		case <-ctx.Done():
			return ctx.Err()
		}
		return fn()
	}
	return err
}

// Members returns the display names of the active human members of the
// workspace, sorted case-insensitively.
func (c *Client) Members(ctx context.Context) (mention.Directory, error) {
	var users []slack.User
	err := retryOnRateLimit(ctx, func() error {
		var e error
		users, e = c.api.GetUsersContext(ctx)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	names := make(mention.Directory, 0, len(users))
	for _, u := range users {
		if u.Deleted || u.IsBot || u.ID == "USLACKBOT" {
			continue
		}
		if name := DisplayName(u); name != "" {
			names = append(names, name)
		}
	}
	slices.SortStableFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return names, nil
}

// DisplayName picks the name Slack shows for a user: the profile display
// name, then the real name, then the handle.
func DisplayName(u slack.User) string {
	if u.Profile.DisplayName != "" {
		return u.Profile.DisplayName
	}
	if u.RealName != "" {
		return u.RealName
	}
	return u.Name
}

// safePrefix returns the first 10 characters of a token for error messages.
func safePrefix(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:10]
}
