package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/louisbranch/roster.space/internal/platform/errors"
)

// DefaultBaseURL is the platform's REST API root.
const DefaultBaseURL = "https://discord.com/api/v10"

// defaultCallTimeout bounds each REST call; follow-up writes happen inside
// the webhook deadline or a background goroutine, never unbounded.
const defaultCallTimeout = 4 * time.Second

// Client talks to the platform REST API: webhook follow-ups for
// interaction tokens and bot-token message edits for everything else.
type Client struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
	timeout    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API root. Tests use this.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithCallTimeout overrides the per-call timeout.
func WithCallTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// NewClient returns a REST client. botToken may be empty when only webhook
// endpoints are used.
func NewClient(botToken string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
		botToken:   botToken,
		timeout:    defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOriginal fetches the message this interaction was triggered on.
func (c *Client) GetOriginal(ctx context.Context, appID, token string) (string, error) {
	var m message
	err := c.call(ctx, http.MethodGet,
		fmt.Sprintf("/webhooks/%s/%s/messages/@original", appID, token), "", nil, &m)
	if err != nil {
		return "", err
	}
	return m.Content, nil
}

// PatchOriginal rewrites the interaction's original message.
func (c *Client) PatchOriginal(ctx context.Context, appID, token string, data *responseData) error {
	return c.call(ctx, http.MethodPatch,
		fmt.Sprintf("/webhooks/%s/%s/messages/@original", appID, token), "", data, nil)
}

// PostFollowup sends an ephemeral follow-up visible only to the actor.
func (c *Client) PostFollowup(ctx context.Context, appID, token string, data *responseData) error {
	data.Flags |= flagEphemeral
	return c.call(ctx, http.MethodPost,
		fmt.Sprintf("/webhooks/%s/%s", appID, token), "", data, nil)
}

// GetMessage fetches a channel message by id using the bot token.
func (c *Client) GetMessage(ctx context.Context, channelID, messageID string) (string, error) {
	var m message
	err := c.call(ctx, http.MethodGet,
		fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), c.botAuth(), nil, &m)
	if err != nil {
		return "", err
	}
	return m.Content, nil
}

// EditMessage rewrites a channel message using the bot token.
func (c *Client) EditMessage(ctx context.Context, channelID, messageID string, data *responseData) error {
	return c.call(ctx, http.MethodPatch,
		fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), c.botAuth(), data, nil)
}

// RegisterCommands overwrites the application's command set. An empty
// guildID registers globally.
func (c *Client) RegisterCommands(ctx context.Context, appID, guildID string, commands []Command) error {
	path := fmt.Sprintf("/applications/%s/commands", appID)
	if guildID != "" {
		path = fmt.Sprintf("/applications/%s/guilds/%s/commands", appID, guildID)
	}
	return c.call(ctx, http.MethodPut, path, c.botAuth(), commands, nil)
}

func (c *Client) botAuth() string {
	return "Bot " + c.botToken
}

func (c *Client) call(ctx context.Context, method, path, auth string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeUnknown, "encode request body", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnknown, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "platform api call", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.New(apperrors.CodeStoreUnavailable,
			fmt.Sprintf("platform api %s %s: %d %s", method, path, resp.StatusCode, msg))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.Wrap(apperrors.CodeStoreUnavailable, "decode response body", err)
		}
	}
	return nil
}
