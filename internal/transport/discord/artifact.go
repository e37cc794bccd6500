package discord

import (
	"context"

	"github.com/louisbranch/roster.space/internal/render"
)

// webhookArtifact addresses the roster message through the triggering
// interaction's webhook: reads and writes go to @original, notices go out
// as ephemeral follow-ups.
type webhookArtifact struct {
	client *Client
	appID  string
	token  string
	// inline is the message content delivered with the trigger, used when
	// the live read fails.
	inline string
}

func (a *webhookArtifact) Read(ctx context.Context) (string, error) {
	content, err := a.client.GetOriginal(ctx, a.appID, a.token)
	if err != nil || content == "" {
		return a.inline, nil
	}
	return content, nil
}

func (a *webhookArtifact) Write(ctx context.Context, v render.View) error {
	return a.client.PatchOriginal(ctx, a.appID, a.token, viewData(v))
}

func (a *webhookArtifact) NotifyActor(ctx context.Context, text string) error {
	return a.client.PostFollowup(ctx, a.appID, a.token, &responseData{
		Content:         text,
		AllowedMentions: noMentions(),
	})
}

// channelArtifact addresses the roster message directly by channel and
// message id with the bot token. Admin panel interactions use it because
// their webhook points at the ephemeral panel, not the roster message.
type channelArtifact struct {
	client    *Client
	channelID string
	messageID string
	// appID and token belong to the panel interaction; notices still flow
	// back to the acting admin.
	appID string
	token string
}

func (a *channelArtifact) Read(ctx context.Context) (string, error) {
	return a.client.GetMessage(ctx, a.channelID, a.messageID)
}

func (a *channelArtifact) Write(ctx context.Context, v render.View) error {
	return a.client.EditMessage(ctx, a.channelID, a.messageID, viewData(v))
}

func (a *channelArtifact) NotifyActor(ctx context.Context, text string) error {
	return a.client.PostFollowup(ctx, a.appID, a.token, &responseData{
		Content:         text,
		AllowedMentions: noMentions(),
	})
}
