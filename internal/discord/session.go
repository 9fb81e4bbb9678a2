package discord

import (
	"github.com/bwmarrin/discordgo"
)

// WebhookSession defines the Discord operations used to post reports
type WebhookSession interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSession implements WebhookSession using discordgo.Session
type DiscordSession struct {
	*discordgo.Session
}

// NewSession creates a session for webhook calls. Webhooks carry their own
// token, so no bot token is needed.
func NewSession() (*DiscordSession, error) {
	s, err := discordgo.New("")
	if err != nil {
		return nil, err
	}
	return &DiscordSession{Session: s}, nil
}

// Ensure DiscordSession implements WebhookSession
var _ WebhookSession = (*DiscordSession)(nil)

// WebhookExecute implements WebhookSession
func (s *DiscordSession) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return s.Session.WebhookExecute(webhookID, token, wait, data, options...)
}
