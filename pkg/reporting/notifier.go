package reporting

import (
	"github.com/fadedpez/cardlab/internal/discord"
)

// Notifier posts finished reports somewhere people will see them
type Notifier interface {
	Notify(report Report) error
	NotifyError(name string, err error) error
}

// DiscordNotifier posts reports through a Discord webhook
type DiscordNotifier struct {
	session   discord.WebhookSession
	webhookID string
	token     string
	username  string
}

// NewDiscordNotifier creates a notifier for the given webhook
func NewDiscordNotifier(session discord.WebhookSession, webhookID, token string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		webhookID: webhookID,
		token:     token,
		username:  "cardlab",
	}
}

// Notify implements Notifier
func (n *DiscordNotifier) Notify(report Report) error {
	return discord.SendMessage(n.session, n.webhookID, n.token, n.username, discord.NewReportMessage(report.Name, report.Lines))
}

// NotifyError implements Notifier
func (n *DiscordNotifier) NotifyError(name string, err error) error {
	return discord.SendMessage(n.session, n.webhookID, n.token, n.username, discord.NewErrorMessage(name, err))
}
