package mock

import (
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

// WebhookSession is a mock implementation of discord.WebhookSession
type WebhookSession struct {
	mock.Mock
}

// WebhookExecute implements discord.WebhookSession
func (s *WebhookSession) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := s.Called(webhookID, token, wait, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}
