package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/cardlab/internal/types"
)

// ResponseEmoji maps error codes to appropriate emojis
var ResponseEmoji = map[types.ErrorCode]string{
	types.ErrPreconditionViolation: "⚠️",
	types.ErrEmptyDeck:             "🂠",
	types.ErrInvalidIndex:          "📍",
	types.ErrInvalidArgument:       "❗",
	types.ErrConfiguration:         "🔧",
	types.ErrUnboundedRetry:        "♾️",
	types.ErrExperimentFailed:      "🧪",
	types.ErrCancelled:             "⏹️",
	types.ErrDatabaseError:         "💾",
	types.ErrNotFound:              "🔍",
	types.ErrInternalError:         "💥",
}

// Embed colors
const (
	ColorSuccess = 0x2ecc71
	ColorFailure = 0xe74c3c
)

// discord rejects embed descriptions longer than this
const maxDescriptionLength = 4096

// Message is a report ready to be posted through a webhook
type Message struct {
	Title  string
	Lines  []string
	Failed bool
}

// NewReportMessage creates a message from report lines
func NewReportMessage(title string, lines []string) *Message {
	return &Message{
		Title: title,
		Lines: lines,
	}
}

// NewErrorMessage creates a failure message for err
func NewErrorMessage(title string, err error) *Message {
	var expErr *types.ExperimentError
	if types.As(err, &expErr) {
		emoji := ResponseEmoji[expErr.Code]
		if emoji == "" {
			emoji = "❌"
		}
		return &Message{Title: title, Lines: []string{fmt.Sprintf("%s %s", emoji, err.Error())}, Failed: true}
	}
	return &Message{Title: title, Lines: []string{fmt.Sprintf("❌ An error occurred: %v", err)}, Failed: true}
}

// WebhookParams renders the message as a single embed
func (m *Message) WebhookParams(username string, now time.Time) *discordgo.WebhookParams {
	color := ColorSuccess
	if m.Failed {
		color = ColorFailure
	}

	description := strings.Join(m.Lines, "\n")
	if len(description) > maxDescriptionLength {
		description = description[:maxDescriptionLength-3] + "..."
	}

	return &discordgo.WebhookParams{
		Username: username,
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       m.Title,
				Description: description,
				Color:       color,
				Timestamp:   now.UTC().Format(time.RFC3339),
			},
		},
	}
}

// SendMessage posts m through the webhook
func SendMessage(s WebhookSession, webhookID, token, username string, m *Message) error {
	_, err := s.WebhookExecute(webhookID, token, false, m.WebhookParams(username, time.Now()))
	return err
}
