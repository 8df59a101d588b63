package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds flags for risk notifications. Either an incoming webhook or a bot token with a channel.
type Slack struct {
	webhookURL string
	botToken   string
	channel    string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for risk notifications",
			Category:    "Slack",
			Destination: &x.webhookURL,
			Sources:     cli.EnvVars("QABOARD_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token, used instead of a webhook",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("QABOARD_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Channel ID to post to with the bot token",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("QABOARD_SLACK_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("webhook-url.len", len(x.webhookURL)),
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
	)
}

// IsConfigured reports whether notifications are enabled
func (x *Slack) IsConfigured() bool {
	return x.webhookURL != "" || x.botToken != ""
}

// Configure returns nil when Slack is not configured
func (x *Slack) Configure() (*slack.Notifier, error) {
	if !x.IsConfigured() {
		return nil, nil
	}

	var opts []slack.Option
	if x.webhookURL != "" {
		opts = append(opts, slack.WithWebhook(x.webhookURL))
	}
	if x.botToken != "" {
		if x.channel == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "--slack-bot-token requires --slack-channel")
		}
		opts = append(opts, slack.WithBotToken(x.botToken, x.channel))
	}

	n, err := slack.New(opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}
	return n, nil
}
