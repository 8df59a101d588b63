package slack

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"github.com/slack-go/slack"
)

// Notifier posts a message when a risk enters the matrix, through an incoming
// webhook or a bot token.
type Notifier struct {
	webhookURL string
	httpClient *http.Client

	token   string
	channel string
	apiURL  string
	api     *slack.Client
}

var _ interfaces.RiskNotifier = &Notifier{}

type Option func(*Notifier)

// WithWebhook posts through an incoming webhook URL
func WithWebhook(url string) Option {
	return func(n *Notifier) {
		n.webhookURL = url
	}
}

// WithBotToken posts to channel with chat.postMessage
func WithBotToken(token, channel string) Option {
	return func(n *Notifier) {
		n.token = token
		n.channel = channel
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		n.httpClient = c
	}
}

// WithAPIURL overrides the Slack Web API endpoint
func WithAPIURL(url string) Option {
	return func(n *Notifier) {
		n.apiURL = url
	}
}

func New(opts ...Option) (*Notifier, error) {
	n := &Notifier{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(n)
	}

	switch {
	case n.webhookURL != "":
	case n.token != "":
		if n.channel == "" {
			return nil, goerr.New("Slack channel is required with a bot token")
		}
		apiOpts := []slack.Option{slack.OptionHTTPClient(n.httpClient)}
		if n.apiURL != "" {
			apiOpts = append(apiOpts, slack.OptionAPIURL(n.apiURL))
		}
		n.api = slack.New(n.token, apiOpts...)
	default:
		return nil, goerr.New("Slack webhook URL or bot token is required")
	}

	return n, nil
}

// severityColors are attachment bar colors per band
var severityColors = map[types.Severity]string{
	types.SeverityGreen:  "#2eb886",
	types.SeverityYellow: "#f2c744",
	types.SeverityOrange: "#f2952f",
	types.SeverityRed:    "#d50200",
}

func buildAttachment(risk *model.Risk) slack.Attachment {
	return slack.Attachment{
		Color:    severityColors[risk.Severity()],
		Title:    fmt.Sprintf("%s: %s", risk.ID, risk.Description),
		Fallback: fmt.Sprintf("Risk %s added with score %d", risk.ID, risk.Score()),
		Fields: []slack.AttachmentField{
			{Title: "Likelihood", Value: strconv.Itoa(int(risk.Likelihood)), Short: true},
			{Title: "Impact", Value: strconv.Itoa(int(risk.Impact)), Short: true},
			{Title: "Score", Value: strconv.Itoa(risk.Score()), Short: true},
			{Title: "Severity", Value: risk.Severity().String(), Short: true},
		},
	}
}

func (n *Notifier) NotifyRiskAdded(ctx context.Context, risk *model.Risk) error {
	text := fmt.Sprintf("Risk *%s* was added to the risk matrix", risk.ID)
	attachment := buildAttachment(risk)

	if n.webhookURL != "" {
		msg := &slack.WebhookMessage{
			Text:        text,
			Attachments: []slack.Attachment{attachment},
		}
		if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
			return goerr.Wrap(err, "failed to post Slack webhook", goerr.V(model.RiskIDKey, risk.ID))
		}
		return nil
	}

	if _, _, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAttachments(attachment),
	); err != nil {
		return goerr.Wrap(err, "failed to post Slack message",
			goerr.V(model.RiskIDKey, risk.ID),
			goerr.V("channel", n.channel))
	}
	return nil
}
