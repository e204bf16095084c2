package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/wheelz27/sharp-sniper/internal/models"
)

const discordEmbedGreen = 3066993

// DiscordNotifier posts ranked plays to a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *retryablehttp.Client
	logger     *logrus.Logger
}

// NewDiscordNotifier returns a webhook-backed notifier.
func NewDiscordNotifier(webhookURL string, logger *logrus.Logger) *DiscordNotifier {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil

	return &DiscordNotifier{
		webhookURL: webhookURL,
		client:     client,
		logger:     logger,
	}
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
	Footer      struct {
		Text string `json:"text"`
	} `json:"footer"`
}

type discordPayload struct {
	Username string         `json:"username"`
	Embeds   []discordEmbed `json:"embeds"`
}

// AlertPlays posts a single embed listing the ranked plays. An empty slice
// is a no-op so quiet days do not ping the channel.
func (n *DiscordNotifier) AlertPlays(ctx context.Context, sport string, plays []models.EdgeResult) error {
	if len(plays) == 0 {
		return nil
	}

	combined := 0.0
	fields := make([]discordField, 0, len(plays))
	for i := range plays {
		p := &plays[i]
		combined += p.EdgeAbs()
		fields = append(fields, discordField{
			Name:  fmt.Sprintf("%d. %s %s (%+.1f)", i+1, p.Confidence, p.PlayTeam(), p.MarketSpreadHome),
			Value: fmt.Sprintf("%s @ %s | Edge: %.1f pts | EV: %+.1f%%", p.AwayTeam, p.HomeTeam, p.EdgeAbs(), p.EVPct),
		})
	}

	embed := discordEmbed{
		Title:       fmt.Sprintf("%d new %s plays identified", len(plays), sport),
		Description: fmt.Sprintf("Combined edge: %.1f pts", combined),
		Color:       discordEmbedGreen,
		Fields:      fields,
	}
	embed.Footer.Text = "sharp-sniper automated alert"

	body, err := json.Marshal(discordPayload{Username: "SHARP SNIPER", Embeds: []discordEmbed{embed}})
	if err != nil {
		return fmt.Errorf("failed to encode alert payload: %w", err)
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.WithFields(logrus.Fields{
		"sport": sport,
		"plays": len(plays),
	}).Info("Discord alert delivered")

	return nil
}
