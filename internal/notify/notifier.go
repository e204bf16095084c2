// Package notify delivers scan alerts for playable edges.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/wheelz27/sharp-sniper/internal/models"
)

// Notifier delivers the ranked plays from a completed scan.
type Notifier interface {
	AlertPlays(ctx context.Context, sport string, plays []models.EdgeResult) error
}

// LogNotifier writes alerts to the structured log. It is the fallback when
// no webhook is configured.
type LogNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier returns a log-only notifier.
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// AlertPlays logs one line per play.
func (n *LogNotifier) AlertPlays(_ context.Context, sport string, plays []models.EdgeResult) error {
	for i := range plays {
		p := &plays[i]
		n.logger.WithFields(logrus.Fields{
			"sport":      sport,
			"matchup":    p.AwayTeam + " @ " + p.HomeTeam,
			"play":       string(p.PlaySide),
			"edge_pts":   p.EdgeAbs(),
			"confidence": string(p.Confidence),
		}).Info(p.Headline())
	}
	return nil
}
