// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for the pick ledger.
// Every entry carries the fields needed to reconstruct a betting decision
// after the fact.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: WithComponent(baseLogger, "audit"),
	}
}

// LogPickRecorded logs a pick entering the ledger.
func (al *AuditLogger) LogPickRecorded(pickID, sport, matchup, playSide, team string, lineTaken float64, oddsTaken int, units string, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"pick_id":    pickID,
		"sport":      sport,
		"matchup":    matchup,
		"play_side":  playSide,
		"team":       team,
		"line_taken": lineTaken,
		"odds_taken": oddsTaken,
		"units":      units,
		"timestamp":  timestamp.Unix(),
	}).Info("Pick recorded")
}

// LogPickGraded logs a pick receiving its final result.
func (al *AuditLogger) LogPickGraded(pickID, result string, closingLine, clv float64, profitUnits string) {
	al.WithFields(logrus.Fields{
		"pick_id":      pickID,
		"result":       result,
		"closing_line": closingLine,
		"clv":          clv,
		"profit_units": profitUnits,
	}).Info("Pick graded")
}
