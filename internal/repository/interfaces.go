package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wheelz27/sharp-sniper/internal/models"
)

// PickFilter narrows pick queries. Zero values mean "no constraint".
type PickFilter struct {
	Sport string
	Since time.Time
	// GradedOnly restricts to picks with a final result.
	GradedOnly bool
}

// GradeUpdate carries the values the grading step persists in one
// transaction against a pending record.
type GradeUpdate struct {
	ClosingLine float64
	Result      models.PickResult
	ProfitUnits decimal.Decimal
	CLV         float64
	GradedAt    time.Time
}

// PickRepository defines the interface for pick ledger data access
type PickRepository interface {
	Create(ctx context.Context, pick *models.PickRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PickRecord, error)
	// Grade applies the update to a pick only while it is still pending;
	// models.ErrAlreadyGraded is returned otherwise. Re-grading is an
	// explicit correction flow (new pick row), never a silent overwrite.
	Grade(ctx context.Context, id uuid.UUID, update GradeUpdate) error
	GetPending(ctx context.Context) ([]*models.PickRecord, error)
	List(ctx context.Context, filter PickFilter) ([]*models.PickRecord, error)
}
