package persistence

import (
	"context"
	"time"

	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCostCenterGateway books payroll amounts into the cost_center_postings table.
// Push and Pull are idempotent per (cost center, payroll) so outbox redelivery is safe.
type GormCostCenterGateway struct {
	db *gorm.DB
}

// NewGormCostCenterGateway creates a new GormCostCenterGateway
func NewGormCostCenterGateway(db *gorm.DB) *GormCostCenterGateway {
	return &GormCostCenterGateway{db: db}
}

// Push books the entry once
func (g *GormCostCenterGateway) Push(ctx context.Context, entry apppayroll.CostCenterEntry) error {
	row := &models.CostCenterPostingModel{
		ID:           uuid.New(),
		TenantID:     entry.TenantID,
		CostCenterID: entry.CostCenterID,
		PayrollID:    entry.PayrollID,
		Account:      entry.Account,
		Amount:       entry.Amount,
		PostedOn:     entry.Date,
		CreatedAt:    time.Now(),
	}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cost_center_id"}, {Name: "payroll_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

// Pull removes the payroll's booking from the cost center
func (g *GormCostCenterGateway) Pull(ctx context.Context, entry apppayroll.CostCenterEntry) error {
	return g.db.WithContext(ctx).
		Where("tenant_id = ? AND cost_center_id = ? AND payroll_id = ?", entry.TenantID, entry.CostCenterID, entry.PayrollID).
		Delete(&models.CostCenterPostingModel{}).Error
}

// ListForCostCenter returns the bookings of one cost center, newest first
func (g *GormCostCenterGateway) ListForCostCenter(ctx context.Context, tenantID, costCenterID uuid.UUID) ([]apppayroll.CostCenterEntry, error) {
	var rows []models.CostCenterPostingModel
	if err := g.db.WithContext(ctx).
		Where("tenant_id = ? AND cost_center_id = ?", tenantID, costCenterID).
		Order("posted_on DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]apppayroll.CostCenterEntry, len(rows))
	for i, r := range rows {
		out[i] = apppayroll.CostCenterEntry{
			TenantID:     r.TenantID,
			CostCenterID: r.CostCenterID,
			PayrollID:    r.PayrollID,
			Amount:       r.Amount,
			Account:      r.Account,
			Date:         r.PostedOn,
		}
	}
	return out, nil
}

var _ apppayroll.CostCenterGateway = (*GormCostCenterGateway)(nil)
