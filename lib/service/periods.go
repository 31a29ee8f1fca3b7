package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/grandlivre/grandlivre/common"
	"github.com/grandlivre/grandlivre/db/models"
)

func (svc *LedgerService) FindPeriod(ctx context.Context, companyID, periodID int64) (*models.AccountingPeriod, error) {
	period := &models.AccountingPeriod{}
	err := svc.DB.NewSelect().
		Model(period).
		Where("company_id = ? AND id = ?", companyID, periodID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPeriodNotFound
	}
	if err != nil {
		return nil, err
	}
	return period, nil
}

func (svc *LedgerService) ListPeriods(ctx context.Context, companyID int64) ([]models.AccountingPeriod, error) {
	periods := []models.AccountingPeriod{}
	err := svc.DB.NewSelect().
		Model(&periods).
		Where("company_id = ?", companyID).
		Order("start_date ASC").
		Scan(ctx)
	return periods, err
}

func (svc *LedgerService) CreatePeriod(ctx context.Context, companyID int64, start, end time.Time) (*models.AccountingPeriod, error) {
	if !start.Before(end) && !start.Equal(end) {
		return nil, fmt.Errorf("period start %s is after end %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	overlapping, err := svc.DB.NewSelect().
		Model((*models.AccountingPeriod)(nil)).
		Where("company_id = ?", companyID).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(ctx)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, ErrPeriodOverlap
	}

	period := &models.AccountingPeriod{
		CompanyID: companyID,
		StartDate: start,
		EndDate:   end,
		Status:    common.PeriodStatusOpen,
	}
	_, err = svc.DB.NewInsert().Model(period).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return period, nil
}

func (svc *LedgerService) ClosePeriod(ctx context.Context, companyID, periodID int64) (*models.AccountingPeriod, error) {
	period, err := svc.FindPeriod(ctx, companyID, periodID)
	if err != nil {
		return nil, err
	}
	if period.Status == common.PeriodStatusClosed {
		return nil, ErrPeriodClosed
	}
	period.Status = common.PeriodStatusClosed
	period.ClosedAt = time.Now()
	_, err = svc.DB.NewUpdate().
		Model(period).
		Column("status", "closed_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return period, nil
}

func (svc *LedgerService) ReopenPeriod(ctx context.Context, companyID, periodID int64) (*models.AccountingPeriod, error) {
	period, err := svc.FindPeriod(ctx, companyID, periodID)
	if err != nil {
		return nil, err
	}
	if period.Status == common.PeriodStatusOpen {
		return nil, ErrPeriodNotClosed
	}
	period.Status = common.PeriodStatusOpen
	period.ClosedAt = time.Time{}
	_, err = svc.DB.NewUpdate().
		Model(period).
		Column("status", "closed_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return period, nil
}

// IsDateInOpenPeriod reports whether an entry dated on the given day may be
// posted. Dates outside any declared period are allowed; only dates inside
// a closed period are locked.
func (svc *LedgerService) IsDateInOpenPeriod(ctx context.Context, companyID int64, date time.Time) (bool, error) {
	closed, err := svc.DB.NewSelect().
		Model((*models.AccountingPeriod)(nil)).
		Where("company_id = ?", companyID).
		Where("status = ?", common.PeriodStatusClosed).
		Where("start_date <= ? AND end_date >= ?", date, date).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return closed == 0, nil
}
