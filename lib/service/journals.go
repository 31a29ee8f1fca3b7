package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/grandlivre/grandlivre/common"
	"github.com/grandlivre/grandlivre/db/models"
)

var journalTypes = map[string]bool{
	common.JournalTypeSale:          true,
	common.JournalTypePurchase:      true,
	common.JournalTypeBank:          true,
	common.JournalTypeCash:          true,
	common.JournalTypeMiscellaneous: true,
}

func (svc *LedgerService) FindJournal(ctx context.Context, companyID int64, code string) (*models.Journal, error) {
	journal := &models.Journal{}
	err := svc.DB.NewSelect().
		Model(journal).
		Where("company_id = ? AND code = ?", companyID, code).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJournalNotFound
	}
	if err != nil {
		return nil, err
	}
	return journal, nil
}

func (svc *LedgerService) ListJournals(ctx context.Context, companyID int64) ([]models.Journal, error) {
	journals := []models.Journal{}
	err := svc.DB.NewSelect().
		Model(&journals).
		Where("company_id = ?", companyID).
		Order("code ASC").
		Scan(ctx)
	return journals, err
}

func (svc *LedgerService) CreateJournal(ctx context.Context, companyID int64, code, name, journalType string) (*models.Journal, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("journal code is required")
	}
	if !journalTypes[journalType] {
		return nil, fmt.Errorf("unknown journal type %q", journalType)
	}

	existing, err := svc.FindJournal(ctx, companyID, code)
	if err != nil && !errors.Is(err, ErrJournalNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateJournalCode
	}

	journal := &models.Journal{
		CompanyID: companyID,
		Code:      code,
		Name:      name,
		Type:      journalType,
		IsActive:  true,
	}
	_, err = svc.DB.NewInsert().Model(journal).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return journal, nil
}

// FindOrCreateJournal backs the importer: unknown journal codes become
// miscellaneous journals named after their code.
func (svc *LedgerService) FindOrCreateJournal(ctx context.Context, companyID int64, code string) (*models.Journal, bool, error) {
	journal, err := svc.FindJournal(ctx, companyID, code)
	if err == nil {
		return journal, false, nil
	}
	if !errors.Is(err, ErrJournalNotFound) {
		return nil, false, err
	}
	journal, err = svc.CreateJournal(ctx, companyID, code, code, common.JournalTypeMiscellaneous)
	if err != nil {
		return nil, false, err
	}
	return journal, true, nil
}
