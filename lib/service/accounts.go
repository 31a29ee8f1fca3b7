package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/grandlivre/grandlivre/db/models"
	"github.com/grandlivre/grandlivre/lib/validation"
	"github.com/grandlivre/grandlivre/pcg"
)

func (svc *LedgerService) FindAccount(ctx context.Context, companyID int64, accountNumber string) (*models.Account, error) {
	account := &models.Account{}
	err := svc.DB.NewSelect().
		Model(account).
		Where("company_id = ? AND account_number = ?", companyID, accountNumber).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (svc *LedgerService) ListAccounts(ctx context.Context, companyID int64, class int, activeOnly bool) ([]models.Account, error) {
	accounts := []models.Account{}
	q := svc.DB.NewSelect().
		Model(&accounts).
		Where("company_id = ?", companyID).
		Order("account_number ASC")
	if class != 0 {
		q = q.Where("class = ?", class)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Scan(ctx)
	return accounts, err
}

// CreateAccount classifies the number and stores the account. The class and
// type columns are always derived, never taken from the caller.
func (svc *LedgerService) CreateAccount(ctx context.Context, companyID int64, accountNumber, name string) (*models.Account, error) {
	classification := pcg.Classify(accountNumber)
	if classification == pcg.Unclassified {
		return nil, fmt.Errorf("account number %q does not map to any account class", accountNumber)
	}

	existing, err := svc.FindAccount(ctx, companyID, accountNumber)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateAccountNumber
	}

	account := &models.Account{
		CompanyID:       companyID,
		AccountNumber:   accountNumber,
		Name:            name,
		Class:           classification.Class,
		Type:            classification.Type,
		IsActive:        true,
		IsDetailAccount: true,
	}
	_, err = svc.DB.NewInsert().Model(account).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// UpdateAccount renames or (de)activates an account. The number and the
// derived class are immutable once created.
func (svc *LedgerService) UpdateAccount(ctx context.Context, companyID int64, accountNumber string, name string, isActive bool) (*models.Account, error) {
	account, err := svc.FindAccount(ctx, companyID, accountNumber)
	if err != nil {
		return nil, err
	}
	account.Name = name
	account.IsActive = isActive
	_, err = svc.DB.NewUpdate().
		Model(account).
		Column("name", "is_active", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// DeactivateAccount is the only removal operation. Accounts referenced by
// entry lines must stay resolvable forever, so there is no delete.
func (svc *LedgerService) DeactivateAccount(ctx context.Context, companyID int64, accountNumber string) (*models.Account, error) {
	account, err := svc.FindAccount(ctx, companyID, accountNumber)
	if err != nil {
		return nil, err
	}
	account.IsActive = false
	_, err = svc.DB.NewUpdate().
		Model(account).
		Column("is_active", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// AccountSnapshot loads the full chart of one company as the immutable view
// validation works against.
func (svc *LedgerService) AccountSnapshot(ctx context.Context, companyID int64) (*validation.AccountSnapshot, error) {
	accounts, err := svc.ListAccounts(ctx, companyID, 0, false)
	if err != nil {
		return nil, err
	}
	snapshot := make([]validation.SnapshotAccount, len(accounts))
	for i, account := range accounts {
		snapshot[i] = validation.SnapshotAccount{
			CompanyID:     account.CompanyID,
			AccountNumber: account.AccountNumber,
			IsActive:      account.IsActive,
		}
	}
	return validation.NewAccountSnapshot(companyID, snapshot), nil
}

// defaultChart is the starter chart of accounts a new company gets. It is a
// pragmatic subset of the standard plan, not the full statutory list;
// companies add detail accounts as they go.
var defaultChart = []struct {
	Number string
	Name   string
}{
	{"101000", "Capital social"},
	{"106100", "Réserve légale"},
	{"120000", "Résultat de l'exercice"},
	{"164000", "Emprunts auprès des établissements de crédit"},
	{"205000", "Logiciels et licences"},
	{"215000", "Installations techniques et matériel"},
	{"218300", "Matériel informatique"},
	{"281500", "Amortissements du matériel"},
	{"310000", "Matières premières"},
	{"370000", "Stocks de marchandises"},
	{"401000", "Fournisseurs"},
	{"404000", "Fournisseurs d'immobilisations"},
	{"411000", "Clients"},
	{"421000", "Personnel, rémunérations dues"},
	{"431000", "Sécurité sociale"},
	{"445620", "TVA déductible sur immobilisations"},
	{"445660", "TVA déductible sur autres biens et services"},
	{"445710", "TVA collectée"},
	{"512000", "Banque"},
	{"530000", "Caisse"},
	{"601000", "Achats de matières premières"},
	{"607000", "Achats de marchandises"},
	{"613200", "Locations immobilières"},
	{"622600", "Honoraires"},
	{"626000", "Frais postaux et télécommunications"},
	{"641000", "Rémunérations du personnel"},
	{"645000", "Charges de sécurité sociale"},
	{"661100", "Intérêts des emprunts"},
	{"671000", "Charges exceptionnelles sur opérations de gestion"},
	{"681100", "Dotations aux amortissements"},
	{"706000", "Prestations de services"},
	{"707000", "Ventes de marchandises"},
	{"764000", "Revenus des valeurs mobilières"},
	{"771000", "Produits exceptionnels sur opérations de gestion"},
}

// BootstrapChartOfAccounts seeds the default chart for a company. Numbers
// that already exist are left untouched, so the call is idempotent.
func (svc *LedgerService) BootstrapChartOfAccounts(ctx context.Context, companyID int64) (int, error) {
	created := 0
	err := svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, seed := range defaultChart {
			classification := pcg.Classify(seed.Number)
			account := &models.Account{
				CompanyID:       companyID,
				AccountNumber:   seed.Number,
				Name:            seed.Name,
				Class:           classification.Class,
				Type:            classification.Type,
				IsActive:        true,
				IsDetailAccount: true,
			}
			res, err := tx.NewInsert().
				Model(account).
				On("CONFLICT (company_id, account_number) DO NOTHING").
				Exec(ctx)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil && n > 0 {
				created++
			}
		}
		return nil
	})
	return created, err
}
