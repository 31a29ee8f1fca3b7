package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/grandlivre/grandlivre/db/models"
)

/* Since this init will reflect the latest model fields when run on a fresh db
make sure that when you add/remove columns in subsequent migrations
IfNotExists/IfExists is used, otherwise it's going to result in errors. */
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		for _, model := range []interface{}{
			(*models.Account)(nil),
			(*models.Journal)(nil),
			(*models.JournalCounter)(nil),
			(*models.AccountingPeriod)(nil),
			(*models.JournalEntry)(nil),
			(*models.JournalEntryLine)(nil),
			(*models.GeneratedReport)(nil),
		} {
			if _, err := db.NewCreateTable().Model(model).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}, nil)
}
