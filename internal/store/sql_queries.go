package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-kaya/models"
)

var accountColumns = []string{"account_id", "username", "email", "password_hash", "created_at"}

// buildFindIdentityConflictsQuery selects the identities that already hold
// email or username.
func buildFindIdentityConflictsQuery(b sq.StatementBuilderType, email, username string) (string, []any, error) {
	return b.
		Select("email", "username").
		From(models.Account{}.TableName()).
		Where(sq.Or{
			sq.Eq{"email": email},
			sq.Eq{"username": username},
		}).
		ToSql()
}

func buildInsertAccountQuery(b sq.StatementBuilderType, account models.Account) (string, []any, error) {
	return b.
		Insert(account.TableName()).
		Columns("username", "email", "password_hash", "created_at").
		Values(account.Username, account.Email, account.PasswordHash, account.CreatedAt).
		Suffix("RETURNING account_id").
		ToSql()
}

func buildSelectAccountQuery(b sq.StatementBuilderType, where sq.Eq) (string, []any, error) {
	return b.
		Select(accountColumns...).
		From(models.Account{}.TableName()).
		Where(where).
		Limit(1).
		ToSql()
}
