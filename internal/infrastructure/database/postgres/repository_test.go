package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"restaurant-review-api/internal/domain/favorite"
	"restaurant-review-api/internal/domain/review"
	"restaurant-review-api/internal/domain/saved"
	"restaurant-review-api/internal/domain/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	return &DB{DB: gdb}, mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(q(`INSERT INTO "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	u := &user.User{Username: "u1", Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))

	assert.Equal(t, uint(7), u.ID)
	assert.False(t, u.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolations(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{constraint: "idx_users_email", want: user.ErrEmailTaken},
		{constraint: "idx_users_username", want: user.ErrUsernameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepository(db)

			mock.ExpectQuery(q(`INSERT INTO "users"`)).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			err := repo.Create(context.Background(), &user.User{Username: "u1", Email: "a@x.com"})
			assert.ErrorIs(t, err, tt.want)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Create_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(q(`INSERT INTO "users"`)).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &user.User{Username: "u1", Email: "a@x.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create user")
	assert.NotErrorIs(t, err, user.ErrEmailTaken)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
		AddRow(3, "u1", "a@x.com", "hash")
	mock.ExpectQuery(q(`SELECT * FROM "users" WHERE email = $1`)).WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(q(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_FindByEmailOrUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "email"}).
		AddRow(1, "u1", "other@x.com").
		AddRow(2, "u2", "a@x.com")
	mock.ExpectQuery(q(`SELECT * FROM "users" WHERE email = $1 OR username = $2`)).
		WithArgs("a@x.com", "u1").
		WillReturnRows(rows)

	got, err := repo.FindByEmailOrUsername(context.Background(), "a@x.com", "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].Username)
	assert.Equal(t, "a@x.com", got[1].Email)
}

func TestUserRepository_ChangePassword_BurnsTokens(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE "users" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`UPDATE "password_reset_tokens" SET`) + `.*` + q(`WHERE user_id = $`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.ChangePassword(context.Background(), 5, "new-hash", time.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ChangePassword_UnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE "users" SET`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ChangePassword(context.Background(), 5, "new-hash", time.Now())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateWithAllergies(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE "users" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`DELETE FROM "user_allergies" WHERE user_id = $1`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`INSERT INTO "user_allergies"`)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	u := &user.User{ID: 5, Email: "a@x.com"}
	require.NoError(t, repo.UpdateWithAllergies(context.Background(), u, []uint{1, 2}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateWithAllergies_RollsBackProfile(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE "users" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`DELETE FROM "user_allergies"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q(`INSERT INTO "user_allergies"`)).WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	u := &user.User{ID: 5, Email: "a@x.com"}
	err := repo.UpdateWithAllergies(context.Background(), u, []uint{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store allergies")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_Consume(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResetTokenRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE "users" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`UPDATE "password_reset_tokens" SET`) + `.*` + q(`WHERE id = $`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`UPDATE "password_reset_tokens" SET`) + `.*` + q(`WHERE user_id = $`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tok := &user.PasswordResetToken{ID: 10, UserID: 5}
	require.NoError(t, repo.Consume(context.Background(), tok, "new-hash", time.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_Consume_AlreadyUsedRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResetTokenRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE "users" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`UPDATE "password_reset_tokens" SET`) + `.*` + q(`WHERE id = $`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tok := &user.PasswordResetToken{ID: 10, UserID: 5}
	err := repo.Consume(context.Background(), tok, "new-hash", time.Now())
	assert.ErrorIs(t, err, user.ErrResetTokenConsumed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_Consume_SiblingFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResetTokenRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE "users" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`UPDATE "password_reset_tokens" SET`) + `.*` + q(`WHERE id = $`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`UPDATE "password_reset_tokens" SET`) + `.*` + q(`WHERE user_id = $`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	tok := &user.PasswordResetToken{ID: 10, UserID: 5}
	err := repo.Consume(context.Background(), tok, "new-hash", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepository_GetByToken_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResetTokenRepository(db)

	mock.ExpectQuery(q(`SELECT * FROM "password_reset_tokens" WHERE token = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByToken(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, user.ErrResetTokenNotFound)
}

func TestResetTokenRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResetTokenRepository(db)

	mock.ExpectQuery(q(`INSERT INTO "password_reset_tokens"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	tok := &user.PasswordResetToken{UserID: 5, Token: "abc", ExpiresAt: time.Now().Add(time.Minute), Used: true}
	require.NoError(t, repo.Create(context.Background(), tok))
	assert.Equal(t, uint(11), tok.ID)
	assert.False(t, tok.Used)
}

func TestResetTokenRepository_Stats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResetTokenRepository(db)

	countQuery := q(`SELECT count(*) FROM "password_reset_tokens"`)
	mock.ExpectQuery(countQuery).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(countQuery).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(countQuery).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	stats, err := repo.Stats(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, user.ResetTokenStats{Active: 2, Expired: 3, Used: 4}, *stats)
}

func TestFavoriteRepository_AddMenu_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	mock.ExpectQuery(q(`INSERT INTO "user_favorites"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_user_favorites_user_menu"})

	err := repo.AddMenu(context.Background(), &favorite.MenuFavorite{UserID: 1, MenuID: 2})
	assert.ErrorIs(t, err, favorite.ErrAlreadyFavorited)
}

func TestFavoriteRepository_RemoveRestaurant_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	mock.ExpectExec(q(`DELETE FROM "restaurant_favorites" WHERE user_id = $1 AND restaurant_id = $2`)).
		WithArgs(1, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RemoveRestaurant(context.Background(), 1, 9)
	assert.ErrorIs(t, err, favorite.ErrFavoriteNotFound)
}

func TestSavedRepository_Add_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSavedRepository(db)

	mock.ExpectQuery(q(`INSERT INTO "user_saved"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_user_saved_user_menu"})

	err := repo.Add(context.Background(), &saved.Item{UserID: 1, Kind: saved.KindMenu, TargetID: 2})
	assert.ErrorIs(t, err, saved.ErrAlreadySaved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedRepository_Add_Restaurant(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSavedRepository(db)

	mock.ExpectQuery(q(`INSERT INTO "restaurant_saved"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	item := &saved.Item{UserID: 1, Kind: saved.KindRestaurant, TargetID: 3}
	require.NoError(t, repo.Add(context.Background(), item))
	assert.Equal(t, uint(11), item.ID)
	assert.False(t, item.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedRepository_UnknownKind(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSavedRepository(db)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Add(ctx, &saved.Item{UserID: 1, Kind: "dish", TargetID: 2}), saved.ErrUnknownKind)
	assert.ErrorIs(t, repo.Remove(ctx, 1, "dish", 2), saved.ErrUnknownKind)
	_, err := repo.List(ctx, 1, "dish")
	assert.ErrorIs(t, err, saved.ErrUnknownKind)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavedRepository_Remove_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSavedRepository(db)

	mock.ExpectExec(q(`DELETE FROM "user_saved" WHERE user_id = $1 AND menu_id = $2`)).
		WithArgs(1, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Remove(context.Background(), 1, saved.KindMenu, 9)
	assert.ErrorIs(t, err, saved.ErrNotSaved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectExec(q(`DELETE FROM "reviews" WHERE id = $1`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 4), review.ErrReviewNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(q(`SELECT * FROM "reviews" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 4)
	assert.ErrorIs(t, err, review.ErrReviewNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByMenu(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q(`SELECT count(*) FROM "reviews" WHERE menu_id = $1`)).
		WithArgs(30).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(q(`SELECT * FROM "reviews" WHERE menu_id = $1 ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "menu_id", "rating", "comment", "created_at", "updated_at"}).
			AddRow(8, 5, 30, 4, "crisp", created, created))
	mock.ExpectQuery(q(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(5, "u5"))

	page, err := repo.ListByMenu(context.Background(), 30, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(21), page.Total)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, "crisp", page.Reviews[0].Comment)
	require.NotNil(t, page.Reviews[0].Author)
	assert.Equal(t, "u5", page.Reviews[0].Author.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIngredientRepository_AddUserAllergy_Idempotent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewIngredientRepository(db)

	mock.ExpectExec(q(`INSERT INTO "user_allergies"`) + `.*` + q(`ON CONFLICT DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.AddUserAllergy(context.Background(), 1, 4))
	require.NoError(t, mock.ExpectationsWereMet())
}
