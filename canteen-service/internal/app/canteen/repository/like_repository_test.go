package repository

import (
	"context"
	"regexp"
	"time"

	"canteenscore/canteen-service/internal/app/canteen/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func newTestLike(reviewID uuid.UUID, authorID string) *entity.Like {
	return &entity.Like{
		ID:        uuid.New(),
		ReviewID:  reviewID,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}
}

func (s *GormRepositoryTestSuite) TestLikeToggle_InsertsWhenAbsent() {
	ctx := context.Background()
	reviewID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "likes"`) + `.*ON CONFLICT.*DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "likes" WHERE review_id = $1`)).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	s.mock.ExpectCommit()

	// Act
	action, count, err := s.likes.Toggle(ctx, newTestLike(reviewID, "user-x"))

	// Assert
	s.NoError(err)
	s.Equal(entity.LikeActionLiked, action)
	s.Equal(int64(1), count)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestLikeToggle_ConflictSwitchesToDelete() {
	ctx := context.Background()
	reviewID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "likes"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE review_id = $1 AND author_id = $2`)).
		WithArgs(reviewID, "user-x").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "likes" WHERE review_id = $1`)).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectCommit()

	// Act
	action, count, err := s.likes.Toggle(ctx, newTestLike(reviewID, "user-x"))

	// Assert
	s.NoError(err)
	s.Equal(entity.LikeActionUnliked, action)
	s.Equal(int64(0), count)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestLikeToggle_ReviewGone() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "likes"`)).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})
	s.mock.ExpectRollback()

	// Act
	action, count, err := s.likes.Toggle(ctx, newTestLike(uuid.New(), "user-x"))

	// Assert
	s.ErrorIs(err, ErrReviewNotFound)
	s.Empty(action)
	s.Zero(count)
	s.NoError(s.mock.ExpectationsWereMet())
}
