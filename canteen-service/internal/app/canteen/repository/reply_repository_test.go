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

func (s *GormRepositoryTestSuite) TestReplyCreate_ReviewGone() {
	ctx := context.Background()
	reply := &entity.Reply{
		ID:        uuid.New(),
		ReviewID:  uuid.New(),
		AuthorID:  "user-1",
		Content:   "Согласен",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "replies"`)).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})
	s.mock.ExpectRollback()

	// Act
	err := s.replies.Create(ctx, reply)

	// Assert
	s.ErrorIs(err, ErrReviewNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestReplyListByReview_OldestFirst() {
	ctx := context.Background()
	reviewID := uuid.New()
	first := time.Now().Add(-time.Hour)
	second := time.Now()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "replies" WHERE review_id = $1`)).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows([]string{"id", "review_id", "author_id", "content", "created_at", "updated_at"}).
		AddRow(uuid.NewString(), reviewID.String(), "user-1", "первый", first, first).
		AddRow(uuid.NewString(), reviewID.String(), "user-2", "второй", second, second)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "replies" WHERE review_id = $1 ORDER BY created_at ASC, id ASC`)).
		WillReturnRows(rows)

	// Act
	replies, total, err := s.replies.ListByReview(ctx, reviewID, entity.NewPageRequest(1, 0, entity.PerPageReplies))

	// Assert
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(replies, 2)
	s.Equal("первый", replies[0].Content)
	s.Equal("второй", replies[1].Content)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestReplyDelete_NotFound() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "replies" WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	// Act
	err := s.replies.Delete(ctx, uuid.New())

	// Assert
	s.ErrorIs(err, ErrReplyNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestReplyUpdate_Success() {
	ctx := context.Background()
	reply := &entity.Reply{ID: uuid.New(), Content: "исправлено", UpdatedAt: time.Now()}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "replies" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.replies.Update(ctx, reply)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}
