package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"canteenscore/canteen-service/internal/app/canteen/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormRepositoryTestSuite - репозитории отзывов, лайков и ответов поверх sqlmock
type GormRepositoryTestSuite struct {
	suite.Suite
	db      *gorm.DB
	mock    sqlmock.Sqlmock
	sqlDB   *sql.DB
	reviews ReviewRepository
	likes   LikeRepository
	replies ReplyRepository
}

func TestGormRepositorySuite(t *testing.T) {
	suite.Run(t, new(GormRepositoryTestSuite))
}

func (s *GormRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.reviews = NewReviewRepository(s.db)
	s.likes = NewLikeRepository(s.db)
	s.replies = NewReplyRepository(s.db)
}

func (s *GormRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

var reviewRowColumns = []string{
	"id", "item_id", "author_id",
	"overall_rating", "taste_rating", "portion_rating", "value_rating", "service_rating",
	"content", "images", "created_at", "updated_at",
}

// ===================== Review GetByID =====================

func (s *GormRepositoryTestSuite) TestReviewGetByID_DecodesImages() {
	ctx := context.Background()
	reviewID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(reviewRowColumns).
		AddRow(reviewID.String(), itemID.String(), "user-1", 4, 5, 3, nil, 4, "Хороший борщ", `["a.jpg","b.jpg"]`, now, now)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE id = $1`)).
		WillReturnRows(rows)

	// Act
	review, err := s.reviews.GetByID(ctx, reviewID)

	// Assert
	s.Require().NoError(err)
	s.Equal(reviewID, review.ID)
	s.Equal("user-1", review.AuthorID)
	s.Require().NotNil(review.OverallRating)
	s.Equal(4, *review.OverallRating)
	s.Nil(review.ValueRating)
	s.Equal([]string{"a.jpg", "b.jpg"}, review.Images)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestReviewGetByID_LegacySingleImage() {
	ctx := context.Background()
	reviewID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(reviewRowColumns).
		AddRow(reviewID.String(), uuid.NewString(), "user-1", 5, 5, 5, 5, 5, "", "/uploads/old.jpg", now, now)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE id = $1`)).
		WillReturnRows(rows)

	// Act
	review, err := s.reviews.GetByID(ctx, reviewID)

	// Assert
	s.Require().NoError(err)
	s.Equal([]string{"/uploads/old.jpg"}, review.Images)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestReviewGetByID_NotFound() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE id = $1`)).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	review, err := s.reviews.GetByID(ctx, uuid.New())

	// Assert
	s.ErrorIs(err, ErrReviewNotFound)
	s.Nil(review)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Review Create =====================

func (s *GormRepositoryTestSuite) TestReviewCreate_Success() {
	ctx := context.Background()
	review := newTestReview()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "reviews"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.reviews.Create(ctx, review)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestReviewCreate_DuplicateIsConflict() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "reviews"`)).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "uq_reviews_author_item"})
	s.mock.ExpectRollback()

	// Act
	err := s.reviews.Create(ctx, newTestReview())

	// Assert
	s.ErrorIs(err, ErrReviewAlreadyExists)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestReviewCreate_ItemGone() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "reviews"`)).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})
	s.mock.ExpectRollback()

	// Act
	err := s.reviews.Create(ctx, newTestReview())

	// Assert
	s.ErrorIs(err, ErrItemNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Review Update =====================

func (s *GormRepositoryTestSuite) TestReviewUpdate_NotFound() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reviews" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	// Act
	err := s.reviews.Update(ctx, newTestReview())

	// Assert
	s.ErrorIs(err, ErrReviewNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Review Delete =====================

func (s *GormRepositoryTestSuite) TestReviewDelete_CascadesInOneTransaction() {
	ctx := context.Background()
	reviewID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE review_id = $1`)).
		WithArgs(reviewID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "replies" WHERE review_id = $1`)).
		WithArgs(reviewID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "reviews" WHERE id = $1`)).
		WithArgs(reviewID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.reviews.Delete(ctx, reviewID)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestReviewDelete_RollsBackOnFailure() {
	ctx := context.Background()
	reviewID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "replies"`)).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	// Act
	err := s.reviews.Delete(ctx, reviewID)

	// Assert
	s.Error(err)
	s.Contains(err.Error(), "failed to delete review replies")
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestReviewDelete_NotFound() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "replies"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "reviews"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectRollback()

	// Act
	err := s.reviews.Delete(ctx, uuid.New())

	// Assert
	s.ErrorIs(err, ErrReviewNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestReviewDelete_DependentInsertedDuringCascade() {
	ctx := context.Background()
	reviewID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "replies"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "reviews" WHERE id = $1`)).
		WithArgs(reviewID).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "likes_review_id_fkey"})
	s.mock.ExpectRollback()

	// Act
	err := s.reviews.Delete(ctx, reviewID)

	// Assert
	s.ErrorIs(err, ErrReviewHasDependents)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Review ListByItem =====================

func (s *GormRepositoryTestSuite) TestReviewListByItem_WithCounters() {
	ctx := context.Background()
	itemID := uuid.New()
	now := time.Now()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reviews" WHERE reviews.item_id = $1`)).
		WithArgs(itemID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	columns := append(append([]string{}, reviewRowColumns...), "like_count", "reply_count", "liked")
	rows := sqlmock.NewRows(columns).
		AddRow(uuid.NewString(), itemID.String(), "user-2", 5, 5, 5, 5, 5, "new", "[]", now, now, 3, 1, true).
		AddRow(uuid.NewString(), itemID.String(), "user-1", 4, 4, 4, 4, 4, "old", "[]", now.Add(-time.Hour), now, 0, 0, false)

	s.mock.ExpectQuery(regexp.QuoteMeta(`AS liked FROM "reviews" WHERE reviews.item_id = `)).
		WillReturnRows(rows)

	// Act
	views, total, err := s.reviews.ListByItem(ctx, itemID, "viewer", entity.NewPageRequest(1, 10, entity.PerPageReviews))

	// Assert
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(views, 2)
	s.Equal("user-2", views[0].AuthorID)
	s.Equal(int64(3), views[0].LikeCount)
	s.Equal(int64(1), views[0].ReplyCount)
	s.True(views[0].Liked)
	s.False(views[1].Liked)
	s.Equal([]string{}, views[1].Images)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *GormRepositoryTestSuite) TestReviewListByAuthor_EmptySkipsSelect() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reviews" WHERE reviews.author_id = $1`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// Act
	views, total, err := s.reviews.ListByAuthor(ctx, "user-1", entity.NewPageRequest(1, 0, entity.PerPageReviews))

	// Assert
	s.NoError(err)
	s.Equal(int64(0), total)
	s.NotNil(views)
	s.Empty(views)
	s.NoError(s.mock.ExpectationsWereMet())
}

func newTestReview() *entity.Review {
	review := &entity.Review{
		ID:        uuid.New(),
		ItemID:    uuid.New(),
		AuthorID:  "user-1",
		Content:   "Вкусно",
		Images:    []string{"a.jpg"},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for _, d := range entity.RatingDimensions {
		review.SetRating(d, 4)
	}
	return review
}
