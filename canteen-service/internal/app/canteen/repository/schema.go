package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL описывает таблицы явно: внешние ключи без каскадов, уникальность на уровне БД.
// Каскадное удаление выполняют репозитории в транзакции
const schemaDDL = `
CREATE TABLE IF NOT EXISTS sites (
	id             UUID PRIMARY KEY,
	name           VARCHAR(100) NOT NULL,
	location       VARCHAR(200) NOT NULL,
	business_hours VARCHAR(100) NOT NULL DEFAULT '',
	contact        VARCHAR(50)  NOT NULL DEFAULT '',
	description    TEXT         NOT NULL DEFAULT '',
	images         TEXT         NOT NULL DEFAULT '[]',
	created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	CONSTRAINT uq_sites_name UNIQUE (name)
);

CREATE TABLE IF NOT EXISTS sub_locations (
	id             UUID PRIMARY KEY,
	site_id        UUID         NOT NULL REFERENCES sites (id) ON DELETE RESTRICT,
	name           VARCHAR(100) NOT NULL,
	description    TEXT         NOT NULL DEFAULT '',
	business_hours VARCHAR(100) NOT NULL DEFAULT '',
	images         TEXT         NOT NULL DEFAULT '[]',
	created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	CONSTRAINT uq_sub_locations_site_name UNIQUE (site_id, name)
);

CREATE TABLE IF NOT EXISTS items (
	id              UUID PRIMARY KEY,
	sub_location_id UUID          NOT NULL REFERENCES sub_locations (id) ON DELETE RESTRICT,
	name            VARCHAR(100)  NOT NULL,
	price           NUMERIC(10,2) NOT NULL CHECK (price >= 0),
	category        VARCHAR(50)   NOT NULL DEFAULT '',
	description     TEXT          NOT NULL DEFAULT '',
	images          TEXT          NOT NULL DEFAULT '[]',
	is_available    BOOLEAN       NOT NULL DEFAULT TRUE,
	created_at      TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
	CONSTRAINT uq_items_sub_location_name UNIQUE (sub_location_id, name)
);

CREATE TABLE IF NOT EXISTS reviews (
	id             UUID PRIMARY KEY,
	item_id        UUID         NOT NULL REFERENCES items (id) ON DELETE RESTRICT,
	author_id      VARCHAR(100) NOT NULL,
	overall_rating SMALLINT CHECK (overall_rating BETWEEN 1 AND 5),
	taste_rating   SMALLINT CHECK (taste_rating BETWEEN 1 AND 5),
	portion_rating SMALLINT CHECK (portion_rating BETWEEN 1 AND 5),
	value_rating   SMALLINT CHECK (value_rating BETWEEN 1 AND 5),
	service_rating SMALLINT CHECK (service_rating BETWEEN 1 AND 5),
	content        TEXT         NOT NULL DEFAULT '',
	images         TEXT         NOT NULL DEFAULT '[]',
	created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	CONSTRAINT uq_reviews_author_item UNIQUE (author_id, item_id)
);

CREATE INDEX IF NOT EXISTS idx_reviews_item_created ON reviews (item_id, created_at DESC);

CREATE TABLE IF NOT EXISTS likes (
	id         UUID PRIMARY KEY,
	review_id  UUID         NOT NULL REFERENCES reviews (id) ON DELETE RESTRICT,
	author_id  VARCHAR(100) NOT NULL,
	created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	CONSTRAINT uq_likes_review_author UNIQUE (review_id, author_id)
);

CREATE TABLE IF NOT EXISTS replies (
	id         UUID PRIMARY KEY,
	review_id  UUID         NOT NULL REFERENCES reviews (id) ON DELETE RESTRICT,
	author_id  VARCHAR(100) NOT NULL,
	content    VARCHAR(500) NOT NULL,
	created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_replies_review_created ON replies (review_id, created_at ASC);
`

// Migrate создает таблицы, если их еще нет
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
