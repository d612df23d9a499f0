package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/branch-expenses/constants"
	"github.com/joseph-ayodele/branch-expenses/internal/common"
	"github.com/joseph-ayodele/branch-expenses/internal/entity"
)

type ReceiptRepository interface {
	Create(ctx context.Context, rc *entity.Receipt) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Receipt, error)
	WithTx(tx *sql.Tx) ReceiptRepository
}

type receiptRepository struct {
	db      DBTX
	dialect string
	logger  *slog.Logger
}

func NewReceiptRepository(drv *entsql.Driver, logger *slog.Logger) ReceiptRepository {
	return &receiptRepository{
		db:      drv.DB(),
		dialect: drv.Dialect(),
		logger:  logger,
	}
}

func (r *receiptRepository) WithTx(tx *sql.Tx) ReceiptRepository {
	return &receiptRepository{db: tx, dialect: r.dialect, logger: r.logger}
}

func (r *receiptRepository) Create(ctx context.Context, rc *entity.Receipt) (int64, error) {
	query, args := entsql.Dialect(r.dialect).
		Insert(receiptsTable).
		Columns("kind", "url", "filename", "file_size", "content_hash", "created_at").
		Values(string(rc.Kind), rc.URL, rc.Filename, rc.FileSize, rc.ContentHash, rc.CreatedAt).
		Returning("id").
		Query()

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		r.logger.Error("failed to create receipt", "url", rc.URL, "filename", rc.Filename, "error", err)
		return 0, classify("create receipt", err)
	}
	return id, nil
}

func (r *receiptRepository) GetByID(ctx context.Context, id int64) (*entity.Receipt, error) {
	b := entsql.Dialect(r.dialect)
	query, args := b.
		Select("id", "kind", "url", "filename", "file_size", "content_hash", "created_at").
		From(b.Table(receiptsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		rc   entity.Receipt
		kind string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&rc.ID, &kind, &rc.URL, &rc.Filename, &rc.FileSize, &rc.ContentHash, &rc.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &common.NotFoundError{Resource: "receipt", ID: id}
	}
	if err != nil {
		r.logger.Error("failed to get receipt", "receipt_id", id, "error", err)
		return nil, classify("get receipt", err)
	}
	rc.Kind = constants.ReceiptKind(kind)
	return &rc, nil
}
