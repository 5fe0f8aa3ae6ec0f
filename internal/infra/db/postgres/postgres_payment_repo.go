package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"realty-subscription/internal/domain"
	"realty-subscription/internal/domain/model"
	"realty-subscription/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, subscriber_id, amount, currency, plan, transaction_id, status, failure_reason, retry_count, admin_notes, payment_method, created_at, verified_at, failed_at`

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error {
	const q = `
INSERT INTO payments (
  id, subscriber_id, amount, currency, plan, transaction_id, status, failure_reason, retry_count, admin_notes, payment_method, created_at, verified_at, failed_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
) ON CONFLICT (id) DO UPDATE SET
  transaction_id=$6, status=$7, failure_reason=$8, retry_count=$9, admin_notes=$10, verified_at=$13, failed_at=$14;`

	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.SubscriberID, p.Amount, p.Currency, p.Plan, p.TransactionID, p.Status,
		p.FailureReason, p.RetryCount, p.AdminNotes, p.PaymentMethod, p.CreatedAt, p.VerifiedAt, p.FailedAt)
	if err != nil {
		return translateErr(err)
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentRecord, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		// Inside a transaction the row is locked so racing verify/fail calls
		// serialize here and the loser observes the terminal state.
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) ListPending(ctx context.Context) ([]*model.PaymentRecord, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE status='pending' ORDER BY created_at ASC;`
	return r.list(ctx, q)
}

func (r *paymentRepo) ListFailed(ctx context.Context) ([]*model.PaymentRecord, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE status='failed' ORDER BY failed_at DESC;`
	return r.list(ctx, q)
}

func (r *paymentRepo) ListBySubscriber(ctx context.Context, subscriberID string) ([]*model.PaymentRecord, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE subscriber_id=$1 ORDER BY created_at DESC;`
	return r.list(ctx, q, subscriberID)
}

func (r *paymentRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.PaymentRecord, error) {
	rows, err := queryRows(ctx, r.pool, repository.NoTX, q, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	out := []*model.PaymentRecord{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanPayment(row pgx.Row) (*model.PaymentRecord, error) {
	p := &model.PaymentRecord{}
	err := row.Scan(&p.ID, &p.SubscriberID, &p.Amount, &p.Currency, &p.Plan, &p.TransactionID, &p.Status,
		&p.FailureReason, &p.RetryCount, &p.AdminNotes, &p.PaymentMethod, &p.CreatedAt, &p.VerifiedAt, &p.FailedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return p, nil
}
