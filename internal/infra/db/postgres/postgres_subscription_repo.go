package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"realty-subscription/internal/domain"
	"realty-subscription/internal/domain/model"
	"realty-subscription/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subscriptionColumns = `subscriber_id, plan, current_period_end, last_payment_id, last_transaction_id, payment_method, notes, created_at, updated_at`

// Save upserts the subscriber's single subscription row. There is no stored
// active flag anywhere in this table: activity is derived from
// current_period_end at read time.
func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.SubscriptionRecord) error {
	const q = `
INSERT INTO subscriptions (
  subscriber_id, plan, current_period_end, last_payment_id, last_transaction_id, payment_method, notes, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (subscriber_id) DO UPDATE SET
  plan=$2, current_period_end=$3, last_payment_id=$4, last_transaction_id=$5, payment_method=$6, notes=$7, updated_at=$9;`

	_, err := execSQL(ctx, r.pool, tx, q,
		s.SubscriberID, s.Plan, s.CurrentPeriodEnd, s.LastPaymentID, s.LastTransactionID,
		s.PaymentMethod, s.Notes, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return translateErr(err)
	}
	return nil
}

func (r *subscriptionRepo) FindBySubscriber(ctx context.Context, tx repository.Tx, subscriberID string) (*model.SubscriptionRecord, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE subscriber_id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, subscriberID)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *subscriptionRepo) ListExpired(ctx context.Context, now time.Time) ([]*model.SubscriptionRecord, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE current_period_end < $1 ORDER BY current_period_end ASC;`
	return r.list(ctx, q, now)
}

func (r *subscriptionRepo) ListExpiringWithin(ctx context.Context, now time.Time, window time.Duration) ([]*model.SubscriptionRecord, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE current_period_end > $1 AND current_period_end <= $2 ORDER BY current_period_end ASC;`
	return r.list(ctx, q, now, now.Add(window))
}

func (r *subscriptionRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.SubscriptionRecord, error) {
	rows, err := queryRows(ctx, r.pool, repository.NoTX, q, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	out := []*model.SubscriptionRecord{}
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanSubscription(row pgx.Row) (*model.SubscriptionRecord, error) {
	s := &model.SubscriptionRecord{}
	err := row.Scan(&s.SubscriberID, &s.Plan, &s.CurrentPeriodEnd, &s.LastPaymentID, &s.LastTransactionID,
		&s.PaymentMethod, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return s, nil
}
