package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"realty-subscription/internal/domain"
	"realty-subscription/internal/domain/model"
	"realty-subscription/internal/domain/ports/repository"
)

var _ repository.ReferralRepository = (*referralRepo)(nil)

type referralRepo struct{ pool *pgxpool.Pool }

func NewReferralRepo(pool *pgxpool.Pool) *referralRepo {
	return &referralRepo{pool: pool}
}

const referralColumns = `id, referrer_id, referee_id, referee_kind, created_at`

// Save inserts the referral. The unique index on referee_id enforces
// first-referral-wins: on conflict nothing is written and the existing
// attribution is returned instead.
func (r *referralRepo) Save(ctx context.Context, ref *model.ReferralRecord) (*model.ReferralRecord, error) {
	const q = `
INSERT INTO referrals (id, referrer_id, referee_id, referee_kind, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (referee_id) DO NOTHING;`

	tag, err := execSQL(ctx, r.pool, repository.NoTX, q, ref.ID, ref.ReferrerID, ref.RefereeID, ref.RefereeKind, ref.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return r.FindByReferee(ctx, ref.RefereeID)
	}
	return ref, nil
}

func (r *referralRepo) FindByReferee(ctx context.Context, refereeID string) (*model.ReferralRecord, error) {
	const q = `SELECT ` + referralColumns + ` FROM referrals WHERE referee_id=$1;`
	row, err := pickRow(ctx, r.pool, repository.NoTX, q, refereeID)
	if err != nil {
		return nil, err
	}
	return scanReferral(row)
}

func (r *referralRepo) CountByReferrer(ctx context.Context, referrerID string) (int, int, error) {
	const q = `
SELECT
  COUNT(*) FILTER (WHERE referee_kind='agent'),
  COUNT(*) FILTER (WHERE referee_kind='provider')
FROM referrals WHERE referrer_id=$1;`
	row, err := pickRow(ctx, r.pool, repository.NoTX, q, referrerID)
	if err != nil {
		return 0, 0, err
	}
	var agents, providers int
	if err := row.Scan(&agents, &providers); err != nil {
		return 0, 0, translateErr(err)
	}
	return agents, providers, nil
}

func (r *referralRepo) ListByReferrer(ctx context.Context, referrerID string, kind model.RefereeKind) ([]*model.ReferralRecord, error) {
	const q = `SELECT ` + referralColumns + ` FROM referrals WHERE referrer_id=$1 AND referee_kind=$2 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, repository.NoTX, q, referrerID, kind)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	out := []*model.ReferralRecord{}
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanReferral(row pgx.Row) (*model.ReferralRecord, error) {
	ref := &model.ReferralRecord{}
	if err := row.Scan(&ref.ID, &ref.ReferrerID, &ref.RefereeID, &ref.RefereeKind, &ref.CreatedAt); err != nil {
		return nil, translateErr(err)
	}
	return ref, nil
}
