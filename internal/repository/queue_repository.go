package repository

import (
	"context"
	"errors"
	"time"

	"mockmate/internal/database"
	"mockmate/internal/domain/queue"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrEntryNotFound = errors.New("queue entry not found")
	// ErrPairConflict means a pairing transaction lost a race: one of the
	// two entries was withdrawn or matched concurrently. Callers re-select.
	ErrPairConflict = errors.New("pair commit conflict")
)

type QueueRepository interface {
	// Join inserts the entry, or returns the already-waiting entry holding
	// the same (user, role, profession, language, slot) key. The bool
	// reports whether a new row was created.
	Join(ctx context.Context, e queue.Entry) (queue.Entry, bool, error)

	Get(ctx context.Context, id uuid.UUID) (queue.Entry, error)

	// Withdraw removes a waiting entry. It reports whether anything was
	// removed; already-matched, expired or unknown ids are a no-op.
	Withdraw(ctx context.Context, id uuid.UUID) (bool, error)

	// ListWaiting returns the waiting entries of one role in a bucket,
	// ordered by joined_at ascending.
	ListWaiting(ctx context.Context, role queue.Role, bucket queue.BucketKey) ([]queue.Entry, error)

	// ListSlots aggregates waiting entries of a role into per-slot counts.
	// Empty profession or language means no filter on that tag.
	ListSlots(ctx context.Context, role queue.Role, profession, language string, after time.Time) ([]queue.SlotCount, error)

	// ListOpenEntries returns the waiting entries backing ListSlots rows,
	// for pre-scoring a caller's tools against them.
	ListOpenEntries(ctx context.Context, role queue.Role, profession, language string, after time.Time) ([]queue.Entry, error)

	// ExpireBefore flips waiting entries with slots earlier than the
	// cutoff to expired, returning how many it touched.
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// LiveBuckets lists distinct buckets that still hold waiting entries
	// at or after the cutoff. The sweep re-attempts matching on these.
	LiveBuckets(ctx context.Context, after time.Time) ([]queue.BucketKey, error)
}

type PostgresQueueRepository struct {
	db database.DB
}

func NewPostgresQueueRepository(db database.DB) *PostgresQueueRepository {
	return &PostgresQueueRepository{db: db}
}

const entryColumns = `id, user_id, role, profession, language, slot_utc, tools, status, joined_at`

func (r *PostgresQueueRepository) Join(ctx context.Context, e queue.Entry) (queue.Entry, bool, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.JoinedAt.IsZero() {
		e.JoinedAt = time.Now().UTC()
	}
	e.Status = queue.StatusWaiting

	row := r.db.QueryRow(ctx,
		`INSERT INTO queue_entries (`+entryColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (user_id, role, profession, language, slot_utc) WHERE status = 'waiting'
		 DO NOTHING
		 RETURNING id`,
		e.ID, e.UserID, e.Role, e.Profession, e.Language, e.SlotUTC, e.Tools, e.Status, e.JoinedAt,
	)

	var inserted uuid.UUID
	err := row.Scan(&inserted)
	if err == nil {
		return e, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return queue.Entry{}, false, err
	}

	// Conflict path: the waiting row for this key already exists.
	existing, err := r.findWaitingByKey(ctx, e)
	if err != nil {
		return queue.Entry{}, false, err
	}
	return existing, false, nil
}

func (r *PostgresQueueRepository) findWaitingByKey(ctx context.Context, e queue.Entry) (queue.Entry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM queue_entries
		 WHERE user_id = $1 AND role = $2 AND profession = $3 AND language = $4 AND slot_utc = $5
		   AND status = 'waiting'`,
		e.UserID, e.Role, e.Profession, e.Language, e.SlotUTC,
	)
	return scanEntry(row)
}

func (r *PostgresQueueRepository) Get(ctx context.Context, id uuid.UUID) (queue.Entry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM queue_entries WHERE id = $1`, id,
	)
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return queue.Entry{}, ErrEntryNotFound
	}
	if err != nil {
		return queue.Entry{}, err
	}
	return e, nil
}

func (r *PostgresQueueRepository) Withdraw(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := r.db.Exec(ctx,
		`DELETE FROM queue_entries WHERE id = $1 AND status = 'waiting'`, id,
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresQueueRepository) ListWaiting(ctx context.Context, role queue.Role, bucket queue.BucketKey) ([]queue.Entry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+entryColumns+` FROM queue_entries
		 WHERE role = $1 AND profession = $2 AND language = $3 AND slot_utc = $4
		   AND status = 'waiting'
		 ORDER BY joined_at ASC, id ASC`,
		role, bucket.Profession, bucket.Language, bucket.SlotUTC,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *PostgresQueueRepository) ListSlots(ctx context.Context, role queue.Role, profession, language string, after time.Time) ([]queue.SlotCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT slot_utc, COUNT(*) FROM queue_entries
		 WHERE role = $1 AND status = 'waiting' AND slot_utc >= $2
		   AND ($3 = '' OR profession = $3)
		   AND ($4 = '' OR language = $4)
		 GROUP BY slot_utc
		 ORDER BY slot_utc ASC`,
		role, after, profession, language,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []queue.SlotCount
	for rows.Next() {
		var sc queue.SlotCount
		if err := rows.Scan(&sc.SlotUTC, &sc.Count); err != nil {
			return nil, err
		}
		sc.SlotUTC = sc.SlotUTC.UTC()
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *PostgresQueueRepository) ListOpenEntries(ctx context.Context, role queue.Role, profession, language string, after time.Time) ([]queue.Entry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+entryColumns+` FROM queue_entries
		 WHERE role = $1 AND status = 'waiting' AND slot_utc >= $2
		   AND ($3 = '' OR profession = $3)
		   AND ($4 = '' OR language = $4)
		 ORDER BY slot_utc ASC, joined_at ASC`,
		role, after, profession, language,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *PostgresQueueRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE queue_entries SET status = 'expired' WHERE status = 'waiting' AND slot_utc < $1`,
		cutoff,
	)
}

func (r *PostgresQueueRepository) LiveBuckets(ctx context.Context, after time.Time) ([]queue.BucketKey, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT profession, language, slot_utc FROM queue_entries
		 WHERE status = 'waiting' AND slot_utc >= $1
		 ORDER BY slot_utc ASC, profession ASC, language ASC`,
		after,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []queue.BucketKey
	for rows.Next() {
		var k queue.BucketKey
		if err := rows.Scan(&k.Profession, &k.Language, &k.SlotUTC); err != nil {
			return nil, err
		}
		k.SlotUTC = k.SlotUTC.UTC()
		out = append(out, k)
	}
	return out, rows.Err()
}

func scanEntries(rows database.Rows) ([]queue.Entry, error) {
	var out []queue.Entry
	for rows.Next() {
		var e queue.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Role, &e.Profession, &e.Language, &e.SlotUTC, &e.Tools, &e.Status, &e.JoinedAt); err != nil {
			return nil, err
		}
		e.SlotUTC = e.SlotUTC.UTC()
		e.JoinedAt = e.JoinedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(row database.Row) (queue.Entry, error) {
	var e queue.Entry
	if err := row.Scan(&e.ID, &e.UserID, &e.Role, &e.Profession, &e.Language, &e.SlotUTC, &e.Tools, &e.Status, &e.JoinedAt); err != nil {
		return queue.Entry{}, err
	}
	e.SlotUTC = e.SlotUTC.UTC()
	e.JoinedAt = e.JoinedAt.UTC()
	return e, nil
}
