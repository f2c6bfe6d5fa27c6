package notify

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one dispatch attempt, kept for observability only. Nothing on
// the request path ever reads it back.
type Record struct {
	EventID   string
	OrderID   string
	Channel   string
	Recipient string
	Status    string
	Detail    string
}

const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

type PGLog struct {
	pool *pgxpool.Pool
}

func NewPGLog(pool *pgxpool.Pool) *PGLog {
	return &PGLog{pool: pool}
}

func (l *PGLog) Record(ctx context.Context, rec Record) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO notification_log(event_id, order_id, channel, recipient, status, detail)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.EventID, rec.OrderID, rec.Channel, rec.Recipient, rec.Status, rec.Detail,
	)
	return err
}
