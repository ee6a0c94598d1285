package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO session_events
		   (sequence, timestamp, session_id, category_id, action, question_index, total_score, correct, total)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.SessionID, data.CategoryID, data.Action,
		data.QuestionIndex, data.TotalScore, data.Correct, data.Total,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	var where []string
	var args []any
	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		where = append(where, "sequence < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, opts.To.UnixMilli())
	}
	if opts.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, opts.CategoryID)
	}

	q := `SELECT id, sequence, timestamp, session_id, category_id, action,
	             question_index, total_score, correct, total
	      FROM session_events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var events []SessionEvent
	for rows.Next() {
		var e SessionEvent
		var ts int64
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.CategoryID, &e.Action,
			&e.QuestionIndex, &e.TotalScore, &e.Correct, &e.Total); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) CategoryStats(ctx context.Context) ([]CategoryStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id,
		        COUNT(DISTINCT session_id),
		        SUM(CASE WHEN action = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN action = ? THEN 1 ELSE 0 END),
		        MAX(CASE WHEN action = ? THEN total_score ELSE 0 END),
		        MAX(timestamp)
		 FROM session_events
		 GROUP BY category_id
		 ORDER BY category_id`,
		ActionComplete, ActionReset, ActionComplete,
	)
	if err != nil {
		return nil, fmt.Errorf("query category stats: %w", err)
	}
	defer rows.Close()

	var out []CategoryStats
	for rows.Next() {
		var s CategoryStats
		var last int64
		if err := rows.Scan(&s.CategoryID, &s.Sessions, &s.Completed, &s.Resets, &s.BestScore, &last); err != nil {
			return nil, fmt.Errorf("scan category stats: %w", err)
		}
		s.LastPlayed = time.UnixMilli(last)
		out = append(out, s)
	}
	return out, rows.Err()
}
