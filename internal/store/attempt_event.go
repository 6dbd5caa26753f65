package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO attempt_events
		(sequence, timestamp, session_id, kind, pattern, difficulty, topic,
		 score, scored, syntax_ok, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.SessionID, string(data.Kind), data.Pattern,
		data.Difficulty, data.Topic, data.Score, boolToInt(data.Scored),
		boolToInt(data.SyntaxOK), data.ErrorMessage)
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAttempts(ctx context.Context, sessionID string, opts QueryOpts) ([]AttemptEvent, error) {
	q := `SELECT id, sequence, timestamp, session_id, kind, pattern, difficulty, topic,
		score, scored, syntax_ok, error_message
		FROM attempt_events WHERE session_id = ? AND sequence > ?
		ORDER BY sequence DESC`
	args := []any{sessionID, opts.After}
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptEvent
	for rows.Next() {
		var (
			e                AttemptEvent
			ts               int64
			kind             string
			scored, syntaxOK int
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &kind, &e.Pattern,
			&e.Difficulty, &e.Topic, &e.Score, &scored, &syntaxOK, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		e.Kind = AttemptKind(kind)
		e.Scored = scored != 0
		e.SyntaxOK = syntaxOK != 0
		out = append(out, e)
	}
	return out, rows.Err()
}
