package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/models"
)

// ActionQueueRepo is the SQLite-backed implementation of
// ActionQueueRepository.
type ActionQueueRepo struct {
	db  *sql.DB
	log *logger.Logger
}

// NewActionQueueRepository creates a pending action queue over the given
// connection.
func NewActionQueueRepository(db *sql.DB, log *logger.Logger) (ActionQueueRepository, error) {
	if db == nil {
		return nil, ErrDatabaseConnectionIsNil
	}
	return &ActionQueueRepo{db: db, log: log}, nil
}

// Enqueue runs the cancellation rules and the insert in one transaction so a
// crash can never leave the queue between states:
//
//   - a queued opposite action (like vs unlike, save vs unsave) cancels with
//     the new one and nothing is inserted;
//   - a queued action of the same type for the same entity is superseded by
//     the new one;
//   - otherwise the action is appended.
func (r *ActionQueueRepo) Enqueue(ctx context.Context, actionType models.ActionType, entityID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enqueue tx: %w", err)
	}
	defer tx.Rollback()

	if opposite, ok := actionType.Opposite(); ok {
		result, execErr := tx.ExecContext(ctx, deleteActionsQuery, entityID, opposite)
		if execErr != nil {
			return fmt.Errorf("cancel opposite action: %w", execErr)
		}

		cancelled, raErr := result.RowsAffected()
		if raErr != nil {
			return fmt.Errorf("cancel opposite action rows affected: %w", raErr)
		}
		if cancelled > 0 {
			r.log.Debug().Str("func", "Enqueue").
				Str("entityID", entityID).Str("type", string(actionType)).
				Msg("action cancelled against queued opposite")
			return tx.Commit()
		}
	}

	if _, err = tx.ExecContext(ctx, deleteActionsQuery, entityID, actionType); err != nil {
		return fmt.Errorf("supersede queued action: %w", err)
	}

	_, err = tx.ExecContext(ctx, insertActionQuery,
		uuid.NewString(), actionType, entityID, time.Now().UnixMilli())
	if err != nil {
		r.log.Error().Err(err).Str("func", "Enqueue").Str("entityID", entityID).Msg("error inserting action")
		return fmt.Errorf("insert action: %w", err)
	}

	return tx.Commit()
}

// Drain returns the queued actions oldest first without removing them.
func (r *ActionQueueRepo) Drain(ctx context.Context) ([]models.PendingAction, error) {
	rows, err := r.db.QueryContext(ctx, drainActionsQuery)
	if err != nil {
		r.log.Error().Err(err).Str("func", "Drain").Msg("error reading queue")
		return nil, fmt.Errorf("drain actions: %w", err)
	}
	defer rows.Close()

	var actions []models.PendingAction
	for rows.Next() {
		var action models.PendingAction
		if err = rows.Scan(&action.ID, &action.Type, &action.EntityID, &action.EnqueuedAt, &action.Attempts); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		actions = append(actions, action)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}

	return actions, nil
}

func (r *ActionQueueRepo) Remove(ctx context.Context, entityID string, actionType models.ActionType) error {
	if _, err := r.db.ExecContext(ctx, deleteActionsQuery, entityID, actionType); err != nil {
		r.log.Error().Err(err).Str("func", "Remove").Str("entityID", entityID).Msg("error removing action")
		return fmt.Errorf("remove action: %w", err)
	}
	return nil
}

func (r *ActionQueueRepo) IncrementAttempts(ctx context.Context, actionID string) error {
	if _, err := r.db.ExecContext(ctx, incrementAttemptsQuery, actionID); err != nil {
		r.log.Error().Err(err).Str("func", "IncrementAttempts").Str("actionID", actionID).Msg("error incrementing attempts")
		return fmt.Errorf("increment attempts: %w", err)
	}
	return nil
}

func (r *ActionQueueRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, countActionsQuery).Scan(&count); err != nil {
		r.log.Error().Err(err).Str("func", "Count").Msg("error counting queue")
		return 0, fmt.Errorf("count actions: %w", err)
	}
	return count, nil
}

func (r *ActionQueueRepo) HasPending(ctx context.Context, entityID string) (bool, error) {
	var pending bool
	if err := r.db.QueryRowContext(ctx, hasPendingActionQuery, entityID).Scan(&pending); err != nil {
		r.log.Error().Err(err).Str("func", "HasPending").Str("entityID", entityID).Msg("error checking queue")
		return false, fmt.Errorf("check pending action: %w", err)
	}
	return pending, nil
}
