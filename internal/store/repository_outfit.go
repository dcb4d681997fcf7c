package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/models"
)

// OutfitRepo is the SQLite-backed implementation of OutfitRepository.
type OutfitRepo struct {
	db  *sql.DB
	log *logger.Logger
}

// NewOutfitRepository creates an outfit repository over the given connection.
func NewOutfitRepository(db *sql.DB, log *logger.Logger) (OutfitRepository, error) {
	if db == nil {
		return nil, ErrDatabaseConnectionIsNil
	}
	return &OutfitRepo{db: db, log: log}, nil
}

func (r *OutfitRepo) Get(ctx context.Context, id string) (models.Outfit, error) {
	row := r.db.QueryRowContext(ctx, getOutfitQuery, id)

	outfit, err := scanOutfit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Outfit{}, ErrOutfitNotFound
	}
	if err != nil {
		r.log.Error().Err(err).Str("func", "Get").Str("id", id).Msg("error reading outfit")
		return models.Outfit{}, fmt.Errorf("get outfit: %w", err)
	}

	return outfit, nil
}

func (r *OutfitRepo) Upsert(ctx context.Context, outfit models.Outfit) error {
	var imageURL sql.NullString
	if outfit.GarmentImageURL != "" {
		imageURL = sql.NullString{String: outfit.GarmentImageURL, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, upsertOutfitQuery,
		outfit.ID, outfit.UserID, outfit.Name, outfit.Occasion, imageURL,
		outfit.ItemsJSON, outfit.TheoryJSON, outfit.StyleTagsJSON,
		outfit.CreatedAt, outfit.UpdatedAt,
		outfit.IsLiked, outfit.IsFavorited, outfit.IsDeleted, outfit.SyncStatus,
	)
	if err != nil {
		r.log.Error().Err(err).Str("func", "Upsert").Str("id", outfit.ID).Msg("error upserting outfit")
		return fmt.Errorf("upsert outfit: %w", err)
	}

	return nil
}

func (r *OutfitRepo) Query(ctx context.Context, filter models.OutfitFilter) ([]models.Outfit, error) {
	builder := applyOutfitFilter(sq.Select(outfitColumns).From("outfits"), filter).
		OrderBy("created_at DESC")

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build outfit query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Error().Err(err).Str("func", "Query").Msg("error querying outfits")
		return nil, fmt.Errorf("query outfits: %w", err)
	}
	defer rows.Close()

	return collectOutfits(rows)
}

func (r *OutfitRepo) Count(ctx context.Context, filter models.OutfitFilter) (int, error) {
	query, args, err := applyOutfitFilter(sq.Select("COUNT(*)").From("outfits"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build outfit count query: %w", err)
	}

	var count int
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error().Err(err).Str("func", "Count").Msg("error counting outfits")
		return 0, fmt.Errorf("count outfits: %w", err)
	}

	return count, nil
}

func (r *OutfitRepo) SetFlag(ctx context.Context, id string, flag models.OutfitFlag, value bool, ts int64, status models.SyncStatus) error {
	// The flag name comes from a closed constant set, never from input, so
	// interpolating the column identifier is safe.
	query := fmt.Sprintf(`UPDATE outfits SET %s = ?, updated_at = ?, sync_status = ? WHERE id = ?`, flag)

	result, err := r.db.ExecContext(ctx, query, value, ts, status, id)
	if err != nil {
		r.log.Error().Err(err).Str("func", "SetFlag").Str("id", id).Str("flag", string(flag)).Msg("error updating flag")
		return fmt.Errorf("set outfit flag: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set outfit flag rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOutfitNotFound
	}

	return nil
}

func (r *OutfitRepo) SetSyncStatus(ctx context.Context, id string, status models.SyncStatus) error {
	result, err := r.db.ExecContext(ctx, setSyncStatusQuery, status, id)
	if err != nil {
		r.log.Error().Err(err).Str("func", "SetSyncStatus").Str("id", id).Msg("error updating sync status")
		return fmt.Errorf("set sync status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set sync status rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOutfitNotFound
	}

	return nil
}

func (r *OutfitRepo) ListPending(ctx context.Context) ([]models.Outfit, error) {
	rows, err := r.db.QueryContext(ctx, listPendingOutfitsQuery)
	if err != nil {
		r.log.Error().Err(err).Str("func", "ListPending").Msg("error listing pending outfits")
		return nil, fmt.Errorf("list pending outfits: %w", err)
	}
	defer rows.Close()

	return collectOutfits(rows)
}

func applyOutfitFilter(builder sq.SelectBuilder, filter models.OutfitFilter) sq.SelectBuilder {
	if filter.UserID != "" {
		builder = builder.Where(sq.Eq{"user_id": filter.UserID})
	}
	if filter.Occasion != "" {
		builder = builder.Where(sq.Eq{"occasion": filter.Occasion})
	}
	if filter.IsLiked != nil {
		builder = builder.Where(sq.Eq{"is_liked": *filter.IsLiked})
	}
	if filter.IsFavorited != nil {
		builder = builder.Where(sq.Eq{"is_favorited": *filter.IsFavorited})
	}
	if filter.SyncStatus != "" {
		builder = builder.Where(sq.Eq{"sync_status": filter.SyncStatus})
	}
	if filter.CreatedAfter > 0 {
		builder = builder.Where(sq.GtOrEq{"created_at": filter.CreatedAfter})
	}
	if filter.CreatedBefore > 0 {
		builder = builder.Where(sq.LtOrEq{"created_at": filter.CreatedBefore})
	}
	if !filter.IncludeDeleted {
		builder = builder.Where(sq.Eq{"is_deleted": false})
	}
	return builder
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOutfit(row rowScanner) (models.Outfit, error) {
	var (
		outfit   models.Outfit
		imageURL sql.NullString
	)

	err := row.Scan(
		&outfit.ID, &outfit.UserID, &outfit.Name, &outfit.Occasion, &imageURL,
		&outfit.ItemsJSON, &outfit.TheoryJSON, &outfit.StyleTagsJSON,
		&outfit.CreatedAt, &outfit.UpdatedAt,
		&outfit.IsLiked, &outfit.IsFavorited, &outfit.IsDeleted, &outfit.SyncStatus,
	)
	if err != nil {
		return models.Outfit{}, err
	}

	outfit.GarmentImageURL = imageURL.String
	return outfit, nil
}

func collectOutfits(rows *sql.Rows) ([]models.Outfit, error) {
	var outfits []models.Outfit
	for rows.Next() {
		outfit, err := scanOutfit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outfit: %w", err)
		}
		outfits = append(outfits, outfit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outfits: %w", err)
	}
	return outfits, nil
}
