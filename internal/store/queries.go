package store

// Static SQL lives here; dynamic filters for Query/Count are built with
// squirrel in the outfit repository.

const (
	outfitColumns = `id, user_id, name, occasion, garment_image_url, items_json, theory_json, style_tags_json, created_at, updated_at, is_liked, is_favorited, is_deleted, sync_status`

	getOutfitQuery = `SELECT ` + outfitColumns + ` FROM outfits WHERE id = ?`

	// ON CONFLICT keeps created_at of the existing row so record age is
	// stable across repeated server pulls.
	upsertOutfitQuery = `
		INSERT INTO outfits (` + outfitColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			occasion = excluded.occasion,
			garment_image_url = excluded.garment_image_url,
			items_json = excluded.items_json,
			theory_json = excluded.theory_json,
			style_tags_json = excluded.style_tags_json,
			updated_at = excluded.updated_at,
			is_liked = excluded.is_liked,
			is_favorited = excluded.is_favorited,
			is_deleted = excluded.is_deleted,
			sync_status = excluded.sync_status`

	setSyncStatusQuery = `UPDATE outfits SET sync_status = ? WHERE id = ?`

	listPendingOutfitsQuery = `SELECT ` + outfitColumns + ` FROM outfits WHERE sync_status = 'pending' ORDER BY updated_at ASC`

	insertActionQuery = `INSERT INTO pending_actions (id, action_type, entity_id, enqueued_at, attempts) VALUES (?, ?, ?, ?, 0)`

	drainActionsQuery = `SELECT id, action_type, entity_id, enqueued_at, attempts FROM pending_actions ORDER BY enqueued_at ASC, id ASC`

	deleteActionsQuery = `DELETE FROM pending_actions WHERE entity_id = ? AND action_type = ?`

	incrementAttemptsQuery = `UPDATE pending_actions SET attempts = attempts + 1 WHERE id = ?`

	countActionsQuery = `SELECT COUNT(*) FROM pending_actions`

	hasPendingActionQuery = `SELECT EXISTS(SELECT 1 FROM pending_actions WHERE entity_id = ?)`

	getPreferencesQuery = `SELECT user_id, body_type, styles_json, occasions_json, updated_at FROM preferences LIMIT 1`

	putPreferencesQuery = `
		INSERT INTO preferences (user_id, body_type, styles_json, occasions_json, updated_at, sync_status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			body_type = excluded.body_type,
			styles_json = excluded.styles_json,
			occasions_json = excluded.occasions_json,
			updated_at = excluded.updated_at,
			sync_status = excluded.sync_status`

	clearPreferencesQuery = `DELETE FROM preferences`
)
