// Package adapter provides transport-layer abstractions for communicating
// with the outfit API.
//
// The primary abstraction is [ServerAdapter], which decouples the service
// layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from transport failures and
// HTTP status codes by the adapter so that callers can use [errors.Is] for
// transport-agnostic error handling; in particular the mutation executor and
// the sync orchestrator distinguish transient failures (retry or queue) from
// definitive rejections (roll back) solely through these sentinels.
package adapter

import (
	"context"

	"github.com/dalistyle/synckit/models"
)

// ServerAdapter defines transport-agnostic communication with the outfit API.
// Implementations are responsible for serialisation, authentication header
// management, and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// UserID returns the subject claim of the stored bearer token, or an
	// empty string if no token has been set or it cannot be parsed.
	UserID() string

	// Like marks the outfit liked on the server and returns the server's
	// record state after the mutation.
	Like(ctx context.Context, outfitID string) (models.Outfit, error)

	// Unlike removes the like on the server. An outfit that was never liked
	// server-side yields a not-found response, which Unlike reports as
	// success with a zero-ID record: the desired end state already holds.
	Unlike(ctx context.Context, outfitID string) (models.Outfit, error)

	// Save marks the outfit saved to the user's collection and returns the
	// server's record state after the mutation.
	Save(ctx context.Context, outfitID string) (models.Outfit, error)

	// Unsave removes the outfit from the collection. Not-found is reported
	// as success with a zero-ID record, same as Unlike.
	Unsave(ctx context.Context, outfitID string) (models.Outfit, error)

	// PutPreferences replaces the user's style profile on the server.
	PutPreferences(ctx context.Context, prefs models.Preferences) error

	// Sync runs one batch exchange: uploads the locally changed records in
	// req and returns every server-side record updated since
	// req.LastSyncTime, conflicts separated out.
	Sync(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error)

	// DownloadAll fetches the user's complete record set. Used to backfill
	// an empty local store on a fresh device.
	DownloadAll(ctx context.Context) ([]models.Outfit, error)
}
