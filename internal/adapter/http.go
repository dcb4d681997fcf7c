package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dalistyle/synckit/internal/config"
	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/models"
)

type httpServerAdapter struct {
	client *resty.Client
	logger *logger.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the resty client with the resolved
// base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// UserID implements [ServerAdapter]. The subject claim is read without
// signature verification: the client only labels local records with it, the
// server re-checks the token on every request.
func (h *httpServerAdapter) UserID() string {
	token := h.Token()
	if token == "" {
		return ""
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		h.logger.Debug().Err(err).Str("func", "UserID").Msg("cannot parse token")
		return ""
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// Like implements [ServerAdapter]. POST /api/v1/outfits/{id}/like.
func (h *httpServerAdapter) Like(ctx context.Context, outfitID string) (models.Outfit, error) {
	return h.flagCall(ctx, resty.MethodPost, outfitID, "like", false)
}

// Unlike implements [ServerAdapter]. DELETE /api/v1/outfits/{id}/like; a 404
// means the server never had the like and counts as success.
func (h *httpServerAdapter) Unlike(ctx context.Context, outfitID string) (models.Outfit, error) {
	return h.flagCall(ctx, resty.MethodDelete, outfitID, "like", true)
}

// Save implements [ServerAdapter]. POST /api/v1/outfits/{id}/save.
func (h *httpServerAdapter) Save(ctx context.Context, outfitID string) (models.Outfit, error) {
	return h.flagCall(ctx, resty.MethodPost, outfitID, "save", false)
}

// Unsave implements [ServerAdapter]. DELETE /api/v1/outfits/{id}/save; 404
// counts as success, same as Unlike.
func (h *httpServerAdapter) Unsave(ctx context.Context, outfitID string) (models.Outfit, error) {
	return h.flagCall(ctx, resty.MethodDelete, outfitID, "save", true)
}

func (h *httpServerAdapter) flagCall(ctx context.Context, method, outfitID, verb string, notFoundIsSuccess bool) (models.Outfit, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", outfitID).
		Execute(method, "/api/v1/outfits/{id}/"+verb)
	if err != nil {
		return models.Outfit{}, mapTransportError(err)
	}
	if err = mapHTTPError(resp); err != nil {
		if notFoundIsSuccess && resp.StatusCode() == http.StatusNotFound {
			// Undo of a mutation the server never saw: the end state is
			// already what the user asked for.
			return models.Outfit{}, nil
		}
		return models.Outfit{}, err
	}

	var outfit models.Outfit
	if err = json.Unmarshal(resp.Body(), &outfit); err != nil {
		return models.Outfit{}, fmt.Errorf("decode %s response: %w", verb, err)
	}

	return outfit, nil
}

// PutPreferences implements [ServerAdapter]. PUT /api/v1/users/preferences.
func (h *httpServerAdapter) PutPreferences(ctx context.Context, prefs models.Preferences) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(prefs).
		Put("/api/v1/users/preferences")
	if err != nil {
		return mapTransportError(err)
	}

	return mapHTTPError(resp)
}

// Sync implements [ServerAdapter]. POST /api/v1/sync with the locally changed
// records and the pull watermark; decodes the server's batch answer.
func (h *httpServerAdapter) Sync(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/v1/sync")
	if err != nil {
		return models.SyncResponse{}, mapTransportError(err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncResponse{}, err
	}

	var sr models.SyncResponse
	if err = json.Unmarshal(resp.Body(), &sr); err != nil {
		return models.SyncResponse{}, fmt.Errorf("decode sync response: %w", err)
	}

	return sr, nil
}

// DownloadAll implements [ServerAdapter]. GET /api/v1/outfits.
func (h *httpServerAdapter) DownloadAll(ctx context.Context) ([]models.Outfit, error) {
	resp, err := h.authedRequest(ctx).Get("/api/v1/outfits")
	if err != nil {
		return nil, mapTransportError(err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var outfits []models.Outfit
	if err = json.Unmarshal(resp.Body(), &outfits); err != nil {
		return nil, fmt.Errorf("decode download response: %w", err)
	}

	return outfits, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
