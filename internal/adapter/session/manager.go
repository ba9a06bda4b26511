package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/course-catalog/internal/config"
	"github.com/fairyhunter13/course-catalog/internal/obs"
)

const cookieName = "session"

// Manager resolves session state from an HMAC-signed session-id cookie.
type Manager struct {
	secret []byte
	store  Store
	cfg    config.Config
}

// NewManager creates a session manager over the given state store.
func NewManager(cfg config.Config, store Store) *Manager {
	return &Manager{
		secret: []byte(cfg.SessionSecret),
		store:  store,
		cfg:    cfg,
	}
}

// newSessionValue mints a session id and its signed cookie value.
func (m *Manager) newSessionValue() (string, string) {
	sid := uuid.NewString()

	// Payload: sid:issuedAt, signed as payload.signature
	payload := fmt.Sprintf("%s:%d", sid, time.Now().Unix())
	return sid, payload + "." + m.sign(payload)
}

func (m *Manager) sign(payload string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(payload))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

// parseSessionValue validates a cookie value and returns the session id.
func (m *Manager) parseSessionValue(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("empty session value")
	}

	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid session format")
	}
	payload, signatureB64 := parts[0], parts[1]

	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(payload))
	expectedSignature := mac.Sum(nil)

	actualSignature, err := base64.URLEncoding.DecodeString(signatureB64)
	if err != nil {
		return "", fmt.Errorf("invalid signature encoding")
	}
	if !hmac.Equal(expectedSignature, actualSignature) {
		return "", fmt.Errorf("invalid session signature")
	}

	payloadParts := strings.Split(payload, ":")
	if len(payloadParts) != 2 {
		return "", fmt.Errorf("invalid payload format")
	}
	return payloadParts[0], nil
}

func (m *Manager) setCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   !m.cfg.IsDev(),
		SameSite: m.sameSite(),
		MaxAge:   int(m.cfg.SessionTTL.Seconds()),
	})
}

func (m *Manager) sameSite() http.SameSite {
	switch strings.ToLower(m.cfg.SessionSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Middleware loads (or creates) the session state for the request and
// persists it after the handler returns. A failing store never fails the
// request; the handler just runs on fresh state.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		lg := obs.LoggerFromContext(ctx)

		var sid string
		var st State
		if cookie, err := r.Cookie(cookieName); err == nil {
			if id, perr := m.parseSessionValue(cookie.Value); perr == nil {
				// Valid signature keeps the id even when its state
				// expired or the store is unreachable.
				sid = id
				loaded, ok, lerr := m.store.Load(ctx, id)
				if lerr != nil {
					lg.Warn("session load failed", slog.Any("error", lerr))
				}
				if ok {
					st = loaded
				}
			}
		}
		if sid == "" {
			var value string
			sid, value = m.newSessionValue()
			m.setCookie(w, value)
		}

		state := &st
		next.ServeHTTP(w, r.WithContext(ContextWithState(ctx, state)))

		if err := m.store.Save(ctx, sid, *state); err != nil {
			lg.Error("session save failed", slog.Any("error", err))
		}
	})
}
