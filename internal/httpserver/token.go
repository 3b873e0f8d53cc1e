// internal/httpserver/token.go
//
// Session tokens and the anonymous player cookie.
//   - Tokens are HS256 JWTs carrying the session ID (sid) and player ID (pid).
//   - A token is accepted from "Authorization: Bearer", the "token" query
//     parameter (browsers cannot set headers on WebSocket upgrades) or the
//     session cookie.
//   - Players are anonymous: a random UUID kept in a long-lived cookie.

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/robalobadob/wordgame/internal/session"
)

const (
	sessionCookieName = "wordgame_session"
	playerCookieName  = "wordgame_player"
)

type sessionClaims struct {
	SessionID string `json:"sid"`
	PlayerID  string `json:"pid"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// sign creates a token for the session that expires after ttl.
func (ti tokenIssuer) sign(sessionID, playerID string) (string, time.Time, error) {
	now := ti.now()
	exp := now.Add(ti.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: sessionID,
		PlayerID:  playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(ti.secret)
	return ss, exp, err
}

// parse validates signature, algorithm and expiry.
func (ti tokenIssuer) parse(tok string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(ti.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnauthorized, err)
	}
	if !t.Valid || claims.SessionID == "" {
		return nil, errUnauthorized
	}
	return claims, nil
}

// bearerQueryOrCookie extracts a token from the Authorization header, the
// token query parameter, or the session cookie, in that order.
func bearerQueryOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if q := r.URL.Query().Get("token"); q != "" {
		return q
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

type ctxSessionKey struct{}

// requireSession checks the token against {id} and puts the live session in
// the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerQueryOrCookie(r)
		if tok == "" {
			writeError(w, r, errUnauthorized)
			return
		}
		claims, err := s.tokens.parse(tok)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if claims.SessionID != chi.URLParam(r, "id") {
			writeError(w, r, errForbidden)
			return
		}
		sess, err := s.store.Get(r.Context(), claims.SessionID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(ctxSessionKey{}).(*session.Session)
	return sess
}

// setSessionCookie stores the token for clients that prefer cookies.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, s.cookie(sessionCookieName, token, exp))
}

// ensurePlayerID returns an existing player cookie or sets a new one.
func (s *Server) ensurePlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, s.cookie(playerCookieName, id, s.opts.Now().Add(180*24*time.Hour)))
	return id
}

// playerID reads the player cookie without creating one.
func playerID(r *http.Request) (string, error) {
	c, err := r.Cookie(playerCookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && c.Value == "") {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

func (s *Server) cookie(name, value string, exp time.Time) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if s.opts.Production {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Production,
		SameSite: sameSite,
		Expires:  exp,
	}
}

// checkOrigin allows same-host upgrades and the configured client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if s.opts.ClientOrigin != "" && strings.EqualFold(origin, s.opts.ClientOrigin) {
		return true
	}
	o := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	return strings.EqualFold(o, r.Host)
}
