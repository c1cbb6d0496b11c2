package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/brief"
	"tailscale.com/client/tailscale/apitype"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userInfoKey contextKey = "user_info"
)

// UserInfo describes the authenticated caller.
type UserInfo struct {
	UserID      uuid.UUID `json:"user_id"`
	Login       string    `json:"login"`
	DisplayName string    `json:"display_name"`
}

// WhoIsClient identifies tailnet peers. Satisfied by the tsnet LocalClient.
type WhoIsClient interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// UserResolver maps a login to a stable user ID.
type UserResolver interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (uuid.UUID, error)
}

var errNoIdentity = errors.New("no user identity")

// identify attaches the caller's identity to the request context, or
// answers 401 before any brief is computed. Precedence: dev user, then the
// Tailscale peer, then the X-User-ID header set by the gateway.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, err := s.resolveIdentity(r)
		if err != nil {
			s.log.Warn("unauthenticated request", "path", r.URL.Path, "error", err)
			writeJSON(w, http.StatusUnauthorized, map[string]brief.Status{"status": brief.StatusUnauthenticated})
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, info.UserID)
		ctx = context.WithValue(ctx, userInfoKey, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) resolveIdentity(r *http.Request) (UserInfo, error) {
	switch {
	case s.opts.DevUser != uuid.Nil:
		return UserInfo{UserID: s.opts.DevUser, Login: "local", DisplayName: "Local Dev User"}, nil
	case s.ts != nil:
		return s.tailscaleIdentity(r)
	default:
		return headerIdentity(r)
	}
}

func (s *Server) tailscaleIdentity(r *http.Request) (UserInfo, error) {
	who, err := s.ts.WhoIs(r.Context(), r.RemoteAddr)
	if err != nil {
		return UserInfo{}, fmt.Errorf("tailscale whois %s: %w", r.RemoteAddr, err)
	}
	if who == nil || who.UserProfile == nil || who.UserProfile.LoginName == "" {
		return UserInfo{}, errNoIdentity
	}
	if s.opts.Users == nil {
		return UserInfo{}, errors.New("no user resolver configured")
	}

	login, name := who.UserProfile.LoginName, who.UserProfile.DisplayName
	id, err := s.opts.Users.GetOrCreateUser(r.Context(), login, name)
	if err != nil {
		return UserInfo{}, err
	}
	return UserInfo{UserID: id, Login: login, DisplayName: name}, nil
}

func headerIdentity(r *http.Request) (UserInfo, error) {
	raw := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if raw == "" {
		return UserInfo{}, errNoIdentity
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return UserInfo{}, fmt.Errorf("invalid X-User-ID %q", raw)
	}
	return UserInfo{UserID: id, Login: id.String()}, nil
}

func userIDFromContext(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func userInfoFromContext(r *http.Request) (UserInfo, bool) {
	info, ok := r.Context().Value(userInfoKey).(UserInfo)
	return info, ok
}

// mustUserID returns the caller's ID or writes a 401.
func mustUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := userIDFromContext(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]brief.Status{"status": brief.StatusUnauthenticated})
	}
	return id, ok
}
