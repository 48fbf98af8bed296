package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	authmw "github.com/mind-engage/interview-coach/internal/auth/middleware"
	"github.com/mind-engage/interview-coach/internal/rbac"
)

const (
	guestCookie = "ic_guest_id"
	guestPrefix = "guest|"
	guestTTL    = 30 * 24 * time.Hour

	// cookieRole marks the long-lived identity token kept in the guest
	// cookie. It grants no permissions, so it is useless as a bearer token.
	cookieRole = "guest-cookie"
)

// GuestLoginHandler issues candidate tokens. The guest id lives in a signed
// cookie, so a browser keeps its identity and its interview history across
// logins while a hand-made cookie is ignored.
func GuestLoginHandler(a *authmw.AuthService, secure bool) http.HandlerFunc {
	type out struct {
		AccessToken string `json:"access_token"`
		Username    string `json:"username"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userID := guestFromCookie(a, r)
		if userID == "" {
			userID = guestPrefix + uuid.NewString()
		}

		tok, err := a.IssueJWT(userID, rbac.RoleCandidate)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		cookieTok, err := a.IssueJWTWithTTL(userID, cookieRole, guestTTL)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		sameSite := http.SameSiteLaxMode
		if secure {
			sameSite = http.SameSiteNoneMode
		}
		http.SetCookie(w, &http.Cookie{
			Name:     guestCookie,
			Value:    cookieTok,
			Path:     "/",
			HttpOnly: true,
			Secure:   secure,
			SameSite: sameSite,
			Expires:  time.Now().Add(guestTTL),
		})
		sfx := strings.TrimPrefix(userID, guestPrefix)
		if len(sfx) > 6 {
			sfx = sfx[len(sfx)-6:]
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out{AccessToken: tok, Username: "guest-" + sfx})
	}
}

// guestFromCookie returns the guest id carried by a valid cookie token, or "".
func guestFromCookie(a *authmw.AuthService, r *http.Request) string {
	c, err := r.Cookie(guestCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	claims, err := a.Parse(c.Value)
	if err != nil || claims.Role != cookieRole || !strings.HasPrefix(claims.Sub, guestPrefix) {
		return ""
	}
	return claims.Sub
}
