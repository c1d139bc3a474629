package policy

import (
	"net/http"
	"strings"

	"github.com/rafacas/dorkhub/internal/auth"
	"github.com/rafacas/dorkhub/internal/models"
	"gorm.io/gorm"
)

// Gate composes the token codec with the user directory to authenticate and
// authorize requests.
type Gate struct {
	db    *gorm.DB
	codec *auth.Codec
}

// NewGate returns a gate over the given directory and codec.
func NewGate(db *gorm.DB, codec *auth.Codec) *Gate {
	return &Gate{db: db, codec: codec}
}

// Resolve turns a request into a Principal: cookie present, signature valid,
// uid resolves to an existing user, and that user is active. Any failure
// yields Anonymous.
func (g *Gate) Resolve(r *http.Request) Principal {
	token, ok := auth.TokenFromRequest(r)
	if !ok {
		return Anonymous
	}
	uid, ok := g.codec.Verify(token)
	if !ok {
		return Anonymous
	}
	var user models.User
	if err := g.db.WithContext(r.Context()).First(&user, uid).Error; err != nil {
		return Anonymous
	}
	if !user.IsActive {
		return Anonymous
	}
	return Principal{User: &user}
}

// RequireUser resolves the principal once, attaches it to the request context
// and rejects anonymous callers: JSON clients get 401, everyone else is
// redirected to the login page.
func (g *Gate) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := g.Resolve(r)
		if !p.Authenticated() {
			rejectUnauthenticated(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireAdmin is RequireUser plus the admin role check. A logged-in
// non-admin gets 403, which is deliberately distinct from the
// unauthenticated redirect.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return g.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !FromContext(r.Context()).Admin() {
			http.Error(w, ErrForbidden.Error(), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func rejectUnauthenticated(w http.ResponseWriter, r *http.Request) {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthenticated"}`))
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
