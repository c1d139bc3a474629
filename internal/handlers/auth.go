package handlers

import (
	"net/http"

	"github.com/rafacas/dorkhub/internal/auth"
	"github.com/rafacas/dorkhub/internal/models"
	"github.com/rafacas/dorkhub/internal/password"
	"github.com/rafacas/dorkhub/internal/policy"
	"github.com/rafacas/dorkhub/internal/view"
	"gorm.io/gorm"
)

const (
	msgBadCredentials = "Invalid username or password."
	msgDisabled       = "Account disabled. Contact the administrator."
)

type AuthHandler struct {
	db    *gorm.DB
	codec *auth.Codec
	gate  *policy.Gate
}

func NewAuthHandler(db *gorm.DB, codec *auth.Codec, gate *policy.Gate) *AuthHandler {
	return &AuthHandler{db: db, codec: codec, gate: gate}
}

// Login renders the form on GET and authenticates on POST. Unknown users and
// wrong passwords get the same message; deactivated accounts get their own,
// matching what the admin told the user.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if h.gate.Resolve(r).Authenticated() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		view.Render(w, "login.html", map[string]any{"Error": r.URL.Query().Get("error")})
		return
	}

	username := r.FormValue("username")
	pass := r.FormValue("password")

	var user models.User
	if err := h.db.Where("username = ?", username).First(&user).Error; err != nil {
		view.Render(w, "login.html", map[string]any{"Error": msgBadCredentials})
		return
	}
	if !user.IsActive {
		view.Render(w, "login.html", map[string]any{"Error": msgDisabled})
		return
	}
	if !password.Verify(pass, user.PasswordHash) {
		view.Render(w, "login.html", map[string]any{"Error": msgBadCredentials})
		return
	}

	h.codec.SetSession(w, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
