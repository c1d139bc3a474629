package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rafacas/dorkhub/internal/index"
	"github.com/rafacas/dorkhub/internal/models"
	"github.com/rafacas/dorkhub/internal/password"
	"github.com/rafacas/dorkhub/internal/policy"
	"github.com/rafacas/dorkhub/internal/validation"
	"github.com/rafacas/dorkhub/internal/view"
	"gorm.io/gorm"
)

type AdminHandler struct {
	db      *gorm.DB
	indexer *index.Indexer
}

func NewAdminHandler(db *gorm.DB, indexer *index.Indexer) *AdminHandler {
	return &AdminHandler{db: db, indexer: indexer}
}

// List shows all accounts plus the create form.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.db.Order("id ASC").Find(&users).Error; err != nil {
		http.Error(w, "failed to load users", http.StatusInternalServerError)
		return
	}
	p := policy.FromContext(r.Context())
	view.Render(w, "admin_users.html", map[string]any{
		"User":  p.User,
		"Users": users,
		"Msg":   r.URL.Query().Get("msg"),
	})
}

// Create inserts a new account. Blank and duplicate usernames are rejected
// before anything is written; a rejected create mutates nothing.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	pass := r.FormValue("password")
	isAdmin := r.FormValue("is_admin") != ""

	v := validation.Violations{}
	validation.Required("username", username, v)
	validation.Required("password", pass, v)
	validation.Username("username", username, v)
	validation.MaxLen("username", username, 255, v)
	if !v.Empty() {
		h.flash(w, r, "Invalid input: "+v.First())
		return
	}

	var n int64
	if err := h.db.Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		http.Error(w, "failed to check username", http.StatusInternalServerError)
		return
	}
	if n > 0 {
		h.flash(w, r, "User already exists.")
		return
	}

	hash, err := password.Hash(pass)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}
	if err := h.db.Create(&models.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		IsActive:     true,
	}).Error; err != nil {
		// unique index race: treat like the pre-check
		h.flash(w, r, "User already exists.")
		return
	}
	h.flash(w, r, "User created.")
}

// Toggle flips an account's active flag. Admins cannot deactivate their own
// account.
func (h *AdminHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.flash(w, r, "User not found.")
			return
		}
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}

	caller := policy.FromContext(r.Context())
	if caller.User != nil && caller.User.ID == user.ID {
		h.flash(w, r, "You cannot deactivate your own account.")
		return
	}

	if err := h.db.Model(&user).Update("is_active", !user.IsActive).Error; err != nil {
		http.Error(w, "failed to update user", http.StatusInternalServerError)
		return
	}
	h.flash(w, r, "User status updated.")
}

// Reset replaces an account's password hash.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	newPassword := r.FormValue("new_password")
	v := validation.Violations{}
	validation.Required("new_password", newPassword, v)
	if !v.Empty() {
		h.flash(w, r, "New password cannot be blank.")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.flash(w, r, "User not found.")
			return
		}
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}
	if err := h.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		http.Error(w, "failed to update user", http.StatusInternalServerError)
		return
	}
	h.flash(w, r, "Password reset.")
}

// Reindex rebuilds the corpus. A failed rebuild keeps the previous index.
func (h *AdminHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	if err := h.indexer.Rebuild(r.Context()); err != nil {
		log.Printf("reindex: %v", err)
		h.flash(w, r, "Index rebuild failed; previous index kept.")
		return
	}
	h.flash(w, r, "Index rebuilt.")
}

func (h *AdminHandler) pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		h.flash(w, r, "User not found.")
		return 0, false
	}
	return uint(id), true
}

func (h *AdminHandler) flash(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/admin/users?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}
