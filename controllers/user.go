package controllers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/storage"
	"github.com/LorenaGrigorcea/mern-bookstore-backend/utils"
)

// UserController handles admin authentication.
type UserController struct {
	Users *storage.UserStore
	Log   *zap.Logger
}

// NewUserController creates a new UserController.
func NewUserController(users *storage.UserStore, log *zap.Logger) *UserController {
	return &UserController{Users: users, Log: log}
}

// Login authenticates an admin by email and password and issues a signed
// token. An unknown email and a non-admin account produce the same generic
// answer, so the response does not reveal which emails exist.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Invalid request body"))
		return
	}
	if creds.Email == "" || creds.Password == "" {
		utils.WriteError(w, apperrors.New(apperrors.Validation, "Email and password are required"))
		return
	}

	user, found, err := uc.Users.FindAdmin(creds.Email)
	if err != nil {
		uc.Log.Error("user lookup failed", zap.Error(err))
		utils.WriteError(w, err)
		return
	}
	if !found {
		utils.WriteError(w, apperrors.New(apperrors.AuthInvalid, "Restricted access - administrators only"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		utils.WriteError(w, apperrors.New(apperrors.AuthInvalid, "Incorrect password"))
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		uc.Log.Error("token generation failed", zap.Error(err))
		utils.WriteError(w, apperrors.Wrap(apperrors.Storage, "Failed to generate token", err))
		return
	}

	uc.Log.Info("admin login", zap.String("email", user.Email))
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Admin login successful",
		"token":   token,
		"user":    user.Public(),
	})
}
