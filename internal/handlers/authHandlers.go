package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog/log"

	"edudham/internal/authz"
	"edudham/internal/models"
	"edudham/internal/services"
	"edudham/internal/utils"
)

type AuthHandler struct {
	userService services.UserService
	otpService  services.OTPService
	authService services.AuthService
}

func NewAuthHandler(userService services.UserService, otpService services.OTPService, authService services.AuthService) *AuthHandler {
	return &AuthHandler{userService: userService, otpService: otpService, authService: authService}
}

// Register creates an account. The route carries optional auth: an admin
// token lets the caller assign staff roles, anyone else gets a student
// account regardless of the requested role.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	var caller *authz.Actor
	if claims := utils.OptionalClaims(r); claims != nil {
		actor := claims.Actor()
		caller = &actor
	}

	resp, err := h.userService.Register(r.Context(), &req, caller)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.LoginRequest
	if err := utils.DecodeJSONBody(r, &creds); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	resp, err := h.userService.Login(r.Context(), &creds)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// RequestOTP starts the password reset flow. The generated code is sent to
// the master inbox and echoed in the response for the operator.
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req models.OTPRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	result, err := h.otpService.RequestOTP(r.Context(), req.Email)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message":      "OTP sent to master email",
		"otp":          result.Code,
		"master_email": result.MasterEmail,
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.OTPVerifyRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	if err := h.otpService.VerifyOTPAndResetPassword(r.Context(), &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Password reset successful"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}

	user, err := h.userService.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user.Response())
}

func (h *AuthHandler) ProviderAuth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	provider := vars["provider"]

	if provider == "" {
		log.Error().Msg("Provider not specified in URL")
		utils.SendJSONError(w, "Provider not specified", http.StatusBadRequest)
		return
	}

	log.Info().Str("provider", provider).Msg("Initiating authentication with provider")

	gothic.BeginAuthHandler(w, r)
}

func (h *AuthHandler) ProviderCallback(w http.ResponseWriter, r *http.Request) {
	log.Info().Msg("Provider callback initiated")

	providerUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		log.Error().Err(err).Msg("Error completing user authentication")
		http.Redirect(w, r, "/api/auth/error", http.StatusTemporaryRedirect)
		return
	}

	token, err := h.authService.HandleLogin(r.Context(), providerUser)
	if err != nil {
		log.Error().Err(err).Msg("Error handling login after provider authentication")
		http.Redirect(w, r, "/api/auth/error", http.StatusTemporaryRedirect)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})

	http.Redirect(w, r, "/api/auth/success", http.StatusTemporaryRedirect)
}

func (h *AuthHandler) AuthSuccess(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Authentication successful! Redirecting..."))
}

func (h *AuthHandler) AuthError(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Authentication failed. Please try again.", http.StatusBadRequest)
}
