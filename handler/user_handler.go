package handler

import (
	"context"
	"net/http"
	"videotube-api/common"
	"videotube-api/logger"
	"videotube-api/model"
	"videotube-api/service"
	"videotube-api/storage"
)

type UserHandler struct {
	users   *service.UserService
	auth    *service.AuthService
	cookies CookieConfig
}

func NewUserHandler(users *service.UserService, auth *service.AuthService, cookies CookieConfig) *UserHandler {
	return &UserHandler{users: users, auth: auth, cookies: cookies}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an account from a multipart form. The avatar is required, the cover image optional.
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        fullname    formData  string  true   "Full name"
// @Param        email       formData  string  true   "Email"
// @Param        username    formData  string  true   "Username"
// @Param        password    formData  string  true   "Password"
// @Param        avatar      formData  file    true   "Avatar image"
// @Param        coverImage  formData  file    false  "Cover image"
// @Success      201  {object}  common.APIResponse{data=model.User}
// @Failure      400  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Username or email already taken"
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	form, appErr := parseUploadForm(w, r, 2*maxImageUpload)
	if appErr != nil {
		return appErr
	}
	defer form.Close()

	req := model.RegisterRequest{
		FullName: form.value("fullname"),
		Email:    form.value("email"),
		Username: form.value("username"),
		Password: r.FormValue("password"),
	}
	if appErr := common.ValidateStruct(&req); appErr != nil {
		return appErr
	}

	avatar, appErr := form.file("avatar")
	if appErr != nil {
		return appErr
	}
	cover, appErr := form.file("coverImage")
	if appErr != nil {
		return appErr
	}

	user, err := h.users.Register(r.Context(), req, avatar, cover)
	if err != nil {
		return serviceError(err, "Something went wrong while registering the user")
	}

	common.WriteJSON(w, http.StatusCreated, user, "User registered successfully")
	return nil
}

// Login godoc
// @Summary      Log in
// @Description  Authenticates with username or email and sets the accessToken and refreshToken cookies.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        credentials  body      model.LoginRequest  true  "Username or email, and password"
// @Success      200  {object}  common.APIResponse{data=model.LoginResult}
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError "Invalid user credentials"
// @Failure      404  {object}  common.AppError "User does not exist"
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	result, err := h.auth.Login(r.Context(), req)
	if err != nil {
		return serviceError(err, "Could not log in")
	}

	h.cookies.setTokens(w, result.TokenPair)
	common.WriteJSON(w, http.StatusOK, result, "User logged in successfully")
	return nil
}

// RefreshToken godoc
// @Summary      Rotate the session tokens
// @Description  Exchanges the refresh token (cookie or body) for a new pair. The presented token becomes unusable.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      model.RefreshRequest  false  "Refresh token when no cookie is sent"
// @Success      200  {object}  common.APIResponse{data=model.TokenPair}
// @Failure      401  {object}  common.AppError
// @Router       /api/v1/users/refresh-token [post]
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) *common.AppError {
	var incoming string
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		incoming = cookie.Value
	}
	if incoming == "" {
		// An unreadable body carries no token; RefreshTokens reports it as missing.
		var req model.RefreshRequest
		if appErr := common.ValidateAndDecode(r, &req); appErr == nil {
			incoming = req.RefreshToken
		}
	}

	pair, err := h.auth.RefreshTokens(r.Context(), incoming)
	if err != nil {
		return serviceError(err, "Could not refresh access token")
	}

	h.cookies.setTokens(w, *pair)
	common.WriteJSON(w, http.StatusOK, pair, "Access token refreshed")
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the stored refresh token and clears both session cookies.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse
// @Failure      401  {object}  common.AppError
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}

	if err := h.auth.Logout(r.Context(), user.ID); err != nil {
		return common.Internal("Could not log out", err)
	}

	h.cookies.clearTokens(w)
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{}, "User logged out")
	return nil
}

// CurrentUser godoc
// @Summary      Get the authenticated user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=model.User}
// @Failure      401  {object}  common.AppError
// @Router       /api/v1/users/current-user [get]
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	common.WriteJSON(w, http.StatusOK, user, "Current user fetched successfully")
	return nil
}

// ChangePassword godoc
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      model.ChangePasswordRequest  true  "Old and new password"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.AppError "Invalid old password"
// @Failure      401  {object}  common.AppError
// @Router       /api/v1/users/change-password [post]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	var req model.ChangePasswordRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.auth.ChangePassword(r.Context(), user.ID, req); err != nil {
		return serviceError(err, "Could not change password")
	}

	logger.Log.WithField("user_id", user.ID).Info("Password changed")
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{}, "Password changed successfully")
	return nil
}

// UpdateAccount godoc
// @Summary      Update account details
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      model.UpdateAccountRequest  true  "Full name and email"
// @Success      200  {object}  common.APIResponse{data=model.User}
// @Failure      400  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Email already taken"
// @Router       /api/v1/users/update-account [patch]
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	var req model.UpdateAccountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	updated, err := h.users.UpdateAccount(r.Context(), user, req)
	if err != nil {
		return serviceError(err, "Could not update account details")
	}
	common.WriteJSON(w, http.StatusOK, updated, "Account details updated successfully")
	return nil
}

// UpdateAvatar godoc
// @Summary      Replace the avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "Avatar image"
// @Success      200  {object}  common.APIResponse{data=model.User}
// @Failure      400  {object}  common.AppError "Avatar file is required"
// @Router       /api/v1/users/avatar [patch]
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.updateImage(w, r, "avatar", h.users.UpdateAvatar, "Avatar updated successfully")
}

// UpdateCoverImage godoc
// @Summary      Replace the cover image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        coverImage  formData  file  true  "Cover image"
// @Success      200  {object}  common.APIResponse{data=model.User}
// @Failure      400  {object}  common.AppError "Cover image file is required"
// @Router       /api/v1/users/cover-image [patch]
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.updateImage(w, r, "coverImage", h.users.UpdateCoverImage, "Cover image updated successfully")
}

func (h *UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field string,
	update func(ctx context.Context, user *model.User, file *storage.File) (*model.User, error), message string) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	form, appErr := parseUploadForm(w, r, maxImageUpload)
	if appErr != nil {
		return appErr
	}
	defer form.Close()

	file, appErr := form.file(field)
	if appErr != nil {
		return appErr
	}

	updated, err := update(r.Context(), user, file)
	if err != nil {
		return serviceError(err, "Could not update image")
	}
	common.WriteJSON(w, http.StatusOK, updated, message)
	return nil
}

// ChannelProfile godoc
// @Summary      Get a channel profile
// @Description  Returns the channel with subscriber counts and whether the caller is subscribed.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Channel username"
// @Success      200  {object}  common.APIResponse{data=model.ChannelProfile}
// @Failure      404  {object}  common.AppError "Channel does not exist"
// @Router       /api/v1/users/c/{username} [get]
func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}

	profile, err := h.users.GetChannelProfile(r.Context(), r.PathValue("username"), user.ID)
	if err != nil {
		return serviceError(err, "Could not fetch channel")
	}
	common.WriteJSON(w, http.StatusOK, profile, "User channel fetched successfully")
	return nil
}

// WatchHistory godoc
// @Summary      Get the caller's watch history
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=[]model.WatchedVideo}
// @Router       /api/v1/users/history [get]
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}

	history, err := h.users.GetWatchHistory(r.Context(), user.ID)
	if err != nil {
		return common.Internal("Could not fetch watch history", err)
	}
	common.WriteJSON(w, http.StatusOK, history, "Watch history fetched successfully")
	return nil
}
