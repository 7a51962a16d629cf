package handler

import (
	"context"
	"net/http"
	"videotube-api/common"
	"videotube-api/model"
	"videotube-api/service"
)

type PlaylistHandler struct {
	service *service.PlaylistService
}

func NewPlaylistHandler(s *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{service: s}
}

// CreatePlaylist godoc
// @Summary      Create a playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      model.PlaylistRequest  true  "Name and description"
// @Success      201  {object}  common.APIResponse{data=model.Playlist}
// @Failure      400  {object}  common.AppError
// @Router       /api/v1/playlists [post]
func (h *PlaylistHandler) CreatePlaylist(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	var req model.PlaylistRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	playlist, err := h.service.CreatePlaylist(r.Context(), user.ID, req)
	if err != nil {
		return common.Internal("Could not create playlist", err)
	}
	common.WriteJSON(w, http.StatusCreated, playlist, "Playlist created successfully")
	return nil
}

// UserPlaylists godoc
// @Summary      List a user's playlists
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID"
// @Success      200  {object}  common.APIResponse{data=[]model.Playlist}
// @Router       /api/v1/playlists/user/{userId} [get]
func (h *PlaylistHandler) UserPlaylists(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := pathID(r, "userId")
	if appErr != nil {
		return appErr
	}

	playlists, err := h.service.GetUserPlaylists(r.Context(), userID)
	if err != nil {
		return common.Internal("Could not fetch playlists", err)
	}
	common.WriteJSON(w, http.StatusOK, playlists, "Playlists fetched successfully")
	return nil
}

// GetPlaylist godoc
// @Summary      Get a playlist
// @Tags         playlists
// @Produce      json
// @Param        playlistId  path      int  true  "Playlist ID"
// @Success      200  {object}  common.APIResponse{data=model.Playlist}
// @Failure      404  {object}  common.AppError "Playlist not found"
// @Router       /api/v1/playlists/{playlistId} [get]
func (h *PlaylistHandler) GetPlaylist(w http.ResponseWriter, r *http.Request) *common.AppError {
	playlistID, appErr := pathID(r, "playlistId")
	if appErr != nil {
		return appErr
	}

	playlist, err := h.service.GetPlaylist(r.Context(), playlistID)
	if err != nil {
		return serviceError(err, "Could not fetch playlist")
	}
	common.WriteJSON(w, http.StatusOK, playlist, "Playlist fetched successfully")
	return nil
}

// UpdatePlaylist godoc
// @Summary      Rename a playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        playlistId  path      int                    true  "Playlist ID"
// @Param        body        body      model.PlaylistRequest  true  "Name and description"
// @Success      200  {object}  common.APIResponse{data=model.Playlist}
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Playlist not found"
// @Router       /api/v1/playlists/{playlistId} [patch]
func (h *PlaylistHandler) UpdatePlaylist(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	playlistID, appErr := pathID(r, "playlistId")
	if appErr != nil {
		return appErr
	}
	var req model.PlaylistRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	playlist, err := h.service.UpdatePlaylist(r.Context(), playlistID, user.ID, req)
	if err != nil {
		return serviceError(err, "Could not update playlist")
	}
	common.WriteJSON(w, http.StatusOK, playlist, "Playlist updated successfully")
	return nil
}

// DeletePlaylist godoc
// @Summary      Delete a playlist
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        playlistId  path      int  true  "Playlist ID"
// @Success      200  {object}  common.APIResponse
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Playlist not found"
// @Router       /api/v1/playlists/{playlistId} [delete]
func (h *PlaylistHandler) DeletePlaylist(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	playlistID, appErr := pathID(r, "playlistId")
	if appErr != nil {
		return appErr
	}

	if err := h.service.DeletePlaylist(r.Context(), playlistID, user.ID); err != nil {
		return serviceError(err, "Could not delete playlist")
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{}, "Playlist deleted successfully")
	return nil
}

// AddVideo godoc
// @Summary      Add a video to a playlist
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        videoId     path      int  true  "Video ID"
// @Param        playlistId  path      int  true  "Playlist ID"
// @Success      200  {object}  common.APIResponse{data=model.Playlist}
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Video already in playlist"
// @Router       /api/v1/playlists/add/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.changeVideos(w, r, h.service.AddVideo, "Video added to playlist")
}

// RemoveVideo godoc
// @Summary      Remove a video from a playlist
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        videoId     path      int  true  "Video ID"
// @Param        playlistId  path      int  true  "Playlist ID"
// @Success      200  {object}  common.APIResponse{data=model.Playlist}
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/v1/playlists/remove/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.changeVideos(w, r, h.service.RemoveVideo, "Video removed from playlist")
}

func (h *PlaylistHandler) changeVideos(w http.ResponseWriter, r *http.Request,
	change func(ctx context.Context, playlistID, videoID, userID int) (*model.Playlist, error), message string) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	videoID, appErr := pathID(r, "videoId")
	if appErr != nil {
		return appErr
	}
	playlistID, appErr := pathID(r, "playlistId")
	if appErr != nil {
		return appErr
	}

	playlist, err := change(r.Context(), playlistID, videoID, user.ID)
	if err != nil {
		return serviceError(err, "Could not update playlist")
	}
	common.WriteJSON(w, http.StatusOK, playlist, message)
	return nil
}
