package handler

import (
	"net/http"
	"strconv"
	"videotube-api/common"
	"videotube-api/model"
	"videotube-api/service"
)

type VideoHandler struct {
	service *service.VideoService
}

func NewVideoHandler(s *service.VideoService) *VideoHandler {
	return &VideoHandler{service: s}
}

// ListVideos godoc
// @Summary      List published videos
// @Description  Newest first. query matches title or description case-insensitively.
// @Tags         videos
// @Produce      json
// @Param        page    query     int     false  "Page (default 1)"
// @Param        limit   query     int     false  "Page size (default 10)"
// @Param        query   query     string  false  "Search text"
// @Param        userId  query     int     false  "Only videos of this owner"
// @Success      200  {object}  common.APIResponse{data=model.VideoPage}
// @Router       /api/v1/videos [get]
func (h *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) *common.AppError {
	filter := model.VideoFilter{
		Query:   r.URL.Query().Get("query"),
		OwnerID: queryInt(r, "userId"),
		Page:    queryInt(r, "page"),
		Limit:   queryInt(r, "limit"),
	}

	page, err := h.service.ListVideos(r.Context(), filter)
	if err != nil {
		return common.Internal("Could not fetch videos", err)
	}
	common.WriteJSON(w, http.StatusOK, page, "Videos fetched successfully")
	return nil
}

// PublishVideo godoc
// @Summary      Publish a video
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Title"
// @Param        description  formData  string  true   "Description"
// @Param        duration     formData  number  false  "Duration in seconds"
// @Param        videoFile    formData  file    true   "Video file"
// @Param        thumbnail    formData  file    true   "Thumbnail image"
// @Success      201  {object}  common.APIResponse{data=model.Video}
// @Failure      400  {object}  common.AppError
// @Router       /api/v1/videos [post]
func (h *VideoHandler) PublishVideo(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	form, appErr := parseUploadForm(w, r, maxVideoUpload)
	if appErr != nil {
		return appErr
	}
	defer form.Close()

	req := model.PublishVideoRequest{
		Title:       form.value("title"),
		Description: form.value("description"),
	}
	if raw := form.value("duration"); raw != "" {
		duration, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return common.BadRequest("Invalid duration", err)
		}
		req.Duration = duration
	}
	if appErr := common.ValidateStruct(&req); appErr != nil {
		return appErr
	}

	videoFile, appErr := form.file("videoFile")
	if appErr != nil {
		return appErr
	}
	thumbnail, appErr := form.file("thumbnail")
	if appErr != nil {
		return appErr
	}

	video, err := h.service.PublishVideo(r.Context(), user.ID, req, videoFile, thumbnail)
	if err != nil {
		return serviceError(err, "Could not publish video")
	}
	common.WriteJSON(w, http.StatusCreated, video, "Video published successfully")
	return nil
}

// GetVideo godoc
// @Summary      Get a video
// @Description  Counts a view. With a valid access token the video is added to the caller's watch history.
// @Tags         videos
// @Produce      json
// @Param        videoId  path      int  true  "Video ID"
// @Success      200  {object}  common.APIResponse{data=model.Video}
// @Failure      404  {object}  common.AppError "Video not found"
// @Router       /api/v1/videos/{videoId} [get]
func (h *VideoHandler) GetVideo(w http.ResponseWriter, r *http.Request) *common.AppError {
	videoID, appErr := pathID(r, "videoId")
	if appErr != nil {
		return appErr
	}
	var viewerID int
	if user, ok := UserFromContext(r.Context()); ok {
		viewerID = user.ID
	}

	video, err := h.service.GetVideo(r.Context(), videoID, viewerID)
	if err != nil {
		return serviceError(err, "Could not fetch video")
	}
	common.WriteJSON(w, http.StatusOK, video, "Video fetched successfully")
	return nil
}

// UpdateVideo godoc
// @Summary      Update a video
// @Description  Owner only. Fields left out stay unchanged; a new thumbnail file replaces the old one.
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        videoId      path      int     true   "Video ID"
// @Param        title        formData  string  false  "Title"
// @Param        description  formData  string  false  "Description"
// @Param        thumbnail    formData  file    false  "Thumbnail image"
// @Success      200  {object}  common.APIResponse{data=model.Video}
// @Failure      404  {object}  common.AppError "Video not found or not authorized"
// @Router       /api/v1/videos/{videoId} [patch]
func (h *VideoHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	videoID, appErr := pathID(r, "videoId")
	if appErr != nil {
		return appErr
	}
	form, appErr := parseUploadForm(w, r, maxImageUpload)
	if appErr != nil {
		return appErr
	}
	defer form.Close()

	var req model.UpdateVideoRequest
	if title := form.value("title"); title != "" {
		req.Title = &title
	}
	if description := form.value("description"); description != "" {
		req.Description = &description
	}
	if appErr := common.ValidateStruct(&req); appErr != nil {
		return appErr
	}
	thumbnail, appErr := form.file("thumbnail")
	if appErr != nil {
		return appErr
	}

	video, err := h.service.UpdateVideo(r.Context(), videoID, user.ID, req, thumbnail)
	if err != nil {
		return serviceError(err, "Could not update video")
	}
	common.WriteJSON(w, http.StatusOK, video, "Video updated successfully")
	return nil
}

// DeleteVideo godoc
// @Summary      Delete a video
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        videoId  path      int  true  "Video ID"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.AppError "Video not found or not authorized"
// @Router       /api/v1/videos/{videoId} [delete]
func (h *VideoHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	videoID, appErr := pathID(r, "videoId")
	if appErr != nil {
		return appErr
	}

	if err := h.service.DeleteVideo(r.Context(), videoID, user.ID); err != nil {
		return serviceError(err, "Could not delete video")
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{}, "Video deleted successfully")
	return nil
}

// TogglePublishStatus godoc
// @Summary      Publish or unpublish a video
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        videoId  path      int  true  "Video ID"
// @Success      200  {object}  common.APIResponse{data=model.Video}
// @Failure      404  {object}  common.AppError "Video not found or not authorized"
// @Router       /api/v1/videos/toggle/publish/{videoId} [patch]
func (h *VideoHandler) TogglePublishStatus(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	videoID, appErr := pathID(r, "videoId")
	if appErr != nil {
		return appErr
	}

	video, err := h.service.TogglePublishStatus(r.Context(), videoID, user.ID)
	if err != nil {
		return serviceError(err, "Could not toggle publish status")
	}
	common.WriteJSON(w, http.StatusOK, video, "Publish status toggled successfully")
	return nil
}
