// File: internal/profile/handler.go
package profile

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"scholar_directory_backend/internal/common"
	"scholar_directory_backend/internal/config"
	"scholar_directory_backend/internal/projectmode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func respondBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}

// Handler handles HTTP requests for profile operations.
type Handler struct {
	service            Service
	projectModeService projectmode.Service
	cfg                *config.Config
	logger             *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service Service, projectModeService projectmode.Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service:            service,
		projectModeService: projectModeService,
		cfg:                cfg,
		logger:             logger,
	}
}

// RegisterRoutes sets up the routes for profile operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc, adminMiddleware gin.HandlerFunc) {
	// Public directory
	router.GET("", h.listDirectory)
	router.GET("/search", h.searchDirectory)
	router.GET("/:slug", h.getProfileBySlug)

	// Authenticated
	authed := router.Group("")
	authed.Use(authMiddleware)
	{
		authed.POST("/avatar-urls", h.batchAvatarURLs)
		authed.POST("/submit", h.submitDraft)
		authed.PUT("/submit", h.submitDraft)
		authed.GET("/me/draft", h.getMyDraft)
		authed.POST("/picture", h.uploadProfilePicture)
		authed.POST("/delete", h.deleteProfile)
		authed.DELETE("/me", h.deleteProfile)
	}

	// Admin moderation
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/drafts", h.listPendingDrafts)
		admin.POST("/drafts/:draft_id/approve", h.approveDraft)
		admin.POST("/drafts/reject", h.rejectDraft)
		admin.GET("/project-mode", h.getProjectMode)
		admin.PUT("/project-mode", h.updateProjectMode)
	}
}

func (h *Handler) listDirectory(c *gin.Context) {
	var query DirectoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters."))
		return
	}

	profiles, pagination, err := h.service.ListDirectory(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Profiles retrieved successfully.", profiles, pagination)
}

func (h *Handler) searchDirectory(c *gin.Context) {
	var query DirectoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters."))
		return
	}

	profiles, pagination, err := h.service.SearchDirectory(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Profiles retrieved successfully.", profiles, pagination)
}

func (h *Handler) getProfileBySlug(c *gin.Context) {
	slugValue := c.Param("slug")
	if slugValue == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Profile slug is required."))
		return
	}

	profile, err := h.service.GetSnapshotBySlug(c.Request.Context(), slugValue)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", profile)
}

func (h *Handler) batchAvatarURLs(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	var req AvatarURLsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	urls, err := h.service.BatchAvatarURLs(c.Request.Context(), userID, req.Paths)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Avatar URLs generated successfully.", urls)
}

func (h *Handler) submitDraft(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	var req SubmitDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.service.SubmitDraft(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Profile draft submitted successfully.", result)
}

func (h *Handler) getMyDraft(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	draft, err := h.service.GetMyDraft(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Draft retrieved successfully.", draft)
}

func (h *Handler) uploadProfilePicture(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			common.RespondWithError(c, common.ErrUnsupportedMediaType.WithDetails("Request body must be multipart/form-data."))
			return
		}
		common.RespondWithError(c, common.ErrUnprocessableEntity.WithDetails("A 'file' form field is required."))
		return
	}
	if fileHeader.Size > h.cfg.MaxUploadSizeBytes {
		common.RespondWithError(c, common.ErrPayloadTooLarge.WithDetails(
			fmt.Sprintf("Uploaded file exceeds the maximum size of %d bytes.", h.cfg.MaxUploadSizeBytes)))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not read the uploaded file."))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadSizeBytes+1))
	if err != nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not read the uploaded file."))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	result, err := h.service.UploadProfilePicture(c.Request.Context(), userID, data, contentType)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Profile picture uploaded successfully.", result)
}

func (h *Handler) deleteProfile(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}
	role := common.GetUserRoleFromContext(c)

	var req DeleteProfileRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	result, warning, err := h.service.DeleteProfile(c.Request.Context(), userID, role, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if warning != "" {
		common.RespondOKWithWarning(c, "Profile deleted.", warning, result)
		return
	}
	common.RespondOK(c, "Profile deleted successfully.", result)
}

func (h *Handler) listPendingDrafts(c *gin.Context) {
	var query common.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters."))
		return
	}

	drafts, pagination, err := h.service.ListPendingDrafts(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Pending drafts retrieved successfully.", drafts, pagination)
}

func (h *Handler) approveDraft(c *gin.Context) {
	adminID := common.GetUserIDFromContext(c)
	if adminID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	draftID, err := uuid.Parse(c.Param("draft_id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid draft ID format."))
		return
	}

	snapshot, err := h.service.ApproveDraft(c.Request.Context(), adminID, draftID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Draft approved and published successfully.", snapshot)
}

func (h *Handler) rejectDraft(c *gin.Context) {
	adminID := common.GetUserIDFromContext(c)
	if adminID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	var req RejectDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.service.RejectDraft(c.Request.Context(), adminID, req); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Draft rejected successfully.", nil)
}

func (h *Handler) getProjectMode(c *gin.Context) {
	mode, err := h.projectModeService.GetProjectMode(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Project mode retrieved successfully.", mode)
}

func (h *Handler) updateProjectMode(c *gin.Context) {
	var req projectmode.UpdateProjectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	mode, err := h.projectModeService.SetProfileEditEnabled(c.Request.Context(), *req.ProfileEditEnabled)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Project mode updated successfully.", mode)
}
