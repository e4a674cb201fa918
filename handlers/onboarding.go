package handlers

import (
	"errors"
	"io"
	"net/http"

	"collabhub/middleware"
	"collabhub/models"
	"collabhub/services/onboarding"
	"collabhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OnboardingHandler serves the onboarding wizard under /api/onboarding.
type OnboardingHandler struct {
	Service onboarding.OnboardingService
}

func NewOnboardingHandler(svc onboarding.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{Service: svc}
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	var ve *onboarding.ValidationError
	var le *onboarding.LookupError
	switch {
	case errors.As(err, &ve), errors.As(err, &le):
		return http.StatusUnprocessableEntity
	case onboarding.IsSubmissionFailure(err):
		return http.StatusBadGateway
	case errors.Is(err, onboarding.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, onboarding.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, onboarding.ErrRoleLocked),
		errors.Is(err, onboarding.ErrWrongFlow),
		errors.Is(err, onboarding.ErrAtTerminalStep),
		errors.Is(err, onboarding.ErrNotAtTerminalStep),
		errors.Is(err, onboarding.ErrSubmissionInProgress),
		errors.Is(err, onboarding.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, onboarding.ErrUnknownPlatform),
		errors.Is(err, onboarding.ErrUnknownField),
		errors.Is(err, onboarding.ErrStepOutOfRange),
		errors.Is(err, onboarding.ErrEmptyChannelInput),
		errors.Is(err, onboarding.ErrLookupOnly):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes {error, session}. Internal errors are logged and not echoed.
func respondError(c *gin.Context, session *models.WizardSession, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		getLogger(c).Error("Onboarding request failed", zap.String("path", c.FullPath()), zap.Error(err))
		msg = "Internal Server Error"
	}
	body := gin.H{"error": msg}
	if session != nil {
		body["session"] = session
	}
	c.JSON(status, body)
}

func respondSession(c *gin.Context, session *models.WizardSession) {
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func currentIdentity(c *gin.Context) (models.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
	}
	return id, ok
}

// bindJSON binds the body and writes a 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}

// apply runs one reducer action for the caller and writes the result.
func (h *OnboardingHandler) apply(c *gin.Context, action onboarding.Action) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}
	session, err := h.Service.Apply(c.Request.Context(), id.ID, action)
	if err != nil {
		respondError(c, session, err)
		return
	}
	respondSession(c, session)
}

// StartSession handles POST /session. An empty entry starts the combined wizard.
func (h *OnboardingHandler) StartSession(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req struct {
		Entry models.EntryPoint `json:"entry"`
	}
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	if req.Entry == "" {
		req.Entry = models.EntryCombined
	}
	session, err := h.Service.Start(c.Request.Context(), id, req.Entry)
	if err != nil {
		respondError(c, nil, err)
		return
	}
	respondSession(c, session)
}

func (h *OnboardingHandler) GetSession(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}
	session, err := h.Service.GetSession(c.Request.Context(), id.ID)
	if err != nil {
		respondError(c, nil, err)
		return
	}
	respondSession(c, session)
}

func (h *OnboardingHandler) AbandonSession(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}
	if err := h.Service.Abandon(c.Request.Context(), id.ID); err != nil {
		respondError(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Onboarding draft discarded"})
}

func (h *OnboardingHandler) SelectRole(c *gin.Context) {
	var req onboarding.SelectRole
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, req)
}

func (h *OnboardingHandler) UpdatePersonal(c *gin.Context) {
	var req models.PersonalDetails
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, onboarding.UpdatePersonal{Personal: req})
}

func (h *OnboardingHandler) TogglePlatform(c *gin.Context) {
	var req onboarding.TogglePlatform
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, req)
}

// SetPlatformDetails handles PUT /platforms/:platform/details for Instagram, Facebook and TikTok.
func (h *OnboardingHandler) SetPlatformDetails(c *gin.Context) {
	var req models.ProfileDetails
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, onboarding.SetPlatformDetails{Platform: models.Platform(c.Param("platform")), Details: req})
}

func (h *OnboardingHandler) SetPricing(c *gin.Context) {
	var req onboarding.PricingInput
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, onboarding.SetPricing{Platform: models.Platform(c.Param("platform")), Pricing: req})
}

// LookupChannel handles POST /youtube/lookup with {"channel": "<url or id>"}.
func (h *OnboardingHandler) LookupChannel(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req struct {
		Channel string `json:"channel" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.Service.LookupChannel(c.Request.Context(), id.ID, req.Channel)
	if err != nil {
		respondError(c, session, err)
		return
	}
	respondSession(c, session)
}

// readUpload reads the multipart "file" field, at most one byte past the upload limit so the
// service can reject oversized files.
func readUpload(c *gin.Context) (models.StagedFile, []byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "file not provided", err.Error())
		return models.StagedFile{}, nil, false
	}
	f, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to read file", err.Error())
		return models.StagedFile{}, nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, onboarding.MaxUploadSize+1))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to read file", err.Error())
		return models.StagedFile{}, nil, false
	}
	file := models.StagedFile{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}
	return file, data, true
}

func (h *OnboardingHandler) AttachProfilePicture(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}
	file, data, ok := readUpload(c)
	if !ok {
		return
	}
	session, err := h.Service.AttachProfilePicture(c.Request.Context(), id.ID, file, data)
	if err != nil {
		respondError(c, session, err)
		return
	}
	respondSession(c, session)
}

func (h *OnboardingHandler) ClearProfilePicture(c *gin.Context) {
	h.apply(c, onboarding.ClearProfilePicture{})
}

func (h *OnboardingHandler) UpdateBrand(c *gin.Context) {
	var req models.BrandDataPatch
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, onboarding.UpdateBrand{Patch: req})
}

func (h *OnboardingHandler) ToggleBrandPlatform(c *gin.Context) {
	var req onboarding.ToggleBrandPlatform
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, req)
}

func (h *OnboardingHandler) SetSocialLink(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, onboarding.SetSocialLink{Key: c.Param("key"), URL: req.URL})
}

func (h *OnboardingHandler) ToggleBrandPreference(c *gin.Context) {
	var req onboarding.ToggleBrandPreference
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, req)
}

func (h *OnboardingHandler) AttachLogo(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}
	file, data, ok := readUpload(c)
	if !ok {
		return
	}
	session, err := h.Service.AttachLogo(c.Request.Context(), id.ID, file, data)
	if err != nil {
		respondError(c, session, err)
		return
	}
	respondSession(c, session)
}

func (h *OnboardingHandler) Next(c *gin.Context) {
	h.apply(c, onboarding.Next{})
}

func (h *OnboardingHandler) Back(c *gin.Context) {
	h.apply(c, onboarding.Back{})
}

// Submit handles POST /submit. Failures keep the draft and report the user-facing message.
func (h *OnboardingHandler) Submit(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}
	result, session, err := h.Service.Submit(c.Request.Context(), id)
	if err != nil {
		if onboarding.IsSubmissionFailure(err) && session != nil && session.SubmitError != "" {
			c.JSON(http.StatusBadGateway, gin.H{"error": session.SubmitError, "session": session})
			return
		}
		respondError(c, session, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "session": session})
}

func (h *OnboardingHandler) Status(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		return
	}
	status, err := h.Service.Status(c.Request.Context(), id.ID)
	if err != nil {
		getLogger(c).Error("Failed to check onboarding status", zap.String("userID", id.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to check onboarding status", "")
		return
	}
	c.JSON(http.StatusOK, status)
}
