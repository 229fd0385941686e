package controller

import (
	"errors"
	"termophysics_backend/internal/service"
	"termophysics_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ImageController struct {
	ImageService        *service.ImageService
	ConversationService *service.ConversationService
}

func NewImageController(imageService *service.ImageService, conversationService *service.ConversationService) *ImageController {
	return &ImageController{ImageService: imageService, ConversationService: conversationService}
}

type GenerateImageReq struct {
	Prompt         string `json:"prompt" binding:"required"`
	ConversationID string `json:"conversationId"`
}

// Generate godoc
// @Summary Generate a physics illustration
// @Description Renders an image for the prompt; counted against the daily quota
// @Tags images
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body GenerateImageReq true "Prompt and optional conversation to attach to"
// @Success 200 {object} util.Response{data=service.GeneratedImage}
// @Failure 429 {object} util.Response "Daily quota reached"
// @Router /api/images/generate [post]
func (c *ImageController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req GenerateImageReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	img, err := c.ImageService.Generate(ctx.Request.Context(), claims.UserID, req.Prompt)
	if err != nil {
		if errors.Is(err, util.ErrImageQuotaExceeded) {
			util.Error(ctx, 429, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if req.ConversationID != "" {
		if _, err := c.ConversationService.RecordImage(req.ConversationID, claims.UserID, req.Prompt, img.URL); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	}
	util.Success(ctx, img)
}

// Quota godoc
// @Summary Remaining image generations today
// @Tags images
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/images/quota [get]
func (c *ImageController) Quota(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	util.Success(ctx, gin.H{"remaining": c.ImageService.Remaining(ctx.Request.Context(), claims.UserID)})
}
