package controller

import (
	"errors"
	"strings"
	"termophysics_backend/internal/service"
	"termophysics_backend/internal/util"
	"termophysics_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ChatController struct {
	ConversationService *service.ConversationService
}

func NewChatController(conversationService *service.ConversationService) *ChatController {
	return &ChatController{ConversationService: conversationService}
}

type CreateConversationReq struct {
	Title string `json:"title"`
}

// CreateConversation godoc
// @Summary Start a tutoring conversation
// @Tags chat
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateConversationReq true "Optional title"
// @Success 201 {object} util.Response{data=model.Conversation}
// @Router /api/conversations [post]
func (c *ChatController) CreateConversation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req CreateConversationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	conv, err := c.ConversationService.Create(claims.UserID, req.Title)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, conv)
}

// ListConversations godoc
// @Summary My conversations, most recent first
// @Tags chat
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Conversation}
// @Router /api/conversations [get]
func (c *ChatController) ListConversations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	convs, err := c.ConversationService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, convs)
}

type RenameConversationReq struct {
	Title string `json:"title" binding:"required"`
}

// RenameConversation godoc
// @Summary Rename a conversation
// @Tags chat
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Conversation ID"
// @Param   body body RenameConversationReq true "New title"
// @Success 200 {object} util.Response
// @Router /api/conversations/{id} [put]
func (c *ChatController) RenameConversation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req RenameConversationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ConversationService.Rename(ctx.Param("id"), claims.UserID, req.Title); err != nil {
		c.replyConversationError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteConversation godoc
// @Summary Delete a conversation and its messages
// @Tags chat
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Conversation ID"
// @Success 200 {object} util.Response
// @Router /api/conversations/{id} [delete]
func (c *ChatController) DeleteConversation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.ConversationService.Delete(ctx.Param("id"), claims.UserID); err != nil {
		c.replyConversationError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListMessages godoc
// @Summary Full message history of a conversation
// @Tags chat
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Conversation ID"
// @Success 200 {object} util.Response{data=[]model.Message}
// @Router /api/conversations/{id}/messages [get]
func (c *ChatController) ListMessages(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	msgs, err := c.ConversationService.Messages(ctx.Param("id"), claims.UserID)
	if err != nil {
		c.replyConversationError(ctx, err)
		return
	}
	util.Success(ctx, msgs)
}

type AskReq struct {
	Prompt string `json:"prompt" binding:"required"`
}

// Ask godoc
// @Summary Ask the physics tutor (blocking)
// @Tags chat
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Conversation ID"
// @Param   body body AskReq true "Question"
// @Success 200 {object} util.Response{data=model.Message}
// @Router /api/conversations/{id}/ask [post]
func (c *ChatController) Ask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req AskReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := c.ConversationService.Ask(ctx.Request.Context(), ctx.Param("id"), claims.UserID, req.Prompt)
	if err != nil {
		c.replyConversationError(ctx, err)
		return
	}
	util.Success(ctx, msg)
}

// Stream godoc
// @Summary Ask the physics tutor over SSE
// @Description Streams the reply as message events, then an end event
// @Tags chat
// @Produce  text/event-stream
// @Security BearerAuth
// @Param   id path string true "Conversation ID"
// @Param   prompt query string true "Question"
// @Success 200 {string} string "event stream"
// @Router /api/conversations/{id}/stream [get]
func (c *ChatController) Stream(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	prompt := ctx.Query("prompt")
	if prompt == "" {
		util.BadRequest(ctx, "prompt is required")
		return
	}

	out, errChan, persist, err := c.ConversationService.AskStream(
		ctx.Request.Context(), ctx.Param("id"), claims.UserID, prompt)
	if err != nil {
		c.replyConversationError(ctx, err)
		return
	}

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")

	var reply strings.Builder
	for content := range out {
		reply.WriteString(content)
		ctx.SSEvent("message", content)
		ctx.Writer.Flush()
	}

	if err := <-errChan; err != nil {
		logger.Log.Error("tutor stream failed", zap.Error(err))
		ctx.SSEvent("error", "The tutor is unavailable right now")
		ctx.Writer.Flush()
	}

	if err := persist(reply.String()); err != nil {
		logger.Log.Error("failed to persist tutor reply", zap.Error(err))
	}

	ctx.SSEvent("end", "done")
	ctx.Writer.Flush()
}

func (c *ChatController) replyConversationError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
