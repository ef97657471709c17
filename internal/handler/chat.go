package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"opaemu-backend/internal/model"
	"opaemu-backend/internal/service"
	"opaemu-backend/internal/storage"
	"opaemu-backend/pkg/logger"
)

// 10 MB is plenty for a phone photo after client-side compression.
const maxImageBytes = 10 << 20

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

func (h *ChatHandler) CreateChat(c *gin.Context) {
	var req model.CreateChatRequest
	// An empty body is fine, the service fills in the default title.
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Title = ""
	}

	chat, err := h.chatService.CreateChat(currentUserID(c), req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) GetChatList(c *gin.Context) {
	chats, err := h.chatService.ListChats(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chats": chats,
	})
}

// GetHistory returns the raw records. The mobile client normalizes these
// itself.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	history, err := h.chatService.RawHistory(currentUserID(c), c.Param("chat_id"))
	if err != nil {
		c.JSON(chatStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetDisplay returns the history as ready-to-render bubbles.
func (h *ChatHandler) GetDisplay(c *gin.Context) {
	display, err := h.chatService.DisplayView(currentUserID(c), c.Param("chat_id"))
	if err != nil {
		c.JSON(chatStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chat_id":  c.Param("chat_id"),
		"messages": display,
	})
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req model.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ack, err := h.chatService.PostText(currentUserID(c), c.Param("chat_id"), req.Text)
	if err != nil {
		c.JSON(chatStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ack)
}

// UploadImage accepts a multipart photo upload with an optional "note"
// field carried along to the critique.
func (h *ChatHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(data) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	ack, err := h.chatService.UploadImage(c.Request.Context(), currentUserID(c), c.Param("chat_id"),
		header.Filename, data, c.PostForm("note"))
	if err != nil {
		logger.Errorf("Image upload failed: %v", err)
		c.JSON(chatStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ack)
}

func (h *ChatHandler) DeleteChat(c *gin.Context) {
	err := h.chatService.DeleteChat(currentUserID(c), c.Param("chat_id"))
	if err != nil {
		c.JSON(chatStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat deleted successfully"})
}

func chatStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrChatNotFound), errors.Is(err, storage.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidData):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
