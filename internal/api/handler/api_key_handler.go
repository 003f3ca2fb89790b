package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"laborsync/backend/internal/service"
	"laborsync/backend/pkg/response"
)

// APIKeyHandler 集成密钥管理 HTTP 处理器（仅 Admin）
type APIKeyHandler struct {
	apiKeySvc service.APIKeyService
}

// NewAPIKeyHandler 创建 APIKeyHandler
func NewAPIKeyHandler(apiKeySvc service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{apiKeySvc: apiKeySvc}
}

// GetAPIKey 当前密钥状态（掩码）
// GET /api/v1/api-key
func (h *APIKeyHandler) GetAPIKey(c *gin.Context) {
	info, err := h.apiKeySvc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, info)
}

// GenerateAPIKey 生成或轮换密钥，明文只在此响应中出现一次
// POST /api/v1/api-key
func (h *APIKeyHandler) GenerateAPIKey(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	key, err := h.apiKeySvc.Generate(c.Request.Context(), callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, key)
}

// DeleteAPIKey 吊销密钥
// DELETE /api/v1/api-key
func (h *APIKeyHandler) DeleteAPIKey(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.apiKeySvc.Delete(c.Request.Context(), callerID); err != nil {
		if errors.Is(err, service.ErrAPIKeyNotFound) {
			response.NotFound(c, 19001, "集成密钥不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
