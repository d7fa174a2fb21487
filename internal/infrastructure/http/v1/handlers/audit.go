package handlers

import (
	"github.com/gin-gonic/gin"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/infrastructure/http/v1/dto"
	"atithi/internal/infrastructure/storage/postgres"
)

// AuditHandler serves the audit trail.
type AuditHandler struct {
	*BaseHandler
	audit *postgres.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, audit *postgres.AuditService) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		audit:       audit,
	}
}

// History handles GET /audit/:entityType/:entityId.
func (h *AuditHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, err := id.Parse(c.Param("entityId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid entityId format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.audit.GetEntityHistory(ctx, c.Param("entityType"), entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, dto.AuditEntryFromModel(e))
	}

	h.OK(c, response)
}
