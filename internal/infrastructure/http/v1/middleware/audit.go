package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"atithi/internal/core/id"
	"atithi/internal/infrastructure/storage/postgres"
	"atithi/pkg/logger"
)

const maxAuditBodyBytes = 1 << 20 // 1 MiB

// Audit records mutating requests into the audit trail after the handler
// completes. Failures are logged and never fail the request.
func Audit(audit *postgres.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isMutating(c.Request.Method) {
			c.Next()
			return
		}

		// The handler consumes the body; keep a copy for the trail.
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBodyBytes))
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		entry := postgres.AuditEntry{
			EntityType: entityTypeFromPath(c.FullPath()),
			EntityID:   entityIDFromParams(c),
			Action:     actionFromRequest(c),
		}
		if json.Valid(body) {
			entry.Changes = body
		}

		if err := audit.Log(c.Request.Context(), entry); err != nil {
			logger.Warn(c.Request.Context(), "audit log failed",
				"path", c.FullPath(),
				"error", err,
			)
		}
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// entityTypeFromPath takes the resource segment, e.g.
// /api/v1/inventory/purchases/:id/confirm -> "purchases".
func entityTypeFromPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	resource := ""
	for _, seg := range segments {
		if seg == "" || strings.HasPrefix(seg, ":") {
			continue
		}
		resource = seg
	}
	// Trailing action verbs point back at the resource before the param.
	for i := len(segments) - 1; i >= 0; i-- {
		if strings.HasPrefix(segments[i], ":") && i > 0 {
			return segments[i-1]
		}
	}
	return resource
}

func entityIDFromParams(c *gin.Context) id.ID {
	for _, key := range []string{"id", "itemId", "stayId"} {
		if raw := c.Param(key); raw != "" {
			if parsed, err := id.Parse(raw); err == nil {
				return parsed
			}
		}
	}
	return id.Nil()
}

// actionFromRequest maps the route to an audit action: a trailing verb
// segment wins, otherwise the HTTP method decides.
func actionFromRequest(c *gin.Context) postgres.AuditAction {
	segments := strings.Split(strings.Trim(c.FullPath(), "/"), "/")
	last := ""
	if len(segments) > 0 {
		last = segments[len(segments)-1]
	}
	if last != "" && !strings.HasPrefix(last, ":") {
		switch last {
		case "confirm":
			return postgres.AuditActionConfirm
		case "receive":
			return postgres.AuditActionReceive
		case "cancel":
			return postgres.AuditActionCancel
		case "retire":
			return postgres.AuditActionRetire
		case "move", "laundry-out", "laundry-in", "repair", "repaired",
			"returns", "bill-payables", "rebuild":
			return postgres.AuditAction(last)
		}
	}

	switch c.Request.Method {
	case http.MethodPut, http.MethodPatch:
		return postgres.AuditActionUpdate
	case http.MethodDelete:
		return postgres.AuditActionDelete
	default:
		return postgres.AuditActionCreate
	}
}
