package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/domain"
	"atithi/internal/domain/documents/stockissue"
	"atithi/internal/domain/movement"
	"atithi/internal/infrastructure/http/v1/dto"
)

// IssueHandler handles stock issue endpoints. Issues post on creation
// through the movement orchestrator; there is no draft state.
type IssueHandler struct {
	*BaseHandler
	repo     stockissue.Repository
	movement *movement.Service
}

// NewIssueHandler creates a new issue handler.
func NewIssueHandler(base *BaseHandler, repo stockissue.Repository, mvt *movement.Service) *IssueHandler {
	return &IssueHandler{
		BaseHandler: base,
		repo:        repo,
		movement:    mvt,
	}
}

// List handles GET /inventory/issues.
func (h *IssueHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := stockissue.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date DESC")

	if !h.parseIDFilter(c, "sourceLocationId", &filter.SourceLocationID) {
		return
	}
	if !h.parseIDFilter(c, "destinationLocationId", &filter.DestinationLocationID) {
		return
	}
	if kindStr := c.Query("kind"); kindStr != "" {
		kind := stockissue.Kind(kindStr)
		filter.Kind = &kind
	}
	if !h.parseDateFilter(c, "dateFrom", &filter.DateFrom) {
		return
	}
	if !h.parseDateFilter(c, "dateTo", &filter.DateTo) {
		return
	}

	result, err := h.repo.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromIssue(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /inventory/issues/:id.
func (h *IssueHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.repo.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	lines, err := h.repo.GetLines(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	doc.Lines = lines

	c.JSON(http.StatusOK, dto.FromIssue(doc))
}

// Create handles POST /inventory/issues - creates and posts an issue.
func (h *IssueHandler) Create(c *gin.Context) {
	var req dto.CreateIssueRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sourceID, err := id.Parse(req.SourceLocationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid sourceLocationId format"))
		return
	}

	issueReq := movement.IssueRequest{
		SourceLocationID: sourceID,
		IssuedBy:         req.IssuedBy,
		Notes:            req.Notes,
	}
	if issueReq.IssuedBy == "" {
		issueReq.IssuedBy = h.GetUserID(c)
	}

	if req.DestinationLocationID != nil {
		destID, err := id.Parse(*req.DestinationLocationID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid destinationLocationId format"))
			return
		}
		issueReq.DestinationLocationID = &destID
	}

	for _, line := range req.Lines {
		itemID, err := id.Parse(line.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId format in lines"))
			return
		}

		lineReq := movement.IssueLineRequest{
			ItemID:      itemID,
			Quantity:    line.Quantity,
			IsPayable:   line.IsPayable,
			RentalPrice: line.RentalPrice,
		}
		for _, instStr := range line.AssetInstanceIDs {
			instID, err := id.Parse(instStr)
			if err != nil {
				h.Error(c, apperror.NewValidation("invalid assetInstanceId format in lines"))
				return
			}
			lineReq.AssetInstanceIDs = append(lineReq.AssetInstanceIDs, instID)
		}
		issueReq.Lines = append(issueReq.Lines, lineReq)
	}

	doc, err := h.movement.CreateIssue(c.Request.Context(), issueReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CompleteIdempotency(c, http.StatusCreated, "application/json", dto.FromIssue(doc))

	c.JSON(http.StatusCreated, dto.FromIssue(doc))
}
