package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"linkbio/internal/adapters/httpapi/dto"
	"linkbio/internal/adapters/httpapi/middleware"
	"linkbio/internal/adapters/httpapi/problems"
	"linkbio/internal/domain"
)

type CreateLinkRequest struct {
	Title           string `json:"title" binding:"required,max=200" example:"My blog"`
	DestinationURL  string `json:"destination_url" binding:"required,max=2048" example:"example.com/blog"`
	Icon            string `json:"icon" binding:"max=64" example:"rss"`
	BackgroundColor string `json:"background_color" binding:"max=64" example:"#ffffff"`
	TextColor       string `json:"text_color" binding:"max=64" example:"#000000"`
}

type UpdateLinkRequest struct {
	Title           *string `json:"title" binding:"omitempty,max=200" example:"Renamed"`
	DestinationURL  *string `json:"destination_url" binding:"omitempty,max=2048" example:"https://example.com"`
	Icon            *string `json:"icon" binding:"omitempty,max=64"`
	BackgroundColor *string `json:"background_color" binding:"omitempty,max=64"`
	TextColor       *string `json:"text_color" binding:"omitempty,max=64"`
	IsActive        *bool   `json:"is_active" example:"false"`
	Order           *int    `json:"order" example:"2"`
}

type ReorderLinksRequest struct {
	IDs []string `json:"ids" binding:"required" example:"3f0e6c1e-8a9b-4f36-9a51-1f2d3c4b5a69"`
}

func (h *Handler) ListLinks(c *gin.Context) {
	items, err := h.links.List(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.FromDomainList(items, h.baseURL))
}

func (h *Handler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest

	if err := bindJSONStrict(c, &req); err != nil {
		badJSON(c)

		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.DestinationURL = strings.TrimSpace(req.DestinationURL)

	if errs, ok := validateStruct(req); ok {
		writeValidationErrors(c, errs)

		return
	}

	link, err := h.links.Create(c.Request.Context(), middleware.OwnerID(c), domain.NewLink{
		Title:          req.Title,
		DestinationURL: req.DestinationURL,
		Presentation: domain.Presentation{
			Icon:            req.Icon,
			BackgroundColor: req.BackgroundColor,
			TextColor:       req.TextColor,
		},
	})
	if err != nil {
		h.fail(c, err)

		return
	}

	c.Header("Location", "/api/links/"+link.ID.String())
	c.JSON(http.StatusCreated, dto.FromDomain(link, h.baseURL))
}

func (h *Handler) GetLink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	link, err := h.links.Get(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		h.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.FromDomain(link, h.baseURL))
}

func (h *Handler) UpdateLink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateLinkRequest

	if err := bindJSONStrict(c, &req); err != nil {
		badJSON(c)

		return
	}

	if errs, ok := validateStruct(req); ok {
		writeValidationErrors(c, errs)

		return
	}

	link, err := h.links.Update(c.Request.Context(), middleware.OwnerID(c), id, domain.LinkPatch{
		Title:           req.Title,
		DestinationURL:  req.DestinationURL,
		Icon:            req.Icon,
		BackgroundColor: req.BackgroundColor,
		TextColor:       req.TextColor,
		IsActive:        req.IsActive,
		Order:           req.Order,
	})
	if err != nil {
		h.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.FromDomain(link, h.baseURL))
}

func (h *Handler) DeleteLink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.links.Delete(c.Request.Context(), middleware.OwnerID(c), id); err != nil {
		h.fail(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

// ReorderLinks skips ids that are not valid uuids the same way it skips
// ids of links the owner does not have.
func (h *Handler) ReorderLinks(c *gin.Context) {
	var req ReorderLinksRequest

	if err := bindJSONStrict(c, &req); err != nil {
		badJSON(c)

		return
	}

	if errs, ok := validateStruct(req); ok {
		writeValidationErrors(c, errs)

		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}

		ids = append(ids, id)
	}

	items, err := h.links.Reorder(c.Request.Context(), middleware.OwnerID(c), ids)
	if err != nil {
		h.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.FromDomainList(items, h.baseURL))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		problems.WriteProblem(c, problems.Validation(problems.DetailInvalidID))

		return uuid.Nil, false
	}

	return id, true
}
