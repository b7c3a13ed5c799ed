package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"linkbio/internal/adapters/httpapi/dto"
	"linkbio/internal/app/clicks"
	"linkbio/internal/domain"
)

var countryHeaders = []string{"CF-IPCountry", "X-Country"}

type RecordClickRequest struct {
	Referrer string `json:"referrer" example:"https://t.co/abc"`
	Device   string `json:"device" example:"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"`
	Browser  string `json:"browser" example:"Safari"`
	Location string `json:"location" example:"US"`
}

// Redirect sends the visitor on before the click is recorded; recording
// failures never change the response.
func (h *Handler) Redirect(c *gin.Context) {
	code := c.Param("code")

	dest, err := h.links.Resolve(c.Request.Context(), code)
	if err != nil {
		h.fail(c, err)

		return
	}

	c.Redirect(http.StatusFound, dest)

	if h.clicks != nil {
		h.clicks.Submit(clicks.Job{
			Ref:   code,
			Input: clickInputFromRequest(c, time.Now().UTC()),
		})
	}
}

func (h *Handler) ResolveLink(c *gin.Context) {
	dest, err := h.links.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.ResolveResponse{DestinationURL: dest})
}

// RecordClick accepts an empty body; absent fields take their defaults.
func (h *Handler) RecordClick(c *gin.Context) {
	var req RecordClickRequest

	if err := bindJSONStrict(c, &req); err != nil && !errors.Is(err, io.EOF) {
		badJSON(c)

		return
	}

	total, err := h.links.RecordClick(c.Request.Context(), c.Param("ref"), domain.ClickInput{
		Referrer: req.Referrer,
		Device:   req.Device,
		Browser:  req.Browser,
		Location: req.Location,
	})
	if err != nil {
		h.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.ClickCountResponse{ClickCount: total})
}

func clickInputFromRequest(c *gin.Context, at time.Time) domain.ClickInput {
	ua := c.GetHeader("User-Agent")

	in := domain.ClickInput{
		At:       at,
		Referrer: c.GetHeader("Referer"),
		Device:   ua,
		Browser:  browserFromUserAgent(ua),
	}

	for _, header := range countryHeaders {
		if v := strings.TrimSpace(c.GetHeader(header)); v != "" {
			in.Location = v

			break
		}
	}

	return in
}

// browserFromUserAgent maps a user agent to a browser family. Order matters:
// Edge and Opera also announce Chrome, and Chrome announces Safari.
func browserFromUserAgent(ua string) string {
	switch {
	case ua == "":
		return ""
	case strings.Contains(ua, "Edg/"):
		return "Edge"
	case strings.Contains(ua, "OPR/"):
		return "Opera"
	case strings.Contains(ua, "Firefox/"), strings.Contains(ua, "FxiOS/"):
		return "Firefox"
	case strings.Contains(ua, "Chrome/"), strings.Contains(ua, "CriOS/"):
		return "Chrome"
	case strings.Contains(ua, "Safari/"):
		return "Safari"
	default:
		return "Other"
	}
}
