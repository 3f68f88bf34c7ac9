package voice

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lims/lims/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	group := api.Group("", auth.RequireRole("admin", "nurse", "lab_tech"))
	group.POST("/voice/map", h.MapTranscript)
	group.GET("/voice/events", h.ListEvents)
}

type mapRequest struct {
	Transcript string `json:"transcript"`
	User       string `json:"user"`
	ActionType string `json:"action_type"`
}

func (h *Handler) MapTranscript(c echo.Context) error {
	var req mapRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Map(c.Request().Context(), req.Transcript, req.User, req.ActionType)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) ListEvents(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	events, err := h.svc.Events(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if events == nil {
		events = []*Event{}
	}
	return c.JSON(http.StatusOK, events)
}
