package results

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lims/lims/internal/platform/auth"
	"github.com/lims/lims/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "lab_tech", "pathologist"))
	readGroup.GET("/results", h.ListResults)
	readGroup.GET("/results/:id", h.GetResult)

	writeGroup := api.Group("", auth.RequireRole("admin", "lab_tech"))
	writeGroup.POST("/results", h.CreateResult)
	writeGroup.POST("/results/:id/verify", h.VerifyResult)

	releaseGroup := api.Group("", auth.RequireRole("admin", "lab_tech", "pathologist"))
	releaseGroup.POST("/results/:id/release", h.ReleaseResult)
}

// createRequest wraps CreateInput so check_previous can default to true
// when the field is omitted.
type createRequest struct {
	PatientID     uuid.UUID `json:"patient_id"`
	TestName      string    `json:"test_name"`
	Value         float64   `json:"value"`
	Units         string    `json:"units"`
	PerformedBy   string    `json:"performed_by"`
	Notes         *string   `json:"notes"`
	CheckPrevious *bool     `json:"check_previous"`
}

func (h *Handler) CreateResult(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in := CreateInput{
		PatientID:     req.PatientID,
		TestName:      req.TestName,
		Value:         req.Value,
		Units:         req.Units,
		PerformedBy:   req.PerformedBy,
		Notes:         req.Notes,
		CheckPrevious: req.CheckPrevious == nil || *req.CheckPrevious,
	}
	r, err := h.svc.Create(c.Request().Context(), in)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, r)
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) GetResult(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	r, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListResults(c echo.Context) error {
	pg := pagination.FromContext(c)

	var f Filter
	if pid := c.QueryParam("patient_id"); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		f.PatientID = id
	}
	f.TestName = c.QueryParam("test_name")

	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type actorRequest struct {
	VerifiedBy string `json:"verified_by"`
	ReleasedBy string `json:"released_by"`
}

func bindActor(c echo.Context) (actorRequest, error) {
	var req actorRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, nil
}

func (h *Handler) VerifyResult(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, err := bindActor(c)
	if err != nil {
		return err
	}
	r, err := h.svc.Verify(c.Request().Context(), id, req.VerifiedBy)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, r)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) ReleaseResult(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, err := bindActor(c)
	if err != nil {
		return err
	}
	r, err := h.svc.Release(c.Request().Context(), id, req.ReleasedBy)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, r)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrUnresolvedCritical), errors.Is(err, ErrNotVerified), errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
