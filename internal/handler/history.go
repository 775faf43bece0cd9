package handler

import (
    "context"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/GitRE41187/lab-reservation/internal/repository"
)

// HistoryHandler lists a user's recent activity.
type HistoryHandler struct {
    Activity *repository.ActivityRepo
}

func NewHistoryHandler(activity *repository.ActivityRepo) *HistoryHandler {
    if activity == nil {
        panic("nil repository passed to NewHistoryHandler")
    }
    return &HistoryHandler{Activity: activity}
}

// List returns the caller's activity log, newest first.  The limit query
// parameter is optional and clamped by the repository.
func (h *HistoryHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    limit, _ := strconv.Atoi(c.QueryParam("limit"))

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    entries, err := h.Activity.ListByUser(ctx, uid, limit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"history": entries})
}
