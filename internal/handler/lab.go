package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/GitRE41187/lab-reservation/internal/model"
    "github.com/GitRE41187/lab-reservation/internal/repository"
)

// LabHandler exposes the labs catalog.
type LabHandler struct {
    Labs *repository.LabRepo
}

func NewLabHandler(labs *repository.LabRepo) *LabHandler {
    if labs == nil {
        panic("nil repository passed to NewLabHandler")
    }
    return &LabHandler{Labs: labs}
}

// List returns every lab with its booking count for a date.  The date
// query parameter defaults to today (UTC).
func (h *LabHandler) List(c echo.Context) error {
    date := c.QueryParam("date")
    if date == "" {
        date = time.Now().UTC().Format(model.DateLayout)
    } else if _, err := time.Parse(model.DateLayout, date); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    labs, err := h.Labs.ListWithBookingCounts(ctx, date)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"date": date, "labs": labs})
}
