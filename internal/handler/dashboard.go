package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/GitRE41187/lab-reservation/internal/model"
    "github.com/GitRE41187/lab-reservation/internal/repository"
)

// DashboardHandler aggregates counters for the landing page.
type DashboardHandler struct {
    Bookings   *repository.BookingRepo
    Labs       *repository.LabRepo
    Executions *repository.ExecutionRepo
}

func NewDashboardHandler(b *repository.BookingRepo, l *repository.LabRepo, e *repository.ExecutionRepo) *DashboardHandler {
    if b == nil || l == nil || e == nil {
        panic("nil repository passed to NewDashboardHandler")
    }
    return &DashboardHandler{Bookings: b, Labs: l, Executions: e}
}

// Stats returns per-user and global counters.  Counts are independent
// queries; a torn read across them is acceptable for a dashboard.
func (h *DashboardHandler) Stats(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    today := time.Now().UTC().Format(model.DateLayout)

    myBookings, err := h.Bookings.CountForUser(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    todayBookings, err := h.Bookings.CountConfirmedOn(ctx, today)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    availableLabs, err := h.Labs.CountAvailable(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    myExecutions, err := h.Executions.CountForUser(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "my_bookings":    myBookings,
        "today_bookings": todayBookings,
        "available_labs": availableLabs,
        "my_executions":  myExecutions,
    })
}
