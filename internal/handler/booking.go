package handler

import (
    "context"
    "errors"
    "fmt"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/GitRE41187/lab-reservation/internal/booking"
    "github.com/GitRE41187/lab-reservation/internal/model"
    "github.com/GitRE41187/lab-reservation/internal/queue"
    "github.com/GitRE41187/lab-reservation/internal/repository"
    "github.com/GitRE41187/lab-reservation/internal/service"
)

// BookingHandler exposes booking creation and the user's booking list.
type BookingHandler struct {
    Svc      *service.BookingService
    Labs     *repository.LabRepo
    Activity *repository.ActivityRepo
}

func NewBookingHandler(svc *service.BookingService, labs *repository.LabRepo, activity *repository.ActivityRepo) *BookingHandler {
    if svc == nil || labs == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Svc: svc, Labs: labs, Activity: activity}
}

type createBookingReq struct {
    LabID       uint64 `json:"lab_id"`
    Date        string `json:"date"`       // YYYY-MM-DD
    StartTime   string `json:"start_time"` // HH:MM
    DurationMin int    `json:"duration_min"`
    Purpose     string `json:"purpose"`
}

type bookingResp struct {
    ID          uint64 `json:"id"`
    LabID       uint64 `json:"lab_id"`
    Date        string `json:"date"`
    StartTime   string `json:"start_time"`
    DurationMin int    `json:"duration_min"`
    Status      string `json:"status"`
}

// Create books a slot.  Overlap with an existing active booking yields 409
// with the conflicting booking's id; window and lab problems yield 400.
func (h *BookingHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    var req createBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.LabID == 0 || req.Date == "" || req.StartTime == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_id/date/start_time required"})
    }
    startMin, err := booking.ParseClock(req.StartTime)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_time_range"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    b, err := h.Svc.CreateBooking(ctx, service.CreateRequest{
        UserID:      uid,
        LabID:       req.LabID,
        Date:        req.Date,
        StartMin:    startMin,
        DurationMin: req.DurationMin,
        Purpose:     req.Purpose,
    })
    if err != nil {
        return writeBookingError(c, err)
    }

    if h.Activity != nil {
        detail := fmt.Sprintf("lab %d on %s at %s for %d min", b.LabID, b.BookingDate, req.StartTime, b.DurationMin)
        if aerr := h.Activity.Log(ctx, uid, "booking_created", detail); aerr != nil {
            log.Printf("booking handler: activity log failed: %v", aerr)
        }
    }
    h.publishConfirmed(ctx, b)

    return c.JSON(http.StatusCreated, bookingResp{
        ID:          b.ID,
        LabID:       b.LabID,
        Date:        b.BookingDate,
        StartTime:   booking.FormatClock(b.StartMin),
        DurationMin: b.DurationMin,
        Status:      b.Status,
    })
}

// MyBookings lists the caller's bookings, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    list, err := h.Svc.ListBookingsForUser(ctx, uid)
    if err != nil {
        return writeBookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// publishConfirmed emits the booking.confirmed event.  Publishing is best
// effort: the booking is already durable, so a broker outage only costs
// the notification.
func (h *BookingHandler) publishConfirmed(ctx context.Context, b *model.Booking) {
    labName := ""
    if lab, err := h.Labs.GetLab(ctx, b.LabID); err == nil {
        labName = lab.Name
    }
    event := queue.BookingConfirmedEvent{
        BookingID:   b.ID,
        UserID:      b.UserID,
        LabID:       b.LabID,
        LabName:     labName,
        BookingDate: b.BookingDate,
        StartTime:   booking.FormatClock(b.StartMin),
        DurationMin: b.DurationMin,
        ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
    }
    if err := queue.PublishBookingConfirmed(ctx, event); err != nil {
        log.Printf("booking handler: publish booking.confirmed failed: %v", err)
    }
}

// writeBookingError maps service errors to HTTP, keeping the stable error
// code as the error field.
func writeBookingError(c echo.Context, err error) error {
    var slotErr *service.SlotUnavailableError
    switch {
    case errors.As(err, &slotErr):
        return c.JSON(http.StatusConflict, echo.Map{
            "error":                  slotErr.Code(),
            "conflicting_booking_id": slotErr.ConflictingID,
        })
    case errors.Is(err, service.ErrInvalidTimeRange):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_time_range"})
    case errors.Is(err, service.ErrLabUnavailable):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_unavailable"})
    case errors.Is(err, service.ErrStoreTimeout):
        return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "store_timeout"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store_error"})
    }
}
