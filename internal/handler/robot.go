package handler

import (
    "context"
    "errors"
    "fmt"
    "log"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/GitRE41187/lab-reservation/internal/gateway"
    "github.com/GitRE41187/lab-reservation/internal/repository"
    "github.com/GitRE41187/lab-reservation/internal/service"
)

// RobotHandler exposes the robot control surface.  Every endpoint
// authorizes through the control gate before the device gateway is
// contacted.
type RobotHandler struct {
    Gate     *service.ControlGate
    Activity *repository.ActivityRepo
}

func NewRobotHandler(gate *service.ControlGate, activity *repository.ActivityRepo) *RobotHandler {
    if gate == nil {
        panic("nil gate passed to NewRobotHandler")
    }
    return &RobotHandler{Gate: gate, Activity: activity}
}

type controlReq struct {
    LabID    uint64 `json:"lab_id"`
    Command  string `json:"command"`
    Speed    int    `json:"speed"`
    Duration int    `json:"duration"`
}

type executeReq struct {
    LabID uint64 `json:"lab_id"`
    Code  string `json:"code"`
}

var validCommands = map[string]bool{
    "forward": true, "backward": true, "left": true, "right": true, "stop": true,
}

// Control forwards a single movement command.
func (h *RobotHandler) Control(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req controlReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Command = strings.ToLower(strings.TrimSpace(req.Command))
    if req.LabID == 0 || !validCommands[req.Command] {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_id and a valid command required"})
    }

    resp, err := h.Gate.Control(c.Request().Context(), uid, req.LabID, gateway.ControlRequest{
        Command:  req.Command,
        Speed:    req.Speed,
        Duration: req.Duration,
    })
    if err != nil {
        return writeControlError(c, err)
    }

    h.logActivity(c.Request().Context(), uid, "robot_control",
        fmt.Sprintf("lab %d command %s", req.LabID, req.Command))
    return c.JSON(http.StatusOK, resp)
}

// Execute forwards user code to the robot and records the run.
func (h *RobotHandler) Execute(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req executeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.LabID == 0 || strings.TrimSpace(req.Code) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_id and code required"})
    }

    resp, execID, err := h.Gate.Execute(c.Request().Context(), uid, req.LabID, req.Code)
    if err != nil {
        return writeControlError(c, err)
    }

    h.logActivity(c.Request().Context(), uid, "code_executed",
        fmt.Sprintf("lab %d execution %d", req.LabID, execID))
    return c.JSON(http.StatusOK, echo.Map{
        "execution_id": execID,
        "success":      resp.Success,
        "status":       resp.Status,
    })
}

// Stop sends an immediate stop to the robot.
func (h *RobotHandler) Stop(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    labID, err := labIDFromQuery(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_id required"})
    }

    resp, err := h.Gate.Stop(c.Request().Context(), uid, labID)
    if err != nil {
        return writeControlError(c, err)
    }
    h.logActivity(c.Request().Context(), uid, "robot_stop", fmt.Sprintf("lab %d", labID))
    return c.JSON(http.StatusOK, resp)
}

// Status relays the controller status.
func (h *RobotHandler) Status(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    labID, err := labIDFromQuery(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_id required"})
    }

    resp, err := h.Gate.Status(c.Request().Context(), uid, labID)
    if err != nil {
        return writeControlError(c, err)
    }
    return c.JSON(http.StatusOK, resp)
}

// Sensors relays the current sensor readings.
func (h *RobotHandler) Sensors(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    labID, err := labIDFromQuery(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_id required"})
    }

    resp, err := h.Gate.Sensors(c.Request().Context(), uid, labID)
    if err != nil {
        return writeControlError(c, err)
    }
    return c.JSON(http.StatusOK, resp)
}

func labIDFromQuery(c echo.Context) (uint64, error) {
    return strconv.ParseUint(c.QueryParam("lab_id"), 10, 64)
}

func (h *RobotHandler) logActivity(ctx context.Context, uid uint64, action, detail string) {
    if h.Activity == nil {
        return
    }
    if err := h.Activity.Log(ctx, uid, action, detail); err != nil {
        log.Printf("robot handler: activity log failed: %v", err)
    }
}

// writeControlError maps gate and gateway errors to HTTP.  Unauthorized
// commands never reached the gateway; gateway failures carry their code
// through to the client.
func writeControlError(c echo.Context, err error) error {
    var statusErr *gateway.StatusError
    switch {
    case errors.Is(err, service.ErrNotAuthorized):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not_authorized"})
    case errors.Is(err, gateway.ErrTimeout):
        return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "gateway_timeout"})
    case errors.Is(err, gateway.ErrUnreachable):
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "gateway_error"})
    case errors.As(err, &statusErr):
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "gateway_error", "detail": statusErr.Message})
    case errors.Is(err, service.ErrStoreTimeout):
        return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "store_timeout"})
    case errors.Is(err, service.ErrStoreError):
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store_error"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store_error"})
    }
}
