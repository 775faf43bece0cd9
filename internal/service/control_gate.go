package service

import (
    "context"
    "log"
    "time"

    "github.com/GitRE41187/lab-reservation/internal/gateway"
)

// Authorizer answers whether a user may control a lab's robot right now.
// BookingService satisfies it.
type Authorizer interface {
    HasActiveBookingNow(ctx context.Context, userID, labID uint64, asOfDate string) (bool, error)
    HasActiveBookingAt(ctx context.Context, userID, labID uint64, asOfDate string, nowMin int) (bool, error)
}

// DeviceGateway is the slice of the gateway client the gate needs.
type DeviceGateway interface {
    Control(ctx context.Context, req gateway.ControlRequest) (*gateway.Response, error)
    Execute(ctx context.Context, req gateway.ExecuteRequest) (*gateway.Response, error)
    Stop(ctx context.Context, userID uint64) (*gateway.Response, error)
    Status(ctx context.Context) (*gateway.Response, error)
    Sensors(ctx context.Context) (*gateway.Response, error)
}

// ExecutionLog records code runs around the gateway call.  The MySQL
// implementation is repository.ExecutionRepo.
type ExecutionLog interface {
    Start(ctx context.Context, userID, labID uint64, code string) (uint64, error)
    Finish(ctx context.Context, id uint64, status, result string, elapsedMS int64) error
}

// ControlGate sits between the HTTP layer and the device gateway.  Every
// command is authorized against the booking service first; unauthorized
// commands are rejected locally and the gateway is never contacted.
// Authorized commands are forwarded once — no retries — and the gateway's
// response is relayed as-is.
type ControlGate struct {
    auth         Authorizer
    gw           DeviceGateway
    executions   ExecutionLog
    strictWindow bool
    now          func() time.Time
}

// NewControlGate constructs the gate.  strictWindow selects in-interval
// authorization instead of the default whole-day pass.
func NewControlGate(auth Authorizer, gw DeviceGateway, executions ExecutionLog, strictWindow bool) *ControlGate {
    if auth == nil || gw == nil {
        panic("nil dependency passed to NewControlGate")
    }
    return &ControlGate{
        auth:         auth,
        gw:           gw,
        executions:   executions,
        strictWindow: strictWindow,
        now:          func() time.Time { return time.Now().UTC() },
    }
}

// Authorize checks that the user currently holds a confirmed booking for
// the lab.  With strictWindow the current time must also fall inside the
// booked interval; otherwise any confirmed booking on today's date grants
// access for the whole day.
func (g *ControlGate) Authorize(ctx context.Context, userID, labID uint64) error {
    now := g.now()
    date := now.Format("2006-01-02")

    var (
        ok  bool
        err error
    )
    if g.strictWindow {
        nowMin := now.Hour()*60 + now.Minute()
        ok, err = g.auth.HasActiveBookingAt(ctx, userID, labID, date, nowMin)
    } else {
        ok, err = g.auth.HasActiveBookingNow(ctx, userID, labID, date)
    }
    if err != nil {
        return err
    }
    if !ok {
        return ErrNotAuthorized
    }
    return nil
}

// Control forwards a movement command after authorization.
func (g *ControlGate) Control(ctx context.Context, userID, labID uint64, req gateway.ControlRequest) (*gateway.Response, error) {
    if err := g.Authorize(ctx, userID, labID); err != nil {
        return nil, err
    }
    req.UserID = userID
    return g.gw.Control(ctx, req)
}

// Execute forwards control code after authorization.  The run is recorded
// in the execution log before the gateway is contacted and finalised with
// the gateway's verdict.
func (g *ControlGate) Execute(ctx context.Context, userID, labID uint64, code string) (*gateway.Response, uint64, error) {
    if err := g.Authorize(ctx, userID, labID); err != nil {
        return nil, 0, err
    }

    var execID uint64
    if g.executions != nil {
        id, err := g.executions.Start(ctx, userID, labID, code)
        if err != nil {
            return nil, 0, storeFailure(err)
        }
        execID = id
    }

    started := g.now()
    resp, err := g.gw.Execute(ctx, gateway.ExecuteRequest{Code: code, UserID: userID})
    elapsed := g.now().Sub(started).Milliseconds()

    if g.executions != nil {
        status, result := executionOutcome(resp, err)
        // The command already ran (or failed) on the hardware; a failed
        // bookkeeping update must not change what we report to the caller.
        if ferr := g.executions.Finish(context.WithoutCancel(ctx), execID, status, result, elapsed); ferr != nil {
            log.Printf("control gate: finish execution %d failed: %v", execID, ferr)
        }
    }
    if err != nil {
        return nil, execID, err
    }
    return resp, execID, nil
}

// Stop forwards an immediate stop after authorization.
func (g *ControlGate) Stop(ctx context.Context, userID, labID uint64) (*gateway.Response, error) {
    if err := g.Authorize(ctx, userID, labID); err != nil {
        return nil, err
    }
    return g.gw.Stop(ctx, userID)
}

// Status relays the controller status after authorization.
func (g *ControlGate) Status(ctx context.Context, userID, labID uint64) (*gateway.Response, error) {
    if err := g.Authorize(ctx, userID, labID); err != nil {
        return nil, err
    }
    return g.gw.Status(ctx)
}

// Sensors relays the sensor readings after authorization.
func (g *ControlGate) Sensors(ctx context.Context, userID, labID uint64) (*gateway.Response, error) {
    if err := g.Authorize(ctx, userID, labID); err != nil {
        return nil, err
    }
    return g.gw.Sensors(ctx)
}

func executionOutcome(resp *gateway.Response, err error) (status, result string) {
    if err != nil {
        return "failed", err.Error()
    }
    if resp.Status != "" {
        return "completed", resp.Status
    }
    return "completed", "ok"
}
