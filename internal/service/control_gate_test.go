package service

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/GitRE41187/lab-reservation/internal/gateway"
)

type fakeAuthorizer struct {
    dayPass  bool
    inWindow bool
    err      error

    lastDate   string
    lastNowMin int
    strictUsed bool
}

func (f *fakeAuthorizer) HasActiveBookingNow(ctx context.Context, userID, labID uint64, asOfDate string) (bool, error) {
    f.lastDate = asOfDate
    return f.dayPass, f.err
}

func (f *fakeAuthorizer) HasActiveBookingAt(ctx context.Context, userID, labID uint64, asOfDate string, nowMin int) (bool, error) {
    f.strictUsed = true
    f.lastDate = asOfDate
    f.lastNowMin = nowMin
    return f.inWindow, f.err
}

type fakeGateway struct {
    resp  *gateway.Response
    err   error
    calls int

    lastControl gateway.ControlRequest
    lastExecute gateway.ExecuteRequest
}

func (f *fakeGateway) Control(ctx context.Context, req gateway.ControlRequest) (*gateway.Response, error) {
    f.calls++
    f.lastControl = req
    return f.resp, f.err
}

func (f *fakeGateway) Execute(ctx context.Context, req gateway.ExecuteRequest) (*gateway.Response, error) {
    f.calls++
    f.lastExecute = req
    return f.resp, f.err
}

func (f *fakeGateway) Stop(ctx context.Context, userID uint64) (*gateway.Response, error) {
    f.calls++
    return f.resp, f.err
}

func (f *fakeGateway) Status(ctx context.Context) (*gateway.Response, error) {
    f.calls++
    return f.resp, f.err
}

func (f *fakeGateway) Sensors(ctx context.Context) (*gateway.Response, error) {
    f.calls++
    return f.resp, f.err
}

type recordedFinish struct {
    id        uint64
    status    string
    result    string
    elapsedMS int64
}

type fakeExecLog struct {
    nextID   uint64
    startErr error
    started  int
    finished []recordedFinish
}

func (f *fakeExecLog) Start(ctx context.Context, userID, labID uint64, code string) (uint64, error) {
    if f.startErr != nil {
        return 0, f.startErr
    }
    f.started++
    f.nextID++
    return f.nextID, nil
}

func (f *fakeExecLog) Finish(ctx context.Context, id uint64, status, result string, elapsedMS int64) error {
    f.finished = append(f.finished, recordedFinish{id: id, status: status, result: result, elapsedMS: elapsedMS})
    return nil
}

func okResponse() *gateway.Response {
    return &gateway.Response{Success: true, Status: "moving forward"}
}

func TestControl_Forwarded(t *testing.T) {
    auth := &fakeAuthorizer{dayPass: true}
    gw := &fakeGateway{resp: okResponse()}
    gate := NewControlGate(auth, gw, nil, false)

    resp, err := gate.Control(context.Background(), 10, 1, gateway.ControlRequest{Command: "forward", Speed: 50})
    require.NoError(t, err)
    assert.True(t, resp.Success)
    assert.Equal(t, 1, gw.calls)
    assert.Equal(t, uint64(10), gw.lastControl.UserID, "user id is stamped onto the forwarded command")
}

func TestControl_NotAuthorizedSkipsGateway(t *testing.T) {
    auth := &fakeAuthorizer{dayPass: false}
    gw := &fakeGateway{resp: okResponse()}
    gate := NewControlGate(auth, gw, nil, false)

    _, err := gate.Control(context.Background(), 10, 1, gateway.ControlRequest{Command: "forward"})
    assert.ErrorIs(t, err, ErrNotAuthorized)
    assert.Zero(t, gw.calls, "unauthorized command must never reach the gateway")
}

func TestControl_AuthorizerFailurePropagates(t *testing.T) {
    auth := &fakeAuthorizer{err: errors.New("db down")}
    gw := &fakeGateway{resp: okResponse()}
    gate := NewControlGate(auth, gw, nil, false)

    _, err := gate.Control(context.Background(), 10, 1, gateway.ControlRequest{Command: "forward"})
    require.Error(t, err)
    assert.NotErrorIs(t, err, ErrNotAuthorized)
    assert.Zero(t, gw.calls)
}

func TestControl_StrictWindowSelectsIntervalCheck(t *testing.T) {
    auth := &fakeAuthorizer{inWindow: true}
    gw := &fakeGateway{resp: okResponse()}
    gate := NewControlGate(auth, gw, nil, true)

    _, err := gate.Control(context.Background(), 10, 1, gateway.ControlRequest{Command: "forward"})
    require.NoError(t, err)
    assert.True(t, auth.strictUsed)
    assert.GreaterOrEqual(t, auth.lastNowMin, 0)
    assert.Less(t, auth.lastNowMin, 24*60)
}

func TestControl_GatewayErrorRelayed(t *testing.T) {
    auth := &fakeAuthorizer{dayPass: true}
    gw := &fakeGateway{err: gateway.ErrTimeout}
    gate := NewControlGate(auth, gw, nil, false)

    _, err := gate.Control(context.Background(), 10, 1, gateway.ControlRequest{Command: "forward"})
    assert.ErrorIs(t, err, gateway.ErrTimeout)
}

func TestExecute_RecordsCompletedRun(t *testing.T) {
    auth := &fakeAuthorizer{dayPass: true}
    gw := &fakeGateway{resp: &gateway.Response{Success: true, Status: "executed"}}
    execs := &fakeExecLog{}
    gate := NewControlGate(auth, gw, execs, false)

    resp, execID, err := gate.Execute(context.Background(), 10, 1, "move(10)")
    require.NoError(t, err)
    assert.True(t, resp.Success)
    assert.Equal(t, uint64(1), execID)

    require.Len(t, execs.finished, 1)
    assert.Equal(t, execID, execs.finished[0].id)
    assert.Equal(t, "completed", execs.finished[0].status)
    assert.Equal(t, "executed", execs.finished[0].result)
}

func TestExecute_RecordsFailedRun(t *testing.T) {
    auth := &fakeAuthorizer{dayPass: true}
    gw := &fakeGateway{err: gateway.ErrUnreachable}
    execs := &fakeExecLog{}
    gate := NewControlGate(auth, gw, execs, false)

    _, execID, err := gate.Execute(context.Background(), 10, 1, "move(10)")
    assert.ErrorIs(t, err, gateway.ErrUnreachable)
    assert.Equal(t, uint64(1), execID)

    require.Len(t, execs.finished, 1)
    assert.Equal(t, "failed", execs.finished[0].status)
}

func TestExecute_NotAuthorizedRecordsNothing(t *testing.T) {
    auth := &fakeAuthorizer{dayPass: false}
    gw := &fakeGateway{resp: okResponse()}
    execs := &fakeExecLog{}
    gate := NewControlGate(auth, gw, execs, false)

    _, _, err := gate.Execute(context.Background(), 10, 1, "move(10)")
    assert.ErrorIs(t, err, ErrNotAuthorized)
    assert.Zero(t, execs.started)
    assert.Zero(t, gw.calls)
}

func TestExecute_StartFailureBlocksGateway(t *testing.T) {
    auth := &fakeAuthorizer{dayPass: true}
    gw := &fakeGateway{resp: okResponse()}
    execs := &fakeExecLog{startErr: errors.New("insert failed")}
    gate := NewControlGate(auth, gw, execs, false)

    _, _, err := gate.Execute(context.Background(), 10, 1, "move(10)")
    assert.ErrorIs(t, err, ErrStoreError)
    assert.Zero(t, gw.calls)
}

func TestStatusAndSensors_RequireAuthorization(t *testing.T) {
    auth := &fakeAuthorizer{dayPass: false}
    gw := &fakeGateway{resp: okResponse()}
    gate := NewControlGate(auth, gw, nil, false)

    _, err := gate.Status(context.Background(), 10, 1)
    assert.ErrorIs(t, err, ErrNotAuthorized)
    _, err = gate.Sensors(context.Background(), 10, 1)
    assert.ErrorIs(t, err, ErrNotAuthorized)
    _, err = gate.Stop(context.Background(), 10, 1)
    assert.ErrorIs(t, err, ErrNotAuthorized)
    assert.Zero(t, gw.calls)
}
