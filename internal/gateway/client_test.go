package gateway

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestControl_Success(t *testing.T) {
    var got ControlRequest
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, http.MethodPost, r.Method)
        assert.Equal(t, "/api/robot/control", r.URL.Path)
        assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
        require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
        _ = json.NewEncoder(w).Encode(Response{Success: true, Status: "moving forward"})
    }))
    defer srv.Close()

    c := NewClient(srv.URL, 0, 0)
    resp, err := c.Control(context.Background(), ControlRequest{Command: "forward", Speed: 50, UserID: 7})
    require.NoError(t, err)
    assert.True(t, resp.Success)
    assert.Equal(t, "moving forward", resp.Status)
    assert.Equal(t, "forward", got.Command)
    assert.Equal(t, uint64(7), got.UserID)
}

func TestControl_GatewayReportsFailure(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        _ = json.NewEncoder(w).Encode(Response{Success: false, Error: "serial port busy"})
    }))
    defer srv.Close()

    c := NewClient(srv.URL, 0, 0)
    _, err := c.Control(context.Background(), ControlRequest{Command: "forward"})
    var statusErr *StatusError
    require.ErrorAs(t, err, &statusErr)
    assert.Equal(t, "serial port busy", statusErr.Message)
}

func TestControl_Non2xxWithoutBodyMessage(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusServiceUnavailable)
        _ = json.NewEncoder(w).Encode(Response{Success: false})
    }))
    defer srv.Close()

    c := NewClient(srv.URL, 0, 0)
    _, err := c.Control(context.Background(), ControlRequest{Command: "forward"})
    var statusErr *StatusError
    require.ErrorAs(t, err, &statusErr)
    assert.Contains(t, statusErr.Message, "503")
}

func TestControl_Timeout(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        time.Sleep(200 * time.Millisecond)
        _ = json.NewEncoder(w).Encode(Response{Success: true})
    }))
    defer srv.Close()

    c := NewClient(srv.URL, 20*time.Millisecond, 0)
    _, err := c.Control(context.Background(), ControlRequest{Command: "forward"})
    assert.ErrorIs(t, err, ErrTimeout)
}

func TestControl_Unreachable(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
    srv.Close() // nothing listens anymore

    c := NewClient(srv.URL, 0, 0)
    _, err := c.Control(context.Background(), ControlRequest{Command: "forward"})
    assert.ErrorIs(t, err, ErrUnreachable)
}

func TestControl_MalformedResponse(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        _, _ = w.Write([]byte("not json"))
    }))
    defer srv.Close()

    c := NewClient(srv.URL, 0, 0)
    _, err := c.Control(context.Background(), ControlRequest{Command: "forward"})
    assert.ErrorIs(t, err, ErrUnreachable)
}

func TestExecute_UsesLongerTimeout(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "/api/robot/execute", r.URL.Path)
        time.Sleep(50 * time.Millisecond)
        _ = json.NewEncoder(w).Encode(Response{Success: true, Status: "executed"})
    }))
    defer srv.Close()

    // Command timeout is far too short for the handler's delay; the
    // execute timeout is what must apply here.
    c := NewClient(srv.URL, 5*time.Millisecond, time.Second)
    resp, err := c.Execute(context.Background(), ExecuteRequest{Code: "move(10)", UserID: 3})
    require.NoError(t, err)
    assert.Equal(t, "executed", resp.Status)
}

func TestStatusAndSensors_AreGets(t *testing.T) {
    paths := []string{}
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, http.MethodGet, r.Method)
        paths = append(paths, r.URL.Path)
        _ = json.NewEncoder(w).Encode(Response{Success: true, Status: "idle", Sensors: json.RawMessage(`{"distance":42}`)})
    }))
    defer srv.Close()

    c := NewClient(srv.URL, 0, 0)
    st, err := c.Status(context.Background())
    require.NoError(t, err)
    assert.Equal(t, "idle", st.Status)

    sn, err := c.Sensors(context.Background())
    require.NoError(t, err)
    assert.JSONEq(t, `{"distance":42}`, string(sn.Sensors))

    assert.Equal(t, []string{"/api/robot/status", "/api/robot/sensors"}, paths)
}

func TestStop_PostsUserID(t *testing.T) {
    var body map[string]uint64
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "/api/robot/stop", r.URL.Path)
        require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
        _ = json.NewEncoder(w).Encode(Response{Success: true, Status: "stopped"})
    }))
    defer srv.Close()

    c := NewClient(srv.URL, 0, 0)
    resp, err := c.Stop(context.Background(), 9)
    require.NoError(t, err)
    assert.Equal(t, "stopped", resp.Status)
    assert.Equal(t, uint64(9), body["user_id"])
}
