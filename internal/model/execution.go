package model

import "time"

// Robot execution status values as stored in `robot_executions`.
const (
    ExecutionRunning   = "running"
    ExecutionCompleted = "completed"
    ExecutionFailed    = "failed"
    ExecutionStopped   = "stopped"
)

// RobotExecution records one user-submitted code run forwarded to the device
// gateway.  The row is created in the running state before the gateway is
// contacted and finalised with the gateway's verdict.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who submitted the code.
//  LabID       – lab whose robot executed it.
//  Code        – the submitted control code.
//  Status      – running, completed, failed or stopped.
//  Result      – gateway status or error text (nullable until finished).
//  ExecutionMS – wall time reported for the run, in milliseconds.
//  StartedAt   – when the row was created.
//  CompletedAt – when the run finished (nullable while running).
type RobotExecution struct {
    ID          uint64     // robot_executions.id
    UserID      uint64     // robot_executions.user_id
    LabID       uint64     // robot_executions.lab_id
    Code        string     // robot_executions.code
    Status      string     // robot_executions.status
    Result      *string    // robot_executions.result (nullable)
    ExecutionMS int64      // robot_executions.execution_ms
    StartedAt   time.Time  // robot_executions.started_at
    CompletedAt *time.Time // robot_executions.completed_at (nullable)
}

// ActivityLog is an audit entry describing a user action (booking created,
// robot command sent, code executed).
type ActivityLog struct {
    ID        uint64    `json:"id"`
    UserID    uint64    `json:"user_id"`
    Action    string    `json:"action"`
    Detail    *string   `json:"detail,omitempty"`
    CreatedAt time.Time `json:"created_at"`
}
