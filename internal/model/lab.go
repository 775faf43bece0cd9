package model

import "time"

// Lab status values as stored in the `labs` table.
const (
    LabAvailable   = "available"
    LabMaintenance = "maintenance"
    LabOccupied    = "occupied"
)

// Lab represents a bookable robotics laboratory.  Labs are created and
// maintained by administrators; the booking core only reads them.  A lab
// whose status is not "available" cannot accept new bookings regardless of
// the requested time slot.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the lab.
//  Description – optional free-text description.
//  Capacity    – maximum number of concurrent users.
//  Status      – operational status (available, maintenance, occupied).
//  Equipment   – optional description of installed hardware.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Lab struct {
    ID          uint64    // labs.id
    Name        string    // labs.name
    Description *string   // labs.description (nullable)
    Capacity    uint32    // labs.capacity
    Status      string    // labs.status
    Equipment   *string   // labs.equipment (nullable)
    CreatedAt   time.Time // labs.created_at
    UpdatedAt   time.Time // labs.updated_at
}

// LabSummary is a lab row enriched with the number of active bookings it
// holds on a given date.  It is what the labs listing endpoint returns.
type LabSummary struct {
    ID            uint64  `json:"id"`
    Name          string  `json:"name"`
    Description   *string `json:"description,omitempty"`
    Capacity      uint32  `json:"capacity"`
    Status        string  `json:"status"`
    Equipment     *string `json:"equipment,omitempty"`
    TodayBookings uint32  `json:"today_bookings"`
}
