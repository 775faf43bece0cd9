// Package booking holds the pure slot-allocation logic: interval overlap
// resolution and operating-hours validation.  It has no knowledge of
// storage or transport; the service layer feeds it the active bookings for
// one lab and date and persists the outcome.  Keeping the predicate in one
// place is deliberate — earlier iterations of this system repeated the
// overlap SQL per endpoint and the copies disagreed.
package booking

import "github.com/GitRE41187/lab-reservation/internal/model"

// Interval is a half-open [StartMin, StartMin+DurationMin) time-of-day
// range expressed in minutes since midnight.
type Interval struct {
    StartMin    int
    DurationMin int
}

// EndMin returns the exclusive end of the interval.
func (iv Interval) EndMin() int { return iv.StartMin + iv.DurationMin }

// Overlaps reports whether two half-open intervals intersect.  Touching
// boundaries (one ends exactly where the other starts) do not overlap, so
// back-to-back bookings are allowed.
func (iv Interval) Overlaps(other Interval) bool {
    return iv.StartMin < other.EndMin() && other.StartMin < iv.EndMin()
}

// Decision is the outcome of a conflict check.
type Decision struct {
    OK            bool
    Reason        string // ReasonSlotUnavailable when rejected
    ConflictingID uint64 // id of the first conflicting booking, for diagnostics
}

// ReasonSlotUnavailable is the stable reject reason carried by Decision.
const ReasonSlotUnavailable = "slot_unavailable"

// CheckConflict decides whether a candidate interval may be accepted given
// the existing active bookings for the same lab and date.  The caller
// guarantees candidate.DurationMin > 0 and that every entry in existing is
// active (pending or confirmed); the check itself is pure integer interval
// comparison and performs no validation of lab, date or operating hours.
func CheckConflict(candidate Interval, existing []model.Booking) Decision {
    for _, b := range existing {
        if candidate.Overlaps(Interval{StartMin: b.StartMin, DurationMin: b.DurationMin}) {
            return Decision{Reason: ReasonSlotUnavailable, ConflictingID: b.ID}
        }
    }
    return Decision{OK: true}
}
