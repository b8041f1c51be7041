package domain

import "time"

// DisplayStatus derives the status to show for an appointment at the given
// moment. It never writes anything: staff-driven transitions own the persisted
// status, this function only layers a time-relative view over non-terminal
// appointments scheduled for today.
//
//	now < start               -> persisted status unchanged
//	start <= now < end        -> in_progress
//	end <= now < end+buffer   -> checking_out
//	now >= end+buffer         -> completed
func DisplayStatus(a *Appointment, now time.Time, checkoutBufferMinutes int) AppointmentStatus {
	if a.IsTerminal() {
		return a.Status
	}
	if !sameDay(a.ScheduledDate, now) {
		return a.Status
	}

	start, err := a.ScheduledTime.At(now)
	if err != nil {
		return a.Status
	}
	end := start.Add(time.Duration(a.DurationMinutes) * time.Minute)
	checkoutEnd := end.Add(time.Duration(checkoutBufferMinutes) * time.Minute)

	switch {
	case now.Before(start):
		return a.Status
	case now.Before(end):
		return StatusInProgress
	case now.Before(checkoutEnd):
		return StatusCheckingOut
	default:
		return StatusCompleted
	}
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
