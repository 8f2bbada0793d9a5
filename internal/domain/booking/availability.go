package booking

import "time"

type AvailabilityInput struct {
	WorkerID uint
	Date     time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Hours is the daily opening window split into fixed-size slots.
type Hours struct {
	Open  string
	Close string
	Step  time.Duration
}

// Grid lists every slot of the day that fits between Open and Close.
func (h Hours) Grid(day time.Time, loc *time.Location) ([]time.Time, error) {
	open, err := SlotStart(day, h.Open, loc)
	if err != nil {
		return nil, err
	}
	closeAt, err := SlotStart(day, h.Close, loc)
	if err != nil {
		return nil, err
	}
	if h.Step <= 0 {
		return nil, nil
	}

	var out []time.Time
	for cur := open; !cur.Add(h.Step).After(closeAt); cur = cur.Add(h.Step) {
		out = append(out, cur)
	}
	return out, nil
}

// FreeSlots drops taken clock times and anything starting before notBefore.
func FreeSlots(grid []time.Time, step time.Duration, taken []string, notBefore time.Time) []TimeSlot {
	busy := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		busy[t] = struct{}{}
	}

	slots := make([]TimeSlot, 0, len(grid))
	for _, start := range grid {
		if start.Before(notBefore) {
			continue
		}
		clock := start.Format(ClockLayout)
		if _, ok := busy[clock]; ok {
			continue
		}
		slots = append(slots, TimeSlot{
			Start: clock,
			End:   start.Add(step).Format(ClockLayout),
		})
	}
	return slots
}
