package ledger

import "time"

// Labels names the points of an equity series: Start for the opening
// balance and one of Days for every trade, indexed by weekday (Sunday = 0).
type Labels struct {
	Start string
	Days  [7]string
}

// DefaultLabels is the journal's original day table.
var DefaultLabels = Labels{
	Start: "Start",
	Days:  [7]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"},
}

// Day returns the day name for t.
func (l Labels) Day(t time.Time) string {
	i := int(t.Weekday()) % len(l.Days)
	if i < 0 {
		i += len(l.Days)
	}
	return l.Days[i]
}

// DayLabel returns the default day name of a trade's date.
func DayLabel(t Trade) string {
	return DefaultLabels.Day(t.Date)
}

// Series returns the label of every point of the equity series of trades:
// Start followed by one day name per trade.
func (l Labels) Series(trades []Trade) []string {
	out := make([]string, 0, len(trades)+1)
	out = append(out, l.Start)
	for _, t := range trades {
		out = append(out, l.Day(t.Date))
	}
	return out
}
