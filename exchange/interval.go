package exchange

import "time"

//
// Interval is an enum that represents various kline/candlestick intervals that can be retrieved
// from an exchange's historical data endpoints.
//
type Interval int

const (
	OneMinute Interval = iota
	FiveMinute
	FifteenMinute
	ThirtyMinute
	OneHour
	ThreeHour
	FourHour
	EightHour
	OneDay
	ThreeDay
	OneWeek
)

var intervalNames = [...]string{"1m", "5m", "15m", "30m", "1h", "3h", "4h", "8h", "1d", "3d", "1w"}

var intervalDurations = [...]time.Duration{
	time.Minute,
	5 * time.Minute,
	15 * time.Minute,
	30 * time.Minute,
	time.Hour,
	3 * time.Hour,
	4 * time.Hour,
	8 * time.Hour,
	24 * time.Hour,
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
}

func (o Interval) String() string {
	if o < 0 || int(o) >= len(intervalNames) {
		return "unknown"
	}

	return intervalNames[o]
}

//
// Duration returns the length of a single candle of the interval.
//
func (o Interval) Duration() time.Duration {
	if o < 0 || int(o) >= len(intervalDurations) {
		return 0
	}

	return intervalDurations[o]
}

//
// ParseInterval converts the short form of an interval (e.g. "5m", "1d") back into the enum. An
// InvalidEnum error is returned for anything else.
//
func ParseInterval(s string) (Interval, error) {
	for i, name := range intervalNames {
		if name == s {
			return Interval(i), nil
		}
	}

	return 0, NewError(InvalidEnum, "parse interval", &EnumError{Type: "interval", Value: s})
}
