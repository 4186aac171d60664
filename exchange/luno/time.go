package luno

import (
	"bytes"
	"strconv"
	"time"
)

//
// Time is an instant that Luno transports as a millisecond UNIX timestamp. A timestamp of zero
// (e.g. the completion time of an order that has not completed) decodes to the zero time.
//
type Time struct {
	time.Time
}

func NewTime(t time.Time) Time {
	return Time{Time: t}
}

func (o *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	//
	// Some endpoints quote their timestamps, so tolerate both forms.
	//
	raw := string(bytes.Trim(data, `"`))

	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}

	if millis == 0 {
		o.Time = time.Time{}

		return nil
	}

	o.Time = time.UnixMilli(millis).UTC()

	return nil
}

func (o Time) MarshalJSON() ([]byte, error) {
	if o.IsZero() {
		return []byte("0"), nil
	}

	return []byte(strconv.FormatInt(o.UnixMilli(), 10)), nil
}
