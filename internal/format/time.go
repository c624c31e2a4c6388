package format

import (
	"time"
)

const (
	filetimeOffset = 116444736000000000 // difference between FILETIME epoch and Unix epoch in 100ns units
	filetimeUnit   = 100                // FILETIME units are 100ns
)

// FiletimeToTime converts a Windows FILETIME value to time.Time. Zero and
// negative inputs map to the Unix epoch; callers that must reject them do so
// before converting.
func FiletimeToTime(v int64) time.Time {
	if v <= 0 {
		return time.Unix(0, 0).UTC()
	}
	ns := (v - filetimeOffset) * filetimeUnit
	sec := ns / int64(time.Second)
	nsec := ns % int64(time.Second)
	return time.Unix(sec, nsec).UTC()
}

// TimeToFiletime converts a time.Time to a Windows FILETIME value.
func TimeToFiletime(t time.Time) int64 {
	ns := t.UnixNano()
	if ns < 0 {
		ns = 0
	}
	return ns/filetimeUnit + filetimeOffset
}
