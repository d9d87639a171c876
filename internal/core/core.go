package core

import (
	"errors"
	"net"
	"os"
	"strconv"
	"time"
)

func SplitAddress(address string) (host string, port string) {
	var err error
	host, port, err = net.SplitHostPort(address)
	if err != nil {
		host = address
	}
	return
}

func Address(host string, port int) string {
	return host + ":" + strconv.Itoa(port)
}

// https://stackoverflow.com/a/12518877
func FileExists(filePath string) (bool, error) {
	if _, err := os.Stat(filePath); err == nil {
		return true, nil
	} else if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else {
		return false, err
	}
}

func Optional[T any](optional *T, defaulT T) T {
	if optional != nil {
		return *optional
	}
	return defaulT
}

// TimeSample is a wall clock reading with millisecond resolution.
type TimeSample struct {
	Seconds int64
	Millis  int64
}

func Now() TimeSample {
	t := time.Now()
	return TimeSample{
		Seconds: t.Unix(),
		Millis:  int64(t.Nanosecond()) / int64(time.Millisecond),
	}
}

// MillisSince returns the elapsed milliseconds between two samples.
func MillisSince(earlier, later TimeSample) int64 {
	return (later.Seconds-earlier.Seconds)*1000 + later.Millis - earlier.Millis
}
