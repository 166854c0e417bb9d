// Package clock は「今日」の判定を差し替え可能にするための小さな部品。
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func Real() Clock { return realClock{} }

// Fixed はテスト用。常に同じ時刻を返す。
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Today は loc における now の日付の 0:00。
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
}

// IsWeekend は土日判定。
func IsWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
