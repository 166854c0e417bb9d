package reports

import (
	"strconv"
	"strings"
	"time"

	"MAGANG-backend/internal/platform/apierr"
	"MAGANG-backend/internal/platform/db"
)

// Sentinels は記録がない日の表示値。
type Sentinels struct {
	NoActivity   string
	NoAttendance string
}

var (
	SentinelsID = Sentinels{NoActivity: "Tidak ada aktivitas", NoAttendance: "TIDAK HADIR"}
	SentinelsEN = Sentinels{NoActivity: "No Activity", NoAttendance: "NO_STATUS"}
)

// SentinelsFor: "en" 以外はインドネシア語
func SentinelsFor(lang string) Sentinels {
	if strings.EqualFold(strings.TrimSpace(lang), "en") {
		return SentinelsEN
	}
	return SentinelsID
}

type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ParsePeriod は year（4桁）と month（1〜12）を検証する。範囲外を隣の月に丸めることはしない。
func ParsePeriod(yearStr, monthStr string) (Period, error) {
	yearStr = strings.TrimSpace(yearStr)
	monthStr = strings.TrimSpace(monthStr)
	if yearStr == "" || monthStr == "" {
		return Period{}, apierr.Invalid("year and month are required")
	}
	if len(yearStr) != 4 {
		return Period{}, apierr.Invalid("year must be 4 digits")
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1000 {
		return Period{}, apierr.Invalid("year must be 4 digits")
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return Period{}, apierr.Invalid("month must be an integer")
	}
	if month < 1 || month > 12 {
		return Period{}, apierr.Invalid("month must be between 1 and 12")
	}
	return Period{Year: year, Month: month}, nil
}

// MonthRange は月初と月末（両端含む）。
func MonthRange(p Period) (time.Time, time.Time) {
	first := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

type AttendanceEntry struct {
	Date   string
	Status string
}

type ActivityEntry struct {
	Date        string
	Description string
	Status      string
	TaskTitle   *string
}

// DailyRecord は1日1行のレポート行。
type DailyRecord struct {
	Date                string  `json:"date"`
	ActivityDescription string  `json:"activityDescription"`
	AttendanceStatus    string  `json:"attendanceStatus"`
	ActivityStatus      *string `json:"activityStatus,omitempty"`
	TaskTitle           *string `json:"taskTitle,omitempty"`
}

// Reconcile は期間の各日について出席と活動を突き合わせ、日付昇順で1日1行を返す。
// 同じ日付の行が複数あれば後のものが勝つ。
func Reconcile(first, last time.Time, att []AttendanceEntry, act []ActivityEntry, s Sentinels) []DailyRecord {
	attByDay := make(map[string]string, len(att))
	for _, a := range att {
		attByDay[a.Date] = a.Status
	}
	actByDay := make(map[string]ActivityEntry, len(act))
	for _, a := range act {
		actByDay[a.Date] = a
	}

	out := []DailyRecord{}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		day := d.Format(db.DateLayout)
		rec := DailyRecord{
			Date:                day,
			ActivityDescription: s.NoActivity,
			AttendanceStatus:    s.NoAttendance,
		}
		if a, ok := actByDay[day]; ok {
			if a.Description != "" {
				rec.ActivityDescription = a.Description
			}
			if a.Status != "" {
				st := a.Status
				rec.ActivityStatus = &st
			}
			rec.TaskTitle = a.TaskTitle
		}
		if st, ok := attByDay[day]; ok && st != "" {
			rec.AttendanceStatus = st
		}
		out = append(out, rec)
	}
	return out
}

type MonthOption struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"` // "January 2025"
}

// AvailableMonths は在籍開始月から終了月（なければ now の月）までの月一覧。
// 開始日が未設定なら now の月だけ。
func AvailableMonths(start, end *time.Time, now time.Time) []MonthOption {
	to := now
	if end != nil {
		to = *end
	}
	from := to
	if start != nil {
		from = *start
	}

	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	stop := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	if stop.Before(cur) {
		stop = cur
	}

	out := []MonthOption{}
	for ; !cur.After(stop); cur = cur.AddDate(0, 1, 0) {
		out = append(out, MonthOption{
			Year:  cur.Year(),
			Month: int(cur.Month()),
			Label: cur.Format("January 2006"),
		})
	}
	return out
}
