// Package timex provides time types with stable JSON and database encodings
// Package timex 提供具有稳定 JSON 与数据库编码的时间类型
package timex

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	// DateTimeLayout full timestamp layout
	// DateTimeLayout 完整时间格式
	DateTimeLayout = "2006-01-02 15:04:05"
	// DateLayout day granularity layout
	// DateLayout 日期格式（天精度）
	DateLayout = "2006-01-02"
)

// Time wraps time.Time and encodes as "2006-01-02 15:04:05"
// Time 封装 time.Time，编码为 "2006-01-02 15:04:05"
type Time time.Time

// Now returns the current time
// Now 返回当前时间
func Now() Time {
	return Time(time.Now())
}

func (t Time) MarshalJSON() ([]byte, error) {
	if time.Time(t).IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + time.Time(t).Format(DateTimeLayout) + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = Time(time.Time{})
		return nil
	}
	parsed, err := time.ParseInLocation(DateTimeLayout, s, time.Local)
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}

// Value implements driver.Valuer
func (t Time) Value() (driver.Value, error) {
	if time.Time(t).IsZero() {
		return nil, nil
	}
	return time.Time(t), nil
}

// Scan implements sql.Scanner
func (t *Time) Scan(v interface{}) error {
	switch value := v.(type) {
	case nil:
		*t = Time(time.Time{})
	case time.Time:
		*t = Time(value)
	case string:
		return t.UnmarshalJSON([]byte(value))
	case []byte:
		return t.UnmarshalJSON(value)
	default:
		return fmt.Errorf("can not convert %v to timex.Time", v)
	}
	return nil
}

func (t Time) String() string {
	return time.Time(t).Format(DateTimeLayout)
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

// Date is a calendar day without a clock component
// Date 不含时分秒的日历日期
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day in t's location
// DateOf 取 t 所在时区的日历日期
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses "2006-01-02"
// ParseDate 解析 "2006-01-02" 格式日期
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// IsZero reports whether the date is unset
// IsZero 判断日期是否未设置
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is strictly earlier than o
// Before 判断 d 是否早于 o
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
