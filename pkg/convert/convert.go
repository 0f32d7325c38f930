package convert

import (
	"strconv"
	"strings"
)

// StrTo converts query and path parameters.
type StrTo string

func (s StrTo) String() string {
	return strings.TrimSpace(string(s))
}

func (s StrTo) Int() (int, error) {
	return strconv.Atoi(s.String())
}

func (s StrTo) MustInt() int {
	v, _ := s.Int()
	return v
}

func (s StrTo) Int64() (int64, error) {
	return strconv.ParseInt(s.String(), 10, 64)
}

func (s StrTo) MustInt64() int64 {
	v, _ := s.Int64()
	return v
}

// Bool 解析布尔参数，支持 1/0、true/false、on/off
func (s StrTo) Bool() (bool, error) {
	switch strings.ToLower(s.String()) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	return strconv.ParseBool(s.String())
}
