package drive

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count with base 1024 units, two decimals at most.
//
//	FormatSize(0)    // "0 Bytes"
//	FormatSize(1536) // "1.5 KB"
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	// floor(log1024(bytes)) in integers, capped at TB
	i := 0
	for v := bytes; v >= 1024 && i < len(sizeUnits)-1; v /= 1024 {
		i++
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
