package util

import (
	"os"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
)

var (
	machineID     string
	machineIDOnce sync.Once
)

// GetMachineID 获取当前机器的唯一标识符
// It prefers the OS machine id and falls back to the board serial on Linux.
// An empty string means neither was readable.
func GetMachineID() string {
	machineIDOnce.Do(func() {
		if id, err := machineid.ID(); err == nil && id != "" {
			machineID = id
			return
		}
		if b, err := os.ReadFile("/sys/class/dmi/id/board_serial"); err == nil {
			machineID = strings.TrimSpace(string(b))
		}
	})
	return machineID
}
