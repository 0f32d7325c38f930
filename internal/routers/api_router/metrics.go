package api_router

import (
	"expvar"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haierkeys/fast-drive-service/internal/app"
)

var (
	publishOnce sync.Once
	expvarApp   atomic.Pointer[app.App]
)

// DriveVars is the "drive" expvar.
type DriveVars struct {
	Drives  int     `json:"drives"`
	Live    int     `json:"live"`
	Trashed int     `json:"trashed"`
	Uptime  float64 `json:"uptime"`
}

// NewExpvarHandler serves every expvar as JSON. The "drive" var reports on
// the App of the most recent call, so a reloaded server takes it over.
func NewExpvarHandler(a *app.App) gin.HandlerFunc {
	expvarApp.Store(a)
	publishOnce.Do(func() {
		expvar.Publish("drive", expvar.Func(func() any {
			a := expvarApp.Load()
			s := a.DriveRepo.Stats()
			return DriveVars{
				Drives:  s.Drives,
				Live:    s.Live,
				Trashed: s.Trashed,
				Uptime:  time.Since(a.StartTime).Seconds(),
			}
		}))
	})
	return gin.WrapH(expvar.Handler())
}
