package cmd

import (
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/haierkeys/fast-drive-service/pkg/fileurl"
)

type runFlags struct {
	dir     string // Project root directory // 项目根目录
	port    string // Startup port // 启动端口
	runMode string // Startup mode // 启动模式
	config  string // Specified configuration file path // 指定要使用的配置文件路径
}

// defaultAuthTokenKey is replaced by a random key when the default config is
// written out.
const defaultAuthTokenKey = "fast-drive-Auth-Token"

// resolveConfig picks the first existing config file, or writes the embedded
// default to config/config.yaml.
func resolveConfig(runEnv *runFlags) error {
	if len(runEnv.config) > 0 {
		return nil
	}
	for _, p := range []string{"config/config-dev.yaml", "config.yaml", "config/config.yaml"} {
		if fileurl.IsExist(p) {
			runEnv.config = p
			return nil
		}
	}

	bootstrapLogger.Warn("config file not found, creating default config")
	runEnv.config = "config/config.yaml"
	key := strings.ReplaceAll(uuid.NewString(), "-", "")
	content := strings.Replace(configDefault, defaultAuthTokenKey, key, 1)
	if _, err := fileurl.WriteIfMissing(runEnv.config, []byte(content), 0o644); err != nil {
		return err
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", runEnv.config))
	return nil
}

// serverHolder guards the server swapped by config reloads.
type serverHolder struct {
	mu sync.Mutex
	s  *Server
}

func (h *serverHolder) get() *Server {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.s
}

// reload shuts the running server down and starts a new one from runEnv.
func (h *serverHolder) reload(runEnv *runFlags) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.s.Shutdown(); err != nil {
		h.s.logger.Error("shutdown before reload", zap.Error(err))
	}
	s, err := NewServer(runEnv)
	if err != nil {
		bootstrapLogger.Error("service start err", zap.Error(err))
		return
	}
	h.s = s
}

func watchConfig(h *serverHolder, runEnv *runFlags) {
	w := watcher.New()

	// 将 SetMaxEvents 设置为 1，以便在每个监听周期中至多接收 1 个事件
	w.SetMaxEvents(1)
	// 只通知写入事件。
	w.FilterOps(watcher.Write)

	go func() {
		for {
			select {
			case event := <-w.Event:
				h.get().logger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))
				h.reload(runEnv)
			case err := <-w.Error:
				h.get().logger.Error("config watcher error", zap.Error(err))
			case <-w.Closed:
				bootstrapLogger.Info("config watcher closed")
				return
			}
		}
	}()

	if err := w.Add(runEnv.config); err != nil {
		h.get().logger.Error("config watcher file error", zap.Error(err))
		return
	}
	if err := w.Start(time.Second * 5); err != nil {
		h.get().logger.Error("config watcher start error", zap.Error(err))
	}
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				if err := os.Chdir(runEnv.dir); err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
				} else {
					bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
				}
			}

			if err := resolveConfig(runEnv); err != nil {
				bootstrapLogger.Error("config file auto create error", zap.Error(err))
				return
			}

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}
			h := &serverHolder{s: s}
			go watchConfig(h, runEnv)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			s = h.get()
			s.logger.Info("Received shutdown signal, initiating graceful shutdown...")
			if err := s.Shutdown(); err != nil {
				s.logger.Error("Shutdown completed with error", zap.Error(err))
			} else {
				s.logger.Info("Service has been shut down gracefully.")
			}
			_ = s.logger.Sync()
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}
