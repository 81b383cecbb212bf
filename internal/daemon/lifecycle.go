package daemon

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"time"
)

// LifecycleManager owns the on-disk artifacts that make the daemon a
// well-behaved singleton: an exclusive lock file, a pid file for lifecycle
// tooling, and the socket path used for liveness probes.
type LifecycleManager struct {
	lockFile   *LockFile
	pidFile    *PIDFile
	socketPath string
}

func NewLifecycleManager(baseDir, socketPath string) *LifecycleManager {
	return &LifecycleManager{
		lockFile:   NewLockFile(filepath.Join(baseDir, "slidesmith.lock")),
		pidFile:    NewPIDFile(filepath.Join(baseDir, "slidesmith.pid")),
		socketPath: socketPath,
	}
}

func (lm *LifecycleManager) AcquireInstanceLock() error {
	if err := lm.lockFile.Acquire(); err != nil {
		if errors.Is(err, ErrLockHeld) && lm.IsSocketResponsive() {
			return fmt.Errorf("daemon already running on %s", lm.socketPath)
		}
		return fmt.Errorf("failed to acquire instance lock: %w", err)
	}
	return nil
}

// IsSocketResponsive reports whether something is accepting connections on
// the daemon socket.
func (lm *LifecycleManager) IsSocketResponsive() bool {
	conn, err := net.DialTimeout("unix", lm.socketPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (lm *LifecycleManager) RegisterRunningDaemon() error {
	return lm.pidFile.Write()
}

func (lm *LifecycleManager) Cleanup() {
	lm.pidFile.Remove()
	lm.lockFile.Release()
}

func (lm *LifecycleManager) PIDFile() *PIDFile {
	return lm.pidFile
}
