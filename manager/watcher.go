package manager

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// credentialsWatcher nudges the run loop when the credentials file is
// edited out-of-band, so new credentials take effect without waiting for
// a portal action.
type credentialsWatcher struct {
	watcher *fsnotify.Watcher
}

// startWatcher is best-effort: a watcher failure is logged, never fatal
func (m *Manager) startWatcher() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.log.Warnf("failed to create credentials watcher: %v", err)
		return
	}

	// Watch the directory so creation of a missing file is seen too
	dir := filepath.Dir(m.store.Path())
	if err := watcher.Add(dir); err != nil {
		m.log.Warnf("failed to watch %s: %v", dir, err)
		watcher.Close()
		return
	}

	m.watcher = &credentialsWatcher{watcher: watcher}
	go m.watchCredentials(watcher)
}

func (m *Manager) watchCredentials(watcher *fsnotify.Watcher) {
	path := m.store.Path()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if m.sta.IsConnected() {
				continue
			}
			m.log.Info("credentials file changed, scheduling reconnect")
			select {
			case m.retryCh <- struct{}{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.log.Warnf("credentials watcher error: %v", err)
		}
	}
}

func (m *Manager) stopWatcher() {
	if m.watcher != nil {
		m.watcher.watcher.Close()
		m.watcher = nil
	}
}
