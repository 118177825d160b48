package orion

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/oliverbestmann/pixl/pulse"
)

// WatchConfig reloads the config file at path whenever it changes. Only
// Stretch and ClearColor are applied to a running rasterizer, the new
// values take effect with the next frame.
func (r *Rasterizer) WatchConfig(path string) error {
	if r.watcher != nil {
		return fmt.Errorf("watch config: already watching")
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// watch the directory, editors tend to replace files instead of writing them
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %q: %w", path, err)
	}

	r.watcher = watcher

	go watchConfig(watcher, path, r.configUpdates)

	slog.Info("Watching config", slog.String("path", path))

	return nil
}

func watchConfig(watcher *fsnotify.Watcher, path string, updates chan Config) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != path {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			conf, err := LoadConfig(path)
			if err != nil {
				slog.Warn("Ignoring invalid config", slog.String("path", path), slog.String("err", err.Error()))
				continue
			}

			publishConfig(updates, conf)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			slog.Warn("Config watcher failed", slog.String("err", err.Error()))
		}
	}
}

// publishConfig replaces a config that was not yet picked up.
func publishConfig(updates chan Config, conf Config) {
	for {
		select {
		case updates <- conf:
			return
		default:
		}

		select {
		case <-updates:
		default:
		}
	}
}

func (r *Rasterizer) applyConfigUpdates() {
	select {
	case conf := <-r.configUpdates:
		r.applyConfig(conf)
	default:
	}
}

func (r *Rasterizer) applyConfig(conf Config) {
	slog.Info("Applying config",
		slog.Bool("stretch", conf.Stretch),
		slog.String("clearColor", fmt.Sprintf("%08x", conf.ClearColor)),
	)

	r.conf.Stretch = conf.Stretch
	r.conf.ClearColor = conf.ClearColor

	r.projection.Stretch = conf.Stretch
	r.clearColor = pulse.ColorRGBA(conf.ClearColor)
}
