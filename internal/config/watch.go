package config

import (
	"context"
	"os"
	"reflect"
	"time"

	"github.com/rs/zerolog"
)

// Config sections, as named in the YAML file.
const (
	SectionAPI         = "api"
	SectionCredentials = "credentials"
	SectionRedis       = "redis"
	SectionGrid        = "grid"
	SectionLog         = "log"
	SectionMonitoring  = "monitoring"
	SectionExport      = "export"
)

// Change is a reload that altered at least one section.
type Change struct {
	Old, New *Config
	Sections []string
}

// Has reports whether section differs between Old and New.
func (c Change) Has(section string) bool {
	for _, s := range c.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// Diff lists the sections that differ between a and b, in file order.
func Diff(a, b *Config) []string {
	pairs := []struct {
		name string
		x, y any
	}{
		{SectionAPI, a.API, b.API},
		{SectionCredentials, a.Credentials, b.Credentials},
		{SectionRedis, a.Redis, b.Redis},
		{SectionGrid, a.Grid, b.Grid},
		{SectionLog, a.Log, b.Log},
		{SectionMonitoring, a.Monitoring, b.Monitoring},
		{SectionExport, a.Export, b.Export},
	}
	var changed []string
	for _, p := range pairs {
		if !reflect.DeepEqual(p.x, p.y) {
			changed = append(changed, p.name)
		}
	}
	return changed
}

type watcher struct {
	path     string
	current  *Config
	modTime  time.Time
	onChange func(Change)
}

// poll reloads the file when its mtime moved. A file that fails to load is
// skipped until it is modified again.
func (w *watcher) poll() error {
	info, err := os.Stat(w.path)
	if err != nil {
		return err
	}
	if !info.ModTime().After(w.modTime) {
		return nil
	}
	w.modTime = info.ModTime()

	next, err := Load(w.path)
	if err != nil {
		return err
	}
	sections := Diff(w.current, next)
	if len(sections) == 0 {
		return nil
	}
	change := Change{Old: w.current, New: next, Sections: sections}
	w.current = next
	if w.onChange != nil {
		w.onChange(change)
	}
	return nil
}

// Watch loads path and returns it, then polls the file every interval until
// ctx is done. onChange is called only for reloads that differ from the
// config currently in effect.
func Watch(ctx context.Context, path string, interval time.Duration, onChange func(Change)) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	w := &watcher{path: path, current: cfg, modTime: info.ModTime(), onChange: onChange}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.poll(); err != nil {
					zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("config reload skipped")
				}
			}
		}
	}()
	return cfg, nil
}
