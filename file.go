package structargs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"
)

var _ Value = &File[any]{}

// File loads T from the configuration file named by its command line token.
// The format is chosen by extension: .json, .yaml/.yml, .toml or .hcl.
// Other names are tried as json, yaml, toml and hcl in that order.
//
//	type Args struct {
//		Config *structargs.File[Settings] `metavar:"PATH"`
//	}
type File[T any] struct {
	path string

	// Get may run while Watch reloads, so readers only ever see a
	// complete *T.
	value atomic.Pointer[T]
}

// this is a generic unmarshal function
// json, yaml, toml and hcl all implement this
type unmarshalFn func(data []byte, v any) error

// FromString loads the file at path.
func (f *File[T]) FromString(path string) error {
	f.path = path
	return f.load()
}

func (f *File[T]) load() error {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	value, err := parseByOrder[T](content, decodersFor(f.path))
	if err != nil {
		return err
	}
	f.value.Store(&value)
	return nil
}

func decodersFor(path string) []unmarshalFn {
	hcl := func(data []byte, v any) error {
		name := filepath.Base(path)
		if filepath.Ext(name) != ".hcl" {
			name += ".hcl"
		}
		return hclsimple.Decode(name, data, nil, v)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return []unmarshalFn{json.Unmarshal}
	case ".yaml", ".yml":
		return []unmarshalFn{yaml.Unmarshal}
	case ".toml":
		return []unmarshalFn{toml.Unmarshal}
	case ".hcl":
		return []unmarshalFn{hcl}
	}
	return []unmarshalFn{json.Unmarshal, yaml.Unmarshal, toml.Unmarshal, hcl}
}

// Get returns the last loaded value, nil before FromString succeeded.
func (f *File[T]) Get() *T {
	return f.value.Load()
}

// Path returns the loaded file name.
func (f *File[T]) Path() string {
	return f.path
}

func (f *File[T]) String() string {
	return f.path
}

// Watch reloads the file whenever it is written, created or replaced
// through a symlink, until ctx is done or the file is removed. Every reload
// attempt is sent on the returned channel, dropped when nobody receives.
// Reload failures keep the previous value and are logged to logger, nil
// meaning slog.Default().
func (f *File[T]) Watch(ctx context.Context, logger *slog.Logger) (<-chan fsnotify.Event, error) {
	if logger == nil {
		logger = slog.Default()
	}
	configFile := filepath.Clean(f.path)
	configDir, _ := filepath.Split(configFile)
	if configDir == "" {
		configDir = "."
	}
	realConfigFile, _ := filepath.EvalSymlinks(f.path)

	// we have to watch the entire directory to pick up renames/atomic saves in a cross-platform way
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(configDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", configDir, err)
	}

	events := make(chan fsnotify.Event, 2)
	go func() {
		defer close(events)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				currentConfigFile, _ := filepath.EvalSymlinks(f.path)
				// reload when the file is modified or created, or when the
				// real path behind it changed (eg: k8s ConfigMap replacement)
				if (filepath.Clean(event.Name) == configFile &&
					(event.Has(fsnotify.Write) || event.Has(fsnotify.Create))) ||
					(currentConfigFile != "" && currentConfigFile != realConfigFile) {
					realConfigFile = currentConfigFile
					if err := f.load(); err != nil {
						logger.Warn("reload config file failed", "path", f.path, "error", err)
					}
					select {
					case events <- event:
					default:
					}
				} else if filepath.Clean(event.Name) == configFile && event.Has(fsnotify.Remove) {
					return
				}
			case err, ok := <-watcher.Errors:
				if ok {
					logger.Error("config file watcher failed", "path", f.path, "error", err)
				}
				return
			}
		}
	}()
	return events, nil
}

type errList []error

func (el errList) Error() string {
	ret := []string{}
	for _, e := range el {
		ret = append(ret, fmt.Sprintf("[%s]", e.Error()))
	}
	return strings.Join(ret, " ")
}

func parseByOrder[T any](content []byte, parseOrder []unmarshalFn) (T, error) {
	var elist errList
	for _, unmarshal := range parseOrder {
		var t T
		err := unmarshal(content, &t)
		if err == nil {
			return t, nil
		}
		elist = append(elist, err)
	}
	var zero T
	return zero, elist
}
