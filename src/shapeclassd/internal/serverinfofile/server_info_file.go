package serverinfofile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=server_info_file.go -destination=serverinfofilemock/server_info_file_mock.go -package=serverinfofilemock

const (
	_configKeyInfoFile = "serverInfoFilePath"

	// KeyPID is always present once the file has been written.
	KeyPID = "pid"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// ServerInfoFile publishes how to reach the running daemon.
// Fields are merged into one JSON object which is rewritten on every update and removed on stop.
type ServerInfoFile interface {
	UpdateField(key string, value string) error
}

type infoFile struct {
	path   string
	fs     fs.ShapeFS
	logger *zap.SugaredLogger

	mu      sync.Mutex
	fields  map[string]string
	written bool
}

// Params define values to be used by ServerInfoFile.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	FS        fs.ShapeFS
}

// New reads the file location from config and registers its cleanup.
func New(p Params) (ServerInfoFile, error) {
	path, err := filePath(p.Config)
	if err != nil {
		return nil, err
	}

	f := &infoFile{
		path:   path,
		fs:     p.FS,
		logger: p.Logger,
		fields: map[string]string{KeyPID: strconv.Itoa(os.Getpid())},
	}
	p.Lifecycle.Append(fx.Hook{OnStop: f.remove})
	return f, nil
}

func (f *infoFile) UpdateField(key string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fields[key] = value
	if err := f.flush(); err != nil {
		return err
	}
	f.logger.Infow("server info updated", "file", f.path, key, value)
	return nil
}

// flush must be called with mu held.
func (f *infoFile) flush() error {
	body, err := json.MarshalIndent(f.fields, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}
	if err := f.fs.WriteFile(f.path, append(body, '\n')); err != nil {
		return fmt.Errorf("creating info file: %w", err)
	}
	f.written = true
	return nil
}

// remove deletes the file so tooling never reads a stale address.
func (f *infoFile) remove(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.written {
		return nil
	}
	if err := f.fs.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing info file: %w", err)
	}
	f.written = false
	return nil
}

func filePath(cfg config.Provider) (string, error) {
	var path string
	if err := cfg.Get(_configKeyInfoFile).Populate(&path); err != nil {
		return "", fmt.Errorf("getting config field %q: %w", _configKeyInfoFile, err)
	}
	if path == "" {
		return "", fmt.Errorf("missing field %q in config", _configKeyInfoFile)
	}
	return path, nil
}
