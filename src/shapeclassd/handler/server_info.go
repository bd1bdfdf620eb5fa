package handler

import (
	"fmt"

	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/serverinfofile"
	"go.uber.org/config"
)

const (
	_errInvalidEntry = "type error or missing field for key %q"

	_configKeyServiceName = "service.name"
	_configKeyModelPath   = "model.path"

	_infoKeyServiceName = "service-name"
	_infoKeyModelPath   = "model-path"
)

// Output service identity to the Server Info file.
// The transport adds its own listener addresses independently.
func outputServiceInfo(cfg config.Provider, infofile serverinfofile.ServerInfoFile) error {
	fields := []struct {
		configKey string
		infoKey   string
	}{
		{_configKeyServiceName, _infoKeyServiceName},
		{_configKeyModelPath, _infoKeyModelPath},
	}

	for _, f := range fields {
		var value string
		if err := cfg.Get(f.configKey).Populate(&value); err != nil || value == "" {
			return fmt.Errorf(_errInvalidEntry, f.configKey)
		}
		if err := infofile.UpdateField(f.infoKey, value); err != nil {
			return fmt.Errorf("outputting %q to info file: %w", f.infoKey, err)
		}
	}

	return nil
}
