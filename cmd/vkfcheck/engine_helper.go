package main

import (
	"vkfcheck/internal/check"
	ckerrors "vkfcheck/internal/errors"
	"vkfcheck/internal/loader"
	"vkfcheck/internal/storage"
)

// newEngine builds the metric engine from the loaded configuration.
func newEngine() *check.Engine {
	return check.FromConfig(app.cfg, app.logger)
}

// newLoader returns a model loader sharing the CLI logger.
func newLoader() *loader.Loader {
	return loader.New(app.logger)
}

// openRuns opens the run history configured for the workspace. The caller
// closes the returned database.
func openRuns() (*storage.DB, *storage.RunRepository, error) {
	if !app.cfg.Storage.Enabled {
		return nil, nil, ckerrors.NewCheckError(ckerrors.ConfigInvalid,
			"run history is disabled (storage.enabled = false)", nil, nil)
	}
	db, err := storage.Open(app.cfg.DatabasePath(app.root), app.logger)
	if err != nil {
		return nil, nil, ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to open run history", err, nil)
	}
	return db, storage.NewRunRepository(db), nil
}
