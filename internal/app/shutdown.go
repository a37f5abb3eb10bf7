package app

import (
	"errors"

	"go.uber.org/zap"
)

// saveCaches writes both stores. A failed save is logged and the in-memory
// entries stay usable, so the batch can carry on.
func (a *App) saveCaches() error {
	var errs []error

	err := a.nativeCache.Save()
	if err != nil {
		a.logger.Warn("cache-save-failed",
			zap.String("cache", a.nativeCache.Name()),
			zap.Error(err))
		errs = append(errs, err)
	}

	err = a.ratingCache.Save()
	if err != nil {
		a.logger.Warn("cache-save-failed",
			zap.String("cache", a.ratingCache.Name()),
			zap.Error(err))
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		a.logger.Debug("caches-saved",
			zap.Int("native-entries", a.nativeCache.Len()),
			zap.Int("protondb-entries", a.ratingCache.Len()))
	}

	return errors.Join(errs...)
}
