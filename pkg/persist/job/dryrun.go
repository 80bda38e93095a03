package job

import (
	"context"

	"go.uber.org/zap"
)

// dryRunOrchestrator logs every side effect instead of performing it.
type dryRunOrchestrator struct {
	log *zap.Logger
}

func (o *dryRunOrchestrator) CreateSnapshot(_ context.Context, fsRoot, destPath string) error {
	o.log.Info("dry run: would create snapshot", zap.String("filesystem", fsRoot), zap.String("path", destPath))
	return nil
}

func (o *dryRunOrchestrator) DeleteSnapshot(_ context.Context, location string) error {
	o.log.Info("dry run: would delete snapshot", zap.String("location", location))
	return nil
}

func (o *dryRunOrchestrator) SendReceive(_ context.Context, base *string, target, destDir string) error {
	if base != nil {
		o.log.Info("dry run: would transfer incrementally",
			zap.String("base", *base), zap.String("target", target), zap.String("destination", destDir))
	} else {
		o.log.Info("dry run: would transfer in full",
			zap.String("target", target), zap.String("destination", destDir))
	}
	return nil
}

func (o *dryRunOrchestrator) Mount(_ context.Context, path string, readOnly bool) error {
	o.log.Info("dry run: would mount", zap.String("path", path), zap.Bool("readOnly", readOnly))
	return nil
}

func (o *dryRunOrchestrator) Unmount(_ context.Context, path string) error {
	o.log.Info("dry run: would unmount", zap.String("path", path))
	return nil
}
