package watcher

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/pkg/utils"
)

// PackExtensions are the file types that hold lexicon packs.
var PackExtensions = []string{".yaml", ".yml"}

// WatchLexicons loads dir into registry and keeps it in sync until ctx ends.
// A pack that fails to parse is logged and the previous set stays active.
func WatchLexicons(ctx context.Context, dir string, registry *lexicon.Registry, logger *zap.Logger, opts ...WatcherOption) (*Watcher, error) {
	logger = utils.OrNop(logger)
	reload := func(trigger string) {
		packs, err := registry.Reload(dir)
		if err != nil {
			logger.Warn("Lexicon reload failed, keeping previous packs", zap.String("dir", dir), zap.String("trigger", trigger), zap.Error(err))
			return
		}
		names := make([]string, len(packs))
		for i, p := range packs {
			names[i] = p.Name
		}
		logger.Info("Lexicon packs loaded", zap.String("dir", dir), zap.Strings("packs", names))
	}

	opts = append([]WatcherOption{WithLogger(logger)}, opts...)
	w := NewWatcher([]string{dir}, PackExtensions, reload, opts...)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	reload(dir)
	return w, nil
}
