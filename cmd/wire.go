package cmd

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/karbar/resumeforge/pkg/compiler"
	"github.com/karbar/resumeforge/pkg/config"
	"github.com/karbar/resumeforge/pkg/conversation"
	"github.com/karbar/resumeforge/pkg/extractor"
	"github.com/karbar/resumeforge/pkg/schema"
	"github.com/karbar/resumeforge/pkg/storage"
)

const providerTimeout = 30 * time.Second

// buildController assembles the conversation stack from configuration. The
// caller owns closing the returned store.
func buildController(cfg config.Config, notify conversation.Notifier) (controller *conversation.Controller, store *storage.SQLiteStore, err error) {
	err = schema.Validate()
	if err != nil {
		err = errors.Wrap(err, "schema validation failed")
		return controller, store, err
	}

	vocab := extractor.DefaultVocabulary()
	if cfg.VocabularyPath != "" {
		vocab, err = extractor.LoadVocabulary(cfg.VocabularyPath)
		if err != nil {
			err = errors.Wrap(err, "failed to load vocabulary")
			return controller, store, err
		}
	}
	fallback := extractor.NewFallback(vocab)

	var extr extractor.Extractor = fallback
	if cfg.Gemini.APIKey != "" {
		client := extractor.NewGeminiClient(cfg.Gemini.APIKey, providerTimeout)
		extr = extractor.NewModel(client, cfg.Gemini.Model, fallback, slog.Default())
	} else {
		slog.Warn("no Gemini API key configured, using the built-in keyword matcher")
	}

	comp := compiler.New(cfg.LaTeX.Binary, time.Duration(cfg.LaTeX.TimeoutSeconds)*time.Second)

	store, err = storage.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		err = errors.Wrap(err, "failed to open database")
		return controller, store, err
	}
	retrier := storage.NewRetrier(store, 0, 0, slog.Default())

	controller = conversation.New(extr, comp, retrier, notify, slog.Default())
	return controller, store, err
}
