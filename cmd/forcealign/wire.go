package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/ieee0824/forcealign"
	"github.com/ieee0824/forcealign/acoustic"
	"github.com/ieee0824/forcealign/audio"
	"github.com/ieee0824/forcealign/config"
	"github.com/ieee0824/forcealign/corpus"
	"github.com/ieee0824/forcealign/lexicon"
)

func (a *app) bind(f *pflag.Flag, key string) {
	if err := a.v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

func loadVocabulary(cfg *config.Config) (*lexicon.Vocabulary, error) {
	if cfg.Vocabulary.Path == "" {
		return lexicon.DefaultVocabulary(), nil
	}
	v, err := lexicon.LoadVocabularyFile(cfg.Vocabulary.Path)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	return v, nil
}

func buildModel(cfg *config.Config) (acoustic.Model, error) {
	vocab, err := loadVocabulary(cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.Model.Kind {
	case "remote":
		return acoustic.NewRemote(cfg.Model.URL, vocab, cfg.Model.Timeout), nil
	case "dnn":
		d, err := acoustic.LoadDNNFile(cfg.Model.Path)
		if err != nil {
			return nil, fmt.Errorf("load model %s: %w", cfg.Model.Path, err)
		}
		if cfg.Vocabulary.Path != "" && !d.Vocabulary().Equal(vocab.Labels) {
			return nil, fmt.Errorf("model %s labels differ from vocabulary %s", cfg.Model.Path, cfg.Vocabulary.Path)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", cfg.Model.Kind)
	}
}

func buildLoader(cfg *config.Config) *audio.Loader {
	padding := cfg.Audio.Padding
	if padding < acoustic.MinPadding {
		padding = acoustic.MinPadding
	}
	return &audio.Loader{
		SampleRate: acoustic.SampleRate,
		Padding:    padding,
		Transcoder: &audio.Transcoder{Binary: cfg.Audio.FFmpeg, SampleRate: acoustic.SampleRate},
	}
}

func buildAligner(cfg *config.Config) (*forcealign.Aligner, error) {
	model, err := buildModel(cfg)
	if err != nil {
		return nil, err
	}
	return forcealign.New(model, forcealign.WithLoader(buildLoader(cfg))), nil
}

func openCorpus(ctx context.Context, cfg *config.Config) (*corpus.SQLSource, error) {
	return corpus.Open(ctx, corpus.DBConfig{
		Driver: cfg.Corpus.Driver,
		DSN:    cfg.Corpus.DSN,
		Query:  cfg.Corpus.Query,
	})
}
