package config

import (
	"errors"
	"strings"
	"time"

	"github.com/adrianliechti/docgraph/pkg/otel"
	"github.com/adrianliechti/docgraph/pkg/renderer"
	"github.com/adrianliechti/docgraph/pkg/renderer/command"
)

type rendererConfig struct {
	Type string `yaml:"type"`

	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Env     []string `yaml:"env"`

	Dir     string        `yaml:"dir"`
	Timeout time.Duration `yaml:"timeout"`
}

func (cfg *Config) registerRenderers(f *configFile) error {
	if f.Renderers.Kind == 0 {
		return nil
	}

	var configs map[string]rendererConfig

	if err := f.Renderers.Decode(&configs); err != nil {
		return err
	}

	for _, id := range entries(&f.Renderers) {
		config := configs[id]

		r, err := createRenderer(config)

		if err != nil {
			return err
		}

		if _, ok := r.(otel.Renderer); !ok {
			r = otel.NewRenderer(config.Type, id, r)
		}

		cfg.RegisterRenderer(id, r)
	}

	return nil
}

func createRenderer(cfg rendererConfig) (renderer.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "command", "":
		return commandRenderer(cfg)

	default:
		return nil, errors.New("invalid renderer type: " + cfg.Type)
	}
}

func commandRenderer(cfg rendererConfig) (renderer.Provider, error) {
	var options []command.Option

	if len(cfg.Args) > 0 {
		options = append(options, command.WithArgs(cfg.Args...))
	}

	if len(cfg.Env) > 0 {
		options = append(options, command.WithEnv(cfg.Env...))
	}

	if cfg.Dir != "" {
		options = append(options, command.WithDir(cfg.Dir))
	}

	if cfg.Timeout > 0 {
		options = append(options, command.WithTimeout(cfg.Timeout))
	}

	return command.New(cfg.Command, options...)
}
