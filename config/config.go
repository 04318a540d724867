package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/adrianliechti/docgraph/pkg/document"
	"github.com/adrianliechti/docgraph/pkg/extractor"
	"github.com/adrianliechti/docgraph/pkg/geometry"
	"github.com/adrianliechti/docgraph/pkg/otel"
	"github.com/adrianliechti/docgraph/pkg/renderer"
	"github.com/adrianliechti/docgraph/pkg/storage"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Scale   geometry.Scale
	Workers int

	Telemetry otel.Options

	extractors registry[extractor.Provider]
	storages   registry[storage.Provider]
	renderers  registry[renderer.Provider]
}

type configFile struct {
	Extractors yaml.Node `yaml:"extractors"`
	Storages   yaml.Node `yaml:"storages"`
	Renderers  yaml.Node `yaml:"renderers"`

	Builder   *builderConfig   `yaml:"builder"`
	Telemetry *telemetryConfig `yaml:"telemetry"`
}

type builderConfig struct {
	Scale *struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	} `yaml:"scale"`

	Workers int `yaml:"workers"`
}

type telemetryConfig struct {
	Service  string `yaml:"service"`
	Endpoint string `yaml:"endpoint"`
}

// Parse reads the yaml configuration at path. ${VAR} placeholders are expanded
// from the environment before decoding.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	return parse(data)
}

// Default returns a configuration without any registered providers.
func Default() *Config {
	return &Config{
		Scale:   geometry.Identity,
		Workers: 1,
	}
}

func parse(data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var f configFile

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	cfg := Default()

	if f.Builder != nil {
		if f.Builder.Scale != nil {
			cfg.Scale = geometry.Scale{X: f.Builder.Scale.X, Y: f.Builder.Scale.Y}
		}

		if f.Builder.Workers > 0 {
			cfg.Workers = f.Builder.Workers
		}
	}

	if f.Telemetry != nil {
		cfg.Telemetry = otel.Options{
			Service:  f.Telemetry.Service,
			Endpoint: f.Telemetry.Endpoint,
		}
	}

	if err := cfg.registerExtractors(&f); err != nil {
		return nil, err
	}

	if err := cfg.registerStorages(&f); err != nil {
		return nil, err
	}

	if err := cfg.registerRenderers(&f); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Builder returns a document builder using the configured scale and workers.
func (cfg *Config) Builder(logger *slog.Logger) *document.Builder {
	options := []document.Option{
		document.WithScale(cfg.Scale),
		document.WithWorkers(cfg.Workers),
	}

	if logger != nil {
		options = append(options, document.WithLogger(logger))
	}

	return document.NewBuilder(options...)
}

func (cfg *Config) RegisterExtractor(id string, p extractor.Provider) {
	cfg.extractors.register(id, p)
}

// Extractor returns the extractor registered as id. An empty id selects the
// first one in file order.
func (cfg *Config) Extractor(id string) (extractor.Provider, error) {
	return cfg.extractors.lookup("extractor", id)
}

func (cfg *Config) RegisterStorage(id string, p storage.Provider) {
	cfg.storages.register(id, p)
}

func (cfg *Config) Storage(id string) (storage.Provider, error) {
	return cfg.storages.lookup("storage", id)
}

func (cfg *Config) RegisterRenderer(id string, p renderer.Provider) {
	cfg.renderers.register(id, p)
}

func (cfg *Config) Renderer(id string) (renderer.Provider, error) {
	return cfg.renderers.lookup("renderer", id)
}

type registry[T any] struct {
	ids   []string
	items map[string]T
}

func (r *registry[T]) register(id string, item T) {
	if r.items == nil {
		r.items = make(map[string]T)
	}

	if _, ok := r.items[id]; !ok {
		r.ids = append(r.ids, id)
	}

	r.items[id] = item
}

func (r *registry[T]) lookup(kind, id string) (T, error) {
	var empty T

	if id == "" {
		if len(r.ids) == 0 {
			return empty, errors.New("no " + kind + " configured")
		}

		id = r.ids[0]
	}

	item, ok := r.items[id]

	if !ok {
		return empty, fmt.Errorf("%s not found: %s", kind, id)
	}

	return item, nil
}

// entries returns the ids of a yaml mapping in declaration order.
func entries(node *yaml.Node) []string {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	var ids []string

	for i := 0; i+1 < len(node.Content); i += 2 {
		ids = append(ids, node.Content[i].Value)
	}

	return ids
}
