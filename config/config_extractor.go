package config

import (
	"errors"
	"strings"
	"time"

	"github.com/adrianliechti/docgraph/pkg/extractor"
	"github.com/adrianliechti/docgraph/pkg/extractor/file"
	"github.com/adrianliechti/docgraph/pkg/extractor/textract"
	"github.com/adrianliechti/docgraph/pkg/otel"

	"golang.org/x/time/rate"
)

type extractorConfig struct {
	Type string `yaml:"type"`

	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`

	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	SessionToken string `yaml:"session_token"`

	DefaultCredentials bool `yaml:"default_credentials"`

	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`

	PollInterval time.Duration `yaml:"poll_interval"`

	// Rate limits analysis requests per second.
	Rate float64 `yaml:"rate"`
}

func (cfg *Config) registerExtractors(f *configFile) error {
	if f.Extractors.Kind == 0 {
		return nil
	}

	var configs map[string]extractorConfig

	if err := f.Extractors.Decode(&configs); err != nil {
		return err
	}

	for _, id := range entries(&f.Extractors) {
		config := configs[id]

		e, err := createExtractor(config)

		if err != nil {
			return err
		}

		if _, ok := e.(otel.Extractor); !ok {
			e = otel.NewExtractor(config.Type, id, e)
		}

		cfg.RegisterExtractor(id, e)
	}

	return nil
}

func createExtractor(cfg extractorConfig) (extractor.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "textract":
		return textractExtractor(cfg)

	case "file":
		return fileExtractor(cfg)

	default:
		return nil, errors.New("invalid extractor type: " + cfg.Type)
	}
}

func textractExtractor(cfg extractorConfig) (extractor.Provider, error) {
	var options []textract.Option

	if cfg.Region != "" {
		options = append(options, textract.WithRegion(cfg.Region))
	}

	if cfg.Endpoint != "" {
		options = append(options, textract.WithEndpoint(cfg.Endpoint))
	}

	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		options = append(options, textract.WithCredentials(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken))
	}

	if cfg.DefaultCredentials {
		options = append(options, textract.WithDefaultCredentials())
	}

	if cfg.Bucket != "" {
		options = append(options, textract.WithBucket(cfg.Bucket, cfg.Prefix))
	}

	if cfg.PollInterval > 0 {
		options = append(options, textract.WithPollInterval(cfg.PollInterval))
	}

	if cfg.Rate > 0 {
		options = append(options, textract.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Rate), 1)))
	}

	return textract.New(options...)
}

func fileExtractor(cfg extractorConfig) (extractor.Provider, error) {
	return file.New()
}
