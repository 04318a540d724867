package config

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/adrianliechti/docgraph/pkg/otel"
	"github.com/adrianliechti/docgraph/pkg/storage"
	"github.com/adrianliechti/docgraph/pkg/storage/local"
	"github.com/adrianliechti/docgraph/pkg/storage/minio"
	"github.com/adrianliechti/docgraph/pkg/storage/s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

type storageConfig struct {
	Type string `yaml:"type"`

	Path string `yaml:"path"`

	URL    string `yaml:"url"`
	Region string `yaml:"region"`

	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`

	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	SessionToken string `yaml:"session_token"`

	DefaultCredentials bool `yaml:"default_credentials"`
}

func (cfg *Config) registerStorages(f *configFile) error {
	if f.Storages.Kind == 0 {
		return nil
	}

	var configs map[string]storageConfig

	if err := f.Storages.Decode(&configs); err != nil {
		return err
	}

	for _, id := range entries(&f.Storages) {
		config := configs[id]

		s, err := createStorage(config)

		if err != nil {
			return err
		}

		if _, ok := s.(otel.Storage); !ok {
			s = otel.NewStorage(config.Type, id, s)
		}

		cfg.RegisterStorage(id, s)
	}

	return nil
}

func createStorage(cfg storageConfig) (storage.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "local", "file":
		return localStorage(cfg)

	case "s3":
		return s3Storage(cfg)

	case "minio":
		return minioStorage(cfg)

	default:
		return nil, errors.New("invalid storage type: " + cfg.Type)
	}
}

func localStorage(cfg storageConfig) (storage.Provider, error) {
	if cfg.Path == "" {
		return nil, errors.New("local storage: missing path")
	}

	return local.New(cfg.Path)
}

func s3Storage(cfg storageConfig) (storage.Provider, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 storage: missing bucket")
	}

	var awsCfg aws.Config

	switch {
	case cfg.AccessKey != "" && cfg.SecretKey != "":
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken),
		}

	case cfg.DefaultCredentials:
		var options []func(*awsconfig.LoadOptions) error

		if cfg.Region != "" {
			options = append(options, awsconfig.WithRegion(cfg.Region))
		}

		c, err := awsconfig.LoadDefaultConfig(context.Background(), options...)

		if err != nil {
			return nil, err
		}

		awsCfg = c

	default:
		return nil, errors.New("s3 storage: missing credentials")
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.URL != "" {
			o.BaseEndpoint = aws.String(cfg.URL)
			o.UsePathStyle = true
		}
	})

	return s3.New(client, cfg.Bucket, cfg.Prefix), nil
}

func minioStorage(cfg storageConfig) (storage.Provider, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("minio storage: missing bucket")
	}

	u, err := url.Parse(cfg.URL)

	if err != nil || u.Host == "" {
		return nil, errors.New("minio storage: invalid url: " + cfg.URL)
	}

	client, err := minio.NewClient(u.Host, cfg.AccessKey, cfg.SecretKey, u.Scheme == "https")

	if err != nil {
		return nil, err
	}

	return minio.New(client, cfg.Bucket, cfg.Prefix), nil
}
