package textract

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"golang.org/x/time/rate"
)

type Config struct {
	region   string
	endpoint string

	accessKey    string
	secretKey    string
	sessionToken string

	defaultCredentials bool

	aws *aws.Config

	bucket string
	prefix string

	interval time.Duration
	limiter  *rate.Limiter

	api     API
	objects ObjectAPI
}

type Option func(*Config)

// WithConfig uses a caller prepared AWS configuration as is.
func WithConfig(cfg aws.Config) Option {
	return func(c *Config) {
		c.aws = &cfg
	}
}

func WithRegion(region string) Option {
	return func(c *Config) {
		c.region = region
	}
}

func WithEndpoint(url string) Option {
	return func(c *Config) {
		c.endpoint = url
	}
}

func WithCredentials(accessKey, secretKey, sessionToken string) Option {
	return func(c *Config) {
		c.accessKey = accessKey
		c.secretKey = secretKey
		c.sessionToken = sessionToken
	}
}

// WithDefaultCredentials opts into the AWS SDK default credential chain.
func WithDefaultCredentials() Option {
	return func(c *Config) {
		c.defaultCredentials = true
	}
}

// WithBucket enables asynchronous analysis of multi-page PDFs, which are staged
// in the given bucket under prefix.
func WithBucket(bucket, prefix string) Option {
	return func(c *Config) {
		c.bucket = bucket
		c.prefix = prefix
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.interval = interval
	}
}

func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Config) {
		c.limiter = limiter
	}
}

func WithClient(api API) Option {
	return func(c *Config) {
		c.api = api
	}
}

func WithObjectClient(objects ObjectAPI) Option {
	return func(c *Config) {
		c.objects = objects
	}
}
