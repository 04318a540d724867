package textract

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/adrianliechti/docgraph/pkg/extractor"
	"github.com/adrianliechti/docgraph/pkg/pdf"
	"github.com/adrianliechti/docgraph/pkg/provider"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/google/uuid"
)

var _ extractor.Provider = (*Client)(nil)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrJobFailed          = errors.New("analysis job failed")
)

type API interface {
	AnalyzeDocument(ctx context.Context, params *textract.AnalyzeDocumentInput, optFns ...func(*textract.Options)) (*textract.AnalyzeDocumentOutput, error)
	StartDocumentAnalysis(ctx context.Context, params *textract.StartDocumentAnalysisInput, optFns ...func(*textract.Options)) (*textract.StartDocumentAnalysisOutput, error)
	GetDocumentAnalysis(ctx context.Context, params *textract.GetDocumentAnalysisInput, optFns ...func(*textract.Options)) (*textract.GetDocumentAnalysisOutput, error)
}

type ObjectAPI interface {
	manager.UploadAPIClient
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Client struct {
	*Config
}

func New(options ...Option) (*Client, error) {
	cfg := &Config{
		interval: 2 * time.Second,
	}

	for _, option := range options {
		option(cfg)
	}

	if cfg.api == nil || (cfg.bucket != "" && cfg.objects == nil) {
		awsCfg, err := cfg.awsConfig()

		if err != nil {
			return nil, err
		}

		if cfg.api == nil {
			cfg.api = textract.NewFromConfig(awsCfg, func(o *textract.Options) {
				if cfg.endpoint != "" {
					o.BaseEndpoint = aws.String(cfg.endpoint)
				}
			})
		}

		if cfg.bucket != "" && cfg.objects == nil {
			cfg.objects = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
				if cfg.endpoint != "" {
					o.BaseEndpoint = aws.String(cfg.endpoint)
					o.UsePathStyle = true
				}
			})
		}
	}

	return &Client{
		Config: cfg,
	}, nil
}

func (cfg *Config) awsConfig() (aws.Config, error) {
	if cfg.aws != nil {
		return *cfg.aws, nil
	}

	if cfg.accessKey != "" && cfg.secretKey != "" {
		return aws.Config{
			Region:      cfg.region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.accessKey, cfg.secretKey, cfg.sessionToken),
		}, nil
	}

	if cfg.defaultCredentials {
		var options []func(*awsconfig.LoadOptions) error

		if cfg.region != "" {
			options = append(options, awsconfig.WithRegion(cfg.region))
		}

		return awsconfig.LoadDefaultConfig(context.Background(), options...)
	}

	return aws.Config{}, ErrMissingCredentials
}

func (c *Client) Extract(ctx context.Context, input extractor.Input, options *extractor.ExtractOptions) (*extractor.Result, error) {
	features := toFeatureTypes(options.FeatureList())

	if input.File == nil {
		if input.URL == "" {
			return nil, extractor.ErrNoInput
		}

		object, err := parseObjectURL(input.URL)

		if err != nil {
			return nil, err
		}

		return c.analyzeAsync(ctx, object, features)
	}

	if c.bucket != "" && input.File.IsPDF() {
		if pages, err := pdf.PageCount(input.File.Content); err == nil && pages > 1 {
			return c.analyzeStaged(ctx, input.File, features)
		}
	}

	return c.analyze(ctx, input.File, features)
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return ctx.Err()
	}

	return c.limiter.Wait(ctx)
}

func (c *Client) analyze(ctx context.Context, file *provider.File, features []types.FeatureType) (*extractor.Result, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.api.AnalyzeDocument(ctx, &textract.AnalyzeDocumentInput{
		Document: &types.Document{
			Bytes: file.Content,
		},

		FeatureTypes: features,
	})

	if err != nil {
		return nil, provider.Wrap("textract: analyze document", err)
	}

	return &extractor.Result{
		Pages:  pageCount(resp.DocumentMetadata),
		Blocks: toBlocks(resp.Blocks),
	}, nil
}

func (c *Client) analyzeStaged(ctx context.Context, file *provider.File, features []types.FeatureType) (*extractor.Result, error) {
	key := path.Join(c.prefix, uuid.NewString()+".pdf")

	_, err := manager.NewUploader(c.objects).Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Content),
		ContentType: aws.String("application/pdf"),
	})

	if err != nil {
		return nil, provider.Wrap("textract: stage document", err)
	}

	defer c.objects.DeleteObject(context.WithoutCancel(ctx), &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})

	return c.analyzeAsync(ctx, &types.S3Object{
		Bucket: aws.String(c.bucket),
		Name:   aws.String(key),
	}, features)
}

func (c *Client) analyzeAsync(ctx context.Context, object *types.S3Object, features []types.FeatureType) (*extractor.Result, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	job, err := c.api.StartDocumentAnalysis(ctx, &textract.StartDocumentAnalysisInput{
		DocumentLocation: &types.DocumentLocation{
			S3Object: object,
		},

		FeatureTypes: features,
	})

	if err != nil {
		return nil, provider.Wrap("textract: start document analysis", err)
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		resp, err := c.getAnalysis(ctx, job.JobId, nil)

		if err != nil {
			return nil, err
		}

		switch resp.JobStatus {
		case types.JobStatusInProgress:
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-ticker.C:
			}

			continue

		case types.JobStatusSucceeded, types.JobStatusPartialSuccess:
			return c.collect(ctx, job.JobId, resp)

		default:
			return nil, provider.Wrap("textract: get document analysis",
				errors.Join(ErrJobFailed, errors.New(aws.ToString(resp.StatusMessage))))
		}
	}
}

func (c *Client) getAnalysis(ctx context.Context, jobID, token *string) (*textract.GetDocumentAnalysisOutput, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.api.GetDocumentAnalysis(ctx, &textract.GetDocumentAnalysisInput{
		JobId:     jobID,
		NextToken: token,
	})

	if err != nil {
		return nil, provider.Wrap("textract: get document analysis", err)
	}

	return resp, nil
}

func (c *Client) collect(ctx context.Context, jobID *string, first *textract.GetDocumentAnalysisOutput) (*extractor.Result, error) {
	result := &extractor.Result{
		Pages:  pageCount(first.DocumentMetadata),
		Blocks: toBlocks(first.Blocks),
	}

	token := first.NextToken

	for token != nil && *token != "" {
		resp, err := c.getAnalysis(ctx, jobID, token)

		if err != nil {
			return nil, err
		}

		result.Blocks = append(result.Blocks, toBlocks(resp.Blocks)...)
		token = resp.NextToken
	}

	return result, nil
}

func parseObjectURL(rawURL string) (*types.S3Object, error) {
	u, err := url.Parse(rawURL)

	if err != nil {
		return nil, err
	}

	key := strings.TrimPrefix(u.Path, "/")

	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return nil, extractor.ErrUnsupported
	}

	return &types.S3Object{
		Bucket: aws.String(u.Host),
		Name:   aws.String(key),
	}, nil
}

func pageCount(m *types.DocumentMetadata) int {
	if m == nil {
		return 0
	}

	return int(aws.ToInt32(m.Pages))
}

func toFeatureTypes(features []extractor.Feature) []types.FeatureType {
	var result []types.FeatureType

	for _, f := range features {
		result = append(result, types.FeatureType(f))
	}

	return result
}
