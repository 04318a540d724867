package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrianliechti/docgraph/pkg/pdf"
	"github.com/adrianliechti/docgraph/pkg/provider"
	"github.com/adrianliechti/docgraph/pkg/renderer"
)

var _ renderer.Provider = (*Renderer)(nil)

const (
	PlaceholderInput  = "{input}"
	PlaceholderOutput = "{output}"
)

var (
	ErrNoOutput = errors.New("program produced no output")
)

// Renderer runs an external program that turns an input file into a PDF. The
// {input} and {output} placeholders in its arguments are replaced with
// temporary file paths.
type Renderer struct {
	path string
	args []string

	dir     string
	env     []string
	timeout time.Duration
}

type Option func(*Renderer)

func WithArgs(args ...string) Option {
	return func(r *Renderer) {
		r.args = args
	}
}

func WithDir(dir string) Option {
	return func(r *Renderer) {
		r.dir = dir
	}
}

func WithEnv(env ...string) Option {
	return func(r *Renderer) {
		r.env = env
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = timeout
	}
}

func New(path string, options ...Option) (*Renderer, error) {
	if path == "" {
		return nil, errors.New("missing command")
	}

	r := &Renderer{
		path: path,
		args: []string{PlaceholderInput, PlaceholderOutput},
	}

	for _, option := range options {
		option(r)
	}

	return r, nil
}

func (r *Renderer) Render(ctx context.Context, input renderer.Input) (*provider.File, error) {
	if input.File == nil {
		return nil, renderer.ErrNoInput
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tmp, err := os.MkdirTemp("", "docgraph-render-*")

	if err != nil {
		return nil, provider.Wrap("render: create workspace", err)
	}

	defer os.RemoveAll(tmp)

	name := filepath.Base(input.File.Name)

	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "input"
	}

	inputPath := filepath.Join(tmp, name)
	outputPath := filepath.Join(tmp, strings.TrimSuffix(name, filepath.Ext(name))+".pdf")

	if outputPath == inputPath {
		outputPath = filepath.Join(tmp, "output.pdf")
	}

	if err := os.WriteFile(inputPath, input.File.Content, 0o600); err != nil {
		return nil, provider.Wrap("render: write input", err)
	}

	args := make([]string, 0, len(r.args))

	for _, a := range r.args {
		a = strings.ReplaceAll(a, PlaceholderInput, inputPath)
		a = strings.ReplaceAll(a, PlaceholderOutput, outputPath)

		args = append(args, a)
	}

	cmd := exec.CommandContext(ctx, r.path, args...)
	cmd.Dir = r.dir

	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return nil, provider.Wrap("render: run "+filepath.Base(r.path),
			fmt.Errorf("%w\nOutput: %s", err, strings.TrimSpace(out.String())))
	}

	data, err := os.ReadFile(outputPath)

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = ErrNoOutput
		}

		return nil, provider.Wrap("render: read output", err)
	}

	if _, err := pdf.PageCount(data); err != nil {
		return nil, provider.Wrap("render: validate output", err)
	}

	return &provider.File{
		Name: filepath.Base(outputPath),

		Content:     data,
		ContentType: "application/pdf",
	}, nil
}
