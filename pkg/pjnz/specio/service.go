// Package specio reads EPP model data from PJNZ archives through the
// specio R package. It implements pjnz.ModelDataService by running
// Rscript on an embedded script that prints the model data as JSON.
package specio

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fjelltopp/pjnz-go/pkg/pjnz"
)

//go:embed read_epp.R
var readScript string

const (
	// DefaultRscript is the Rscript executable looked up on PATH.
	DefaultRscript = "Rscript"
	// DefaultTimeout bounds a single Rscript invocation.
	DefaultTimeout = 2 * time.Minute
)

const checkExpr = `cat(all(vapply(c("specio", "jsonlite"), requireNamespace, logical(1), quietly = TRUE)))`

const installExpr = `repos <- "https://cloud.r-project.org"
for (p in c("remotes", "jsonlite")) if (!requireNamespace(p, quietly = TRUE)) install.packages(p, repos = repos)
remotes::install_github("mrc-ide/specio")`

// Config configures the service.
type Config struct {
	// Rscript is the path or name of the Rscript executable.
	Rscript string
	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration
	// AutoInstall lets Init install missing R packages.
	AutoInstall bool
	Logger      *slog.Logger
}

// Service runs specio through Rscript.
type Service struct {
	cfg    Config
	logger *slog.Logger
}

var _ pjnz.ModelDataService = (*Service)(nil)

// New returns a service for cfg. It does not start R; call Init to check
// that R and the packages are available.
func New(cfg Config) *Service {
	if cfg.Rscript == "" {
		cfg.Rscript = DefaultRscript
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, logger: logger.With("component", "specio")}
}

// Init checks that Rscript runs and that specio and jsonlite are
// installed. With AutoInstall it installs missing packages and checks
// again.
func (s *Service) Init(ctx context.Context) error {
	ok, err := s.packagesInstalled(ctx)
	if err != nil {
		return err
	}
	if ok {
		s.logger.Debug("specio available")
		return nil
	}
	if !s.cfg.AutoInstall {
		return ErrPackageMissing
	}

	s.logger.Info("installing R packages", "packages", "remotes jsonlite specio")
	if _, err := s.run(ctx, "install", "-e", installExpr); err != nil {
		return err
	}
	ok, err = s.packagesInstalled(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPackageMissing
	}
	return nil
}

func (s *Service) packagesInstalled(ctx context.Context) (bool, error) {
	out, err := s.run(ctx, "check", "-e", checkExpr)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(out)) == "TRUE", nil
}

// ReadData implements pjnz.ModelDataService.
func (s *Service) ReadData(path string) (*pjnz.EPPData, error) {
	return s.ReadDataContext(context.Background(), path)
}

// ReadDataContext runs read_epp_data on the archive at path.
func (s *Service) ReadDataContext(ctx context.Context, path string) (*pjnz.EPPData, error) {
	out, err := s.runScript(ctx, "data", path)
	if err != nil {
		return nil, err
	}
	return DecodeData(out)
}

// ReadSubpops implements pjnz.ModelDataService.
func (s *Service) ReadSubpops(path string) (*pjnz.Subpops, error) {
	return s.ReadSubpopsContext(context.Background(), path)
}

// ReadSubpopsContext runs read_epp_subpops on the archive at path.
func (s *Service) ReadSubpopsContext(ctx context.Context, path string) (*pjnz.Subpops, error) {
	out, err := s.runScript(ctx, "subpops", path)
	if err != nil {
		return nil, err
	}
	return DecodeSubpops(out)
}

func (s *Service) runScript(ctx context.Context, mode, path string) ([]byte, error) {
	script, err := os.CreateTemp("", "read_epp-*.R")
	if err != nil {
		return nil, err
	}
	defer os.Remove(script.Name())
	if _, err := script.WriteString(readScript); err != nil {
		script.Close()
		return nil, err
	}
	if err := script.Close(); err != nil {
		return nil, err
	}
	return s.run(ctx, mode, script.Name(), mode, path)
}

func (s *Service) run(ctx context.Context, call string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.cfg.Rscript, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	s.logger.Debug("Rscript finished", "call", call, "duration", time.Since(start), "error", err)
	if err == nil {
		return stdout.Bytes(), nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %v", ErrRNotAvailable, s.cfg.Rscript, err)
	}
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	s.logger.Error("Rscript failed", "call", call, "error", err)
	return nil, &RunError{Call: call, Stderr: stderr.String(), Err: err}
}
