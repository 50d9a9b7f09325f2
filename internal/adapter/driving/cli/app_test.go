package cli

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/diillson/escola-artifacts-go/internal/application/usecase"
	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStop = errors.New("stop")

type stubConfigRepo struct {
	cfg  types.Config
	path string
}

func (s *stubConfigRepo) LoadConfigFile(path string) (*types.Config, error) {
	s.path = path
	cfg := s.cfg
	return &cfg, nil
}
func (s *stubConfigRepo) LoadQRBatchFile(string) ([]entity.QRRequest, error) { return nil, nil }
func (s *stubConfigRepo) LoadColumnsFile(string) ([]entity.Column, error) { return nil, nil }
func (s *stubConfigRepo) LoadRowsFile(string) ([]entity.Row, error) { return nil, nil }

func runCLI(t *testing.T, repo *stubConfigRepo, args ...string) (types.Config, bool, error) {
	t.Helper()

	var got types.Config
	called := false
	factory := func(_ context.Context, cfg types.Config) (*usecase.ArtifactUseCase, error) {
		got, called = cfg, true
		return nil, errStop
	}

	app := NewCLIApp("0.0.0-dev", repo, factory)
	app.rootCmd.SetOut(io.Discard)
	app.rootCmd.SetErr(io.Discard)
	app.rootCmd.SetArgs(args)
	err := app.Execute(context.Background())
	return got, called, err
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	repo := &stubConfigRepo{cfg: types.DefaultConfig()}
	repo.cfg.Dir = "./from-file"
	repo.cfg.Storage.Region = "us-east-1"

	cfg, called, err := runCLI(t, repo,
		"templates", "-C", "escola.yaml", "--locale", "en-US", "--s3-bucket", "artefatos", "--s3-prefix", "qr")
	require.ErrorIs(t, err, errStop)
	require.True(t, called)

	assert.Equal(t, "escola.yaml", repo.path)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, "./from-file", cfg.Dir)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, "artefatos", cfg.Storage.Bucket)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, "qr", cfg.Storage.Prefix)
}

func TestDefaultsWithoutConfigFile(t *testing.T) {
	repo := &stubConfigRepo{}

	cfg, called, err := runCLI(t, repo, "templates", "--dir", "out")
	require.ErrorIs(t, err, errStop)
	require.True(t, called)

	assert.Empty(t, repo.path)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, "out", cfg.Dir)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, 300, cfg.QR.Width)
}

func TestServeRestrictsLogoSources(t *testing.T) {
	cfg, called, err := runCLI(t, &stubConfigRepo{}, "serve")
	require.ErrorIs(t, err, errStop)
	require.True(t, called)
	assert.True(t, cfg.QR.RemoteLogosOnly)

	cfg, _, err = runCLI(t, &stubConfigRepo{}, "templates")
	require.ErrorIs(t, err, errStop)
	assert.False(t, cfg.QR.RemoteLogosOnly)
}

func TestRootAloneShowsHelp(t *testing.T) {
	_, called, err := runCLI(t, &stubConfigRepo{})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestRequiredFlags(t *testing.T) {
	_, called, err := runCLI(t, &stubConfigRepo{}, "qr")
	assert.ErrorContains(t, err, `required flag(s) "data" not set`)
	assert.False(t, called)
}

func TestQRRequestFromArgs(t *testing.T) {
	t.Parallel()

	req := qrRequestFromArgs(types.QRArgs{
		Data: "https://escola.example.com", Width: 512, ErrorLevel: "H", Style: "circle",
		Logo: "logo.png", LogoRatio: 0.25, FrameText: "Aluno", Format: "svg",
	})
	assert.Equal(t, entity.QRRequest{
		Data: "https://escola.example.com", Width: 512, ErrorCorrection: entity.ErrorCorrectionH,
		Style: entity.StyleCircle, Logo: "logo.png", LogoSizeRatio: 0.25, FrameText: "Aluno", Format: entity.QRFormatSVG,
	}, req)
}
