package factory

import (
	"fmt"
	"os"

	"github.com/mikey/phish-verdict/internal/adapters/frontend"
	"github.com/mikey/phish-verdict/internal/config"
	"github.com/mikey/phish-verdict/internal/core"
	"github.com/mikey/phish-verdict/internal/metrics"
	"github.com/mikey/phish-verdict/internal/ports"
	"github.com/mikey/phish-verdict/internal/whitelist"
	"go.uber.org/zap"
)

// FrontendFactory creates frontends based on configuration
type FrontendFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	service  *core.AnalysisService
	recorder *metrics.Recorder
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(cfg *config.Config, logger *zap.Logger, service *core.AnalysisService, recorder *metrics.Recorder) *FrontendFactory {
	return &FrontendFactory{
		cfg:      cfg,
		logger:   logger,
		service:  service,
		recorder: recorder,
	}
}

// CreateFrontend creates a frontend based on the configuration
func (f *FrontendFactory) CreateFrontend() (ports.Frontend, error) {
	serverCfg := f.cfg.GetServer()

	switch serverCfg.Frontend {
	case "http":
		return frontend.NewHTTPFrontend(
			f.service,
			f.logger,
			serverCfg.ListenAddress,
			serverCfg.MetricsPath,
			f.recorder.Handler(),
		), nil
	case "smtp":
		smtpCfg, err := f.cfg.GetSMTP()
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
		}
		return frontend.NewSMTPFrontend(
			f.service,
			whitelist.NewChecker(smtpCfg.TrustedDomains, f.logger),
			f.logger,
			frontend.SMTPFrontendConfig{
				ListenAddress:   smtpCfg.ListenAddress,
				BlockCritical:   smtpCfg.BlockCritical,
				AnalysisTimeout: smtpCfg.AnalysisTimeout,
				VerdictHeader:   smtpCfg.VerdictHeader,
				TierHeader:      smtpCfg.TierHeader,
				ScoreHeader:     smtpCfg.ScoreHeader,
				PostfixEnabled:  smtpCfg.PostfixEnabled,
				PostfixAddress:  smtpCfg.PostfixAddress,
				PostfixPort:     smtpCfg.PostfixPort,
			},
		), nil
	case "cli":
		return frontend.NewCliFrontend(
			f.service,
			f.logger,
			os.Stdout,
			f.cfg.GetBool("cli.verbose"),
		), nil
	default:
		return nil, fmt.Errorf("unsupported frontend: %s", serverCfg.Frontend)
	}
}
