package scoutline

import (
	"github.com/scoutline/scoutline/application/service"
	"github.com/scoutline/scoutline/domain/directory"
	"github.com/scoutline/scoutline/infrastructure/classifier"
	"github.com/scoutline/scoutline/infrastructure/notify"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/log"
)

type clientConfig struct {
	appConfig  config.AppConfig
	logger     *log.Logger
	notifier   notify.Notifier
	directory  directory.Directory
	classifier classifier.Classifier
	agreements service.AgreementChecker
}

func newClientConfig() *clientConfig {
	env, err := config.LoadFromEnv()
	if err != nil {
		// Defaults still apply; explicit options override below.
		return &clientConfig{appConfig: config.EnvConfig{}.ToAppConfig()}
	}
	return &clientConfig{appConfig: env.ToAppConfig()}
}

// Option configures a Client.
type Option func(*clientConfig)

// WithConfig replaces the environment-derived configuration.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) { c.appConfig = cfg }
}

// WithDatabaseURL points the client at a specific database.
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) { c.appConfig = c.appConfig.WithDBURL(url) }
}

// WithLogger replaces the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// WithNotifier replaces the configured notification gateway. Tests use it
// to capture outbound mail.
func WithNotifier(n notify.Notifier) Option {
	return func(c *clientConfig) { c.notifier = n }
}

// WithDirectory replaces the configured profile directory.
func WithDirectory(d directory.Directory) Option {
	return func(c *clientConfig) { c.directory = d }
}

// WithClassifier replaces the configured reply classifier.
func WithClassifier(cls classifier.Classifier) Option {
	return func(c *clientConfig) { c.classifier = cls }
}

// WithAgreements replaces the agreement check applied before introduction
// requests.
func WithAgreements(a service.AgreementChecker) Option {
	return func(c *clientConfig) { c.agreements = a }
}
