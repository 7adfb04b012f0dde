// Package scoutline implements the candidate protection engine of a
// recruiting marketplace: it tracks employer-candidate introductions,
// enforces the protection window with scheduled candidate check-ins,
// classifies free-text replies into a bounded risk taxonomy, and drives
// circumvention flags and placement fees to resolution.
//
// Basic usage:
//
//	client, err := scoutline.New(
//	    scoutline.WithDatabaseURL("sqlite:///scoutline.db"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Record an employer viewing a candidate
//	intro, err := client.Introductions.RecordProfileView(ctx, employerID, candidateID)
//
//	// Run the daily check-in pass
//	report, err := client.CheckIns.Run(ctx)
package scoutline

import (
	"context"
	"fmt"

	"github.com/scoutline/scoutline/application/service"
	"github.com/scoutline/scoutline/infrastructure/classifier"
	infradirectory "github.com/scoutline/scoutline/infrastructure/directory"
	"github.com/scoutline/scoutline/infrastructure/notify"
	"github.com/scoutline/scoutline/infrastructure/persistence"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/database"
	"github.com/scoutline/scoutline/internal/log"
)

// Client is the main entry point for the protection engine.
//
// Access operations via struct fields:
//
//	client.Introductions.RecordProfileView(ctx, employerID, candidateID)
//	client.CheckIns.Run(ctx)
//	client.Flags.Resolve(ctx, id, resolution, notes, actor)
type Client struct {
	Introductions *service.IntroductionService
	CheckIns      *service.CheckInService
	Protection    *service.ProtectionService
	Flags         *service.FlagService
	Payments      *service.PaymentService

	db     database.Database
	cfg    config.AppConfig
	logger *log.Logger
}

// New creates a Client with the given options and migrates the schema.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := newClientConfig()
	for _, opt := range opts {
		opt(cc)
	}

	cfg := cc.appConfig
	logger := cc.logger
	if logger == nil {
		logger = log.New(log.Format(cfg.LogFormat()), cfg.LogLevel())
	}

	db, err := database.New(ctx, cfg.DBURL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := persistence.AutoMigrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	intros := persistence.NewIntroductionStore(db)
	checkins := persistence.NewCheckInStore(db)
	flagStore := persistence.NewFlagStore(db)
	noteStore := persistence.NewReviewNoteStore(db)
	placements := persistence.NewPlacementStore(db)

	notifier := cc.notifier
	if notifier == nil {
		notifier = notify.New(cfg.Notify(), logger)
	}
	dir := cc.directory
	if dir == nil {
		dir = infradirectory.New(cfg.Directory(), logger)
	}
	cls := cc.classifier
	if cls == nil {
		cls = classifier.New(cfg.Classifier(), logger)
	}

	protection := cfg.Protection()
	from := cfg.Notify().From()

	flags := service.NewFlagService(flagStore, noteStore, protection, logger)
	checkIns := service.NewCheckInService(intros, checkins, notifier, dir, cls, flags, protection, from, logger)
	client := &Client{
		Introductions: service.NewIntroductionService(intros, notifier, dir, cc.agreements, protection, from, logger),
		CheckIns:      checkIns,
		Protection:    service.NewProtectionService(intros, checkins, notifier, dir, checkIns, protection, from, logger),
		Flags:         flags,
		Payments:      service.NewPaymentService(placements, notifier, protection, from, logger),
		db:            db,
		cfg:           cfg,
		logger:        logger,
	}
	return client, nil
}

// Config returns the client's configuration.
func (c *Client) Config() config.AppConfig { return c.cfg }

// Logger returns the client's logger.
func (c *Client) Logger() *log.Logger { return c.logger }

// Close releases the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}
