// Package host assembles a runnable contract instance from a Config: logger,
// bbolt ledger, event log and the persisted extension state.
package host

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bitfsorg/nftext-go/config"
	"github.com/bitfsorg/nftext-go/contract"
	"github.com/bitfsorg/nftext-go/events"
	"github.com/bitfsorg/nftext-go/ledger"
	"github.com/bitfsorg/nftext-go/logging"
	"github.com/bitfsorg/nftext-go/royalty"
)

// Host owns the resources behind one contract instance.
type Host struct {
	Contract *contract.Contract
	Ledger   *ledger.BoltStore
	Events   *events.LogSink
	Log      *zap.Logger

	eventFile *os.File
	logCloser io.Closer
}

// Open validates cfg and brings up the instance. The extension state is
// loaded from the ledger database, or initialised with cfg.Owner on first use.
// An existing state keeps its recorded owner.
func Open(cfg config.Config) (*Host, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	log, logCloser, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}
	h := &Host{Log: log, logCloser: logCloser}

	h.Ledger, err = ledger.OpenBoltStore(cfg.DBPath())
	if err != nil {
		h.Close()
		return nil, err
	}

	eventPath := cfg.EventLogPath()
	if err := os.MkdirAll(filepath.Dir(eventPath), 0700); err != nil {
		h.Close()
		return nil, fmt.Errorf("host: create event log directory: %w", err)
	}
	h.eventFile, err = os.OpenFile(eventPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0600)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("host: open event log: %w", err)
	}
	// The digest chain spans every session that appended to the file.
	digest, count, err := events.ReplayDigest(h.eventFile)
	if err != nil {
		h.Close()
		return nil, err
	}
	h.Events = events.NewLogSink(h.eventFile, log.Named("events"))
	h.Events.Resume(digest, count)

	deps := contract.Deps{
		Tokens:   h.Ledger,
		States:   h.Ledger,
		Metadata: h.Ledger,
		Events:   h.Events,
		Logger:   log.Named("contract"),
	}
	h.Contract, err = contract.Load(deps)
	if errors.Is(err, ledger.ErrStateNotFound) {
		h.Contract, err = contract.Init(royalty.AccountID(cfg.Owner), deps)
	}
	if err != nil {
		h.Close()
		return nil, err
	}
	if h.Contract.Owner() != royalty.AccountID(cfg.Owner) {
		log.Warn("configured owner differs from recorded owner",
			zap.String("configured", cfg.Owner),
			zap.String("recorded", string(h.Contract.Owner())))
	}

	log.Info("host ready",
		zap.String("db", cfg.DBPath()),
		zap.String("event_log", eventPath),
		zap.Uint64("events", count),
		zap.Bool("locked", h.Contract.IsLocked().IsLocked))
	return h, nil
}

// Close releases the database, event log and log file.
func (h *Host) Close() error {
	var errs []error
	if h.Ledger != nil {
		errs = append(errs, h.Ledger.Close())
	}
	if h.eventFile != nil {
		errs = append(errs, h.eventFile.Close())
	}
	if h.Log != nil {
		_ = h.Log.Sync()
	}
	if h.logCloser != nil {
		errs = append(errs, h.logCloser.Close())
	}
	return errors.Join(errs...)
}
