package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"karolbroda.com/adaptiveaccents/internal/accent"
	"karolbroda.com/adaptiveaccents/internal/album"
	"karolbroda.com/adaptiveaccents/internal/host"
	"karolbroda.com/adaptiveaccents/internal/settings"
	"karolbroda.com/adaptiveaccents/internal/track"
)

var (
	ErrFrozen     = errors.New("accents are frozen")
	ErrSuperseded = errors.New("superseded by a newer event")
)

type State int

const (
	Idle State = iota
	Processing
)

func (s State) String() string {
	if s == Processing {
		return "processing"
	}
	return "idle"
}

type Fetcher interface {
	Fetch(ctx context.Context, res track.Resolution) (*album.MediaItem, error)
}

type Selector interface {
	Select(ctx context.Context, item *album.MediaItem, cfg settings.Config) (accent.Colors, error)
}

type Settings interface {
	Snapshot() settings.Config
}

type Options struct {
	// DropStale discards the final write of a run when a newer event
	// started while it was in flight.
	DropStale bool

	// OnResult is called after every run that reached the display.
	OnResult func(Result)
}

func DefaultOptions() Options {
	return Options{DropStale: true}
}

// Result describes one completed run.
type Result struct {
	Seq        uint64
	Item       *track.Item
	Resolution track.Resolution
	Album      *album.MediaItem
	Colors     accent.Colors
}

type Orchestrator struct {
	settings Settings
	fetcher  Fetcher
	selector Selector
	display  host.Display
	logger   *zap.Logger
	opts     Options

	seq      atomic.Uint64
	inflight atomic.Int64
	applyMu  sync.Mutex
}

func New(store Settings, fetcher Fetcher, selector Selector, display host.Display, logger *zap.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		settings: store,
		fetcher:  fetcher,
		selector: selector,
		display:  display,
		logger:   logger,
		opts:     opts,
	}
}

func (o *Orchestrator) State() State {
	if o.inflight.Load() > 0 {
		return Processing
	}
	return Idle
}

// Handle runs one event through the pipeline. Errors are logged here; the
// return value is for callers that want to inspect the outcome.
func (o *Orchestrator) Handle(ctx context.Context, event track.PlaybackEvent) error {
	_, err := o.Process(ctx, event)
	return err
}

func (o *Orchestrator) Process(ctx context.Context, event track.PlaybackEvent) (Result, error) {
	o.inflight.Add(1)
	defer o.inflight.Add(-1)

	cfg := o.settings.Snapshot()
	if cfg.Frozen {
		o.logger.Debug("[pipeline][Handle] frozen, ignoring event", zap.String("item", event.Item.Describe()))
		return Result{}, ErrFrozen
	}

	seq := o.seq.Add(1)
	result := Result{Seq: seq, Item: event.Item}
	log := o.logger.With(zap.Uint64("seq", seq), zap.String("item", event.Item.Describe()))

	res, err := track.ResolveEvent(event)
	if err != nil {
		if errors.Is(err, track.ErrNoIdentifiableID) {
			log.Warn("[pipeline][resolve] no identifiable album or song id", zap.Any("event", event.Item))
		} else {
			log.Debug("[pipeline][resolve] skipped", zap.Error(err))
		}
		return result, err
	}
	result.Resolution = res

	item, err := o.fetcher.Fetch(ctx, res)
	if err != nil {
		log.Error("[pipeline][fetch] album fetch failed", zap.Stringer("resolution", res), zap.Error(err))
		return result, fmt.Errorf("fetch album: %w", err)
	}
	result.Album = item

	colors, err := o.selector.Select(ctx, item, cfg)
	if err != nil {
		if errors.Is(err, accent.ErrMissingArtwork) {
			log.Warn("[pipeline][select] album media item has no artwork", zap.String("album", item.ID))
		} else {
			log.Error("[pipeline][select] color selection failed", zap.String("album", item.ID), zap.Error(err))
		}
		return result, fmt.Errorf("select colors: %w", err)
	}
	result.Colors = colors

	err = o.apply(seq, colors)
	if errors.Is(err, ErrSuperseded) {
		log.Debug("[pipeline][apply] newer event started, dropping write")
		return result, err
	}
	if err != nil {
		log.Error("[pipeline][apply] display write failed", zap.Error(err))
		return result, fmt.Errorf("apply colors: %w", err)
	}

	log.Info("[pipeline][apply] accents updated",
		zap.Stringer("resolution", res),
		zap.String("album", item.ID),
		zap.String("keyColor", cssOrHost(colors.KeyColor)),
		zap.String("musicKeyColor", cssOrHost(colors.MusicKeyColor)),
	)

	if o.opts.OnResult != nil {
		o.opts.OnResult(result)
	}

	return result, nil
}

// apply writes both targets. The staleness check and the writes share a
// lock so an older run cannot land after a newer one.
func (o *Orchestrator) apply(seq uint64, colors accent.Colors) error {
	o.applyMu.Lock()
	defer o.applyMu.Unlock()

	if o.opts.DropStale && o.seq.Load() != seq {
		return ErrSuperseded
	}

	var errs []error
	if colors.KeyColor != nil {
		if err := o.display.SetProperty(host.ScopeBody, host.KeyColorProperty, colors.KeyColor.CSS()); err != nil {
			errs = append(errs, err)
		}
	}
	if colors.MusicKeyColor != nil {
		if err := o.display.SetProperty(host.ScopeRoot, host.MusicKeyColorProperty, colors.MusicKeyColor.CSS()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func cssOrHost(a *accent.Applied) string {
	if a == nil {
		return settings.SwatchHost
	}
	return a.CSS()
}

// Run handles every event on its own goroutine. In-flight runs are never
// cancelled by newer events. Run returns once events is closed or ctx is
// done, after all started runs finished.
func (o *Orchestrator) Run(ctx context.Context, events <-chan track.PlaybackEvent) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = o.Handle(ctx, ev)
			}()
		}
	}
}
