package player

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"karolbroda.com/adaptiveaccents/internal/host"
	"karolbroda.com/adaptiveaccents/internal/track"
)

const (
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
	mprisPrefix      = "org.mpris.MediaPlayer2."
)

type State struct {
	Item    *track.Item
	Playing bool
}

// Service turns MPRIS metadata changes of one player into playback events.
type Service struct {
	bus        *dbus.Conn
	service    string
	logger     *zap.Logger
	signalChan chan *dbus.Signal
	stopChan   chan struct{}
	stopOnce   sync.Once
	eventChan  chan track.PlaybackEvent
	state      State
	mu         sync.RWMutex
}

func NewService(bus *dbus.Conn, mprisService string, logger *zap.Logger) (*Service, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}
	if mprisService == "" {
		return nil, errors.New("empty mpris service name")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		bus:       bus,
		service:   mprisService,
		logger:    logger,
		eventChan: make(chan track.PlaybackEvent, 16),
		stopChan:  make(chan struct{}),
	}

	return s, nil
}

// HasOwner reports whether the player's bus name is currently taken.
func (s *Service) HasOwner() bool {
	var owned bool
	err := s.bus.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, s.service).Store(&owned)
	if err != nil {
		return false
	}
	return owned
}

// Start waits for the player to appear on the bus, emits the item already
// playing, then follows metadata changes until Stop or ctx is done.
func (s *Service) Start(ctx context.Context, ready *host.Gate) error {
	s.logger.Debug("[player][Start] waiting for player", zap.String("service", s.service))

	err := host.WaitReady(ctx, s.HasOwner, host.DefaultPollInterval)
	if err != nil {
		return fmt.Errorf("player %s never appeared: %w", s.service, err)
	}
	if ready != nil {
		ready.Open()
	}

	signalChan := make(chan *dbus.Signal, 10)
	s.signalChan = signalChan
	s.bus.Signal(signalChan)

	matchPropertiesChanged := fmt.Sprintf(
		"type='signal',sender='%s',interface='org.freedesktop.DBus.Properties',member='PropertiesChanged',path='%s'",
		s.service, mprisPath,
	)

	err = s.bus.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, matchPropertiesChanged).Err
	if err != nil {
		return fmt.Errorf("failed to add properties match: %w", err)
	}

	s.logger.Info("[player][Start] subscribed", zap.String("service", s.service))

	if item, err := s.CurrentItem(); err == nil {
		s.setItem(item)
	}

	go s.signalLoop(ctx)

	return nil
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.signalChan != nil {
			s.bus.RemoveSignal(s.signalChan)
		}
	})
}

func (s *Service) Events() <-chan track.PlaybackEvent {
	return s.eventChan
}

// CurrentItem reads the Metadata property directly.
func (s *Service) CurrentItem() (*track.Item, error) {
	obj := s.bus.Object(s.service, mprisPath)
	if obj == nil {
		return nil, errors.New("nil dbus object")
	}

	prop, err := obj.GetProperty(mprisPlayerIface + ".Metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata property: %w", err)
	}

	metadata, ok := prop.Value().(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("unexpected metadata type %T", prop.Value())
	}

	item := ItemFromMetadata(metadata)
	if item == nil {
		return nil, errors.New("metadata has no track")
	}
	return item, nil
}

// Playing reads the PlaybackStatus property.
func (s *Service) Playing() (bool, error) {
	prop, err := s.bus.Object(s.service, mprisPath).GetProperty(mprisPlayerIface + ".PlaybackStatus")
	if err != nil {
		return false, fmt.Errorf("failed to get playback status: %w", err)
	}
	status, _ := prop.Value().(string)
	return status == "Playing", nil
}

// Identity is the player's human readable name, empty if unavailable.
func (s *Service) Identity() string {
	variant, err := s.bus.Object(s.service, mprisPath).GetProperty("org.mpris.MediaPlayer2.Identity")
	if err != nil {
		return ""
	}
	identity, _ := variant.Value().(string)
	return identity
}

func (s *Service) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stateCopy := State{Playing: s.state.Playing}
	if s.state.Item != nil {
		itemCopy := *s.state.Item
		stateCopy.Item = &itemCopy
	}
	return stateCopy
}

func (s *Service) signalLoop(ctx context.Context) {
	for {
		select {
		case sig, ok := <-s.signalChan:
			if !ok {
				return
			}
			s.handleSignal(sig)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) handleSignal(sig *dbus.Signal) {
	if sig == nil || sig.Name != "org.freedesktop.DBus.Properties.PropertiesChanged" {
		return
	}
	if len(sig.Body) < 2 {
		return
	}

	interfaceName, ok := sig.Body[0].(string)
	if !ok || interfaceName != mprisPlayerIface {
		return
	}

	changedProps, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	if playbackVariant, exists := changedProps["PlaybackStatus"]; exists {
		if status, ok := playbackVariant.Value().(string); ok {
			s.mu.Lock()
			s.state.Playing = status == "Playing"
			s.mu.Unlock()
		}
	}

	if metadataVariant, exists := changedProps["Metadata"]; exists {
		metadata, ok := metadataVariant.Value().(map[string]dbus.Variant)
		if !ok {
			return
		}
		item := ItemFromMetadata(metadata)
		if item == nil {
			return
		}
		s.setItem(item)
	}
}

// setItem records the item and emits an event when the track changed.
func (s *Service) setItem(item *track.Item) {
	s.mu.Lock()
	if item.IsSameTrack(s.state.Item) {
		s.mu.Unlock()
		return
	}
	s.state.Item = item
	s.mu.Unlock()

	s.logger.Debug("[player][setItem] now playing", zap.String("item", item.Describe()))

	select {
	case s.eventChan <- track.PlaybackEvent{Item: item}:
	default:
		s.logger.Warn("[player][setItem] event dropped, consumer is behind", zap.String("item", item.Describe()))
	}
}

// ListPlayers returns every MPRIS bus name on the session bus.
func ListPlayers(bus *dbus.Conn) ([]string, error) {
	var names []string
	err := bus.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, fmt.Errorf("failed to list dbus names: %w", err)
	}

	var players []string
	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) {
			players = append(players, name)
		}
	}
	return players, nil
}
