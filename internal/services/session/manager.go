package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/models"
	"github.com/killallgit/recipe-api/internal/services/extraction"
)

const subscriberBuffer = 8

// Manager is the extraction state machine:
// idle -> processing -> success | error, error -> processing on retry,
// and any phase -> idle on dismiss.
type Manager struct {
	extractor extraction.Extractor
	mailbox   Mailbox
	logger    *zap.Logger

	mu          sync.Mutex
	state       State
	payload     *models.ExtractionPayload
	generation  uint64
	savingGen   uint64
	cancel      context.CancelFunc
	subscribers map[int]chan State
	nextSubID   int
	wg          sync.WaitGroup
}

// NewManager creates an idle state machine
func NewManager(extractor extraction.Extractor, mailbox Mailbox, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		extractor:   extractor,
		mailbox:     mailbox,
		logger:      logger.Named("session"),
		state:       State{Phase: PhaseIdle},
		subscribers: make(map[int]chan State),
	}
}

// Current returns the current state
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe returns a channel receiving the current state and every later change.
// A slow reader only misses intermediate states, never the latest one.
func (m *Manager) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubID
	m.nextSubID++
	ch := make(chan State, subscriberBuffer)
	ch <- m.state
	m.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if sub, ok := m.subscribers[id]; ok {
				delete(m.subscribers, id)
				close(sub)
			}
		})
	}
}

// CheckPending starts processing the pending payload when idle.
// It reports whether a payload was picked up; in any other phase it is a no-op.
func (m *Manager) CheckPending(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseIdle {
		return false, nil
	}

	payload, err := m.mailbox.LoadPending(ctx)
	if err != nil {
		return false, fmt.Errorf("load pending payload: %w", err)
	}
	if payload == nil {
		return false, nil
	}

	m.payload = payload
	if !payload.HasSource() {
		m.logger.Warn("pending payload has no source", zap.String("payload_id", payload.ID))
		m.generation++
		m.setState(State{
			Phase:     PhaseError,
			PayloadID: payload.ID,
			Error: &extraction.Error{
				Kind:    extraction.KindNoRecipeFound,
				Message: "nothing to extract from",
			},
		})
		return true, nil
	}

	m.start()
	return true, nil
}

// Retry re-runs extraction of the same payload after an error
func (m *Manager) Retry() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseError || m.payload == nil {
		return fmt.Errorf("%w: retry from %s", ErrInvalidTransition, m.state.Phase)
	}
	m.start()
	return nil
}

// Dismiss returns to idle from any phase, abandoning in-flight work, and cleans up the handoff.
// With no payload loaded it clears whatever the mailbox currently holds.
func (m *Manager) Dismiss(ctx context.Context) error {
	payload := m.reset()
	if err := m.mailbox.Cleanup(ctx, payload); err != nil {
		return fmt.Errorf("cleanup payload: %w", err)
	}
	return nil
}

// Save persists the successful result and then dismisses it.
// Only one save of a result runs at a time; a result replaced while it is being
// persisted is left in place.
func (m *Manager) Save(ctx context.Context, persist SaveFunc) (*models.Recipe, error) {
	m.mu.Lock()
	if m.state.Phase != PhaseSuccess || m.state.Recipe == nil || m.savingGen == m.generation {
		phase := m.state.Phase
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: save from %s", ErrInvalidTransition, phase)
	}
	gen := m.generation
	m.savingGen = gen
	merged := m.state.Recipe
	m.mu.Unlock()

	saved, err := persist(ctx, merged)

	m.mu.Lock()
	if m.savingGen == gen {
		m.savingGen = 0
	}
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if gen != m.generation {
		m.mu.Unlock()
		m.logger.Debug("extraction changed while saving, leaving it in place", zap.Uint64("generation", gen))
		return saved, nil
	}
	payload := m.resetLocked()
	m.mu.Unlock()

	if err := m.mailbox.Cleanup(ctx, payload); err != nil {
		m.logger.Warn("cleanup after save failed", zap.Error(err))
	}
	return saved, nil
}

// StartManualCreation leaves the error phase with an empty recipe shell for the user to fill in
func (m *Manager) StartManualCreation(ctx context.Context) (*models.MergedRecipe, error) {
	m.mu.Lock()
	if m.state.Phase != PhaseError {
		phase := m.state.Phase
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: manual creation from %s", ErrInvalidTransition, phase)
	}
	payload := m.resetLocked()
	m.mu.Unlock()

	shell := &models.MergedRecipe{
		Ingredients: []models.Ingredient{},
		Steps:       []models.Step{},
	}
	if payload != nil {
		shell.SourceURL = payload.SourceURL
		shell.ImageURL = payload.ThumbnailURL
		if err := m.mailbox.Cleanup(ctx, payload); err != nil {
			return shell, fmt.Errorf("cleanup payload: %w", err)
		}
	}
	return shell, nil
}

// Close abandons in-flight work and waits for it to return
func (m *Manager) Close() {
	m.mu.Lock()
	m.generation++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()
	m.wg.Wait()
}

// reset moves to idle and returns the payload that was being handled
func (m *Manager) reset() *models.ExtractionPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetLocked()
}

func (m *Manager) resetLocked() *models.ExtractionPayload {
	m.generation++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	payload := m.payload
	m.payload = nil
	m.setState(State{Phase: PhaseIdle})
	return payload
}

// start must be called with mu held
func (m *Manager) start() {
	m.generation++
	gen := m.generation
	payload := m.payload

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.setState(State{Phase: PhaseProcessing, PayloadID: payload.ID})

	m.logger.Info("extraction started", zap.String("payload_id", payload.ID), zap.Uint64("generation", gen))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()

		recipe, err := m.extractor.Extract(ctx, payload)
		m.finish(gen, payload, recipe, err)
	}()
}

func (m *Manager) finish(gen uint64, payload *models.ExtractionPayload, recipe *models.MergedRecipe, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		m.logger.Debug("discarding result of abandoned extraction", zap.String("payload_id", payload.ID))
		return
	}
	m.cancel = nil

	if err != nil {
		var extractionErr *extraction.Error
		if !errors.As(err, &extractionErr) {
			extractionErr = &extraction.Error{Kind: extraction.KindUnknown, Message: err.Error(), Err: err}
		}
		m.setState(State{Phase: PhaseError, PayloadID: payload.ID, Error: extractionErr})
		return
	}

	m.setState(State{Phase: PhaseSuccess, PayloadID: payload.ID, Recipe: recipe})
}

// setState must be called with mu held
func (m *Manager) setState(state State) {
	m.state = state
	for _, ch := range m.subscribers {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}
