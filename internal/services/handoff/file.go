package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/metrics"
	"github.com/killallgit/recipe-api/internal/models"
)

// DefaultPayloadFile is the payload file name inside the shared directory
const DefaultPayloadFile = "pending_extraction.json"

// FileMailbox stores the pending payload as a JSON file in a shared directory
type FileMailbox struct {
	sharedFiles
	fileName string
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// NewFileMailbox creates a file mailbox rooted at sharedDir
func NewFileMailbox(sharedDir, payloadFile string, logger *zap.Logger, m *metrics.Collector) *FileMailbox {
	if payloadFile == "" {
		payloadFile = DefaultPayloadFile
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileMailbox{
		sharedFiles: sharedFiles{dir: sharedDir},
		fileName:    payloadFile,
		logger:      logger.Named("handoff"),
		metrics:     m,
	}
}

// PayloadPath returns the path of the payload file
func (m *FileMailbox) PayloadPath() string {
	return filepath.Join(m.dir, m.fileName)
}

// PayloadFileName returns the payload file name, used by the watcher
func (m *FileMailbox) PayloadFileName() string {
	return m.fileName
}

// Save writes the payload through a temp file and rename so readers never see a partial file
func (m *FileMailbox) Save(ctx context.Context, payload *models.ExtractionPayload) error {
	if payload == nil || payload.ID == "" {
		return ErrInvalidPayload
	}
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("create shared directory: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	tmp, err := os.CreateTemp(m.dir, ".pending-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp payload: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write payload: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close payload: %w", err)
	}
	if err := os.Rename(tmpPath, m.PayloadPath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publish payload: %w", err)
	}

	m.logger.Info("pending extraction saved", zap.String("payload_id", payload.ID))
	m.metrics.HandoffEvent("save")
	return nil
}

// LoadPending reads the pending payload. Missing or undecodable files yield nil.
func (m *FileMailbox) LoadPending(ctx context.Context) (*models.ExtractionPayload, error) {
	payload, err := m.read()
	if err != nil {
		return nil, err
	}
	if payload != nil {
		m.metrics.HandoffEvent("load")
	}
	return payload, nil
}

// read returns nil for a missing or undecodable payload file
func (m *FileMailbox) read() (*models.ExtractionPayload, error) {
	data, err := os.ReadFile(m.PayloadPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var payload models.ExtractionPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == "" {
		m.logger.Warn("ignoring undecodable payload file", zap.String("path", m.PayloadPath()), zap.Error(err))
		return nil, nil
	}
	return &payload, nil
}

// Cleanup removes the payload file if it still holds this payload (or cannot be decoded),
// then removes the payload's audio file
func (m *FileMailbox) Cleanup(ctx context.Context, payload *models.ExtractionPayload) error {
	current, err := m.read()
	if err != nil {
		return err
	}

	_, statErr := os.Stat(m.PayloadPath())
	fileExists := statErr == nil

	removePayload := fileExists && (payload == nil || current == nil || current.ID == payload.ID)
	if removePayload {
		if err := os.Remove(m.PayloadPath()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove payload: %w", err)
		}
	}

	target := payload
	if target == nil {
		target = current
	}
	if target != nil {
		if err := m.removeAudio(target.AudioFileName); err != nil {
			return fmt.Errorf("remove audio: %w", err)
		}
	}

	if removePayload {
		m.metrics.HandoffEvent("cleanup")
	}
	return nil
}
