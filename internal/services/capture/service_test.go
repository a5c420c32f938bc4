package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/recipe-api/internal/models"
	"github.com/killallgit/recipe-api/internal/services/captions"
	"github.com/killallgit/recipe-api/internal/services/handoff"
)

const reelURL = "https://www.instagram.com/reel/abc123/"

// MockCaptionFetcher is a mock implementation of CaptionFetcher
type MockCaptionFetcher struct {
	mock.Mock
}

func (m *MockCaptionFetcher) Fetch(ctx context.Context, rawURL string) (*captions.Caption, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*captions.Caption), args.Error(1)
}

func setupService(t *testing.T, fetcher CaptionFetcher, prefetch bool) (*Service, *handoff.FileMailbox) {
	t.Helper()
	mailbox := handoff.NewFileMailbox(t.TempDir(), "", nil, nil)
	return NewService(mailbox, fetcher, Config{PrefetchCaption: prefetch}), mailbox
}

func TestShare_RejectsUnsupportedURL(t *testing.T) {
	fetcher := new(MockCaptionFetcher)
	service, mailbox := setupService(t, fetcher, true)

	_, err := service.Share(context.Background(), Request{URL: "https://example.com/video"})
	assert.ErrorIs(t, err, captions.ErrInvalidURL)

	pending, err := mailbox.LoadPending(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pending)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestShare_UsesProvidedCaptionWithoutPrefetch(t *testing.T) {
	fetcher := new(MockCaptionFetcher)
	service, mailbox := setupService(t, fetcher, true)

	payload, err := service.Share(context.Background(), Request{URL: reelURL, Caption: "2 eggs, fry"})
	require.NoError(t, err)
	assert.NotEmpty(t, payload.ID)

	pending, err := mailbox.LoadPending(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, payload.ID, pending.ID)
	assert.Equal(t, "2 eggs, fry", *pending.Caption)
	assert.Equal(t, reelURL, *pending.SourceURL)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestShare_PrefetchesCaption(t *testing.T) {
	fetcher := new(MockCaptionFetcher)
	fetcher.On("Fetch", mock.Anything, reelURL).Return(&captions.Caption{
		Caption:      models.StringPtr("Pasta: 200g spaghetti"),
		VideoURL:     models.StringPtr("https://cdn.example.com/v.mp4"),
		ThumbnailURL: models.StringPtr("https://cdn.example.com/t.jpg"),
	}, nil)
	service, _ := setupService(t, fetcher, true)

	payload, err := service.Share(context.Background(), Request{URL: reelURL})
	require.NoError(t, err)

	assert.Equal(t, "Pasta: 200g spaghetti", *payload.Caption)
	assert.Equal(t, "https://cdn.example.com/v.mp4", *payload.RemoteVideoURL)
	assert.Equal(t, "https://cdn.example.com/t.jpg", *payload.ThumbnailURL)
	fetcher.AssertExpectations(t)
}

func TestShare_PrefetchFailureFallsBackToURLOnly(t *testing.T) {
	fetcher := new(MockCaptionFetcher)
	fetcher.On("Fetch", mock.Anything, reelURL).Return(nil, errors.New("actor failed"))
	service, mailbox := setupService(t, fetcher, true)

	payload, err := service.Share(context.Background(), Request{URL: reelURL})
	require.NoError(t, err)
	assert.Nil(t, payload.Caption)
	assert.Nil(t, payload.RemoteVideoURL)
	assert.True(t, payload.HasSource())

	pending, err := mailbox.LoadPending(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, payload.ID, pending.ID)
}

func TestShare_CopiesAudioIntoSharedDir(t *testing.T) {
	service, mailbox := setupService(t, nil, false)

	src := filepath.Join(t.TempDir(), "recording.m4a")
	require.NoError(t, os.WriteFile(src, []byte("audio-bytes"), 0644))

	payload, err := service.Share(context.Background(), Request{URL: reelURL, AudioPath: src})
	require.NoError(t, err)
	require.NotNil(t, payload.AudioFileName)
	assert.Equal(t, payload.ID+".m4a", *payload.AudioFileName)

	data, err := os.ReadFile(mailbox.AudioFilePath(*payload.AudioFileName))
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
	assert.FileExists(t, src)
}

func TestShare_MissingAudioFile(t *testing.T) {
	service, _ := setupService(t, nil, false)

	_, err := service.Share(context.Background(), Request{URL: reelURL, AudioPath: filepath.Join(t.TempDir(), "nope.m4a")})
	assert.ErrorIs(t, err, ErrAudioNotFound)
}

func TestShare_ReplacesPreviousPayload(t *testing.T) {
	service, mailbox := setupService(t, nil, false)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "first.m4a")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0644))

	first, err := service.Share(ctx, Request{URL: reelURL, AudioPath: src})
	require.NoError(t, err)
	second, err := service.Share(ctx, Request{URL: "https://www.tiktok.com/@chef/video/1", Caption: "soup"})
	require.NoError(t, err)

	pending, err := mailbox.LoadPending(ctx)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, second.ID, pending.ID)
	assert.False(t, mailbox.AudioFileExists(*first.AudioFileName))
}
