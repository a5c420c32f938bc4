package extraction

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/killallgit/recipe-api/internal/models"
	"github.com/killallgit/recipe-api/internal/services/captions"
	"github.com/killallgit/recipe-api/pkg/download"
)

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

// MockRecipeParser is a mock implementation of RecipeParser
type MockRecipeParser struct {
	mock.Mock
}

func (m *MockRecipeParser) ParseText(ctx context.Context, text string) (*models.PartialRecipe, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PartialRecipe), args.Error(1)
}

func (m *MockRecipeParser) ParseAudio(ctx context.Context, audio []byte, mimeType string) (*models.PartialRecipe, error) {
	args := m.Called(ctx, audio, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PartialRecipe), args.Error(1)
}

// MockVideoDownloader is a mock implementation of VideoDownloader
type MockVideoDownloader struct {
	mock.Mock
}

func (m *MockVideoDownloader) DownloadToTemp(ctx context.Context, rawURL, id string) (*download.DownloadResult, error) {
	args := m.Called(ctx, rawURL, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*download.DownloadResult), args.Error(1)
}

// MockAudioExtractor is a mock implementation of AudioExtractor
type MockAudioExtractor struct {
	mock.Mock
}

func (m *MockAudioExtractor) ExtractAudio(ctx context.Context, videoPath, outputDir string) (string, error) {
	args := m.Called(ctx, videoPath, outputDir)
	return args.String(0), args.Error(1)
}

// MockAudioFiles is a mock implementation of AudioFiles
type MockAudioFiles struct {
	mock.Mock
}

func (m *MockAudioFiles) AudioFilePath(fileName string) string {
	return m.Called(fileName).String(0)
}

func (m *MockAudioFiles) AudioFileExists(fileName string) bool {
	return m.Called(fileName).Bool(0)
}
