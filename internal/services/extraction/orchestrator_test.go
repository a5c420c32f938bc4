package extraction

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/recipe-api/internal/models"
	"github.com/killallgit/recipe-api/internal/services/captions"
	"github.com/killallgit/recipe-api/internal/services/gemini"
	"github.com/killallgit/recipe-api/pkg/download"
	"github.com/killallgit/recipe-api/pkg/ffmpeg"
)

const videoURL = "https://cdn.example.com/clip.mp4"

type fixture struct {
	captions   *MockCaptionFetcher
	parser     *MockRecipeParser
	downloader *MockVideoDownloader
	extractor  *MockAudioExtractor
	audioFiles *MockAudioFiles
	tempDir    string
	orch       *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		captions:   new(MockCaptionFetcher),
		parser:     new(MockRecipeParser),
		downloader: new(MockVideoDownloader),
		extractor:  new(MockAudioExtractor),
		audioFiles: new(MockAudioFiles),
		tempDir:    t.TempDir(),
	}
	f.orch = NewOrchestrator(Dependencies{
		Captions:   f.captions,
		Parser:     f.parser,
		Downloader: f.downloader,
		Extractor:  f.extractor,
		AudioFiles: f.audioFiles,
		TempDir:    f.tempDir,
	})
	return f
}

// expectRemoteAudio wires a download + extraction that produce real temp files
func (f *fixture) expectRemoteAudio(t *testing.T) (videoPath, audioPath string) {
	t.Helper()
	videoPath = filepath.Join(f.tempDir, "video_p1_123.mp4")
	audioPath = filepath.Join(f.tempDir, "audio_abc.m4a")
	require.NoError(t, os.WriteFile(videoPath, []byte("video"), 0644))
	require.NoError(t, os.WriteFile(audioPath, []byte("audio-bytes"), 0644))

	f.downloader.On("DownloadToTemp", mock.Anything, videoURL, "p1").
		Return(&download.DownloadResult{FilePath: videoPath, ContentType: "video/mp4"}, nil)
	f.extractor.On("ExtractAudio", mock.Anything, videoPath, f.tempDir).Return(audioPath, nil)
	return videoPath, audioPath
}

func payload(caption, video *string) *models.ExtractionPayload {
	return &models.ExtractionPayload{ID: "p1", Caption: caption, RemoteVideoURL: video}
}

func recipe(confidence float64, ingredients []string, steps []string) *models.PartialRecipe {
	r := &models.PartialRecipe{HasRecipe: true, ConfidenceScore: confidence}
	for _, name := range ingredients {
		r.Ingredients = append(r.Ingredients, models.Ingredient{Name: name})
	}
	for i, step := range steps {
		r.Steps = append(r.Steps, models.Step{Order: i + 1, Instruction: step})
	}
	return r
}

func assertNoFiles(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "expected %s to be removed", p)
	}
}

func TestExtract_GoldenPathNeverDownloads(t *testing.T) {
	f := newFixture(t)
	caption := "2 cups flour, 1 egg. Mix and bake at 350F for 20 min."
	f.parser.On("ParseText", mock.Anything, caption).
		Return(recipe(0.8, []string{"flour", "egg"}, []string{"Mix", "Bake"}), nil)

	result, err := f.orch.Extract(context.Background(), payload(&caption, models.StringPtr(videoURL)))
	require.NoError(t, err)

	assert.Len(t, result.Ingredients, 2)
	assert.Len(t, result.Steps, 2)
	assert.Equal(t, 0.8, result.ConfidenceScore)
	f.downloader.AssertNotCalled(t, "DownloadToTemp", mock.Anything, mock.Anything, mock.Anything)
	f.parser.AssertNotCalled(t, "ParseAudio", mock.Anything, mock.Anything, mock.Anything)
}

func TestExtract_CaptionOnlyWithoutVideo(t *testing.T) {
	f := newFixture(t)
	caption := "2 cups flour, 1 egg. Mix and bake at 350F for 20 min."
	f.parser.On("ParseText", mock.Anything, caption).
		Return(recipe(0.7, []string{"flour", "egg"}, []string{"Mix", "Bake"}), nil)

	result, err := f.orch.Extract(context.Background(), payload(&caption, nil))
	require.NoError(t, err)

	assert.Equal(t, "flour", result.Ingredients[0].Name)
	assert.Equal(t, "Bake", result.Steps[1].Instruction)
	assert.Equal(t, 0.7, result.ConfidenceScore)
	f.downloader.AssertNotCalled(t, "DownloadToTemp", mock.Anything, mock.Anything, mock.Anything)
}

func TestExtract_IngredientsWithoutVideoGetPlaceholderStep(t *testing.T) {
	f := newFixture(t)
	caption := "flour, eggs, sugar"
	f.parser.On("ParseText", mock.Anything, caption).
		Return(recipe(0.5, []string{"flour", "eggs", "sugar"}, nil), nil)

	result, err := f.orch.Extract(context.Background(), payload(&caption, nil))
	require.NoError(t, err)

	require.Len(t, result.Steps, 1)
	assert.Equal(t, models.Step{Order: 1, Instruction: models.PlaceholderStepInstruction}, result.Steps[0])
}

func TestExtract_NoSourceFailsBeforeAnyCall(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Extract(context.Background(), &models.ExtractionPayload{ID: "p1"})

	assert.Equal(t, KindNoRecipeFound, KindOf(err))
	f.parser.AssertNotCalled(t, "ParseText", mock.Anything, mock.Anything)
	f.captions.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	f.downloader.AssertNotCalled(t, "DownloadToTemp", mock.Anything, mock.Anything, mock.Anything)

	_, err = f.orch.Extract(context.Background(), nil)
	assert.Equal(t, KindNoRecipeFound, KindOf(err))
}

func TestExtract_MergeAddsPlaceholderWhenNoSourceHasSteps(t *testing.T) {
	f := newFixture(t)
	caption := "ingredients: rice, beans"
	f.parser.On("ParseText", mock.Anything, caption).Return(recipe(0.4, []string{"rice", "beans"}, nil), nil)
	videoPath, audioPath := f.expectRemoteAudio(t)
	f.parser.On("ParseAudio", mock.Anything, []byte("audio-bytes"), "audio/mp4").Return(recipe(0.6, nil, nil), nil)

	result, err := f.orch.Extract(context.Background(), payload(&caption, models.StringPtr(videoURL)))
	require.NoError(t, err)

	assert.Len(t, result.Ingredients, 2)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, 1, result.Steps[0].Order)
	assert.Equal(t, models.PlaceholderStepInstruction, result.Steps[0].Instruction)
	assertNoFiles(t, videoPath, audioPath)
}

func TestExtract_MergeConfidenceIsMax(t *testing.T) {
	f := newFixture(t)
	caption := "rice and beans"
	f.parser.On("ParseText", mock.Anything, caption).Return(recipe(0.3, []string{"rice"}, nil), nil)
	f.expectRemoteAudio(t)
	f.parser.On("ParseAudio", mock.Anything, mock.Anything, mock.Anything).
		Return(recipe(0.9, []string{"rice", "beans", "salt"}, []string{"Cook rice", "Add beans"}), nil)

	result, err := f.orch.Extract(context.Background(), payload(&caption, models.StringPtr(videoURL)))
	require.NoError(t, err)

	assert.Equal(t, 0.9, result.ConfidenceScore)
	assert.Len(t, result.Ingredients, 1, "caption ingredients win when present")
	assert.Len(t, result.Steps, 2, "audio steps fill the gap")
}

func TestExtract_MergeMetadataPrefersCaption(t *testing.T) {
	f := newFixture(t)
	caption := "quick pasta"

	captionResult := recipe(0.2, []string{"pasta"}, nil)
	captionResult.PrepTime = models.IntPtr(15)
	captionResult.Difficulty = models.StringPtr("Easy")

	audioResult := recipe(0.95, []string{"pasta", "oil"}, []string{"Boil"})
	audioResult.Title = models.StringPtr("Audio Pasta")
	audioResult.PrepTime = models.IntPtr(30)
	audioResult.CookingTime = models.IntPtr(10)
	audioResult.Difficulty = models.StringPtr("Medium")

	f.parser.On("ParseText", mock.Anything, caption).Return(captionResult, nil)
	f.expectRemoteAudio(t)
	f.parser.On("ParseAudio", mock.Anything, mock.Anything, mock.Anything).Return(audioResult, nil)

	result, err := f.orch.Extract(context.Background(), payload(&caption, models.StringPtr(videoURL)))
	require.NoError(t, err)

	assert.Equal(t, 15, *result.PrepTime)
	assert.Equal(t, 10, *result.CookingTime)
	assert.Equal(t, "Easy", *result.Difficulty)
	assert.Equal(t, "Audio Pasta", *result.Title)
	assert.Nil(t, result.Servings)
}

func TestExtract_NoAudioTrackIsNoRecipeFound(t *testing.T) {
	f := newFixture(t)
	caption := "check out this dish"
	f.parser.On("ParseText", mock.Anything, caption).Return(&models.PartialRecipe{HasRecipe: false}, nil)

	videoPath := filepath.Join(f.tempDir, "video_p1_1.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("video"), 0644))
	f.downloader.On("DownloadToTemp", mock.Anything, videoURL, "p1").Return(&download.DownloadResult{FilePath: videoPath}, nil)
	f.extractor.On("ExtractAudio", mock.Anything, videoPath, f.tempDir).Return("", ffmpeg.ErrNoAudioTrack)

	_, err := f.orch.Extract(context.Background(), payload(&caption, models.StringPtr(videoURL)))

	assert.Equal(t, KindNoRecipeFound, KindOf(err))
	assert.ErrorIs(t, err, ffmpeg.ErrNoAudioTrack)
	assertNoFiles(t, videoPath)
}

func TestExtract_SourceURLTimeout(t *testing.T) {
	f := newFixture(t)
	source := "https://www.tiktok.com/@chef/video/1"
	f.captions.On("Fetch", mock.Anything, source).Return(nil, captions.ErrTimeout)

	_, err := f.orch.Extract(context.Background(), &models.ExtractionPayload{ID: "p1", SourceURL: &source})

	assert.Equal(t, KindTimeout, KindOf(err))
	f.parser.AssertNotCalled(t, "ParseText", mock.Anything, mock.Anything)
}

func TestExtract_SourceURLRunStatuses(t *testing.T) {
	tests := []struct {
		status string
		want   Kind
	}{
		{captions.StatusTimedOut, KindTimeout},
		{captions.StatusFailed, KindUnknown},
		{captions.StatusAborted, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			f := newFixture(t)
			source := "https://www.instagram.com/reel/x/"
			f.captions.On("Fetch", mock.Anything, source).Return(nil, &captions.RunError{RunID: "r", Status: tt.status})

			_, err := f.orch.Extract(context.Background(), &models.ExtractionPayload{ID: "p1", SourceURL: &source})
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
}

func TestExtract_SourceURLResolvedThroughFetcher(t *testing.T) {
	f := newFixture(t)
	source := "https://www.instagram.com/reel/x/"
	text := "1 avocado, lime. Mash and season."
	f.captions.On("Fetch", mock.Anything, source).Return(&captions.Caption{
		Caption:      &text,
		VideoURL:     models.StringPtr(videoURL),
		ThumbnailURL: models.StringPtr("https://cdn.example.com/thumb.jpg"),
	}, nil)
	f.parser.On("ParseText", mock.Anything, text).Return(recipe(0.9, []string{"avocado", "lime"}, []string{"Mash", "Season"}), nil)

	p := &models.ExtractionPayload{ID: "p1", SourceURL: &source}
	result, err := f.orch.Extract(context.Background(), p)
	require.NoError(t, err)

	require.NotNil(t, result.ImageURL)
	assert.Equal(t, "https://cdn.example.com/thumb.jpg", *result.ImageURL)
	assert.Nil(t, p.ThumbnailURL, "caller's payload is left untouched")
	assert.Nil(t, p.Caption)
	assert.Equal(t, source, *result.SourceURL)
	f.downloader.AssertNotCalled(t, "DownloadToTemp", mock.Anything, mock.Anything, mock.Anything)
}

func TestExtract_SourceURLEmptyDatasetIsNoRecipe(t *testing.T) {
	f := newFixture(t)
	source := "https://www.instagram.com/reel/x/"
	f.captions.On("Fetch", mock.Anything, source).Return(&captions.Caption{}, nil)

	_, err := f.orch.Extract(context.Background(), &models.ExtractionPayload{ID: "p1", SourceURL: &source})
	assert.Equal(t, KindNoRecipeFound, KindOf(err))
}

func TestExtract_ImageComesFromPayload(t *testing.T) {
	f := newFixture(t)
	caption := "toast"
	f.parser.On("ParseText", mock.Anything, caption).Return(recipe(0.9, []string{"bread"}, []string{"Toast"}), nil)

	p := payload(&caption, nil)
	p.ThumbnailURL = models.StringPtr("https://cdn.example.com/cover.jpg")
	result, err := f.orch.Extract(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/cover.jpg", *result.ImageURL)
	assert.Nil(t, result.SourceURL)
}

func TestExtract_AudioFailureFallsBackToCaption(t *testing.T) {
	f := newFixture(t)
	caption := "eggs and cheese"
	f.parser.On("ParseText", mock.Anything, caption).Return(recipe(0.4, []string{"eggs", "cheese"}, nil), nil)
	f.downloader.On("DownloadToTemp", mock.Anything, videoURL, "p1").Return(nil, &download.StatusError{StatusCode: http.StatusForbidden})

	result, err := f.orch.Extract(context.Background(), payload(&caption, models.StringPtr(videoURL)))
	require.NoError(t, err)

	assert.Len(t, result.Ingredients, 2)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, models.PlaceholderStepInstruction, result.Steps[0].Instruction)
}

func TestExtract_AudioErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"download rejected", &download.StatusError{StatusCode: http.StatusForbidden}, KindNetwork},
		{"parser network", &gemini.NetworkError{Err: errors.New("connection reset")}, KindNetwork},
		{"parser server error", &gemini.ServerError{StatusCode: 500, Body: "oops"}, KindUnknown},
		{"parser bad output", &gemini.ParseError{Err: errors.New("invalid character")}, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if _, ok := tt.err.(*download.StatusError); ok {
				f.downloader.On("DownloadToTemp", mock.Anything, videoURL, "p1").Return(nil, tt.err)
			} else {
				f.expectRemoteAudio(t)
				f.parser.On("ParseAudio", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			_, err := f.orch.Extract(context.Background(), payload(nil, models.StringPtr(videoURL)))

			assert.Equal(t, tt.want, KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestExtract_TempFilesRemovedWhenParseFails(t *testing.T) {
	f := newFixture(t)
	videoPath, audioPath := f.expectRemoteAudio(t)
	f.parser.On("ParseAudio", mock.Anything, mock.Anything, mock.Anything).Return(nil, &gemini.ServerError{StatusCode: 503})

	_, err := f.orch.Extract(context.Background(), payload(nil, models.StringPtr(videoURL)))

	require.Error(t, err)
	assertNoFiles(t, videoPath, audioPath)
}

func TestExtract_CaptionParseErrorWithoutVideo(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"network", &gemini.NetworkError{Err: errors.New("dial tcp: timeout")}, KindNetwork},
		{"parse", &gemini.ParseError{Err: errors.New("bad json")}, KindUnknown},
		{"no content", gemini.ErrNoContent, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			caption := "something"
			f.parser.On("ParseText", mock.Anything, caption).Return(nil, tt.err)

			_, err := f.orch.Extract(context.Background(), payload(&caption, nil))
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
}

func TestExtract_CaptionParseErrorWithVideoUsesAudio(t *testing.T) {
	f := newFixture(t)
	caption := "something"
	f.parser.On("ParseText", mock.Anything, caption).Return(nil, &gemini.ParseError{Err: errors.New("bad json")})
	f.expectRemoteAudio(t)
	f.parser.On("ParseAudio", mock.Anything, mock.Anything, mock.Anything).
		Return(recipe(0.8, []string{"tofu"}, []string{"Fry"}), nil)

	result, err := f.orch.Extract(context.Background(), payload(&caption, models.StringPtr(videoURL)))
	require.NoError(t, err)
	assert.Equal(t, "tofu", result.Ingredients[0].Name)
	assert.Equal(t, 0.8, result.ConfidenceScore)
}

func TestExtract_NeitherSourceHasRecipe(t *testing.T) {
	f := newFixture(t)
	caption := "look at my cat"
	f.parser.On("ParseText", mock.Anything, caption).Return(&models.PartialRecipe{HasRecipe: false}, nil)
	f.expectRemoteAudio(t)
	f.parser.On("ParseAudio", mock.Anything, mock.Anything, mock.Anything).Return(&models.PartialRecipe{HasRecipe: false}, nil)

	_, err := f.orch.Extract(context.Background(), payload(&caption, models.StringPtr(videoURL)))
	assert.Equal(t, KindNoRecipeFound, KindOf(err))
}

func TestExtract_HandoffAudioFilePreferred(t *testing.T) {
	f := newFixture(t)
	audioPath := filepath.Join(t.TempDir(), "p1.m4a")
	require.NoError(t, os.WriteFile(audioPath, []byte("shared-audio"), 0644))

	f.audioFiles.On("AudioFileExists", "p1.m4a").Return(true)
	f.audioFiles.On("AudioFilePath", "p1.m4a").Return(audioPath)
	f.parser.On("ParseAudio", mock.Anything, []byte("shared-audio"), "audio/mp4").
		Return(recipe(0.7, []string{"kale"}, []string{"Chop"}), nil)

	p := payload(nil, models.StringPtr(videoURL))
	p.AudioFileName = models.StringPtr("p1.m4a")
	result, err := f.orch.Extract(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "kale", result.Ingredients[0].Name)
	f.downloader.AssertNotCalled(t, "DownloadToTemp", mock.Anything, mock.Anything, mock.Anything)
	_, statErr := os.Stat(audioPath)
	assert.NoError(t, statErr, "handoff audio is owned by the mailbox, not the orchestrator")
}

func TestExtract_MissingHandoffAudioFallsBackToVideo(t *testing.T) {
	f := newFixture(t)
	f.audioFiles.On("AudioFileExists", "gone.m4a").Return(false)
	f.expectRemoteAudio(t)
	f.parser.On("ParseAudio", mock.Anything, []byte("audio-bytes"), "audio/mp4").
		Return(recipe(0.6, []string{"beef"}, []string{"Sear"}), nil)

	p := payload(nil, models.StringPtr(videoURL))
	p.AudioFileName = models.StringPtr("gone.m4a")
	_, err := f.orch.Extract(context.Background(), p)

	require.NoError(t, err)
	f.downloader.AssertExpectations(t)
}

func TestExtract_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	caption := "anything"
	f.parser.On("ParseText", mock.Anything, caption).Run(func(mock.Arguments) { cancel() }).Return(nil, context.Canceled)

	_, err := f.orch.Extract(ctx, payload(&caption, models.StringPtr(videoURL)))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	f.downloader.AssertNotCalled(t, "DownloadToTemp", mock.Anything, mock.Anything, mock.Anything)
}
