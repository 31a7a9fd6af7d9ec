package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"videoverse/internal/ffmpeg"
	"videoverse/internal/model"
	"videoverse/internal/repository"
	"videoverse/internal/storage"
	"videoverse/pkg/config"
	"videoverse/pkg/db"

	"github.com/stretchr/testify/require"
)

// fakeRunner stands in for ffmpeg/ffprobe. Run always creates the output
// file (the last argument) before reporting its configured error, so cleanup
// paths get exercised; Output returns probeOut as the ffprobe result.
type fakeRunner struct {
	runCalls        [][]string
	runErr          error
	probeOut        string
	probeErr        error
	manifestContent string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.runCalls = append(f.runCalls, append([]string{name}, args...))
	for i, arg := range args {
		if arg == "-i" && i+1 < len(args) {
			if data, err := os.ReadFile(args[i+1]); err == nil {
				f.manifestContent = string(data)
			}
		}
	}
	if err := os.WriteFile(args[len(args)-1], []byte("encoded output"), 0644); err != nil {
		return err
	}
	return f.runErr
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return []byte(f.probeOut + "\n"), nil
}

type testEnv struct {
	videoRepo *repository.VideoRepository
	linkRepo  *repository.ShareLinkRepository
	store     *storage.Store
	runner    *fakeRunner
	transcode *TranscodeService
	share     *ShareService
}

func testLimits() config.VideoConfig {
	return config.VideoConfig{
		MaxSizeMB:       25,
		MinDurationSecs: 5,
		MaxDurationSecs: 300,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(t.TempDir(), "test.db"))
	database, err := db.Init(config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	runner := &fakeRunner{probeOut: "60"}
	encoder := ffmpeg.NewEncoder(ffmpeg.WithRunner(runner))

	videoRepo := repository.NewVideoRepository(database)
	linkRepo := repository.NewShareLinkRepository(database)

	return &testEnv{
		videoRepo: videoRepo,
		linkRepo:  linkRepo,
		store:     store,
		runner:    runner,
		transcode: NewTranscodeService(videoRepo, store, encoder),
		share: NewShareService(videoRepo, linkRepo, config.ServerConfig{
			BaseURL: "http://localhost",
			Port:    9443,
		}),
	}
}

// addVideo inserts a metadata row and a matching file under the store root.
func (env *testEnv) addVideo(t *testing.T, filename string, duration float64) *model.Video {
	t.Helper()
	abs, err := env.store.Resolve(filename)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(abs, []byte("source video"), 0644))

	video := &model.Video{
		Filename:     filename,
		FilePath:     filename,
		SizeMB:       10,
		DurationSecs: duration,
	}
	require.NoError(t, env.videoRepo.Insert(video))
	return video
}

// rootArtifacts lists filenames directly under the store root (the tmp
// directory is skipped).
func (env *testEnv) rootArtifacts(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(env.store.Root())
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

func (env *testEnv) manifestCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(env.store.Root(), "tmp"))
	require.NoError(t, err)
	return len(entries)
}

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("video", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(64<<20))
	return req.MultipartForm.File["video"][0]
}
