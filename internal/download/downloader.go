package download

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hbomb79/Hoard/pkg/logger"
)

var log = logger.Get("Download")

const (
	// formatChain prefers a webm video+audio pair, falling back through
	// a single webm container to whatever the engine deems best.
	formatChain = "bestvideo[ext=webm]+bestaudio[ext=webm]/best[ext=webm]/best"

	mergedOutputFormat = "webm"
	outputFileTemplate = "%(id)s.%(ext)s"
	watchUrlTemplate   = "https://www.youtube.com/watch?v=%s"
)

type (
	Config struct {
		YtDlpBinPath string `yaml:"ytdlp_bin" env:"YTDLP_BIN" env-default:"yt-dlp"`
	}

	// Downloader shells out to the external yt-dlp engine to retrieve the
	// best available audio+video streams for a video and merge them in to
	// a single local file named by the video ID.
	Downloader struct {
		config Config
	}
)

func New(config Config) *Downloader {
	return &Downloader{config}
}

// Download invokes the engine for a single video, writing the merged
// output in to outputDir. Playlists are explicitly disallowed. Engine
// failure (network, format unavailable, merge failure) is returned as an
// error for the caller to log; no retry is performed.
func (downloader *Downloader) Download(ctx context.Context, videoID string, outputDir string) error {
	args := []string{
		"--format", formatChain,
		"--merge-output-format", mergedOutputFormat,
		"--no-playlist",
		"--no-warnings",
		"--output", filepath.Join(outputDir, outputFileTemplate),
		"--",
		fmt.Sprintf(watchUrlTemplate, videoID),
	}

	log.Debugf("Invoking download engine for video %s: %s %v\n", videoID, downloader.config.YtDlpBinPath, args)
	cmd := exec.CommandContext(ctx, downloader.config.YtDlpBinPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return parseEngineError(err, output)
	}

	log.Emit(logger.SUCCESS, "Download of video %s complete\n", videoID)
	return nil
}

// parseEngineError tries to pick the relevant failure message out of the
// engine's combined output. yt-dlp reports its failures on lines prefixed
// with 'ERROR:'; when present, the last such line is far more useful than
// the raw exit status.
func parseEngineError(err error, output []byte) error {
	var engineMessage string
	for _, line := range strings.Split(string(output), "\n") {
		if strings.HasPrefix(line, "ERROR:") {
			engineMessage = strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
	}

	if engineMessage != "" {
		return fmt.Errorf("download engine failed: %s", engineMessage)
	}

	return fmt.Errorf("download engine failed: %w", err)
}
