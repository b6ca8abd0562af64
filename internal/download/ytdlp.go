// package download wraps the yt-dlp and ffmpeg command line tools
package download

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/wavedl/internal/shared"
)

// LineFunc receives one trimmed line of subprocess output at a time.
type LineFunc func(line string)

// quality maps the user-facing quality names onto the yt-dlp audio quality
// scale, 0 (best) to 10 (worst).
var quality = map[string]string{
	"high":   "0",
	"medium": "5",
	"low":    "9",
}

// QualityValue returns the yt-dlp audio quality flag for a quality name.
// Unknown names fall back to best quality.
func QualityValue(name string) string {
	if v, ok := quality[name]; ok {
		return v
	}

	return "0"
}

// YTDLPAvailable reports whether yt-dlp can be found on PATH.
func YTDLPAvailable() bool {
	_, err := exec.LookPath("yt-dlp")
	return err == nil
}

// Track downloads a single track with yt-dlp. Query is either a direct URL
// or free text, which is turned into a YouTube search for the first result.
// outputPath should carry the desired extension; yt-dlp re-adds it after
// audio extraction. Every line of subprocess output is passed to onLine.
func Track(ctx context.Context, query, outputPath, format, qualityName string, onLine LineFunc) error {
	search := query
	if !strings.HasPrefix(query, "http://") && !strings.HasPrefix(query, "https://") {
		search = "ytsearch1:" + query
	}

	template := strings.TrimSuffix(outputPath, "."+format) + "." + format

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"-x",
		"--no-playlist",
		"--audio-format", format,
		"--audio-quality", QualityValue(qualityName),
		"--newline",
		"--progress",
		"-o", template,
		search,
	)

	if err := streamLines(cmd, onLine); err != nil {
		return err
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		return fmt.Errorf("%w: yt-dlp failed for %q: %v", shared.ErrAPIRequest, query, err)
	}

	return nil
}

// streamLines starts cmd and forwards stdout and stderr lines to onLine
// until both pipes close. The caller waits on the command afterwards.
func streamLines(cmd *exec.Cmd, onLine LineFunc) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrToolMissing, cmd.Path)
	}

	g := new(errgroup.Group)
	for _, r := range []io.Reader{stdout, stderr} {
		r := r
		g.Go(func() error {
			scanner := bufio.NewScanner(r)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line != "" && onLine != nil {
					onLine(line)
				}
			}

			return scanner.Err()
		})
	}

	return g.Wait()
}
