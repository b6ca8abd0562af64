package download

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/desertthunder/wavedl/internal/shared"
)

// SupportedFormats lists the audio formats the converter accepts.
var SupportedFormats = []string{"mp3", "flac", "wav", "aac"}

var codecs = map[string]string{
	"mp3":  "libmp3lame",
	"flac": "flac",
	"wav":  "pcm_s16le",
	"aac":  "aac",
}

var bitrates = map[string]map[string]string{
	"mp3": {"high": "320k", "medium": "192k", "low": "128k"},
	"aac": {"high": "256k", "medium": "192k", "low": "128k"},
}

// IsSupportedFormat reports whether format is one the converter handles.
func IsSupportedFormat(format string) bool {
	format = strings.ToLower(format)
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}

	return false
}

// Codec returns the ffmpeg audio codec for a format. Unknown formats fall
// back to mp3 encoding.
func Codec(format string) string {
	if c, ok := codecs[strings.ToLower(format)]; ok {
		return c
	}

	return "libmp3lame"
}

// Bitrate returns the ffmpeg bitrate flag for a lossy format at a quality
// level, or "" for lossless formats where no bitrate applies.
func Bitrate(format, qualityName string) string {
	rates, ok := bitrates[strings.ToLower(format)]
	if !ok {
		return ""
	}

	if rate, ok := rates[qualityName]; ok {
		return rate
	}

	return rates["high"]
}

// FormatFromPath returns the lowercase extension of path without the dot.
func FormatFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// FFmpegAvailable reports whether ffmpeg can be found on PATH.
func FFmpegAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// Convert transcodes inputPath into outputFormat next to the original file
// and returns the new path. Progress lines (out_time values) and notable
// ffmpeg messages are forwarded to onLine. A failed conversion removes any
// partial output file before returning.
func Convert(ctx context.Context, inputPath, outputFormat, qualityName string, onLine LineFunc) (string, error) {
	outputFormat = strings.ToLower(outputFormat)

	if !IsSupportedFormat(outputFormat) {
		return "", fmt.Errorf("%w: unsupported format %q, supported: %v",
			shared.ErrInvalidInput, outputFormat, SupportedFormats)
	}

	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("%w: input file %s", shared.ErrResourceNotFound, inputPath)
	}

	ext := filepath.Ext(inputPath)
	outputPath := strings.TrimSuffix(inputPath, ext) + "." + outputFormat

	if outputPath == inputPath {
		return "", fmt.Errorf("%w: input and output formats are the same", shared.ErrInvalidInput)
	}

	args := []string{"-i", inputPath, "-codec:a", Codec(outputFormat)}
	if rate := Bitrate(outputFormat, qualityName); rate != "" {
		args = append(args, "-b:a", rate)
	}
	args = append(args, "-y", "-progress", "pipe:1", outputPath)

	emit := func(line string) {
		if onLine != nil {
			onLine(line)
		}
	}

	emit(fmt.Sprintf("Converting %s -> %s (codec: %s)", inputPath, outputPath, Codec(outputFormat)))

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	err := streamLines(cmd, func(line string) {
		switch {
		case strings.HasPrefix(line, "out_time="):
			emit("Progress: " + strings.TrimPrefix(line, "out_time="))
		case strings.Contains(line, "Error"), strings.Contains(line, "error"),
			strings.Contains(line, "Warning"), strings.Contains(line, "Output"),
			strings.Contains(line, "Stream"):
			emit(line)
		}
	})
	if err != nil {
		os.Remove(outputPath)
		return "", err
	}

	if err := cmd.Wait(); err != nil {
		os.Remove(outputPath)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		return "", fmt.Errorf("ffmpeg conversion failed for %s: %w", inputPath, err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("ffmpeg completed but output was not created: %s", outputPath)
	}

	emit("Conversion complete: " + outputPath)

	return outputPath, nil
}

// DeleteFile removes a source file after a confirmed conversion.
func DeleteFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}

	return nil
}
