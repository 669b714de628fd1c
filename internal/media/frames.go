package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"lumina/internal/logging"
	"lumina/internal/metrics"
)

// FrameSampler extracts one representative frame from a local video file.
type FrameSampler interface {
	SampleFrame(ctx context.Context, path string) ([]byte, error)
}

// runFunc executes a command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// FFmpegSampler samples frames with the ffmpeg binary.
type FFmpegSampler struct {
	binary string
	offset string
	run    runFunc
}

// NewFFmpegSampler creates a sampler that seeks to two seconds into the video.
func NewFFmpegSampler() *FFmpegSampler {
	return &FFmpegSampler{
		binary: "ffmpeg",
		offset: "00:00:02",
		run:    runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %v, stderr: %s", name, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// Available reports whether the ffmpeg binary can be found.
func (s *FFmpegSampler) Available() bool {
	_, err := exec.LookPath(s.binary)
	return err == nil
}

// SampleFrame grabs a frame at the configured offset, falling back to the first
// frame for clips shorter than the offset, and returns it as a frame-sized JPEG.
func (s *FFmpegSampler) SampleFrame(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		metrics.FrameSamplesTotal.WithLabelValues("error_not_found").Inc()
		return nil, fmt.Errorf("file not accessible: %w", err)
	}

	logging.Debug("Extracting video frame: %s", path)

	out, err := s.run(ctx, s.binary,
		"-ss", s.offset,
		"-i", path,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	if err != nil || len(out) == 0 {
		logging.Debug("FFmpeg seek attempt failed for %s: %v", path, err)

		out, err = s.run(ctx, s.binary,
			"-i", path,
			"-vframes", "1",
			"-f", "image2pipe",
			"-vcodec", "png",
			"-",
		)
		if err != nil {
			metrics.FrameSamplesTotal.WithLabelValues("error").Inc()
			return nil, err
		}
	}

	if len(out) == 0 {
		metrics.FrameSamplesTotal.WithLabelValues("error_empty").Inc()
		return nil, fmt.Errorf("ffmpeg produced no output for %s", path)
	}

	img, _, err := DecodeImage(out)
	if err != nil {
		metrics.FrameSamplesTotal.WithLabelValues("error_decode").Inc()
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}

	frame, err := EncodeFrame(img)
	if err != nil {
		metrics.FrameSamplesTotal.WithLabelValues("error_encode").Inc()
		return nil, err
	}

	metrics.FrameSamplesTotal.WithLabelValues("success").Inc()
	metrics.FrameSampleDuration.Observe(time.Since(start).Seconds())
	logging.Debug("Sampled frame for %s: %d bytes", path, len(frame))
	return frame, nil
}
