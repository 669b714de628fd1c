package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("fake video"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSampleFrameSeekSucceeds(t *testing.T) {
	pngData := createTestPNG(t, 320, 240)
	calls := 0
	s := &FFmpegSampler{
		binary: "ffmpeg",
		offset: "00:00:02",
		run: func(_ context.Context, _ string, args ...string) ([]byte, error) {
			calls++
			if args[0] != "-ss" {
				t.Errorf("first attempt should seek, got args %v", args)
			}
			return pngData, nil
		},
	}

	frame, err := s.SampleFrame(context.Background(), writeTempVideo(t))
	if err != nil {
		t.Fatalf("SampleFrame: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	dims, err := GetImageDimensions(frame)
	if err != nil || dims.Width != FrameWidth || dims.Height != FrameHeight {
		t.Errorf("unexpected frame dims %+v, err %v", dims, err)
	}
}

func TestSampleFrameFallsBackToFirstFrame(t *testing.T) {
	pngData := createTestPNG(t, 64, 64)
	calls := 0
	s := &FFmpegSampler{
		binary: "ffmpeg",
		offset: "00:00:02",
		run: func(_ context.Context, _ string, args ...string) ([]byte, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("seek past end")
			}
			if args[0] != "-i" {
				t.Errorf("fallback should not seek, got args %v", args)
			}
			return pngData, nil
		},
	}

	if _, err := s.SampleFrame(context.Background(), writeTempVideo(t)); err != nil {
		t.Fatalf("SampleFrame: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestSampleFrameErrors(t *testing.T) {
	failing := &FFmpegSampler{
		binary: "ffmpeg",
		run: func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("boom")
		},
	}
	if _, err := failing.SampleFrame(context.Background(), writeTempVideo(t)); err == nil {
		t.Error("expected error when ffmpeg fails twice")
	}

	if _, err := failing.SampleFrame(context.Background(), "/nonexistent/clip.mp4"); err == nil {
		t.Error("expected error for missing file")
	}

	garbage := &FFmpegSampler{
		binary: "ffmpeg",
		run: func(context.Context, string, ...string) ([]byte, error) {
			return []byte("garbage"), nil
		},
	}
	if _, err := garbage.SampleFrame(context.Background(), writeTempVideo(t)); err == nil {
		t.Error("expected decode error for garbage output")
	}
}

func TestNewFFmpegSampler(t *testing.T) {
	s := NewFFmpegSampler()
	if s.binary != "ffmpeg" || s.offset != "00:00:02" || s.run == nil {
		t.Errorf("unexpected sampler defaults: %+v", s)
	}
}

func TestFFmpegSamplerAvailable(t *testing.T) {
	self, err := os.Executable()
	if err != nil {
		t.Skipf("test binary path unavailable: %v", err)
	}
	if !(&FFmpegSampler{binary: self}).Available() {
		t.Errorf("Available() = false for executable %s", self)
	}
	if (&FFmpegSampler{binary: "lumina-missing-ffmpeg"}).Available() {
		t.Error("Available() = true for a missing binary")
	}
}
