package export

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cutroom/cutroom/internal/timeline"
)

// FFmpegEncoder renders segments and muxes the final file by driving an
// ffmpeg binary. Segment outputs land in TempDir and are assembled with
// the concat demuxer.
type FFmpegEncoder struct {
	// Bin is the ffmpeg executable; empty means "ffmpeg" on PATH.
	Bin string
	// TempDir holds intermediate segment files.
	TempDir string
}

// NewFFmpegEncoder creates an encoder writing intermediates under dir.
func NewFFmpegEncoder(dir string) *FFmpegEncoder {
	return &FFmpegEncoder{Bin: "ffmpeg", TempDir: dir}
}

func (e *FFmpegEncoder) bin() string {
	if e.Bin == "" {
		return "ffmpeg"
	}
	return e.Bin
}

func (e *FFmpegEncoder) segmentPath(index int) string {
	return filepath.Join(e.TempDir, fmt.Sprintf("seg%04d.ts", index))
}

// EncodeSegment renders one clip's source window, applying trim, scale,
// frame rate, and speed via setpts/atempo.
func (e *FFmpegEncoder) EncodeSegment(ctx context.Context, seg Segment) error {
	clip := seg.Clip
	preset := seg.Preset

	args := []string{
		"-y",
		"-ss", msToSeconds(clip.StartTime),
		"-to", msToSeconds(clip.EndTime),
		"-i", string(clip.Source),
		"-vf", e.videoFilter(seg),
		"-r", fmt.Sprintf("%d", preset.FrameRate),
		"-b:v", fmt.Sprintf("%dk", preset.BitrateK),
		"-c:v", codecFor(preset.Container),
		"-pix_fmt", "yuv420p",
	}
	if clip.Speed != 1 {
		args = append(args, "-af", fmt.Sprintf("atempo=%g", clip.Speed))
	}
	args = append(args, e.segmentPath(seg.Index))

	return e.runFFmpeg(ctx, args)
}

// videoFilter builds the -vf chain: scale with aspect padding, plus a
// setpts speed adjustment when needed.
func (e *FFmpegEncoder) videoFilter(seg Segment) string {
	preset := seg.Preset
	filters := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", preset.Width, preset.Height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", preset.Width, preset.Height),
	}
	if seg.Clip.Speed != 1 {
		filters = append(filters, fmt.Sprintf("setpts=PTS/%g", seg.Clip.Speed))
	}
	return strings.Join(filters, ",")
}

// Mux concatenates the encoded segments into the output container.
func (e *FFmpegEncoder) Mux(ctx context.Context, sess timeline.Session, preset Preset, outPath string) error {
	listPath, err := e.writeConcatList(len(sess.Clips))
	if err != nil {
		return err
	}
	return e.runFFmpeg(ctx, muxArgs(listPath, preset, outPath))
}

// muxArgs builds the concat argv. Segments already carry the preset's codec
// and bitrate, so mp4/mov remux with a stream copy. WebM re-encodes: the
// mpegts intermediates cannot carry vp9.
func muxArgs(listPath string, preset Preset, outPath string) []string {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
	}
	if preset.Container == ContainerWebM {
		args = append(args,
			"-c:v", codecFor(preset.Container),
			"-b:v", fmt.Sprintf("%dk", preset.BitrateK),
		)
	} else {
		args = append(args, "-c", "copy", "-movflags", "+faststart")
	}
	return append(args, outPath)
}

// codecFor maps a container to its video codec.
func codecFor(c Container) string {
	if c == ContainerWebM {
		return "libvpx-vp9"
	}
	return "libx264"
}

// runFFmpeg executes ffmpeg with the given argv, canceled with the context.
func (e *FFmpegEncoder) runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, e.bin(), args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, lastLine(out))
	}
	return nil
}

// lastLine extracts the final non-empty line of encoder output, where
// ffmpeg puts its error message.
func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

// msToSeconds formats a millisecond timestamp as ffmpeg seconds.
func msToSeconds(ms int64) string {
	return fmt.Sprintf("%.3f", float64(ms)/1000)
}

// writeConcatList writes the concat demuxer input listing every segment in
// order.
func (e *FFmpegEncoder) writeConcatList(count int) (string, error) {
	var b strings.Builder
	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, "file '%s'\n", e.segmentPath(i))
	}
	listPath := filepath.Join(e.TempDir, "concat.txt")
	if err := os.WriteFile(listPath, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return listPath, nil
}
