package processor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const stderrTailLines = 40

// CodecData describes the input stream as ffmpeg reports it before encoding
// starts.
type CodecData struct {
	Format       string
	Duration     string
	Audio        string
	AudioDetails string
	Video        string
	VideoDetails string
}

// Progress is one "frame=... time=..." status line.
type Progress struct {
	Frames      int64
	CurrentFPS  float64
	CurrentKbps float64
	TargetSize  string
	Timemark    string
	Speed       string
}

// EventHandler receives transcoding events in the order ffmpeg emits them.
// CodecData is delivered at most once and always before the first Progress.
type EventHandler interface {
	OnCodecData(CodecData)
	OnProgress(Progress)
}

// TranscodeError keeps the process output so callers can log it next to the
// failure.
type TranscodeError struct {
	Err    error
	Stdout string
	Stderr string
}

func (e *TranscodeError) Error() string {
	return e.Err.Error()
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}

// Transcoder wraps the ffmpeg CLI.
type Transcoder struct {
	Binary  string
	Timeout time.Duration
	Logger  *zap.Logger
}

func NewTranscoder(binary string, timeout time.Duration, logger *zap.Logger) *Transcoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcoder{Binary: binary, Timeout: timeout, Logger: logger}
}

// Transcode converts src into dst, letting ffmpeg pick the container and
// codecs from dst's extension. An existing dst is overwritten.
func (t *Transcoder) Transcode(ctx context.Context, src, dst string, h EventHandler) error {
	if src == "" || dst == "" {
		return errors.New("source and destination are required")
	}
	binary := t.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary, "-y", "-i", src, dst)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stderr pipe: %w", err)
	}

	t.Logger.Debug("Starting ffmpeg", zap.String("src", src), zap.String("dst", dst))
	if err := cmd.Start(); err != nil {
		return &TranscodeError{Err: fmt.Errorf("cannot run ffmpeg: %w", err)}
	}

	tail := NewLineTail(stderrTailLines)
	ScanEvents(stderr, h, tail)
	waitErr := cmd.Wait()

	if waitErr == nil {
		return nil
	}

	var cause error
	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		cause = fmt.Errorf("ffmpeg was killed: %w", ctx.Err())
	case errors.As(waitErr, &exitErr):
		cause = fmt.Errorf("ffmpeg exited with code %d: %s", exitErr.ExitCode(), tail.Last())
	default:
		cause = fmt.Errorf("ffmpeg: %w", waitErr)
	}
	return &TranscodeError{Err: cause, Stdout: stdout.String(), Stderr: tail.String()}
}

var (
	inputRe     = regexp.MustCompile(`^Input #\d+, ([^,]+),`)
	durationRe  = regexp.MustCompile(`Duration: ([^,]+)`)
	audioRe     = regexp.MustCompile(`Audio: (.*)`)
	videoRe     = regexp.MustCompile(`Video: (.*)`)
	keyValueRe  = regexp.MustCompile(`(\w+)=\s*(\S+)`)
	endOfInputs = []string{"Output #", "Stream mapping:", "Press [q]"}
)

// ScanEvents reads ffmpeg's stderr and reports codec data and progress to h.
// Lines end at either '\r' or '\n'. Every line is recorded in tail when it is
// non-nil.
func ScanEvents(r io.Reader, h EventHandler, tail *LineTail) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(scanLines)

	var (
		codec     CodecData
		inInput   bool
		codecSent bool
	)
	flushCodec := func() {
		if codecSent || !inInput {
			return
		}
		codecSent = true
		if h != nil {
			h.OnCodecData(codec)
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if tail != nil {
			tail.Add(line)
		}

		if !codecSent {
			if m := inputRe.FindStringSubmatch(line); m != nil {
				if !inInput {
					inInput = true
					codec.Format = m[1]
				}
				continue
			}
			if inInput {
				if hasAnyPrefix(line, endOfInputs) {
					flushCodec()
					continue
				}
				if m := durationRe.FindStringSubmatch(line); m != nil && codec.Duration == "" {
					codec.Duration = strings.TrimSpace(m[1])
					continue
				}
				if strings.HasPrefix(line, "Stream #") {
					if m := videoRe.FindStringSubmatch(line); m != nil && codec.Video == "" {
						codec.Video, codec.VideoDetails = splitCodec(m[1])
					} else if m := audioRe.FindStringSubmatch(line); m != nil && codec.Audio == "" {
						codec.Audio, codec.AudioDetails = splitCodec(m[1])
					}
					continue
				}
			}
		}

		if strings.HasPrefix(line, "frame=") || strings.HasPrefix(line, "size=") {
			flushCodec()
			if p, ok := parseProgressLine(line); ok && h != nil {
				h.OnProgress(p)
			}
		}
	}
	flushCodec()

	if err := scanner.Err(); err != nil {
		if tail != nil {
			tail.Add("stderr scan stopped: " + err.Error())
		}
		// Keep draining so ffmpeg never blocks on a full stderr pipe.
		_, _ = io.Copy(io.Discard, r)
	}
}

func parseProgressLine(line string) (Progress, bool) {
	var p Progress
	for _, m := range keyValueRe.FindAllStringSubmatch(line, -1) {
		value := m[2]
		switch m[1] {
		case "frame":
			p.Frames, _ = strconv.ParseInt(value, 10, 64)
		case "fps":
			p.CurrentFPS, _ = strconv.ParseFloat(value, 64)
		case "size", "Lsize":
			p.TargetSize = value
		case "time":
			p.Timemark = value
		case "bitrate":
			p.CurrentKbps, _ = strconv.ParseFloat(strings.TrimSuffix(value, "kbits/s"), 64)
		case "speed":
			p.Speed = value
		}
	}
	return p, p.Timemark != ""
}

func splitCodec(s string) (string, string) {
	name, details, _ := strings.Cut(s, ",")
	return strings.TrimSpace(name), strings.TrimSpace(details)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// LineTail keeps the last n lines written to it.
type LineTail struct {
	lines []string
	next  int
	full  bool
}

func NewLineTail(n int) *LineTail {
	return &LineTail{lines: make([]string, n)}
}

func (t *LineTail) Add(line string) {
	t.lines[t.next] = line
	t.next = (t.next + 1) % len(t.lines)
	if t.next == 0 {
		t.full = true
	}
}

func (t *LineTail) Last() string {
	if !t.full && t.next == 0 {
		return ""
	}
	return t.lines[(t.next-1+len(t.lines))%len(t.lines)]
}

func (t *LineTail) String() string {
	var out []string
	if t.full {
		out = append(out, t.lines[t.next:]...)
	}
	out = append(out, t.lines[:t.next]...)
	return strings.Join(out, "\n")
}

// EnsureBinary checks whether ffmpeg is available on PATH.
func EnsureBinary(binary string) error {
	if binary == "" {
		binary = "ffmpeg"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("ffmpeg binary not found (%s): %w", binary, err)
	}
	return nil
}
