package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"convert-mastery/internal/domain/dto"
	consts "convert-mastery/pkg/constants"
	"convert-mastery/pkg/helper"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	server := flag.String("server", "http://localhost:5000", "Server base URL")
	filePath := flag.String("file", "", "Image or video to convert")
	format := flag.String("format", consts.DefaultVideoFormat, "Target video format")
	jobID := flag.String("job", "", "Job id for the progress stream (random when empty)")
	flag.Parse()

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	if *filePath == "" {
		log.Fatal("-file is required")
	}
	base := strings.TrimRight(*server, "/")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case helper.IsImageFile(*filePath):
		var resp dto.OCRResponse
		if err := upload(ctx, base+"/api/convert-image", consts.FieldImage, *filePath, nil, &resp); err != nil {
			log.Fatal("OCR failed", zap.Error(err))
		}
		fmt.Println(resp.Text)

	case helper.IsVideoFile(*filePath):
		if strings.TrimSpace(*jobID) == "" {
			*jobID = uuid.NewString()
		}
		fmt.Printf("Server: %s\nFile: %s\nJob: %s\n", base, filepath.Base(*filePath), *jobID)

		streamCtx, cancelStream := context.WithCancel(ctx)
		defer cancelStream()
		go func() {
			err := followProgress(streamCtx, base+"/api/progress?"+consts.QueryJobID+"="+*jobID, func(p int) {
				fmt.Printf("\rProgress: %3d%%", p)
			})
			if err != nil && streamCtx.Err() == nil {
				log.Warn("Progress stream ended", zap.Error(err))
			}
		}()

		var resp dto.ConvertVideoResponse
		fields := map[string]string{consts.FieldFormat: *format, consts.FieldJobID: *jobID}
		if err := upload(ctx, base+"/api/convert-video", consts.FieldVideo, *filePath, fields, &resp); err != nil {
			log.Fatal("Conversion failed", zap.Error(err))
		}
		cancelStream()
		fmt.Printf("\nConverted: %s\n", resp.URL)

	default:
		log.Fatal("Unsupported file type", zap.String("file", *filePath))
	}
}

// upload posts path as a multipart file and decodes a 200 response into out.
func upload(ctx context.Context, target, field, path string, fields map[string]string, out any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return err
		}
	}
	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var e dto.ErrorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			if e.Details != "" {
				return fmt.Errorf("HTTP %d: %s (%s)", resp.StatusCode, e.Error, e.Details)
			}
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("HTTP %d %s", resp.StatusCode, string(raw))
	}
	return json.Unmarshal(raw, out)
}

func followProgress(ctx context.Context, target string, onProgress func(int)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return readProgressFrames(resp.Body, onProgress)
}
