package main

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"convert-mastery/internal/domain/dto"
)

// readProgressFrames calls onProgress for every `data:` frame carrying a
// progress message until r is exhausted. Malformed frames are skipped.
func readProgressFrames(r io.Reader, onProgress func(int)) error {
	scanner := bufio.NewScanner(r)
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if data.Len() > 0 {
				var msg dto.ProgressMessage
				if err := json.Unmarshal([]byte(data.String()), &msg); err == nil {
					onProgress(msg.Progress)
				}
				data.Reset()
			}
			continue
		}
		if payload, ok := strings.CutPrefix(line, "data:"); ok {
			data.WriteString(strings.TrimSpace(payload))
		}
	}
	return scanner.Err()
}
