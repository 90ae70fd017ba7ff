package textbook

import (
	"fmt"
	"strings"

	"github.com/sranjan/examforge/internal/llm"
)

// Extract converts uploaded files into inline content blocks ready for
// transmission to the model. It is a pure transformation: any data-URI
// header is stripped, leaving only the base64 payload. No network calls
// and no parsing of textbook structure happen here.
func Extract(files []UploadedFile) ([]llm.ContentBlock, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to extract")
	}

	blocks := make([]llm.ContentBlock, 0, len(files))
	for _, f := range files {
		payload := StripDataURI(f.RawContent)
		if payload == "" {
			return nil, fmt.Errorf("file %q has no content", f.Name)
		}
		blocks = append(blocks, llm.ContentBlock{
			MIMEType: f.MIMEType,
			Data:     payload,
		})
	}
	return blocks, nil
}

// StripDataURI removes a "data:<mime>;base64," prefix when present,
// returning only the encoded payload.
func StripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}
