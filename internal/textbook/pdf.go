package textbook

import (
	"bytes"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFInfo summarizes an uploaded PDF for upload-time validation and logging.
type PDFInfo struct {
	Pages   int    `json:"pages"`
	Preview string `json:"preview"`
}

// previewLimit caps the extracted text preview length.
const previewLimit = 400

// InspectPDF reads raw PDF bytes and reports the page count plus a short
// plain-text preview from the opening pages. Scanned PDFs without a text
// layer yield an empty preview, which is not an error.
func InspectPDF(raw []byte) (PDFInfo, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return PDFInfo{}, fmt.Errorf("read pdf: %w", err)
	}

	info := PDFInfo{Pages: reader.NumPage()}

	var buf strings.Builder
	for i := 1; i <= info.Pages && buf.Len() < previewLimit; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
	}

	preview := strings.TrimSpace(buf.String())
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}
	info.Preview = preview

	return info, nil
}
