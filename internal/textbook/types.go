package textbook

// UploadedFile is a textbook file supplied by the caller: a PDF or a page
// image. RawContent is base64-encoded and may carry a data-URI prefix
// (browsers produce "data:<mime>;base64,<payload>" from FileReader).
// The record is immutable and owned by the caller.
type UploadedFile struct {
	Name       string `json:"name"`
	MIMEType   string `json:"mimeType"`
	RawContent string `json:"rawContent"`
}
