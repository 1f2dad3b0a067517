package constants

import "strings"

// Statement file formats accepted by the text extractor.
const (
	PDF  = "PDF"
	CSV  = "CSV"
	TXT  = "TXT"
	XLS  = "XLS"
	XLSX = "XLSX"
)

// FileTypes holds the allowed formats for the statement format field.
var FileTypes = []string{PDF, CSV, TXT, XLS, XLSX}

// AllowedExtensions holds the default allowed file extensions for statement uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"csv":  {},
	"txt":  {},
	"xls":  {},
	"xlsx": {},
}

// AllowedMIMETypes mirrors the upload surface's MIME allowlist.
var AllowedMIMETypes = map[string]struct{}{
	"application/pdf":          {},
	"text/csv":                 {},
	"text/plain":               {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to its statement format,
// returning "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "csv":
		return CSV
	case "txt":
		return TXT
	case "xls":
		return XLS
	case "xlsx":
		return XLSX
	default:
		return ""
	}
}
