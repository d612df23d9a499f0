package constants

import "strings"

// ReceiptKind is the stored kind of an uploaded receipt (comprobante).
type ReceiptKind string

const (
	ReceiptKindImage ReceiptKind = "img"
	ReceiptKindPDF   ReceiptKind = "pdf"
)

// AllowedExtensions holds the file extensions accepted for receipt uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// ReceiptFilePrefix prefixes every stored receipt file name.
const ReceiptFilePrefix = "comp_"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// AllowedExt reports whether ext (with or without the dot) is accepted for receipts.
func AllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// KindForExt maps an allowed extension to its receipt kind.
func KindForExt(ext string) ReceiptKind {
	if NormalizeExt(ext) == "pdf" {
		return ReceiptKindPDF
	}
	return ReceiptKindImage
}
