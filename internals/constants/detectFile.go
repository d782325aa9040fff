package constants

import (
	"path/filepath"
	"strings"
)

type FileKind int

const (
	FileKindImage   FileKind = 1
	FileKindPDF     FileKind = 2
	FileKindDoc     FileKind = 3
	FileKindUnknown FileKind = 99
)

// DetectFileKind dari ekstensi; dipakai File Store untuk memilih jalur konversi.
func DetectFileKind(filename string) FileKind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return FileKindImage
	case ".pdf":
		return FileKindPDF
	case ".doc", ".docx":
		return FileKindDoc
	default:
		return FileKindUnknown
	}
}

// AllowedDocumentExt: file hasil layanan dokumen (surat) yang boleh diunggah admin.
func AllowedDocumentExt(filename string) bool {
	return DetectFileKind(filename) != FileKindUnknown
}
