package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the file types the extractor understands.
var SupportedExtensions = []string{".txt", ".md", ".pdf", ".docx"}

// Supported reports whether the filename has an extractable extension.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Text extracts plain text from the file content based on its extension.
func Text(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return plainText(filename, data)
	case ".pdf":
		return pdfText(filename, data)
	case ".docx":
		return docxText(filename, data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filename)
	}
}
