package content

import "strings"

// documentMarkers identify document MIME types that do not share a prefix.
var documentMarkers = []string{"pdf", "document", "msword", "spreadsheet", "presentation"}

// fileFlags holds attachment flags derived from file metadata.
type fileFlags struct {
	images, documents, audio, video bool
	count                           int
	totalSize                       int64
}

// classifyFiles derives attachment flags from MIME types. MIME types are
// matched case-insensitively and parameters (";charset=...") are ignored.
func classifyFiles(files []FileMeta) fileFlags {
	var f fileFlags
	for _, file := range files {
		f.count++
		if file.Size > 0 {
			f.totalSize += file.Size
		}

		mime := normalizeMIME(file.Type)
		switch {
		case strings.HasPrefix(mime, "image/"):
			f.images = true
		case strings.HasPrefix(mime, "audio/"):
			f.audio = true
		case strings.HasPrefix(mime, "video/"):
			f.video = true
		case isDocument(mime):
			f.documents = true
		}
	}
	return f
}

func isDocument(mime string) bool {
	if strings.HasPrefix(mime, "text/") {
		return true
	}
	for _, marker := range documentMarkers {
		if strings.Contains(mime, marker) {
			return true
		}
	}
	return false
}

func normalizeMIME(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}
