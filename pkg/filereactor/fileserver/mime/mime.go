// Package mime is the static extension-to-media-type lookup table
// fileserver.Resolve consults to set the Content-Type of a served file.
package mime

// defaultMime is returned for unknown or missing extensions.
const defaultMime = "application/octet-stream"

// DefaultHTML is used when the request path has no extension at all (the
// last path segment contains no '.').
const DefaultHTML = "text/html"

var table = map[string]string{
	"aac":   "audio/aac",
	"arc":   "application/x-freearc",
	"avi":   "video/x-msvideo",
	"bin":   "application/octet-stream",
	"bmp":   "image/bmp",
	"bz":    "application/x-bzip",
	"bz2":   "application/x-bzip2",
	"css":   "text/css",
	"csv":   "text/csv",
	"doc":   "application/msword",
	"docx":  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"eot":   "application/vnd.ms-fontobject",
	"epub":  "application/epub+zip",
	"gif":   "image/gif",
	"htm":   "text/html",
	"html":  "text/html",
	"ico":   "image/vnd.microsoft.icon",
	"jpeg":  "image/jpeg",
	"jpg":   "image/jpeg",
	"js":    "text/javascript",
	"json":  "application/json",
	"mjs":   "text/javascript",
	"mp3":   "audio/mpeg",
	"mp4":   "video/mp4",
	"mpeg":  "video/mpeg",
	"otf":   "font/otf",
	"png":   "image/png",
	"pdf":   "application/pdf",
	"ppt":   "application/vnd.ms-powerpoint",
	"rar":   "application/x-rar-compressed",
	"svg":   "image/svg+xml",
	"tar":   "application/x-tar",
	"ttf":   "font/ttf",
	"txt":   "text/plain",
	"wav":   "audio/wav",
	"weba":  "audio/webm",
	"webm":  "video/webm",
	"webp":  "image/webp",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"xml":   "text/xml",
	"zip":   "application/zip",
}

// Lookup returns the media type for ext (without the leading dot). Unknown
// extensions return the generic octet-stream default.
func Lookup(ext string) string {
	if v, ok := table[ext]; ok {
		return v
	}
	return defaultMime
}
