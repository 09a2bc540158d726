package manifest

import "github.com/jamesainslie/tidy/pkg/tidy/types"

// extensionInfo maps an extension to its kind and destination category
// folder.
type extensionInfo struct {
	kind     types.Kind
	category string
}

// Category folder names used for destination computation.
const (
	CategoryDocuments = "Documents"
	CategoryImages    = "Images"
	CategoryVideos    = "Videos"
	CategoryAudio     = "Audio"
	CategoryArchives  = "Archives"
	CategoryCode      = "Code"
	CategoryInbox     = "Inbox"
)

// extensionTable is the first-pass classification signal. Lookups are
// against the lowercased extension including the dot.
var extensionTable = map[string]extensionInfo{
	// Documents
	".pdf":  {types.KindDocument, CategoryDocuments},
	".doc":  {types.KindDocument, CategoryDocuments},
	".docx": {types.KindDocument, CategoryDocuments},
	".odt":  {types.KindDocument, CategoryDocuments},
	".rtf":  {types.KindDocument, CategoryDocuments},
	".txt":  {types.KindDocument, CategoryDocuments},
	".md":   {types.KindDocument, CategoryDocuments},
	".xls":  {types.KindDocument, CategoryDocuments},
	".xlsx": {types.KindDocument, CategoryDocuments},
	".ods":  {types.KindDocument, CategoryDocuments},
	".ppt":  {types.KindDocument, CategoryDocuments},
	".pptx": {types.KindDocument, CategoryDocuments},
	".csv":  {types.KindDocument, CategoryDocuments},
	".epub": {types.KindDocument, CategoryDocuments},

	// Images
	".jpg":  {types.KindMedia, CategoryImages},
	".jpeg": {types.KindMedia, CategoryImages},
	".png":  {types.KindMedia, CategoryImages},
	".gif":  {types.KindMedia, CategoryImages},
	".webp": {types.KindMedia, CategoryImages},
	".heic": {types.KindMedia, CategoryImages},
	".svg":  {types.KindMedia, CategoryImages},
	".bmp":  {types.KindMedia, CategoryImages},
	".tiff": {types.KindMedia, CategoryImages},

	// Videos
	".mp4":  {types.KindMedia, CategoryVideos},
	".mov":  {types.KindMedia, CategoryVideos},
	".avi":  {types.KindMedia, CategoryVideos},
	".mkv":  {types.KindMedia, CategoryVideos},
	".webm": {types.KindMedia, CategoryVideos},

	// Audio
	".mp3":  {types.KindMedia, CategoryAudio},
	".wav":  {types.KindMedia, CategoryAudio},
	".flac": {types.KindMedia, CategoryAudio},
	".m4a":  {types.KindMedia, CategoryAudio},
	".ogg":  {types.KindMedia, CategoryAudio},

	// Archives
	".zip": {types.KindArchive, CategoryArchives},
	".tar": {types.KindArchive, CategoryArchives},
	".gz":  {types.KindArchive, CategoryArchives},
	".tgz": {types.KindArchive, CategoryArchives},
	".bz2": {types.KindArchive, CategoryArchives},
	".7z":  {types.KindArchive, CategoryArchives},
	".rar": {types.KindArchive, CategoryArchives},
	".xz":  {types.KindArchive, CategoryArchives},
	".dmg": {types.KindArchive, CategoryArchives},
	".iso": {types.KindArchive, CategoryArchives},

	// Code and data
	".go":    {types.KindCode, CategoryCode},
	".py":    {types.KindCode, CategoryCode},
	".js":    {types.KindCode, CategoryCode},
	".ts":    {types.KindCode, CategoryCode},
	".java":  {types.KindCode, CategoryCode},
	".c":     {types.KindCode, CategoryCode},
	".cpp":   {types.KindCode, CategoryCode},
	".h":     {types.KindCode, CategoryCode},
	".rs":    {types.KindCode, CategoryCode},
	".rb":    {types.KindCode, CategoryCode},
	".sh":    {types.KindCode, CategoryCode},
	".php":   {types.KindCode, CategoryCode},
	".swift": {types.KindCode, CategoryCode},
	".kt":    {types.KindCode, CategoryCode},
	".sql":   {types.KindCode, CategoryCode},
	".html":  {types.KindCode, CategoryCode},
	".css":   {types.KindCode, CategoryCode},
	".json":  {types.KindCode, CategoryCode},
	".yaml":  {types.KindCode, CategoryCode},
	".yml":   {types.KindCode, CategoryCode},
	".toml":  {types.KindCode, CategoryCode},
}

// lookupExtension returns the table entry for ext, if any.
func lookupExtension(ext string) (extensionInfo, bool) {
	info, ok := extensionTable[ext]
	return info, ok
}

// categoryToKind maps a classifier category string to an entry kind.
func categoryToKind(category string) types.Kind {
	switch category {
	case "document":
		return types.KindDocument
	case "media":
		return types.KindMedia
	case "archive":
		return types.KindArchive
	case "code":
		return types.KindCode
	default:
		return types.KindUnknown
	}
}
