package domain

// RawFile is an uploaded file before extraction.
type RawFile struct {
	// Filename is the client-supplied name, not yet sanitised.
	Filename string

	// Content is the file bytes.
	Content []byte
}

// UploadMetadata carries caller-supplied attributes applied to the document.
type UploadMetadata struct {
	Category   string
	Tags       []string
	FolderPath string
}

// Extraction is the output of the extraction layer: plain text plus
// structural hints the chunker can use.
type Extraction struct {
	// Text is the extracted plain text.
	Text string

	// Units are structure-aware segments (one per function/class for code,
	// one per slide or sheet for decks and workbooks). Empty when the format
	// has no useful structure; the chunker then treats Text as prose.
	Units []string

	// Mode tells the chunker how to split this text.
	Mode ChunkMode

	// Warnings are non-fatal extraction problems (e.g. an unreadable page).
	Warnings []string
}

// ChunkMode selects the boundary rules the chunker applies.
type ChunkMode int

const (
	// ChunkModeProse splits on sentence boundaries.
	ChunkModeProse ChunkMode = iota

	// ChunkModeCode splits on the declaration boundaries in Extraction.Units.
	ChunkModeCode
)

// String returns the mode name stored in chunk metadata.
func (m ChunkMode) String() string {
	if m == ChunkModeCode {
		return "code"
	}
	return "prose"
}
