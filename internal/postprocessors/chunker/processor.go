// Package chunker provides a structure-aware text chunking processor.
//
// Prose extractions are split on sentence boundaries and packed into chunks
// of roughly chunkSize characters, with the tail sentences of each chunk
// repeated at the head of the next to preserve context across the seam.
// Code extractions are packed whole declaration units at a time so chunk
// breaks fall between functions rather than inside them.
package chunker

import (
	"context"
	"regexp"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// Processor splits extracted text into overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the extraction into chunks.
// Input chunks are ignored; this processor creates new chunks.
func (p *Processor) Process(_ context.Context, documentID string, ext *domain.Extraction, _ []domain.Chunk) ([]domain.Chunk, error) {
	var texts []string
	switch ext.Mode {
	case domain.ChunkModeCode:
		texts = p.codeChunks(ext)
	default:
		texts = p.proseChunks(ext.Text)
	}

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(documentID, i),
			DocumentID: documentID,
			Ordinal:    i,
			Text:       text,
			Metadata:   map[string]any{"mode": ext.Mode.String()},
		})
	}
	return chunks, nil
}

// proseChunks packs sentences into chunks of at most chunkSize characters.
// Each chunk after the first starts with the trailing sentences of the
// previous chunk, up to the overlap budget. A single sentence longer than
// chunkSize is split further on word boundaries so no chunk exceeds the
// bound. The window always advances by at least one sentence so chunking
// terminates on any input.
func (p *Processor) proseChunks(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	i := 0
	for i < len(sentences) {
		size := 0
		j := i
		for j < len(sentences) {
			n := len(sentences[j])
			if j > i {
				n++ // joining space
			}
			if size+n > p.chunkSize && j > i {
				break
			}
			size += n
			j++
		}

		if j == i+1 && len(sentences[i]) > p.chunkSize {
			chunks = append(chunks, p.splitWords(sentences[i])...)
		} else {
			chunks = append(chunks, strings.Join(sentences[i:j], " "))
		}
		if j >= len(sentences) {
			break
		}

		// Backtrack into the emitted chunk for overlap, but never so far
		// that the next chunk starts where this one did.
		next := j
		overlapLen := 0
		for next > i+1 {
			n := len(sentences[next-1]) + 1
			if overlapLen+n > p.overlap {
				break
			}
			overlapLen += n
			next--
		}
		i = next
	}
	return chunks
}

// splitWords breaks an oversized sentence on word boundaries, carrying the
// trailing words of each piece into the next within the overlap budget.
// Only a single word longer than chunkSize can still exceed the bound.
func (p *Processor) splitWords(sentence string) []string {
	words := strings.Fields(sentence)

	var chunks []string
	i := 0
	for i < len(words) {
		size := 0
		j := i
		for j < len(words) {
			n := len(words[j])
			if j > i {
				n++ // joining space
			}
			if size+n > p.chunkSize && j > i {
				break
			}
			size += n
			j++
		}

		chunks = append(chunks, strings.Join(words[i:j], " "))
		if j >= len(words) {
			break
		}

		next := j
		overlapLen := 0
		for next > i+1 {
			n := len(words[next-1]) + 1
			if overlapLen+n > p.overlap {
				break
			}
			overlapLen += n
			next--
		}
		i = next
	}
	return chunks
}

// codeChunks packs declaration units whole. A unit larger than chunkSize
// is split on line boundaries with line-level overlap instead.
func (p *Processor) codeChunks(ext *domain.Extraction) []string {
	units := ext.Units
	if len(units) == 0 {
		if strings.TrimSpace(ext.Text) == "" {
			return nil
		}
		units = []string{ext.Text}
	}

	var chunks []string
	var current []string
	size := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = nil
			size = 0
		}
	}

	for _, unit := range units {
		if strings.TrimSpace(unit) == "" {
			continue
		}
		if len(unit) > p.chunkSize {
			flush()
			chunks = append(chunks, p.splitLines(unit)...)
			continue
		}
		if size > 0 && size+len(unit)+2 > p.chunkSize {
			flush()
		}
		current = append(current, unit)
		size += len(unit) + 2
	}
	flush()

	return chunks
}

// splitLines breaks an oversized unit on line boundaries, carrying the
// trailing lines of each piece into the next within the overlap budget.
func (p *Processor) splitLines(unit string) []string {
	lines := strings.Split(unit, "\n")

	var chunks []string
	i := 0
	for i < len(lines) {
		size := 0
		j := i
		for j < len(lines) {
			n := len(lines[j])
			if j > i {
				n++ // newline
			}
			if size+n > p.chunkSize && j > i {
				break
			}
			size += n
			j++
		}

		chunks = append(chunks, strings.Join(lines[i:j], "\n"))
		if j >= len(lines) {
			break
		}

		next := j
		overlapLen := 0
		for next > i+1 {
			n := len(lines[next-1]) + 1
			if overlapLen+n > p.overlap {
				break
			}
			overlapLen += n
			next--
		}
		i = next
	}
	return chunks
}

// sentenceBoundary matches a sentence terminator followed by whitespace,
// allowing closing quotes or brackets between the two.
var sentenceBoundary = regexp.MustCompile(`[.!?]+["')\]]*\s+`)

// abbreviations that end with a period without ending the sentence.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "sr": {}, "jr": {},
	"st": {}, "vs": {}, "etc": {}, "fig": {}, "al": {}, "inc": {}, "ltd": {},
	"co": {}, "no": {}, "vol": {}, "pp": {}, "approx": {}, "dept": {},
	"e.g": {}, "i.e": {},
}

// splitSentences splits prose into sentences on terminator punctuation,
// keeping common abbreviations and single-letter initials attached to the
// sentence they appear in.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		candidate := text[start:loc[1]]
		if endsWithAbbreviation(candidate) {
			continue
		}
		if s := strings.TrimSpace(candidate); s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}

	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// endsWithAbbreviation reports whether the candidate's final token is an
// abbreviation or initial rather than a true sentence ending.
func endsWithAbbreviation(candidate string) bool {
	trimmed := strings.TrimRight(strings.TrimSpace(candidate), `."')]`)
	if trimmed == "" {
		return false
	}

	fields := strings.Fields(trimmed)
	last := strings.ToLower(fields[len(fields)-1])

	if len(last) == 1 && last[0] >= 'a' && last[0] <= 'z' {
		return true // initial like "J."
	}
	_, ok := abbreviations[last]
	return ok
}
