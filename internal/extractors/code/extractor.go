// Package code extracts source files with structure-aware segmentation so
// chunk breaks align with function and class boundaries rather than
// arbitrary character counts.
package code

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles source code files.
//
// Go files are parsed into an AST and emitted one top-level declaration per
// unit, methods annotated with their receiver type. Other languages fall
// back to a line-based scan that starts a new unit at each declaration
// matched by a per-language regex.
type Extractor struct{}

// New creates a new code extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	exts := make([]string, 0, len(declPatterns)+1)
	exts = append(exts, ".go")
	for ext := range declPatterns {
		exts = append(exts, ext)
	}
	return exts
}

// Extract segments the source into declaration-aligned units.
func (e *Extractor) Extract(_ context.Context, file *domain.RawFile) (*domain.Extraction, error) {
	source := string(file.Content)
	ext := strings.ToLower(filepath.Ext(file.Filename))

	var (
		units    []string
		warnings []string
	)

	if ext == ".go" {
		var err error
		units, err = goUnits(file.Filename, source)
		if err != nil {
			// Broken Go source still gets indexed, just without AST structure.
			logger.Warn("Code %s: AST parse failed, falling back to line scan: %v", file.Filename, err)
			warnings = append(warnings, fmt.Sprintf("ast parse failed: %v", err))
			units = scanUnits(source, genericDeclPattern)
		}
	} else {
		pattern := declPatterns[ext]
		if pattern == nil {
			pattern = genericDeclPattern
		}
		units = scanUnits(source, pattern)
	}

	return &domain.Extraction{
		Text:     strings.TrimSpace(source),
		Units:    units,
		Mode:     domain.ChunkModeCode,
		Warnings: warnings,
	}, nil
}

// goUnits parses Go source and returns one unit per top-level declaration.
// Methods are prefixed with a comment naming the receiver type so the
// embedding retains the enclosing-type context after chunking.
func goUnits(filename, source string) ([]string, error) {
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, filename, source, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(source, "\n")
	units := make([]string, 0, len(parsed.Decls))

	for _, decl := range parsed.Decls {
		start := fset.Position(decl.Pos()).Line - 1
		end := fset.Position(decl.End()).Line
		if start < 0 || end > len(lines) {
			continue
		}
		unit := strings.Join(lines[start:end], "\n")

		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv != nil && len(fn.Recv.List) > 0 {
			if recv := receiverType(fn.Recv.List[0].Type); recv != "" {
				unit = "// method of " + recv + "\n" + unit
			}
		}

		if strings.TrimSpace(unit) != "" {
			units = append(units, unit)
		}
	}
	return units, nil
}

// receiverType names the receiver's base type, stripping any pointer.
func receiverType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverType(t.X)
	case *ast.IndexExpr:
		return receiverType(t.X)
	case *ast.IndexListExpr:
		return receiverType(t.X)
	default:
		return ""
	}
}

// Per-language declaration patterns for the line-based fallback.
// Each matches the first line of a top-level function, class, or type.
var declPatterns = map[string]*regexp.Regexp{
	".py":    regexp.MustCompile(`^(def |class |async def )`),
	".js":    regexp.MustCompile(`^(function |class |const \w+ = |export (default )?(function |class |const ))`),
	".ts":    regexp.MustCompile(`^(function |class |interface |type |const \w+ = |export )`),
	".jsx":   regexp.MustCompile(`^(function |class |const \w+ = |export )`),
	".tsx":   regexp.MustCompile(`^(function |class |interface |type |const \w+ = |export )`),
	".java":  regexp.MustCompile(`^\s{0,4}(public |private |protected |class |interface |enum |static )`),
	".cs":    regexp.MustCompile(`^\s{0,4}(public |private |protected |internal |class |interface |namespace |static )`),
	".c":     regexp.MustCompile(`^\w[\w\s\*]*\([^;]*$|^(struct |enum |typedef |union )`),
	".cpp":   regexp.MustCompile(`^\w[\w\s\*:<>~]*\([^;]*$|^(class |struct |enum |namespace |template)`),
	".h":     regexp.MustCompile(`^\w[\w\s\*]*\(|^(struct |enum |typedef |union |class )`),
	".rb":    regexp.MustCompile(`^(def |class |module )`),
	".rs":    regexp.MustCompile(`^(pub )?(fn |struct |enum |impl |trait |mod )`),
	".php":   regexp.MustCompile(`^\s{0,4}(function |class |interface |trait |public |private |protected )`),
	".sh":    regexp.MustCompile(`^\w+\s*\(\)\s*\{|^function `),
	".swift": regexp.MustCompile(`^(func |class |struct |enum |extension |protocol )`),
	".kt":    regexp.MustCompile(`^(fun |class |interface |object |data class )`),
}

// genericDeclPattern is the last-resort boundary: a non-indented line
// following an indented block usually starts a new top-level construct.
var genericDeclPattern = regexp.MustCompile(`^\S`)

// scanUnits splits source into units starting at each declaration line.
// Leading material before the first declaration forms its own unit.
func scanUnits(source string, pattern *regexp.Regexp) []string {
	lines := strings.Split(source, "\n")

	var units []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			if unit := strings.Join(current, "\n"); strings.TrimSpace(unit) != "" {
				units = append(units, unit)
			}
			current = nil
		}
	}

	for _, line := range lines {
		if pattern.MatchString(line) && len(current) > 0 {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return units
}
