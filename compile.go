package md2html

import (
	"fmt"

	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/pipeline"
)

// StageOutput records one compiler stage applied to a line.
type StageOutput = pipeline.StageOutput

// CompileLine converts one line of Markdown into an HTML fragment.
// It never fails: input that matches no construct is returned unchanged.
func CompileLine(line string) string {
	return pipeline.CompileLine(line)
}

// TraceLine compiles line and returns the output of every stage in order.
// The last entry's Line equals CompileLine(line).
func TraceLine(line string) []StageOutput {
	return pipeline.TraceLine(line)
}

// DecodeMarkdown converts raw file bytes into Markdown text, handling a
// UTF-8 BOM and BOM-marked UTF-16 input.
func DecodeMarkdown(data []byte) (string, error) {
	text, err := fileutil.DecodeText(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecodeInput, err)
	}
	return text, nil
}
