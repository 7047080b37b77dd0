package md2html

import (
	"errors"

	"github.com/alnah/go-md2html/internal/assets"
	"github.com/alnah/go-md2html/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrHTMLConversion   = pipeline.ErrHTMLConversion
	ErrInvalidEngine    = errors.New("invalid engine")
	ErrInvalidWorkers   = errors.New("invalid worker count")
	ErrDecodeInput      = errors.New("cannot decode markdown input")
	ErrPoolClosed       = errors.New("converter pool is closed")
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
