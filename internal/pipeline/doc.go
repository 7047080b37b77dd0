// Package pipeline implements the Markdown-to-HTML conversion stages.
//
// The heart of the package is the line compiler, CompileLine, which runs a
// fixed sequence of span transforms over a single line of text:
//
//	header, bold (**), bold (__), italic (*), italic (_),
//	strikethrough (~~), inline code, image, link
//
// Each transform scans raw text and rewrites only its own delimiters, so the
// order is part of the contract: bold must see "**" before italic sees "*",
// and images must be matched before links strip their [alt](url) suffix.
// Malformed spans are never an error; their delimiters are kept literally.
//
// Around the line compiler the package provides the document stages:
//   - line ending normalization (LinePreprocessor)
//   - fence tracking, paragraphs and concurrent line compilation (LineEngine)
//   - optional chroma highlighting of fenced code (Highlighter)
//   - a goldmark-based engine for full CommonMark input (GoldmarkEngine)
//   - image path rewriting, document wrapping and CSS injection
package pipeline
