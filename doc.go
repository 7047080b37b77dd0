// Package md2html converts a restricted Markdown dialect to HTML.
//
// # Quick Start
//
// Compile a single line:
//
//	md2html.CompileLine("# **Hi**") // "<h1> <b>Hi</b></h1>"
//
// Convert a whole document:
//
//	conv, err := md2html.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, md2html.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.html", result.HTML, 0644)
//
// # Line Compiler
//
// Each line passes through nine span transforms in a fixed order: header,
// bold (**), bold (__), italic (*), italic (_), strikethrough (~~, emitted
// as <ins>), inline code, image, link. Every transform sees the output of
// the previous one, so markup produced early can be rewritten later. The
// compiler is total: it never fails and never panics. Use TraceLine to see
// the line after each stage.
//
// # Conversion Pipeline
//
//  1. Line-ending normalization
//  2. Engine: the line engine (fence tracking, concurrent line compilation,
//     paragraph wrapping, optional chroma highlighting) or goldmark
//  3. Relative image sources resolved against Input.SourceDir
//  4. HTML5 document wrapper and CSS injection, skipped for fragments
//
// # Configuration
//
//	conv, err := md2html.NewConverter(
//	    md2html.WithStyle("plain"),
//	    md2html.WithHighlight(true),
//	    md2html.WithAssetPath("/path/to/assets"),
//	)
//
// A custom asset directory provides styles as {path}/styles/{name}.css and
// falls back to the embedded styles for names it does not define.
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool:
//
//	pool := md2html.NewConverterPool(md2html.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
package md2html
