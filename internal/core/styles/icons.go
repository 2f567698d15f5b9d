package styles

// Editor glyphs. Kept plain-ASCII-adjacent so they render on terminals
// without a patched font.
var (
	GlyphDragHandle    = "≡"
	GlyphMark          = "●"
	GlyphUnmarked      = "·"
	GlyphInsertDivider = "┄"
	GlyphPendingDelete = "✕"
	GlyphSynced        = "●"
	GlyphDirty         = "○"
)
