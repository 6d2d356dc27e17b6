// Package layout resolves the on-canvas geometry of keys and shifts a
// keyboard into a non-negative, padded viewport.
//
// # Key Bounds
//
// [Corners] returns the eight corners of a key (four for the primary
// rectangle, four for the secondary rectangle offset by X2/Y2), each turned
// about the key's rotation pivot. [KeyBounds] reduces them to an axis-aligned
// box. Corner extremes always contain the rotated rectangles, so the box can
// over-estimate a key's silhouette but never under-estimate it.
//
// # Normalization
//
// [Normalize] folds the bounds of every key into one box and translates all
// keys so the box's minimum corner lands at the padding offset:
//
//	vp, err := layout.Normalize(kb, layout.DefaultPadding)
//	// every corner of every key now lies in [padding, vp.Width-padding]
//
// Normalization mutates the keyboard in place and may run only once per
// keyboard. A second call returns [errors.ErrCodeAlreadyNormalized];
// [Translate] is the raw shift for callers that really want to move a
// keyboard again.
//
// An empty keyboard yields a minimum viewport of 2×padding on each side
// (1×1 when padding is zero) instead of an infinite box.
package layout
