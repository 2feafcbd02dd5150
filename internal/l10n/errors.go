package l10n

import "errors"

var (
	// ErrUnknownOverlayPolicy indicates an overlay policy outside the known set.
	ErrUnknownOverlayPolicy = errors.New("l10n: unknown overlay policy")
	// ErrInvalidLanguageID indicates a language id below -1.
	ErrInvalidLanguageID = errors.New("l10n: language id must be >= -1")
)
