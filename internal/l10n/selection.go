package l10n

import (
	"fmt"
	"strings"
)

const (
	// LanguageAll marks rows valid for every language.
	LanguageAll = -1
	// LanguageDefault marks default-language rows.
	LanguageDefault = 0
	// NoParent marks translations that declare no default-language parent.
	NoParent = 0
)

// OverlayPolicy controls how missing translations fall back to the default language.
type OverlayPolicy int

const (
	// OverlayNone selects the requested language only.
	OverlayNone OverlayPolicy = iota
	// OverlayOn overlays translations on default-language records.
	OverlayOn
	// OverlayOnWithFloating also admits translations without a default-language record.
	OverlayOnWithFloating
	// OverlayMixed fills untranslated gaps with default-language records.
	OverlayMixed
)

var policyNames = map[OverlayPolicy]string{
	OverlayNone:           "off",
	OverlayOn:             "on",
	OverlayOnWithFloating: "on_with_floating",
	OverlayMixed:          "mixed",
}

func (p OverlayPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("OverlayPolicy(%d)", int(p))
}

// Overlays reports whether the policy falls back to default-language content.
func (p OverlayPolicy) Overlays() bool {
	return p == OverlayOn || p == OverlayOnWithFloating || p == OverlayMixed
}

// ParseOverlayPolicy accepts off|none|on|on_with_floating|mixed (case-insensitive).
func ParseOverlayPolicy(raw string) (OverlayPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "off", "none":
		return OverlayNone, nil
	case "on":
		return OverlayOn, nil
	case "on_with_floating", "floating":
		return OverlayOnWithFloating, nil
	case "mixed":
		return OverlayMixed, nil
	default:
		return OverlayNone, fmt.Errorf("%w: %q", ErrUnknownOverlayPolicy, raw)
	}
}

// LanguageSelection is the requested language and overlay policy of one query.
type LanguageSelection struct {
	LanguageID int
	Policy     OverlayPolicy
}

// NewLanguageSelection validates and builds a selection.
func NewLanguageSelection(languageID int, policy OverlayPolicy) (LanguageSelection, error) {
	if languageID < LanguageAll {
		return LanguageSelection{}, fmt.Errorf("%w: %d", ErrInvalidLanguageID, languageID)
	}
	if _, ok := policyNames[policy]; !ok {
		return LanguageSelection{}, fmt.Errorf("%w: %d", ErrUnknownOverlayPolicy, int(policy))
	}
	return LanguageSelection{LanguageID: languageID, Policy: policy}, nil
}

// ContentLanguage reports whether a real (non default, non all) language is requested.
func (s LanguageSelection) ContentLanguage() bool {
	return s.LanguageID > LanguageDefault
}
