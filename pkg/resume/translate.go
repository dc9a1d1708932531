package resume

import (
	"regexp"
	"sort"
	"strings"
)

// Fallback is the language used when a translation map has no entry for
// the requested language.
const Fallback = "en"

// langCode matches a two-letter language code such as "en" or "fr".
var langCode = regexp.MustCompile(`^[A-Za-z]{2}$`)

// IsTranslationMap reports whether m is a translation map: a non-empty
// mapping whose keys are all two-letter language codes. This is a
// heuristic - a plain object whose keys all happen to be two letters is
// indistinguishable from a translation map and will be resolved.
// An empty mapping is not a translation map (nothing to resolve).
func IsTranslationMap(m map[string]interface{}) (ok bool) {
	if len(m) == 0 {
		return ok
	}

	for key := range m {
		if !langCode.MatchString(key) {
			return ok
		}
	}

	ok = true
	return ok
}

// Resolve returns value with every translation map replaced by its entry
// for lang. The fallback chain is lang, then "en", then the first key in
// sorted order, so resolution is deterministic even when the requested
// language is absent. Objects and arrays are rebuilt with their children
// resolved; primitives pass through unchanged. Resolve never mutates its
// input.
func Resolve(value interface{}, lang string) (resolved interface{}) {
	lang = strings.ToLower(lang)

	switch v := value.(type) {
	case map[string]interface{}:
		if IsTranslationMap(v) {
			// Chosen entries may themselves contain nested translations.
			resolved = Resolve(pick(v, lang), lang)
			return resolved
		}

		out := make(map[string]interface{}, len(v))
		for key, child := range v {
			out[key] = Resolve(child, lang)
		}
		resolved = out
		return resolved
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, child := range v {
			out[i] = Resolve(child, lang)
		}
		resolved = out
		return resolved
	default:
		resolved = value
		return resolved
	}
}

// pick selects the entry of a translation map for lang, applying the
// fallback chain. Keys are matched case-insensitively and iterated in
// sorted order so the last-resort choice is stable across calls.
func pick(m map[string]interface{}, lang string) (value interface{}) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.ToLower(key) == lang {
			value = m[key]
			return value
		}
	}

	for _, key := range keys {
		if strings.ToLower(key) == Fallback {
			value = m[key]
			return value
		}
	}

	value = m[keys[0]]
	return value
}

// DetectLanguages walks doc and returns the sorted union of language
// codes found in every translation map, lowercased. A document with no
// translation maps has exactly one implicit language, "en".
func DetectLanguages(doc interface{}) (langs []string) {
	seen := make(map[string]bool)
	collectLanguages(doc, seen)

	if len(seen) == 0 {
		langs = []string{Fallback}
		return langs
	}

	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	return langs
}

// collectLanguages accumulates translation map keys into seen. A
// translation map's values are descended as well: a chosen entry may
// itself contain nested translations, and Resolve will reach them, so
// detection must see the same languages the resolver can produce.
func collectLanguages(value interface{}, seen map[string]bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		if IsTranslationMap(v) {
			for key := range v {
				seen[strings.ToLower(key)] = true
			}
		}
		for _, child := range v {
			collectLanguages(child, seen)
		}
	case []interface{}:
		for _, child := range v {
			collectLanguages(child, seen)
		}
	}
}
