package internal

import (
	"slices"
)

// autoCaptionAllowlist is the set of auto-generated caption languages we trust.
// Manual subtitles are never filtered: a human uploaded them on purpose.
// Machine captions outside this list are unreliable enough to skip entirely.
var autoCaptionAllowlist = map[string]struct{}{
	"en":      {},
	"en-US":   {},
	"en-GB":   {},
	"en-CA":   {},
	"en-AU":   {},
	"en-IN":   {},
	"zh":      {},
	"zh-CN":   {},
	"zh-TW":   {},
	"zh-Hans": {},
	"zh-Hant": {},
}

// languagePriority ranks preferred languages; anything not listed keeps its
// sorted order after these.
var languagePriority = []string{
	"en",
	"en-US",
	"en-GB",
	"zh-Hans",
	"zh-Hant",
	"zh-CN",
	"zh-TW",
}

// OrderLanguages reorders candidate codes so that priority languages come
// first, in priority order, followed by the remaining candidates in their
// original order. Duplicates are dropped, first occurrence wins.
func OrderLanguages(langs []string) []string {
	var ordered []string
	for _, fav := range languagePriority {
		if slices.Contains(langs, fav) && !slices.Contains(ordered, fav) {
			ordered = append(ordered, fav)
		}
	}
	for _, lang := range langs {
		if !slices.Contains(ordered, lang) {
			ordered = append(ordered, lang)
		}
	}
	return ordered
}

// SelectLanguages picks which caption tracks to download for a video. Manual
// subtitle languages are all candidates; auto-caption languages only if
// allow-listed. With no candidates at all, the metadata's declared language is
// used, or "en" as the last resort. The candidate set is sorted, reordered by
// priority, and truncated to maxLanguages (at least one). The result is
// deterministic for a given metadata.
func SelectLanguages(meta *VideoMetadata, maxLanguages int) []string {
	set := make(map[string]struct{})
	for lang := range meta.Subtitles {
		set[lang] = struct{}{}
	}
	for lang := range meta.AutomaticCaptions {
		if _, ok := autoCaptionAllowlist[lang]; ok {
			set[lang] = struct{}{}
		}
	}

	if len(set) == 0 {
		if meta.Language != "" {
			set[meta.Language] = struct{}{}
		} else {
			set["en"] = struct{}{}
		}
	}

	candidates := make([]string, 0, len(set))
	for lang := range set {
		candidates = append(candidates, lang)
	}
	slices.Sort(candidates)

	ordered := OrderLanguages(candidates)
	if maxLanguages < 1 {
		maxLanguages = 1
	}
	if len(ordered) > maxLanguages {
		ordered = ordered[:maxLanguages]
	}
	return ordered
}

// SourceForLanguage reports whether a selected language came from a manual
// subtitle track or an auto-generated one.
func SourceForLanguage(meta *VideoMetadata, lang string) SubtitleSource {
	if _, ok := meta.Subtitles[lang]; ok {
		return SourceManual
	}
	return SourceAuto
}
