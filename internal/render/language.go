package render

import (
	"strings"

	"golang.org/x/text/language"
)

// Language selects the banner text.
type Language uint8

const (
	// LanguageAuto follows the host's system language.
	LanguageAuto Language = iota
	LanguageKorean
	LanguageJapanese
	LanguageEnglish
)

func (l Language) String() string {
	switch l {
	case LanguageKorean:
		return "Korean"
	case LanguageJapanese:
		return "Japanese"
	case LanguageEnglish:
		return "English"
	default:
		return "Auto"
	}
}

// Next cycles Auto, Korean, Japanese, English and back to Auto.
func (l Language) Next() Language {
	return (l + 1) % 4
}

const (
	bannerKorean   = "바이털 사인이 위험 수준입니다."
	bannerJapanese = "バイタルサインが危険レベルです。"
	bannerEnglish  = "Vital signs are at critical levels."
)

// BannerText returns the low-health warning for a concrete language.
// LanguageAuto and LanguageKorean both yield the default text.
func BannerText(l Language) string {
	switch l {
	case LanguageJapanese:
		return bannerJapanese
	case LanguageEnglish:
		return bannerEnglish
	default:
		return bannerKorean
	}
}

var (
	supported = []language.Tag{language.Korean, language.Japanese, language.English}
	matcher   = language.NewMatcher(supported)
)

// DetectLanguage maps a host language indicator to a concrete language.
// Hosts report either a BCP 47 tag ("ja-JP") or a language name
// ("Japanese"). Anything unrecognised falls back to Korean.
func DetectLanguage(system string) Language {
	s := strings.TrimSpace(system)
	switch strings.ToLower(s) {
	case "japanese":
		return LanguageJapanese
	case "english":
		return LanguageEnglish
	case "korean":
		return LanguageKorean
	case "":
		return LanguageKorean
	}
	tag, err := language.Parse(s)
	if err != nil {
		return LanguageKorean
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return LanguageKorean
	}
	switch supported[idx] {
	case language.Japanese:
		return LanguageJapanese
	case language.English:
		return LanguageEnglish
	}
	return LanguageKorean
}
