package common

import (
	"regexp"
	"strings"
)

var (
	slugInvalidPattern   = regexp.MustCompile(`[^\w\s-]`)
	slugSeparatorPattern = regexp.MustCompile(`[\s_-]+`)
	freshPrefixPattern   = regexp.MustCompile(`(?i)fresh\s+`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

// Slugify 轉為網址用名稱，例如 "Piña Colada!" -> "pia-colada"
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugInvalidPattern.ReplaceAllString(s, "")
	s = slugSeparatorPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeIngredientName 比對用的食材名稱：小寫、去掉 "fresh "、合併空白
func NormalizeIngredientName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if loc := freshPrefixPattern.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + s[loc[1]:]
	}
	return whitespacePattern.ReplaceAllString(s, " ")
}

// minorWords 標題格式中保持小寫的詞
var minorWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "as": {}, "at": {}, "but": {},
	"by": {}, "en": {}, "for": {}, "if": {}, "in": {}, "of": {}, "on": {},
	"or": {}, "to": {}, "v": {}, "vs": {}, "via": {}, "with": {},
}

// ToTitleCase 標題格式，首尾詞一律大寫
func ToTitleCase(s string) string {
	if s == "" {
		return ""
	}
	words := whitespacePattern.Split(strings.ToLower(s), -1)
	for i, w := range words {
		if i != 0 && i != len(words)-1 {
			if _, minor := minorWords[w]; minor {
				continue
			}
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	r := []rune(word)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// SplitTags 逗號分隔的標籤，去除空白與空值
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
