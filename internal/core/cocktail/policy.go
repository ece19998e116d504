package cocktail

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SubstitutionGroup 替代分組標籤，空字串表示不可替代
type SubstitutionGroup string

// DefaultSubstitutionCategories 預設可互相替代的烈酒類型
var DefaultSubstitutionCategories = []string{
	"Vodka",
	"Whisky",
	"Whiskey",
	"Rum",
	"Gin",
	"Tequila",
	"Brandy",
	"Liqueur",
}

// SubstitutionPolicy 決定哪些食材類型可在同類間互相替代
type SubstitutionPolicy struct {
	groups map[string]SubstitutionGroup
}

// policyFile YAML 格式
type policyFile struct {
	Categories []string `yaml:"categories"`
}

// NewSubstitutionPolicy 以類型清單建立策略，清單為空時使用預設值
func NewSubstitutionPolicy(categories []string) *SubstitutionPolicy {
	if len(categories) == 0 {
		categories = DefaultSubstitutionCategories
	}
	p := &SubstitutionPolicy{groups: make(map[string]SubstitutionGroup, len(categories))}
	for _, c := range categories {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" {
			continue
		}
		p.groups[key] = SubstitutionGroup(key)
	}
	return p
}

// DefaultSubstitutionPolicy 預設策略
func DefaultSubstitutionPolicy() *SubstitutionPolicy {
	return NewSubstitutionPolicy(nil)
}

// ParseSubstitutionPolicy 解析 YAML 內容
func ParseSubstitutionPolicy(data []byte) (*SubstitutionPolicy, error) {
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse substitution policy: %w", err)
	}
	return NewSubstitutionPolicy(f.Categories), nil
}

// LoadSubstitutionPolicy 從 YAML 檔載入策略
func LoadSubstitutionPolicy(path string) (*SubstitutionPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read substitution policy %s: %w", path, err)
	}
	return ParseSubstitutionPolicy(data)
}

// Classify 回傳類型所屬分組（不分大小寫完全比對）
func (p *SubstitutionPolicy) Classify(typ string) SubstitutionGroup {
	if p == nil || typ == "" {
		return ""
	}
	return p.groups[strings.ToLower(strings.TrimSpace(typ))]
}

// Categories 目前生效的分組
func (p *SubstitutionPolicy) Categories() []string {
	out := make([]string, 0, len(p.groups))
	for k := range p.groups {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Tag 設定食材的替代分組
func (p *SubstitutionPolicy) Tag(ing *Ingredient) {
	ing.Group = p.Classify(ing.Type)
}
