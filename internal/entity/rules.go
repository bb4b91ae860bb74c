// ABOUTME: Entity pattern table: ordered (terms, label) rules grouped by category
// ABOUTME: Table order is extraction order; every matching rule contributes its label once

package entity

import "github.com/mauromedda/pi-offline-go/internal/pattern"

// Label identifies a topical entity.
type Label string

const (
	JavaScript Label = "javascript"
	TypeScript Label = "typescript"
	Python     Label = "python"
	Go         Label = "go"
	Java       Label = "java"
	Rust       Label = "rust"
	SQL        Label = "sql"

	React   Label = "react"
	Vue     Label = "vue"
	Angular Label = "angular"
	NodeJS  Label = "nodejs"

	Trading Label = "trading"
	Crypto  Label = "crypto"

	AI       Label = "ai"
	Web      Label = "web"
	Database Label = "database"
	DevOps   Label = "devops"
)

// Category groups labels for dispatch decisions.
type Category string

const (
	CategoryLanguage  Category = "language"
	CategoryFramework Category = "framework"
	CategoryTrading   Category = "trading"
	CategoryCrypto    Category = "crypto"
	CategoryTopic     Category = "topic"
)

// rawRule is an uncompiled entity table entry.
type rawRule struct {
	label    Label
	category Category
	display  string
	terms    []string
}

// rule is a compiled entity table entry.
type rule struct {
	label    Label
	category Category
	display  string
	matcher  *pattern.Matcher
}

var rawRules = []rawRule{
	{JavaScript, CategoryLanguage, "JavaScript", []string{"javascript*", "js", "ecmascript", "es6"}},
	{TypeScript, CategoryLanguage, "TypeScript", []string{"typescript*", "tsx"}},
	{Python, CategoryLanguage, "Python", []string{"python*", "py", "django", "flask", "pandas"}},
	{Go, CategoryLanguage, "Go", []string{"golang*", "go dili*", "go ile", "go'da", "goroutine*"}},
	{Java, CategoryLanguage, "Java", []string{"java", "javada", "spring boot", "jvm"}},
	{Rust, CategoryLanguage, "Rust", []string{"rust*", "cargo"}},
	{SQL, CategoryLanguage, "SQL", []string{"sql", "mysql", "postgres*", "sqlite", "select sorgu*"}},

	{React, CategoryFramework, "React", []string{"react", "reactjs", "react.js", "jsx", "next.js", "nextjs"}},
	{Vue, CategoryFramework, "Vue", []string{"vue*", "nuxt*"}},
	{Angular, CategoryFramework, "Angular", []string{"angular*"}},
	{NodeJS, CategoryFramework, "Node.js", []string{"node.js", "nodejs", "node", "npm", "express.js", "expressjs"}},

	{Trading, CategoryTrading, "Trading", []string{
		"trading", "trade", "trader*", "trades", "borsa*", "hisse", "hisseler*", "hissesi*", "forex", "teknik analiz*", "rsi", "macd",
		"indikatör*", "mum grafi*", "stop loss", "kaldıraç*", "long pozisyon*", "short pozisyon*",
	}},
	{Crypto, CategoryCrypto, "Kripto", []string{
		"kripto*", "crypto*", "bitcoin*", "btc", "ethereum*", "eth", "blockchain*", "altcoin*",
		"nft*", "defi", "cüzdan*", "wallet*",
	}},

	{AI, CategoryTopic, "Yapay Zeka", []string{
		"yapay zeka*", "ai", "machine learning", "makine öğrenme*", "derin öğrenme*",
		"deep learning", "neural network*", "sinir ağı*", "sinir ağlar*", "llm", "chatgpt",
	}},
	{Web, CategoryTopic, "Web Geliştirme", []string{"html*", "css*", "frontend", "backend", "web site*", "web sayfa*", "http*", "rest api*"}},
	{Database, CategoryTopic, "Veritabanı", []string{"veritaban*", "database*", "mongodb", "nosql", "redis"}},
	{DevOps, CategoryTopic, "DevOps", []string{"docker*", "kubernetes", "k8s", "ci/cd", "pipeline*", "deploy*", "container*"}},
}

// rules is the compiled table, built once at package init and never mutated.
var rules = compileRules(rawRules)

func compileRules(raws []rawRule) []rule {
	out := make([]rule, len(raws))
	for i, r := range raws {
		out[i] = rule{
			label:    r.label,
			category: r.category,
			display:  r.display,
			matcher:  pattern.Compile(r.terms...),
		}
	}
	return out
}

// Labels returns every label in table order.
func Labels() []Label {
	out := make([]Label, len(rules))
	for i, r := range rules {
		out[i] = r.label
	}
	return out
}

// LabelsIn returns the labels of a category in table order.
func LabelsIn(c Category) []Label {
	var out []Label
	for _, r := range rules {
		if r.category == c {
			out = append(out, r.label)
		}
	}
	return out
}

// CategoryOf returns the category of a label, or "" for unknown labels.
func CategoryOf(l Label) Category {
	for _, r := range rules {
		if r.label == l {
			return r.category
		}
	}
	return ""
}

// DisplayName returns the human-facing name of a label ("javascript" -> "JavaScript").
// Unknown labels are returned unchanged.
func DisplayName(l Label) string {
	for _, r := range rules {
		if r.label == l {
			return r.display
		}
	}
	return string(l)
}

// IsLanguage reports whether l is a programming-language label.
func IsLanguage(l Label) bool {
	return CategoryOf(l) == CategoryLanguage
}
