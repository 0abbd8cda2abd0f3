package i18n

import (
	"strings"
	"sync"
)

// Message identifiers. Templates reference data entries as {name}.
const (
	MsgUnexpectedNull   = "unexpected_null"
	MsgUnknownProperty  = "unknown_property"
	MsgDuplicateKey     = "duplicate_key"
	MsgInvalidProperty  = "invalid_property"
	MsgNotScalar        = "not_scalar"
	MsgInvalidNumber    = "invalid_number"
	MsgInvalidFloat     = "invalid_float"
	MsgInvalidBoolean   = "invalid_boolean"
	MsgInvalidCharacter = "invalid_character"
	MsgInvalidEnum      = "invalid_enum"
	MsgMalformedKey     = "malformed_key"
	MsgMalformedAnyKey  = "malformed_any_key"
	MsgUnknownTag       = "unknown_tag"
	MsgIncorrectType    = "incorrect_type"
	MsgMaxDepth         = "max_depth"
	MsgTooLarge         = "too_large"
	MsgUnexpectedEvent  = "unexpected_event"
	MsgUnexpectedEOF    = "unexpected_eof"
	MsgTrailingContent  = "trailing_content"
	MsgDanglingTag      = "dangling_tag"
	MsgMultiDocument    = "multi_document"
	MsgSyntax           = "syntax"
)

var english = map[string]string{
	MsgUnexpectedNull:   "Unexpected null or empty value for non-null field.",
	MsgUnknownProperty:  "Unknown property '{property}'. Known properties are: {known}",
	MsgDuplicateKey:     "Duplicate key {key}. It was previously given at line {line}, column {column}.",
	MsgInvalidProperty:  "Value for '{property}' is invalid: {reason}",
	MsgNotScalar:        "Value for '{key}' is not a scalar.",
	MsgInvalidNumber:    "Value '{value}' is not a valid {kind} value.",
	MsgInvalidFloat:     "Value '{value}' is not a valid floating point value.",
	MsgInvalidBoolean:   "Value '{value}' is not a valid boolean, permitted choices are: true or false",
	MsgInvalidCharacter: "Value '{value}' is not a valid character value.",
	MsgInvalidEnum:      "Value '{value}' is not a valid option, permitted choices are: {choices}",
	MsgMalformedKey:     "Property name must not be a list, map or null value. (To use 'null' as a property name, enclose it in quotes.)",
	MsgMalformedAnyKey:  "Map key must be a scalar value, but got {actual}.",
	MsgUnknownTag:       "Unknown tag '{tag}'. Known tags are: {known}",
	MsgIncorrectType:    "Expected {expected}, but got {actual}.",
	MsgMaxDepth:         "Maximum nesting depth of {max} exceeded.",
	MsgTooLarge:         "Document of {size} bytes exceeds the limit of {max} bytes.",
	MsgUnexpectedEvent:  "Unexpected {event}.",
	MsgUnexpectedEOF:    "Unexpected end of document.",
	MsgTrailingContent:  "Unexpected content after the end of the document.",
	MsgDanglingTag:      "Tag '{tag}' is not followed by a value.",
	MsgMultiDocument:    "Expected a single document, but found more than one.",
	MsgSyntax:           "Invalid YAML: {detail}",
}

var japanese = map[string]string{
	MsgUnexpectedNull:   "null 非許容のフィールドに null または空の値があります。",
	MsgUnknownProperty:  "未知のプロパティ '{property}' です。既知のプロパティ: {known}",
	MsgDuplicateKey:     "キー {key} が重複しています。最初の定義は {line} 行 {column} 列です。",
	MsgInvalidProperty:  "'{property}' の値が不正です: {reason}",
	MsgNotScalar:        "'{key}' の値はスカラーではありません。",
	MsgInvalidNumber:    "値 '{value}' は有効な {kind} 値ではありません。",
	MsgInvalidFloat:     "値 '{value}' は有効な浮動小数点数ではありません。",
	MsgInvalidBoolean:   "値 '{value}' は有効な真偽値ではありません。指定可能な値: true または false",
	MsgInvalidCharacter: "値 '{value}' は有効な文字ではありません。",
	MsgInvalidEnum:      "値 '{value}' は有効な選択肢ではありません。指定可能な値: {choices}",
	MsgMalformedKey:     "プロパティ名にリスト、マップ、null は使用できません。('null' を名前として使う場合は引用符で囲んでください。)",
	MsgMalformedAnyKey:  "マップのキーはスカラーである必要がありますが、{actual} でした。",
	MsgUnknownTag:       "未知のタグ '{tag}' です。既知のタグ: {known}",
	MsgIncorrectType:    "{expected} が必要ですが、{actual} でした。",
	MsgMaxDepth:         "ネストの深さが上限 {max} を超えました。",
	MsgTooLarge:         "ドキュメントのサイズ {size} バイトが上限 {max} バイトを超えています。",
	MsgUnexpectedEvent:  "予期しない {event} です。",
	MsgUnexpectedEOF:    "ドキュメントが途中で終了しました。",
	MsgTrailingContent:  "ドキュメントの終端の後に内容があります。",
	MsgDanglingTag:      "タグ '{tag}' の後に値がありません。",
	MsgMultiDocument:    "単一のドキュメントが必要ですが、複数見つかりました。",
	MsgSyntax:           "YAML が不正です: {detail}",
}

// Translator retrieves localized messages for message identifiers.
// data provides the values substituted into the template (for example,
// "value" or "property").
type Translator interface {
	Message(id string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(id string, data map[string]string) string {
	tmpl, ok := english[id]
	if t.lang == "ja" {
		if jt, jok := japanese[id]; jok {
			tmpl, ok = jt, true
		}
	}
	if !ok {
		return id
	}
	return Expand(tmpl, data)
}

// Expand substitutes {name} placeholders in tmpl with values from data.
// Unknown placeholders are left as-is.
func Expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	mu.Lock()
	defer mu.Unlock()
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given identifier using the current Translator.
func T(id string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(id, data)
}
