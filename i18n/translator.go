package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "offset").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "expected_value":
			msg = "値が必要です"
		case "expected_literal":
			msg = "リテラル値が必要です"
		case "expected_object_value":
			msg = "オブジェクトの値が必要です"
		case "expected_struct_char":
			msg = "カンマまたは括弧が必要です"
		case "expected_more_array":
			msg = "カンマまたは閉じ括弧が必要です"
		case "unexpected_character":
			msg = "予期しない文字です"
		case "still_open":
			msg = "括弧が閉じられていません"
		case "extra_chars":
			msg = "末尾に余分な文字があります"
		case "quote_still_open":
			msg = "引用符が閉じられていません"
		case "bad_escape":
			msg = "エスケープシーケンスが不正です"
		case "bad_percent_encoding":
			msg = "パーセントエンコーディングが不正です"
		case "implied_string_null":
			msg = "暗黙の文字列では null を表現できません"
		case "implied_string_empty":
			msg = "空文字列は許可されていません"
		case "max_chars":
			msg = "最大文字数を超えました"
		case "max_depth":
			msg = "最大ネスト深度を超えました"
		case "max_values":
			msg = "最大値数を超えました"
		}
		if msg != "" && data["offset"] != "" {
			msg += "（位置 " + data["offset"] + "）"
		}
	default: // "en"
		switch code {
		case "expected_value":
			msg = "expected value"
		case "expected_literal":
			msg = "expected literal value"
		case "expected_object_value":
			msg = "expected object value"
		case "expected_struct_char":
			msg = "expected comma, open paren, or close paren"
		case "expected_more_array":
			msg = "expected comma or close paren"
		case "unexpected_character":
			msg = "unexpected character"
		case "still_open":
			msg = "unexpected end of text inside composite"
		case "extra_chars":
			msg = "unexpected text after composite"
		case "quote_still_open":
			msg = "quoted string still open"
		case "bad_escape":
			msg = "invalid escape sequence"
		case "bad_percent_encoding":
			msg = "invalid percent-encoded sequence"
		case "implied_string_null":
			msg = "can not represent null with implied strings"
		case "implied_string_empty":
			msg = "the empty string is not allowed"
		case "max_chars":
			msg = "too many characters"
		case "max_depth":
			msg = "nested too deeply"
		case "max_values":
			msg = "too many values"
		}
		if msg != "" && data["offset"] != "" {
			msg = strings.Join([]string{msg, "at position", data["offset"]}, " ")
		}
	}
	if msg == "" {
		return code
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
