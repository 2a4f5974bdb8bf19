package generator

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	quotedRe = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
	markerRe = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s+`)
	fenceRe  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
)

// ParseStructured reads a schema-constrained reply into a question list.
func ParseStructured(raw string) (QuestionList, error) {
	var resp critiqueResponse
	if err := json.Unmarshal([]byte(trimCodeFence(raw)), &resp); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: err}
	}
	return PostProcess(resp.QuestionsAsked)
}

// ExtractQuoted 从模型的自由文本里抓取所有引号内的字符串作为问题，
// 用于不支持结构化输出的回退流程。
func ExtractQuoted(raw string) (QuestionList, error) {
	matches := quotedRe.FindAllStringSubmatch(raw, -1)
	items := make([]string, 0, len(matches))
	for _, m := range matches {
		s := m[1]
		var u string
		if err := json.Unmarshal([]byte(`"`+s+`"`), &u); err == nil {
			s = u
		}
		if s == "questions_asked" {
			continue
		}
		items = append(items, s)
	}
	return PostProcess(items)
}

// PostProcess normalizes whitespace and list markers and drops blank entries.
// Order is kept and duplicates are left alone.
func PostProcess(items []string) (QuestionList, error) {
	out := make(QuestionList, 0, len(items))
	for _, q := range items {
		q = strings.Join(strings.Fields(q), " ")
		q = strings.TrimSpace(markerRe.ReplaceAllString(q, ""))
		if q == "" {
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return out, nil
}

func trimCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(s); len(m) == 2 {
		return m[1]
	}
	return s
}
