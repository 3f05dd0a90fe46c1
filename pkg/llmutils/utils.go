// Package llmutils cleans up tool arguments produced by a language model
// and formats tool output for it.
package llmutils

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

var backtick = []byte("```")

// CleanJSON returns the JSON object or array found in bs,
// dropping any text the model added before or after it,
// e.g. `Sure, here are the arguments: {json}`.
func CleanJSON(bs []byte) []byte {
	return trimAfterJSON(trimBeforeJSON(bs))
}

func trimBeforeJSON(bs []byte) []byte {
	start := firstIndex(bytes.IndexByte(bs, '{'), bytes.IndexByte(bs, '['))
	if start < 0 {
		return bs
	}
	return bs[start:]
}

func trimAfterJSON(bs []byte) []byte {
	end := max(bytes.LastIndexByte(bs, '}'), bytes.LastIndexByte(bs, ']'))
	if end < 0 {
		return bs
	}
	return bs[:end+1]
}

// firstIndex returns the smallest non-negative index, or -1
func firstIndex(a, b int) int {
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	default:
		return min(a, b)
	}
}

// TrimBackticks removes ```json or ``` fences
func TrimBackticks(text string) string {
	bs := []byte(text)
	start := bytes.Index(bs, backtick)
	if start < 0 {
		return text
	}
	start += len(backtick)
	// skip the language tag
	for i := start; i < len(bs) && bs[i] != '{' && bs[i] != '['; i++ {
		if bs[i] == '\n' {
			start = i + 1
			break
		}
	}
	content := bs[start:]
	if end := bytes.LastIndex(content, backtick); end >= 0 {
		content = content[:end]
	}
	return string(bytes.TrimSpace(content))
}

func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

func ToYAML(val any) string {
	bs, _ := yaml.Marshal(val)
	return string(bs)
}

func BackticksJSON(js string) string {
	return "\n```json\n" + strings.TrimSpace(js) + "\n```\n"
}

func BackticksYAML(s string) string {
	return "\n```yaml\n" + strings.TrimSpace(s) + "\n```\n"
}
