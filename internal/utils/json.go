package utils

import (
	"encoding/json"

	"k8s.io/klog/v2"
)

// ExtractJSON 从文本中提取第一个完整的 JSON 对象
// LLM 响应常被 Markdown 代码块或说明文字包裹，按大括号深度匹配截取
// 未找到完整对象时返回原始内容，交由上层决定如何兜底
func ExtractJSON(content string) string {
	start := -1
	end := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range content {
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if inString {
				continue
			}
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if inString {
				continue
			}
			depth--
			if depth == 0 && start != -1 {
				end = i + 1
				return content[start:end]
			}
		}
	}

	if start >= 0 && end > start {
		return content[start:end]
	}
	return content
}

func ToJSON(v any) string {
	jsonData, err := json.Marshal(v)
	if err != nil {
		klog.Errorf("JSON序列化失败: %v", err)
		return ""
	}
	return string(jsonData)
}
