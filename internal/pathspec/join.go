package pathspec

import (
	"path/filepath"
	"strings"
)

const separators = `/\`

// joinPath 跳过空片段后拼接路径；首段为 URL（含 "://"）时用 "/" 拼接，避免
// filepath.Join 把 "https://" 折叠成 "https:/"。
func joinPath(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		kept = append(kept, part)
	}
	if len(kept) == 0 {
		return ""
	}
	if strings.Contains(kept[0], "://") {
		out := strings.TrimRight(kept[0], separators)
		for _, part := range kept[1:] {
			part = strings.Trim(filepath.ToSlash(part), "/")
			if part != "" {
				out += "/" + part
			}
		}
		return out
	}
	return filepath.Join(kept...)
}

// trimRoot 在 root 是 fullPath 的路径前缀（按段边界）时返回剩余部分。
func trimRoot(fullPath, root string) (string, bool) {
	root = strings.TrimRight(root, separators)
	if root == "" || !strings.HasPrefix(fullPath, root) {
		return "", false
	}
	rest := fullPath[len(root):]
	if rest == "" {
		return "", true
	}
	if !strings.ContainsRune(separators, rune(rest[0])) {
		return "", false
	}
	return strings.TrimLeft(rest, separators), true
}

// splitLast 以最后一个分隔符切分目录与文件名，没有目录时返回空目录。
func splitLast(p string) (string, string) {
	idx := strings.LastIndexAny(p, separators)
	if idx < 0 {
		return "", p
	}
	return p[:idx], p[idx+1:]
}
