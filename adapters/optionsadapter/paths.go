package optionsadapter

import (
	"strings"

	"github.com/goliatone/go-countrygate/ferrors"
)

// Preference keys may be dotted; snapshots store them as nested maps.

func segments(path string) []string {
	var out []string
	for _, part := range strings.Split(strings.TrimSpace(path), ".") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func lookupPath(snapshot map[string]any, path string) (any, bool) {
	if value, ok := snapshot[path]; ok {
		return value, true
	}
	parts := segments(path)
	if len(parts) == 0 {
		return nil, false
	}
	node := snapshot
	for i, part := range parts {
		value, ok := node[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return value, true
		}
		if node, ok = value.(map[string]any); !ok {
			return nil, false
		}
	}
	return nil, false
}

func setPath(snapshot map[string]any, path string, value any) error {
	parts := segments(path)
	if len(parts) == 0 {
		return ferrors.WrapSentinel(ferrors.ErrPathRequired, "optionsadapter: path is empty", map[string]any{
			ferrors.MetaPath: path,
		})
	}
	node := snapshot
	for _, part := range parts[:len(parts)-1] {
		next, exists := node[part]
		if !exists {
			child := map[string]any{}
			node[part] = child
			node = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return ferrors.WrapSentinel(ferrors.ErrPathInvalid, "", map[string]any{
				ferrors.MetaPath: part,
			})
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
	return nil
}

// deletePath removes the leaf at path and prunes parents left empty.
func deletePath(snapshot map[string]any, path string) bool {
	parts := segments(path)
	if len(parts) == 0 {
		return false
	}
	return prune(snapshot, parts)
}

func prune(node map[string]any, parts []string) bool {
	head := parts[0]
	if len(parts) == 1 {
		if _, ok := node[head]; !ok {
			return false
		}
		delete(node, head)
		return true
	}
	child, ok := node[head].(map[string]any)
	if !ok || !prune(child, parts[1:]) {
		return false
	}
	if len(child) == 0 {
		delete(node, head)
	}
	return true
}

func flattenMap(prefix string, data map[string]any, out map[string]any) {
	for key, value := range data {
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		if child, ok := value.(map[string]any); ok {
			flattenMap(key, child, out)
			continue
		}
		out[key] = value
	}
}
