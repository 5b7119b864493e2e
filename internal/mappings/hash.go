package mappings

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// hashFieldMapping fingerprints one property subtree. The subtree is
// canonicalized (all object keys recursively sorted) before digesting,
// so two structurally identical subtrees hash identically regardless
// of key iteration order, while any value or structural change yields
// a different hash.
func hashFieldMapping(fm FieldMapping) (string, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, map[string]any(fm)); err != nil {
		return "", fmt.Errorf("failed to canonicalize field mapping: %w", err)
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

// writeCanonical emits a canonical JSON encoding of v: object keys in
// sorted order at every depth, array order preserved.
func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		return writeCanonicalObject(buf, val)
	case FieldMapping:
		return writeCanonicalObject(buf, val)
	case map[string]FieldMapping:
		obj := make(map[string]any, len(val))
		for k, fm := range val {
			obj[k] = fm
		}
		return writeCanonicalObject(buf, obj)
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(encoded)
		return nil
	}
}

func writeCanonicalObject(buf *bytes.Buffer, obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		if err := writeCanonical(buf, obj[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}
