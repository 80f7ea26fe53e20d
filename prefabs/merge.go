package prefabs

import "gopkg.in/yaml.v3"

// MergeSpec decodes raw over base. Fields absent from raw keep base's
// values.
func MergeSpec[T any](base T, raw map[string]any) (T, error) {
	if len(raw) == 0 {
		return base, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return base, err
	}
	out := base
	if err := yaml.Unmarshal(b, &out); err != nil {
		return base, err
	}
	return out, nil
}
