package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// FixTarget names characters whose entry for PatchID is missing from the
// store.
type FixTarget struct {
	PatchID    int      `json:"patchId"`
	Characters []string `json:"characters"`
}

type TargetList struct {
	Targets []FixTarget `json:"targets"`
}

func splitExt(f string) (string, string) {
	ext := filepath.Ext(f)
	return strings.TrimSuffix(f, ext), strings.TrimPrefix(ext, ".")
}

// ReadJSON5 reads <name>.<ext> and merges <name>.local.<ext> over it when
// present. Slices from the local file are appended.
func ReadJSON5[T any](name string) (T, error) {
	var out T
	found := false

	data, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(data) > 0 {
		if err := json5.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		found = true
	}

	prefix, ext := splitExt(name)
	local := fmt.Sprintf("%s.local.%s", prefix, ext)
	data, err = os.ReadFile(local)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(data) > 0 {
		var override T
		if err := json5.Unmarshal(data, &override); err != nil {
			return out, fmt.Errorf("failed to parse %s: %w", local, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
			return out, fmt.Errorf("failed to merge %s: %w", local, err)
		}
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadTargets loads a fix-target list, dropping entries without a patch id or
// characters.
func ReadTargets(name string) ([]FixTarget, error) {
	list, err := ReadJSON5[TargetList](name)
	if err != nil {
		return nil, err
	}
	var out []FixTarget
	for _, t := range list.Targets {
		if t.PatchID == 0 || len(t.Characters) == 0 {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
