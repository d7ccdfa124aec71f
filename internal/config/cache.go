package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvParserCacheDir overrides the dynamic parser cache directory.
	EnvParserCacheDir = "CODEMOD_PARSER_CACHE_DIR"
	// EnvParserBaseURL overrides the tree-sitter parser download base URL.
	EnvParserBaseURL = "TREE_SITTER_BASE_URL"
	// EnvStepID names the current workflow step for the step-output store.
	EnvStepID = "CODEMOD_STEP_ID"

	defaultBaseURL = "https://github.com/codemod-com/codemod/releases/download"
)

// ParserCacheDir resolves "<user-local-data>/codemod/tree_sitter", honoring
// CODEMOD_PARSER_CACHE_DIR.
func ParserCacheDir() (string, error) {
	if dir := os.Getenv(EnvParserCacheDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("config: no cache dir available: %w", err)
	}
	return filepath.Join(base, "codemod", "tree_sitter"), nil
}

// ParserBaseURL resolves the tree-sitter parser CDN base, honoring
// TREE_SITTER_BASE_URL.
func ParserBaseURL() string {
	if u := os.Getenv(EnvParserBaseURL); u != "" {
		return u
	}
	return defaultBaseURL
}

// StepID returns the current workflow step id from CODEMOD_STEP_ID, or ""
// when unset (no active workflow step).
func StepID() string {
	return os.Getenv(EnvStepID)
}
