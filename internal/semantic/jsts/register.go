package jsts

import "github.com/codemod-rs/codemod-go/internal/semantic"

func init() {
	semantic.RegisterJSBuilder(func(mode semantic.Mode, fs semantic.FS, workspaceRoot string) semantic.Provider {
		if mode == semantic.WorkspaceScope {
			return NewWorkspaceScopeProvider(fs, workspaceRoot)
		}
		return NewFileScopeProvider(fs)
	})
}
