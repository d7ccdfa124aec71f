package pyprov

import "github.com/codemod-rs/codemod-go/internal/semantic"

func init() {
	semantic.RegisterPythonBuilder(func(mode semantic.Mode, fs semantic.FS, workspaceRoot string) semantic.Provider {
		if mode == semantic.WorkspaceScope {
			return NewWorkspaceScopeProvider(fs)
		}
		return NewFileScopeProvider(fs)
	})
}
