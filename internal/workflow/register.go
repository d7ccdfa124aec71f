package workflow

import "github.com/codemod-rs/codemod-go/internal/sandbox"

func init() {
	sandbox.SetStepStore(Default)
}
