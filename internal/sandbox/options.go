package sandbox

// Options is passed to a transform script: bound rule params, the
// candidate's detected language, the selector's captured matches, and any
// matrix values from a batch run.
type Options struct {
	Params       map[string]string
	Language     string
	Matches      []*SgNode
	MatrixValues map[string]string
}
