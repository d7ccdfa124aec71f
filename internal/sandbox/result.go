package sandbox

import "crypto/sha256"

// ResultKind discriminates an execution result.
type ResultKind int

const (
	Unmodified ResultKind = iota
	Modified
	Skipped
)

// Result is the classified outcome of one transform invocation.
type Result struct {
	Kind       ResultKind
	NewText    string
	RenamePath string
	HasRename  bool
}

// ModificationCheck selects how "changed" is decided: by direct string
// equality (in-memory execution) or by content hash (file-backed
// execution).
type ModificationCheck int

const (
	CheckEquality ModificationCheck = iota
	CheckContentHash
)

// ClassifyTransformResult applies the classification rules:
//   - returnedString, equal to input (by the selected check) → Unmodified
//   - returnedString, different → Modified
//   - returnedNil, no rename recorded → Unmodified
//   - returnedNil, rename recorded → Modified with the original text at the
//     new path (the rename invariant)
//   - anything else → error, caller should surface ExecutionFailed("Invalid
//     result type")
func ClassifyTransformResult(input string, returnedString *string, rename string, hasRename bool, check ModificationCheck) Result {
	if returnedString == nil {
		if hasRename {
			return Result{Kind: Modified, NewText: input, RenamePath: rename, HasRename: true}
		}
		return Result{Kind: Unmodified}
	}

	unchanged := false
	switch check {
	case CheckContentHash:
		unchanged = sha256Sum(input) == sha256Sum(*returnedString)
	default:
		unchanged = input == *returnedString
	}

	if unchanged && !hasRename {
		return Result{Kind: Unmodified}
	}
	return Result{Kind: Modified, NewText: *returnedString, RenamePath: rename, HasRename: hasRename}
}

func sha256Sum(s string) [32]byte {
	return sha256.Sum256([]byte(s))
}
