package managed

import "fmt"

// Action selects what an Op does to its unit.
type Action string

const (
	ActionUpsert Action = "upsert"
	ActionRemove Action = "remove"
)

// Op is one managed-block operation in a batch.
type Op struct {
	Action  Action
	Path    string
	UnitID  string
	Payload string // used by upsert only
	// Format is the comment dialect of the target file. Only "hash" (the
	// default) is supported; anything else is rejected without touching
	// the file.
	Format string
}

// OpError pairs a failed unit id with what went wrong.
type OpError struct {
	UnitID string
	Err    string
}

// ApplyResult collects per-operation outcomes of a batch.
type ApplyResult struct {
	Succeeded []string
	Failed    []OpError
}

// OK reports whether every operation in the batch succeeded.
func (r *ApplyResult) OK() bool {
	return len(r.Failed) == 0
}

// Apply runs a sequence of upsert/remove operations. Filesystem failures are
// caught per operation and never abort the batch; an operation naming an
// unsupported format or action is reported as an error rather than attempted.
func Apply(ops []Op) *ApplyResult {
	res := &ApplyResult{}
	for _, op := range ops {
		if err := applyOne(op); err != nil {
			res.Failed = append(res.Failed, OpError{UnitID: op.UnitID, Err: err.Error()})
			continue
		}
		res.Succeeded = append(res.Succeeded, op.UnitID)
	}
	return res
}

func applyOne(op Op) error {
	if op.Format != "" && op.Format != "hash" {
		return fmt.Errorf("unsupported managed-block format %q", op.Format)
	}
	switch op.Action {
	case ActionUpsert:
		return Upsert(op.Path, op.UnitID, op.Payload)
	case ActionRemove:
		_, err := Remove(op.Path, op.UnitID)
		return err
	default:
		return fmt.Errorf("unsupported managed-block action %q", op.Action)
	}
}
