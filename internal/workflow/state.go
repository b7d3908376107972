package workflow

// RunState marks a milestone reached by an update run.
type RunState string

// Milestones recorded in order as the run progresses. A run ends in
// RunStateCleaned regardless of success, since working-tree removal and
// credential clearing happen on every exit path.
const (
	RunStateStart              RunState = RunState("start")
	RunStateCloned             RunState = RunState("cloned")
	RunStateBranched           RunState = RunState("branched")
	RunStateChangesApplied     RunState = RunState("changes_applied")
	RunStateCommitted          RunState = RunState("committed")
	RunStateNoChanges          RunState = RunState("no_changes")
	RunStatePushed             RunState = RunState("pushed")
	RunStatePullRequestCreated RunState = RunState("pull_request_created")
	RunStatePullRequestFailed  RunState = RunState("pull_request_failed")
	RunStateFailed             RunState = RunState("failed")
	RunStateCleaned            RunState = RunState("cleaned")
)
