package clip

// headlessBackend is a no-op clipboard backend for environments without a
// display server (headless Linux servers, containers, etc.). Its version
// never moves, so no copy is ever confirmed.
type headlessBackend struct{}

func newHeadless() Backend { return headlessBackend{} }

func (headlessBackend) Name() string       { return "headless (no-op)" }
func (headlessBackend) Snapshot() Snapshot { return Snapshot{} }
func (headlessBackend) Close()             {}
