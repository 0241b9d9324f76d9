package compositor

import "github.com/dshills/compositor/backend"

// sessionGuard scopes the terminal session to one Run call: raw mode,
// alternate screen and mouse capture on acquisition, full restore on
// release.
type sessionGuard struct {
	b        backend.Backend
	log      *Logger
	released bool
}

// acquireSession switches the terminal into its interactive session state.
func acquireSession(b backend.Backend, log *Logger) (*sessionGuard, error) {
	if err := b.Init(); err != nil {
		return nil, err
	}
	log.Debug("terminal session acquired")
	return &sessionGuard{b: b, log: log}, nil
}

// Release restores the terminal, reversing each setup step. Idempotent and
// best-effort: teardown failures are swallowed so the restore sequence is
// never partially skipped because of a reporting error.
func (g *sessionGuard) Release() {
	if g.released {
		return
	}
	g.released = true

	defer func() {
		if r := recover(); r != nil {
			g.log.Warn("terminal restore panicked: %v", r)
		}
	}()
	g.b.Fini()
	g.log.Debug("terminal session released")
}
