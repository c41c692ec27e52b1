package event

// Type discriminates the events delivered to the dashboard loop.
type Type int

const (
	// TypeKey is a key press.
	TypeKey Type = iota
	// TypeResize is a terminal size change.
	TypeResize
	// TypeTick fires when the poll interval elapses with no input and
	// drives the quote auto-refresh.
	TypeTick
	// TypeRefresh requests a full refresh (quotes and candles). Posted
	// by the cron scheduler or other auxiliary producers.
	TypeRefresh
)

// SpecialKey names non-printable keys the dashboard reacts to.
type SpecialKey int

const (
	KeyNone SpecialKey = iota
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPgUp
	KeyPgDn
)

// KeyPress is one decoded key event. Rune is set for printable keys,
// Special for everything else.
type KeyPress struct {
	Rune    rune
	Special SpecialKey
	Ctrl    bool
}

// Event is a fully-owned value sent from the producer to the single
// consumer; it never aliases consumer state.
type Event struct {
	Type   Type
	Key    KeyPress // valid when Type == TypeKey
	Width  int      // valid when Type == TypeResize
	Height int
}
