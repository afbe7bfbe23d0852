// Package surface defines the two collaborator seams of the reveal engine:
// a display surface that hosts styled text nodes, and an input source that
// delivers edge-triggered user signals. Backends live in their own packages
// (terminal, teaview); Memory is the in-process backend used by tests and
// headless tools.
package surface

// Node is an opaque handle to one visual element. Backends return their own
// node values and type-assert them back; the engine never inspects a node.
type Node interface{}

// Surface hosts an ordered list of text nodes owned by the engine.
//
// Implementations must be safe for concurrent use and must never call back
// into the engine from inside one of these methods. All methods are
// best-effort: a nil or foreign node is ignored rather than rejected.
type Surface interface {
	// Root returns the container node, the target of style pass-through.
	Root() Node

	// CreateNode allocates a detached node with empty text.
	CreateNode() Node

	// InsertBefore attaches n immediately before ref. A nil ref appends
	// at the end. Inserting an attached node moves it.
	InsertBefore(n, ref Node)

	// RemoveChild detaches n from the surface.
	RemoveChild(n Node)

	// SetText replaces the full text of n.
	SetText(n Node, text string)

	// AppendText appends text to n.
	AppendText(n Node, text string)

	// SetEffectTag labels n with an opaque presentation effect. How a tag
	// renders is entirely up to the backend.
	SetEffectTag(n Node, tag string)

	// SetVisible toggles n without detaching it.
	SetVisible(n Node, visible bool)

	// SetStyle applies an opaque style property to n. Properties are
	// pass-through configuration (color, background, padding and the
	// like); unknown properties are ignored.
	SetStyle(n Node, property, value string)
}

// EffectCue is the effect tag carried by the continue affordance node.
// Backends may give it a distinct treatment (the terminal backend blinks
// it); ignoring it is equally valid.
const EffectCue = "cue"

// SignalKind distinguishes the two input signal flavors. The engine treats
// both identically; backends decide what maps to each.
type SignalKind int

const (
	// SignalKey is a key-like signal (keyboard, gamepad button).
	SignalKey SignalKind = iota
	// SignalPointer is a pointer-like signal (mouse or touch press).
	SignalPointer
)

// InputSource delivers edge-triggered signals with no payload.
type InputSource interface {
	// Subscribe registers fn for one signal kind and returns a handle
	// that revokes exactly this registration.
	Subscribe(kind SignalKind, fn func()) Subscription
}

// Subscription is one input registration.
type Subscription interface {
	// Cancel revokes the registration. Idempotent.
	Cancel()
}
