package artengine

// CallbackActionKind tags which variant a CallbackAction carries.
type CallbackActionKind int

const (
	// CallbackNone means the byte produced no host-visible side effect.
	CallbackNone CallbackActionKind = iota
	// CallbackBeep means the terminal bell should sound.
	CallbackBeep
	// CallbackSendString means the host should write String back to the
	// data source (a query reply, for instance).
	CallbackSendString
	// CallbackPlayMusic means Music holds a sequence of MusicAction ready
	// to play.
	CallbackPlayMusic
	// CallbackChangeBaudRate means BaudRate holds the newly selected bps
	// value.
	CallbackChangeBaudRate
)

// CallbackAction is the engine-to-host contract: the side effect (if any)
// a single PrintChar call produced, delivered before the next byte is
// processed.
type CallbackAction struct {
	Kind     CallbackActionKind
	String   string
	Music    []MusicAction
	BaudRate uint32
}

// NoCallback is the zero-effect CallbackAction, returned by the overwhelming
// majority of PrintChar calls.
var NoCallback = CallbackAction{Kind: CallbackNone}

// BeepCallback returns a CallbackAction requesting the terminal bell.
func BeepCallback() CallbackAction {
	return CallbackAction{Kind: CallbackBeep}
}

// SendStringCallback returns a CallbackAction asking the host to write s
// back to the data source.
func SendStringCallback(s string) CallbackAction {
	return CallbackAction{Kind: CallbackSendString, String: s}
}

// PlayMusicCallback returns a CallbackAction carrying a finished ANSI-music
// sequence.
func PlayMusicCallback(seq []MusicAction) CallbackAction {
	return CallbackAction{Kind: CallbackPlayMusic, Music: seq}
}

// ChangeBaudRateCallback returns a CallbackAction asking the host to switch
// its simulated baud rate.
func ChangeBaudRateCallback(bps uint32) CallbackAction {
	return CallbackAction{Kind: CallbackChangeBaudRate, BaudRate: bps}
}

// MusicStyle is ANSI music's `M{L|N|S|F|B}` style selector.
type MusicStyle int

const (
	// MusicStyleLegato holds each note for its full duration.
	MusicStyleLegato MusicStyle = iota
	// MusicStyleNormal holds each note for roughly 7/8 of its duration.
	MusicStyleNormal
	// MusicStyleStaccato holds each note for roughly 3/4 of its duration.
	MusicStyleStaccato
	// MusicStyleForeground plays blocking the caller.
	MusicStyleForeground
	// MusicStyleBackground plays without blocking the caller.
	MusicStyleBackground
)

// MusicActionKind tags which variant a MusicAction carries.
type MusicActionKind int

const (
	// MusicActionPlayNote plays FrequencyHz for LengthTicks.
	MusicActionPlayNote MusicActionKind = iota
	// MusicActionPause is silence for LengthTicks.
	MusicActionPause
	// MusicActionSetStyle switches the playback Style for what follows.
	MusicActionSetStyle
)

// MusicAction is one step of a decoded ANSI-music sequence.
type MusicAction struct {
	Kind        MusicActionKind
	FrequencyHz float64
	LengthTicks int
	Style       MusicStyle
}
