package hotkey

import (
	"fmt"
	"strings"
)

// Key identifies a physical key. Its value is the key's native code in the
// Windows virtual-key space (1..254); other platforms translate their own
// codes into this space before they reach a Hook.
type Key uint8

const (
	LButton  Key = 0x01
	RButton  Key = 0x02
	Cancel   Key = 0x03
	MButton  Key = 0x04
	XButton1 Key = 0x05
	XButton2 Key = 0x06

	Backspace Key = 0x08
	Tab       Key = 0x09
	Clear     Key = 0x0C
	Enter     Key = 0x0D

	Shift      Key = 0x10
	Control    Key = 0x11
	Alt        Key = 0x12
	Pause      Key = 0x13
	CapsLock   Key = 0x14
	Kana       Key = 0x15
	ImeOn      Key = 0x16
	Junja      Key = 0x17
	Final      Key = 0x18
	Kanji      Key = 0x19
	ImeOff     Key = 0x1A
	Escape     Key = 0x1B
	Convert    Key = 0x1C
	NonConvert Key = 0x1D
	Accept     Key = 0x1E
	ModeChange Key = 0x1F

	Space       Key = 0x20
	PageUp      Key = 0x21
	PageDown    Key = 0x22
	End         Key = 0x23
	Home        Key = 0x24
	Left        Key = 0x25
	Up          Key = 0x26
	Right       Key = 0x27
	Down        Key = 0x28
	Select      Key = 0x29
	Print       Key = 0x2A
	Execute     Key = 0x2B
	PrintScreen Key = 0x2C
	Insert      Key = 0x2D
	Delete      Key = 0x2E
	Help        Key = 0x2F

	Digit0 Key = 0x30
	Digit1 Key = 0x31
	Digit2 Key = 0x32
	Digit3 Key = 0x33
	Digit4 Key = 0x34
	Digit5 Key = 0x35
	Digit6 Key = 0x36
	Digit7 Key = 0x37
	Digit8 Key = 0x38
	Digit9 Key = 0x39

	A Key = 0x41
	B Key = 0x42
	C Key = 0x43
	D Key = 0x44
	E Key = 0x45
	F Key = 0x46
	G Key = 0x47
	H Key = 0x48
	I Key = 0x49
	J Key = 0x4A
	K Key = 0x4B
	L Key = 0x4C
	M Key = 0x4D
	N Key = 0x4E
	O Key = 0x4F
	P Key = 0x50
	Q Key = 0x51
	R Key = 0x52
	S Key = 0x53
	T Key = 0x54
	U Key = 0x55
	V Key = 0x56
	W Key = 0x57
	X Key = 0x58
	Y Key = 0x59
	Z Key = 0x5A

	LeftWin  Key = 0x5B
	RightWin Key = 0x5C
	Apps     Key = 0x5D
	Sleep    Key = 0x5F

	Numpad0         Key = 0x60
	Numpad1         Key = 0x61
	Numpad2         Key = 0x62
	Numpad3         Key = 0x63
	Numpad4         Key = 0x64
	Numpad5         Key = 0x65
	Numpad6         Key = 0x66
	Numpad7         Key = 0x67
	Numpad8         Key = 0x68
	Numpad9         Key = 0x69
	NumpadMultiply  Key = 0x6A
	NumpadAdd       Key = 0x6B
	NumpadSeparator Key = 0x6C
	NumpadSubtract  Key = 0x6D
	NumpadDecimal   Key = 0x6E
	NumpadDivide    Key = 0x6F

	F1  Key = 0x70
	F2  Key = 0x71
	F3  Key = 0x72
	F4  Key = 0x73
	F5  Key = 0x74
	F6  Key = 0x75
	F7  Key = 0x76
	F8  Key = 0x77
	F9  Key = 0x78
	F10 Key = 0x79
	F11 Key = 0x7A
	F12 Key = 0x7B
	F13 Key = 0x7C
	F14 Key = 0x7D
	F15 Key = 0x7E
	F16 Key = 0x7F
	F17 Key = 0x80
	F18 Key = 0x81
	F19 Key = 0x82
	F20 Key = 0x83
	F21 Key = 0x84
	F22 Key = 0x85
	F23 Key = 0x86
	F24 Key = 0x87

	NumLock    Key = 0x90
	ScrollLock Key = 0x91

	LeftShift    Key = 0xA0
	RightShift   Key = 0xA1
	LeftControl  Key = 0xA2
	RightControl Key = 0xA3
	LeftAlt      Key = 0xA4
	RightAlt     Key = 0xA5

	BrowserBack      Key = 0xA6
	BrowserForward   Key = 0xA7
	BrowserRefresh   Key = 0xA8
	BrowserStop      Key = 0xA9
	BrowserSearch    Key = 0xAA
	BrowserFavorites Key = 0xAB
	BrowserHome      Key = 0xAC
	VolumeMute       Key = 0xAD
	VolumeDown       Key = 0xAE
	VolumeUp         Key = 0xAF
	MediaNextTrack   Key = 0xB0
	MediaPrevTrack   Key = 0xB1
	MediaStop        Key = 0xB2
	MediaPlayPause   Key = 0xB3
	LaunchMail       Key = 0xB4
	LaunchMedia      Key = 0xB5
	LaunchApp1       Key = 0xB6
	LaunchApp2       Key = 0xB7

	Semicolon    Key = 0xBA
	Equals       Key = 0xBB
	Comma        Key = 0xBC
	Minus        Key = 0xBD
	Period       Key = 0xBE
	Slash        Key = 0xBF
	Backquote    Key = 0xC0
	LeftBracket  Key = 0xDB
	Backslash    Key = 0xDC
	RightBracket Key = 0xDD
	Quote        Key = 0xDE
	Oem8         Key = 0xDF
	Oem102       Key = 0xE2
	ProcessKey   Key = 0xE5
	Packet       Key = 0xE7

	Attn     Key = 0xF6
	CrSel    Key = 0xF7
	ExSel    Key = 0xF8
	EraseEOF Key = 0xF9
	Play     Key = 0xFA
	Zoom     Key = 0xFB
	NoName   Key = 0xFC
	Pa1      Key = 0xFD
	OemClear Key = 0xFE
)

// keyNames holds the canonical name of every key in the catalog. An empty
// entry marks a reserved or unassigned native code.
var keyNames = [256]string{
	LButton: "LButton", RButton: "RButton", Cancel: "Cancel", MButton: "MButton",
	XButton1: "XButton1", XButton2: "XButton2",
	Backspace: "Backspace", Tab: "Tab", Clear: "Clear", Enter: "Enter",
	Shift: "Shift", Control: "Control", Alt: "Alt", Pause: "Pause", CapsLock: "CapsLock",
	Kana: "Kana", ImeOn: "ImeOn", Junja: "Junja", Final: "Final", Kanji: "Kanji", ImeOff: "ImeOff",
	Escape: "Escape", Convert: "Convert", NonConvert: "NonConvert", Accept: "Accept", ModeChange: "ModeChange",
	Space: "Space", PageUp: "PageUp", PageDown: "PageDown", End: "End", Home: "Home",
	Left: "Left", Up: "Up", Right: "Right", Down: "Down",
	Select: "Select", Print: "Print", Execute: "Execute", PrintScreen: "PrintScreen",
	Insert: "Insert", Delete: "Delete", Help: "Help",
	Digit0: "0", Digit1: "1", Digit2: "2", Digit3: "3", Digit4: "4",
	Digit5: "5", Digit6: "6", Digit7: "7", Digit8: "8", Digit9: "9",
	A: "A", B: "B", C: "C", D: "D", E: "E", F: "F", G: "G", H: "H", I: "I",
	J: "J", K: "K", L: "L", M: "M", N: "N", O: "O", P: "P", Q: "Q", R: "R",
	S: "S", T: "T", U: "U", V: "V", W: "W", X: "X", Y: "Y", Z: "Z",
	LeftWin: "LeftWin", RightWin: "RightWin", Apps: "Apps", Sleep: "Sleep",
	Numpad0: "Numpad0", Numpad1: "Numpad1", Numpad2: "Numpad2", Numpad3: "Numpad3", Numpad4: "Numpad4",
	Numpad5: "Numpad5", Numpad6: "Numpad6", Numpad7: "Numpad7", Numpad8: "Numpad8", Numpad9: "Numpad9",
	NumpadMultiply: "NumpadMultiply", NumpadAdd: "NumpadAdd", NumpadSeparator: "NumpadSeparator",
	NumpadSubtract: "NumpadSubtract", NumpadDecimal: "NumpadDecimal", NumpadDivide: "NumpadDivide",
	F1: "F1", F2: "F2", F3: "F3", F4: "F4", F5: "F5", F6: "F6", F7: "F7", F8: "F8",
	F9: "F9", F10: "F10", F11: "F11", F12: "F12", F13: "F13", F14: "F14", F15: "F15", F16: "F16",
	F17: "F17", F18: "F18", F19: "F19", F20: "F20", F21: "F21", F22: "F22", F23: "F23", F24: "F24",
	NumLock: "NumLock", ScrollLock: "ScrollLock",
	LeftShift: "LeftShift", RightShift: "RightShift", LeftControl: "LeftControl",
	RightControl: "RightControl", LeftAlt: "LeftAlt", RightAlt: "RightAlt",
	BrowserBack: "BrowserBack", BrowserForward: "BrowserForward", BrowserRefresh: "BrowserRefresh",
	BrowserStop: "BrowserStop", BrowserSearch: "BrowserSearch", BrowserFavorites: "BrowserFavorites",
	BrowserHome: "BrowserHome", VolumeMute: "VolumeMute", VolumeDown: "VolumeDown", VolumeUp: "VolumeUp",
	MediaNextTrack: "MediaNextTrack", MediaPrevTrack: "MediaPrevTrack", MediaStop: "MediaStop",
	MediaPlayPause: "MediaPlayPause", LaunchMail: "LaunchMail", LaunchMedia: "LaunchMedia",
	LaunchApp1: "LaunchApp1", LaunchApp2: "LaunchApp2",
	Semicolon: "Semicolon", Equals: "Equals", Comma: "Comma", Minus: "Minus", Period: "Period",
	Slash: "Slash", Backquote: "Backquote", LeftBracket: "LeftBracket", Backslash: "Backslash",
	RightBracket: "RightBracket", Quote: "Quote", Oem8: "Oem8", Oem102: "Oem102",
	ProcessKey: "ProcessKey", Packet: "Packet",
	Attn: "Attn", CrSel: "CrSel", ExSel: "ExSel", EraseEOF: "EraseEOF", Play: "Play",
	Zoom: "Zoom", NoName: "NoName", Pa1: "Pa1", OemClear: "OemClear",
}

var keyAliases = map[string]Key{
	"back": Backspace, "bksp": Backspace,
	"return": Enter, "ret": Enter,
	"ctrl": Control, "menu": Alt, "capital": CapsLock, "caps": CapsLock,
	"esc": Escape, "spacebar": Space,
	"pgup": PageUp, "prior": PageUp, "pgdn": PageDown, "next": PageDown,
	"snapshot": PrintScreen, "prtsc": PrintScreen, "ins": Insert, "del": Delete,
	"lwin": LeftWin, "rwin": RightWin, "super": LeftWin, "meta": LeftWin,
	"lshift": LeftShift, "rshift": RightShift, "lctrl": LeftControl, "rctrl": RightControl,
	"lalt": LeftAlt, "ralt": RightAlt, "scroll": ScrollLock,
	"multiply": NumpadMultiply, "add": NumpadAdd, "plus": NumpadAdd, "separator": NumpadSeparator,
	"subtract": NumpadSubtract, "decimal": NumpadDecimal, "divide": NumpadDivide,
	"kpadd": NumpadAdd, "kpsubtract": NumpadSubtract, "kpmultiply": NumpadMultiply,
	"kpdivide": NumpadDivide, "kpdecimal": NumpadDecimal,
	";": Semicolon, "=": Equals, ",": Comma, "-": Minus, ".": Period, "/": Slash,
	"`": Backquote, "grave": Backquote, "[": LeftBracket, "\\": Backslash, "]": RightBracket, "'": Quote,
}

var keysByName map[string]Key

func init() {
	keysByName = make(map[string]Key, len(keyAliases)+200)
	for code, name := range keyNames {
		if name != "" {
			keysByName[strings.ToLower(name)] = Key(code)
		}
	}
	for i := 0; i <= 9; i++ {
		keysByName[fmt.Sprintf("num%d", i)] = Numpad0 + Key(i)
		keysByName[fmt.Sprintf("kp%d", i)] = Numpad0 + Key(i)
		keysByName[fmt.Sprintf("digit%d", i)] = Digit0 + Key(i)
	}
	for alias, k := range keyAliases {
		keysByName[alias] = k
	}
}

// FromNative translates a native key code into a Key. Codes outside 1..254
// and reserved or unassigned codes report false.
func FromNative(code uint32) (Key, bool) {
	if code < 1 || code > 0xFE {
		return 0, false
	}
	if keyNames[code] == "" {
		return 0, false
	}
	return Key(code), true
}

// Native returns the key's native code.
func (k Key) Native() uint32 {
	return uint32(k)
}

// Valid reports whether k is part of the catalog.
func (k Key) Valid() bool {
	_, ok := FromNative(k.Native())
	return ok
}

func (k Key) String() string {
	if name := keyNames[k]; name != "" {
		return name
	}
	return fmt.Sprintf("Key(0x%02X)", uint8(k))
}

// ParseKey looks up a key by its canonical name or a common alias. Matching
// ignores case and surrounding whitespace.
func ParseKey(s string) (Key, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return 0, fmt.Errorf("empty key")
	}
	if k, ok := keysByName[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown key %q", s)
}

// Keys returns every key in the catalog in native code order.
func Keys() []Key {
	keys := make([]Key, 0, 200)
	for code, name := range keyNames {
		if name != "" {
			keys = append(keys, Key(code))
		}
	}
	return keys
}
