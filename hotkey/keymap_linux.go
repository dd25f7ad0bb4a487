//go:build linux

package hotkey

// evdevKeys maps KEY_* and BTN_* codes from linux/input-event-codes.h to
// the key catalog. Keypad Enter reports as Enter, as it does on Windows.
var evdevKeys = map[uint16]Key{
	1:   Escape,
	2:   Digit1,
	3:   Digit2,
	4:   Digit3,
	5:   Digit4,
	6:   Digit5,
	7:   Digit6,
	8:   Digit7,
	9:   Digit8,
	10:  Digit9,
	11:  Digit0,
	12:  Minus,
	13:  Equals,
	14:  Backspace,
	15:  Tab,
	16:  Q,
	17:  W,
	18:  E,
	19:  R,
	20:  T,
	21:  Y,
	22:  U,
	23:  I,
	24:  O,
	25:  P,
	26:  LeftBracket,
	27:  RightBracket,
	28:  Enter,
	29:  LeftControl,
	30:  A,
	31:  S,
	32:  D,
	33:  F,
	34:  G,
	35:  H,
	36:  J,
	37:  K,
	38:  L,
	39:  Semicolon,
	40:  Quote,
	41:  Backquote,
	42:  LeftShift,
	43:  Backslash,
	44:  Z,
	45:  X,
	46:  C,
	47:  V,
	48:  B,
	49:  N,
	50:  M,
	51:  Comma,
	52:  Period,
	53:  Slash,
	54:  RightShift,
	55:  NumpadMultiply,
	56:  LeftAlt,
	57:  Space,
	58:  CapsLock,
	59:  F1,
	60:  F2,
	61:  F3,
	62:  F4,
	63:  F5,
	64:  F6,
	65:  F7,
	66:  F8,
	67:  F9,
	68:  F10,
	69:  NumLock,
	70:  ScrollLock,
	71:  Numpad7,
	72:  Numpad8,
	73:  Numpad9,
	74:  NumpadSubtract,
	75:  Numpad4,
	76:  Numpad5,
	77:  Numpad6,
	78:  NumpadAdd,
	79:  Numpad1,
	80:  Numpad2,
	81:  Numpad3,
	82:  Numpad0,
	83:  NumpadDecimal,
	86:  Oem102,
	87:  F11,
	88:  F12,
	92:  Convert,
	93:  Kana,
	94:  NonConvert,
	96:  Enter,
	97:  RightControl,
	98:  NumpadDivide,
	99:  PrintScreen,
	100: RightAlt,
	102: Home,
	103: Up,
	104: PageUp,
	105: Left,
	106: Right,
	107: End,
	108: Down,
	109: PageDown,
	110: Insert,
	111: Delete,
	113: VolumeMute,
	114: VolumeDown,
	115: VolumeUp,
	119: Pause,
	121: NumpadSeparator,
	122: Kana,
	123: Kanji,
	125: LeftWin,
	126: RightWin,
	127: Apps,
	128: BrowserStop,
	138: Help,
	140: LaunchApp2,
	142: Sleep,
	155: LaunchMail,
	156: BrowserFavorites,
	158: BrowserBack,
	159: BrowserForward,
	163: MediaNextTrack,
	164: MediaPlayPause,
	165: MediaPrevTrack,
	166: MediaStop,
	172: BrowserHome,
	173: BrowserRefresh,
	183: F13,
	184: F14,
	185: F15,
	186: F16,
	187: F17,
	188: F18,
	189: F19,
	190: F20,
	191: F21,
	192: F22,
	193: F23,
	194: F24,
	207: Play,
	217: BrowserSearch,
	226: LaunchMedia,
	272: LButton,
	273: RButton,
	274: MButton,
	275: XButton1,
	276: XButton2,
	372: Zoom,
}

// evdevToNative returns the native (virtual-key) code for an evdev key
// code, or 0 when the key is outside the catalog.
func evdevToNative(code uint16) uint32 {
	return evdevKeys[code].Native()
}

// EvdevCode is the reverse lookup, used by diagnostics that inject keys.
func EvdevCode(k Key) (uint16, bool) {
	for code, key := range evdevKeys {
		if key == k {
			return code, true
		}
	}
	return 0, false
}
