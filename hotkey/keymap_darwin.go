//go:build darwin

package hotkey

// macKeys maps Carbon virtual key codes (kVK_*) to the key catalog. Keypad
// Enter reports as Enter and keypad Clear as NumLock, matching the keys
// that sit in those positions on a PC keyboard.
var macKeys = map[uint16]Key{
	0x00: A,
	0x01: S,
	0x02: D,
	0x03: F,
	0x04: H,
	0x05: G,
	0x06: Z,
	0x07: X,
	0x08: C,
	0x09: V,
	0x0A: Oem102,
	0x0B: B,
	0x0C: Q,
	0x0D: W,
	0x0E: E,
	0x0F: R,
	0x10: Y,
	0x11: T,
	0x12: Digit1,
	0x13: Digit2,
	0x14: Digit3,
	0x15: Digit4,
	0x16: Digit6,
	0x17: Digit5,
	0x18: Equals,
	0x19: Digit9,
	0x1A: Digit7,
	0x1B: Minus,
	0x1C: Digit8,
	0x1D: Digit0,
	0x1E: RightBracket,
	0x1F: O,
	0x20: U,
	0x21: LeftBracket,
	0x22: I,
	0x23: P,
	0x24: Enter,
	0x25: L,
	0x26: J,
	0x27: Quote,
	0x28: K,
	0x29: Semicolon,
	0x2A: Backslash,
	0x2B: Comma,
	0x2C: Slash,
	0x2D: N,
	0x2E: M,
	0x2F: Period,
	0x30: Tab,
	0x31: Space,
	0x32: Backquote,
	0x33: Backspace,
	0x35: Escape,
	0x36: RightWin,
	0x37: LeftWin,
	0x38: LeftShift,
	0x39: CapsLock,
	0x3A: LeftAlt,
	0x3B: LeftControl,
	0x3C: RightShift,
	0x3D: RightAlt,
	0x3E: RightControl,
	0x40: F17,
	0x41: NumpadDecimal,
	0x43: NumpadMultiply,
	0x45: NumpadAdd,
	0x47: NumLock,
	0x48: VolumeUp,
	0x49: VolumeDown,
	0x4A: VolumeMute,
	0x4B: NumpadDivide,
	0x4C: Enter,
	0x4E: NumpadSubtract,
	0x4F: F18,
	0x50: F19,
	0x52: Numpad0,
	0x53: Numpad1,
	0x54: Numpad2,
	0x55: Numpad3,
	0x56: Numpad4,
	0x57: Numpad5,
	0x58: Numpad6,
	0x59: Numpad7,
	0x5A: F20,
	0x5B: Numpad8,
	0x5C: Numpad9,
	0x5F: NumpadSeparator,
	0x60: F5,
	0x61: F6,
	0x62: F7,
	0x63: F3,
	0x64: F8,
	0x65: F9,
	0x66: NonConvert,
	0x67: F11,
	0x68: Kana,
	0x69: F13,
	0x6A: F16,
	0x6B: F14,
	0x6D: F10,
	0x6F: F12,
	0x71: F15,
	0x72: Insert,
	0x73: Home,
	0x74: PageUp,
	0x75: Delete,
	0x76: F4,
	0x77: End,
	0x78: F2,
	0x79: PageDown,
	0x7A: F1,
	0x7B: Left,
	0x7C: Right,
	0x7D: Down,
	0x7E: Up,
}

// macToNative returns the native (virtual-key) code for a macOS key code,
// or 0 when the key is outside the catalog.
func macToNative(code uint16) uint32 {
	k, ok := macKeys[code]
	if !ok {
		return 0
	}
	return k.Native()
}

func macCode(k Key) (uint16, bool) {
	for code, key := range macKeys {
		if key == k {
			return code, true
		}
	}
	return 0, false
}
