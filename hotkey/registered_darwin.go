package hotkey

import xhotkey "golang.design/x/hotkey"

func registeredCode(k Key) (xhotkey.Key, bool) {
	code, ok := macCode(k)
	return xhotkey.Key(code), ok
}
