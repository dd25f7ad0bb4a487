package hotkey

import xhotkey "golang.design/x/hotkey"

func registeredCode(k Key) (xhotkey.Key, bool) {
	return xhotkey.Key(k.Native()), k.Valid()
}
