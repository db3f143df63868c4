package manifest

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM removes everything a manifest could use to run commands,
// touch the filesystem or load other code. string, table and math remain.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range []string{
		"os", "io", "debug",
		"require", "dofile", "loadfile", "load", "loadstring",
	} {
		L.SetGlobal(name, lua.LNil)
	}
}

func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
