package manifest

import (
	"context"
	"fmt"

	"github.com/ZebulonRouseFrantzich/mcplaunch/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// ParseLua evaluates a Lua manifest. The script must define a global
// "launcher" table:
//
//	launcher = {
//	  binaries = {
//	    [platform.key("mcp-digitalocean")] = platform.is_windows
//	      and "mcp-digitalocean.exe" or "mcp-digitalocean",
//	  },
//	  checksums = { ["mcp-digitalocean-linux-x64"] = "<sha256>" },
//	  keyring = "release.asc",
//	}
//
// When detector is nil the platform table is not injected.
func ParseLua(ctx context.Context, code string, detector platform.Detector) (*Manifest, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if detector != nil {
		info, err := detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(code); err != nil {
		return nil, &LoadError{Message: "Lua error in manifest", Detail: err.Error(), Err: err}
	}

	return extractManifest(L)
}

func extractManifest(L *lua.LState) (*Manifest, error) {
	root, ok := L.GetGlobal(luaGlobalLauncher).(*lua.LTable)
	if !ok {
		return nil, &LoadError{
			Message: "missing or invalid 'launcher' table",
			Detail:  fmt.Sprintf("expected table, got %s", L.GetGlobal(luaGlobalLauncher).Type()),
		}
	}

	binariesVal, ok := root.RawGetString(luaFieldBinaries).(*lua.LTable)
	if !ok {
		return nil, &LoadError{
			Message: "missing or invalid 'launcher.binaries' table",
			Detail:  fmt.Sprintf("expected table, got %s", root.RawGetString(luaFieldBinaries).Type()),
		}
	}
	binaries, err := stringMap(binariesVal, luaFieldBinaries)
	if err != nil {
		return nil, err
	}

	var checksums map[string]string
	switch v := root.RawGetString(luaFieldChecksums).(type) {
	case *lua.LTable:
		if checksums, err = stringMap(v, luaFieldChecksums); err != nil {
			return nil, err
		}
	case *lua.LNilType:
	default:
		return nil, &LoadError{
			Message: "invalid 'launcher.checksums'",
			Detail:  fmt.Sprintf("expected table, got %s", v.Type()),
		}
	}

	var keyring string
	switch v := root.RawGetString(luaFieldKeyring).(type) {
	case lua.LString:
		keyring = string(v)
	case *lua.LNilType:
	default:
		return nil, &LoadError{
			Message: "invalid 'launcher.keyring'",
			Detail:  fmt.Sprintf("expected string, got %s", v.Type()),
		}
	}

	return New(binaries, checksums, keyring)
}

// stringMap converts a Lua table with string keys and values. Entries whose
// value is nil (from conditionals) never show up in ForEach.
func stringMap(table *lua.LTable, field string) (map[string]string, error) {
	out := make(map[string]string)
	var bad error
	table.ForEach(func(key, value lua.LValue) {
		if bad != nil {
			return
		}
		k, kok := key.(lua.LString)
		v, vok := value.(lua.LString)
		if !kok || !vok {
			bad = &LoadError{
				Message: fmt.Sprintf("invalid entry in 'launcher.%s'", field),
				Detail:  fmt.Sprintf("expected string = string, got %s = %s", key.Type(), value.Type()),
			}
			return
		}
		out[string(k)] = string(v)
	})
	if bad != nil {
		return nil, bad
	}
	return out, nil
}
