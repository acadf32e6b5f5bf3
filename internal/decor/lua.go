package decor

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/folio/internal/layout"
)

// LuaProvider runs a sandboxed Lua script as a decoration provider.
//
// The script defines a global function:
//
//	function decorate(pageNumber)
//	  return { text = "Page " .. pageNumber, height = 36 }
//	end
//
// Returning nil suppresses the decoration for that page. The state is
// sandboxed: only the base, string, table and math libraries are opened,
// and file/module loading entry points are removed.
type LuaProvider struct {
	mu sync.Mutex
	ls *lua.LState
}

// NewLuaProvider compiles the script and verifies it defines decorate().
func NewLuaProvider(script string) (*LuaProvider, error) {
	ls := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, open := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := ls.CallByParam(lua.P{
			Fn:      ls.NewFunction(open.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(open.name)); err != nil {
			ls.Close()
			return nil, fmt.Errorf("decor: opening lua %s: %w", open.name, err)
		}
	}

	// Close the escape hatches the base and package libraries leave open.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "package"} {
		ls.SetGlobal(name, lua.LNil)
	}

	if err := ls.DoString(script); err != nil {
		ls.Close()
		return nil, fmt.Errorf("decor: lua script: %w", err)
	}
	if ls.GetGlobal("decorate").Type() != lua.LTFunction {
		ls.Close()
		return nil, fmt.Errorf("decor: lua script does not define decorate()")
	}

	return &LuaProvider{ls: ls}, nil
}

// Close releases the Lua state.
func (p *LuaProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ls != nil {
		p.ls.Close()
		p.ls = nil
	}
}

// Provider adapts the script to the Provider callback. Script errors
// suppress the decoration rather than failing the paint.
func (p *LuaProvider) Provider() Provider {
	return func(pageNumber int, _ *layout.Margins, _ *layout.Page) *Decoration {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.ls == nil {
			return nil
		}

		if err := p.ls.CallByParam(lua.P{
			Fn:      p.ls.GetGlobal("decorate"),
			NRet:    1,
			Protect: true,
		}, lua.LNumber(pageNumber)); err != nil {
			return nil
		}

		ret := p.ls.Get(-1)
		p.ls.Pop(1)

		tbl, ok := ret.(*lua.LTable)
		if !ok {
			return nil
		}

		d := &Decoration{
			Text:   lua.LVAsString(tbl.RawGetString("text")),
			Height: float64(lua.LVAsNumber(tbl.RawGetString("height"))),
			Offset: float64(lua.LVAsNumber(tbl.RawGetString("offset"))),
		}
		if d.Text == "" && d.Height == 0 {
			return nil
		}
		if d.Height == 0 {
			d.Height = 24
		}
		return d
	}
}
