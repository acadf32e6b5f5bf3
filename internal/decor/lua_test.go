package decor

import (
	"strings"
	"testing"
)

func TestStatic(t *testing.T) {
	d := &Decoration{Text: "Confidential", Height: 24}
	p := Static(d)

	for page := 1; page <= 3; page++ {
		if got := p(page, nil, nil); got != d {
			t.Errorf("page %d: expected the same decoration back", page)
		}
	}
}

func TestLuaProvider(t *testing.T) {
	lp, err := NewLuaProvider(`
		function decorate(pageNumber)
			return { text = "Page " .. pageNumber, height = 36 }
		end
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lp.Close()

	p := lp.Provider()
	d := p(7, nil, nil)
	if d == nil {
		t.Fatalf("expected a decoration")
	}
	if d.Text != "Page 7" {
		t.Errorf("text = %q, want %q", d.Text, "Page 7")
	}
	if d.Height != 36 {
		t.Errorf("height = %g, want 36", d.Height)
	}
}

func TestLuaProviderDefaultHeight(t *testing.T) {
	lp, err := NewLuaProvider(`
		function decorate(pageNumber)
			return { text = "footer" }
		end
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lp.Close()

	d := lp.Provider()(1, nil, nil)
	if d == nil || d.Height != 24 {
		t.Errorf("expected default height 24, got %+v", d)
	}
}

func TestLuaProviderNilSuppresses(t *testing.T) {
	lp, err := NewLuaProvider(`
		function decorate(pageNumber)
			if pageNumber == 1 then return nil end
			return { text = "after first" }
		end
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lp.Close()

	p := lp.Provider()
	if d := p(1, nil, nil); d != nil {
		t.Errorf("expected nil for page 1, got %+v", d)
	}
	if d := p(2, nil, nil); d == nil {
		t.Errorf("expected a decoration for page 2")
	}
}

func TestLuaProviderRequiresDecorate(t *testing.T) {
	_, err := NewLuaProvider(`x = 1`)
	if err == nil || !strings.Contains(err.Error(), "decorate") {
		t.Errorf("expected a missing-decorate error, got %v", err)
	}
}

func TestLuaProviderRejectsBrokenScript(t *testing.T) {
	if _, err := NewLuaProvider(`function decorate(`); err == nil {
		t.Errorf("expected a compile error")
	}
}

func TestLuaProviderSandbox(t *testing.T) {
	// File and module loading entry points are removed from the state.
	lp, err := NewLuaProvider(`
		function decorate(pageNumber)
			if dofile ~= nil or loadfile ~= nil or require ~= nil or package ~= nil then
				return { text = "escape" }
			end
			return { text = "sandboxed" }
		end
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lp.Close()

	d := lp.Provider()(1, nil, nil)
	if d == nil || d.Text != "sandboxed" {
		t.Errorf("expected sandboxed state, got %+v", d)
	}
}

func TestLuaProviderErrorSuppresses(t *testing.T) {
	lp, err := NewLuaProvider(`
		function decorate(pageNumber)
			error("boom")
		end
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lp.Close()

	if d := lp.Provider()(1, nil, nil); d != nil {
		t.Errorf("a failing script must suppress the decoration, got %+v", d)
	}
}

func TestLuaProviderAfterClose(t *testing.T) {
	lp, err := NewLuaProvider(`function decorate(n) return { text = "x" } end`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := lp.Provider()
	lp.Close()

	if d := p(1, nil, nil); d != nil {
		t.Errorf("a closed provider must return nil, got %+v", d)
	}
}
