package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPage = `<html><body>
<div style="height: 460px"></div>
<button id="open" style="width: 100px; height: 20px; left: 10px">Open</button>
</body></html>`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestPlaceJSON(t *testing.T) {
	page := writeFile(t, "page.html", testPage)
	out, _, err := runCmd(t, "place", page,
		"--anchor", "open",
		"--content", `<div style="width: 150px; height: 300px"></div>`,
		"--width", "800", "--height", "600",
		"--class", "menu", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var res placeResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Left != 10 || res.Top != 300 || res.Width != 150 || res.ViewportTop != 300 {
		t.Errorf("placement = %+v", res.Placement)
	}
	if !strings.HasPrefix(res.ID, "drop-") || len(res.Warnings) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestPlaceWarnsAndPrints(t *testing.T) {
	page := writeFile(t, "page.html", testPage)
	out, _, err := runCmd(t, "place", page,
		"--anchor", "open", "--content", "<p>x</p>",
		"--align", "top=middle", "--width", "800", "--height", "600")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`invalid align.top value "middle"`, "left", "10px", "viewport top"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlaceUsesConfig(t *testing.T) {
	page := writeFile(t, "page.html", testPage)
	cfg := writeFile(t, "drop.toml", `
[viewport]
width = 800
height = 600

[drop]
align = "top=bottom"
`)
	out, _, err := runCmd(t, "--config", cfg, "place", page, "--anchor", "open",
		"--content", `<div style="width: 150px; height: 300px"></div>`, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var res placeResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	// requested below, no room: flipped above the anchor
	if res.ViewportTop != 160 {
		t.Errorf("viewport top = %v, want 160", res.ViewportTop)
	}
}

func TestPlaceErrors(t *testing.T) {
	page := writeFile(t, "page.html", testPage)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no anchor", []string{"place", page}, "--anchor is required"},
		{"missing anchor", []string{"place", page, "--anchor", "nope"}, "anchor #nope not found"},
		{"bad align", []string{"place", page, "--anchor", "open", "--align", "middle"}, "expected key=value"},
		{"missing page", []string{"place", page + ".gone", "--anchor", "open"}, "reading"},
		{"bad config", []string{"--config", page + ".toml", "place", page, "--anchor", "open"}, "reading config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCmd(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	page := writeFile(t, "page.html", testPage)
	output := filepath.Join(t.TempDir(), "out.png")
	out, _, err := runCmd(t, "snapshot", page, "-o", output,
		"--width", "320", "--height", "200",
		"--anchor", "open", "--content", "<p>menu</p>")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 drop(s)") || !strings.Contains(out, output) {
		t.Errorf("output = %q", out)
	}
	f, err := os.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 200 {
		t.Errorf("bounds = %v", b)
	}
}
