package messages

import (
	"testing"
	"testing/fstest"

	"github.com/ferrost/appkit/pkg/resources"
)

func TestYAMLSource(t *testing.T) {
	fsys := fstest.MapFS{
		"messages/en.yaml": {Data: []byte("greeting: hello\norder:\n  shipped: \"order {{.id}} shipped\"\n")},
		"messages/de.yaml": {Data: []byte("greeting: hallo\n")},
	}
	loader := resources.NewLoader(resources.WithMount("bundled", fsys))

	bundles, err := NewYAMLSource(loader, "fs:bundled/messages/*.yaml").Load()
	if err != nil {
		t.Fatal(err)
	}

	if bundles["en"]["greeting"] != "hello" {
		t.Errorf("en bundle wrong: %v", bundles["en"])
	}
	if bundles["de"]["greeting"] != "hallo" {
		t.Errorf("de bundle wrong: %v", bundles["de"])
	}
	if bundles["en"]["order.shipped"] != "order {{.id}} shipped" {
		t.Errorf("nested keys should flatten to dotted codes: %v", bundles["en"])
	}
}

func TestYAMLSource_IntoResolver(t *testing.T) {
	fsys := fstest.MapFS{
		"messages/en.yaml": {Data: []byte("farewell: \"bye, {{.name}}\"\n")},
	}
	loader := resources.NewLoader(resources.WithMount("bundled", fsys))

	r, err := NewFromSources([]Source{NewYAMLSource(loader, "fs:bundled/messages/*.yaml")})
	if err != nil {
		t.Fatal(err)
	}

	got, err := r.Resolve("farewell", map[string]any{"name": "alice"}, "en-GB")
	if err != nil {
		t.Fatal(err)
	}
	if got != "bye, alice" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestYAMLSource_BadYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"messages/en.yaml": {Data: []byte("greeting: [unclosed")},
	}
	loader := resources.NewLoader(resources.WithMount("bundled", fsys))

	_, err := NewYAMLSource(loader, "fs:bundled/messages/*.yaml").Load()
	if err == nil {
		t.Fatal("malformed bundle should fail loading")
	}
}
