package media

import "testing"

func TestDeriveName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example/store1/a.jpg", "a"},
		{"https://cdn.example/store1/chew-toy.png", "chew-toy"},
		{"https://cdn.example/a/b/c/photo.webp", "photo"},
		{"https://cdn.example/noext", "noext"},
		{"https://cdn.example/pic.name.jpeg", "pic.name"},
		{"https://cdn.example/store1/a.jpg?w=800&h=600", "a"},
		{"https://cdn.example/", "image"},
		{"", "image"},
		{"plain-filename.gif", "plain-filename"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := DeriveName(tt.url); got != tt.want {
				t.Errorf("DeriveName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

// onePixelPNG is a 1x1 transparent PNG, base64-encoded.
const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func TestDimensions(t *testing.T) {
	w, h, err := Dimensions(&EncodedImage{Data: onePixelPNG, MIMEType: "image/png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 1 || h != 1 {
		t.Errorf("expected 1x1, got %dx%d", w, h)
	}
}

func TestDimensions_InvalidPayload(t *testing.T) {
	if _, _, err := Dimensions(&EncodedImage{Data: "bm90IGFuIGltYWdl", MIMEType: "image/png"}); err == nil {
		t.Error("expected error for non-image payload")
	}
	if _, _, err := Dimensions(&EncodedImage{Data: "!!not base64!!", MIMEType: "image/png"}); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/jpeg", "jpg"},
		{"image/png", "png"},
		{"image/webp", "webp"},
		{"image/gif", "gif"},
		{"application/octet-stream", "jpg"},
	}
	for _, tt := range tests {
		if got := extensionFor(tt.mime); got != tt.want {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}
