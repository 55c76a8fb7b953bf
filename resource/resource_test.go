package resource

import (
	"bytes"
	"errors"
	"testing"
	"testing/fstest"
)

func TestFSLoader(t *testing.T) {
	l := NewFSLoader(fstest.MapFS{
		"fonts/a.ttf": {Data: []byte("abc")},
	})

	tests := []struct {
		name    string
		want    []byte
		wantErr error
	}{
		{"fonts/a.ttf", []byte("abc"), nil},
		{"/fonts/a.ttf", []byte("abc"), nil},
		{"fonts/../fonts/a.ttf", []byte("abc"), nil},
		{"fonts/b.ttf", nil, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.LoadBytes(tt.name)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("LoadBytes(%q) error = %v, want %v", tt.name, err, tt.wantErr)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("LoadBytes(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestEmbedded(t *testing.T) {
	for _, name := range EmbeddedNames() {
		data, err := Embedded{}.LoadBytes(name)
		if err != nil {
			t.Fatalf("LoadBytes(%q) error = %v", name, err)
		}
		if len(data) == 0 {
			t.Errorf("LoadBytes(%q) returned no data", name)
		}
	}
	if _, err := (Embedded{}).LoadBytes("fonts/Roboto-Regular.ttf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing embedded error = %v, want ErrNotFound", err)
	}
}

func TestChain(t *testing.T) {
	first := NewFSLoader(fstest.MapFS{"fonts/GoRegular.ttf": {Data: []byte("override")}})
	c := Chain{first, Embedded{}}

	got, err := c.LoadBytes("fonts/GoRegular.ttf")
	if err != nil || string(got) != "override" {
		t.Fatalf("first loader should win, got %q, %v", got, err)
	}
	got, err = c.LoadBytes("fonts/GoMono.ttf")
	if err != nil || len(got) == 0 {
		t.Fatalf("fallback failed: %v", err)
	}
	if _, err := c.LoadBytes("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDefault(t *testing.T) {
	if _, ok := Default("").(Embedded); !ok {
		t.Error("Default(\"\") should be Embedded")
	}
	if _, err := Default(t.TempDir()).LoadBytes("fonts/GoBold.ttf"); err != nil {
		t.Errorf("Default(dir) fallback error = %v", err)
	}
}
