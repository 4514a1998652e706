package memory

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/gobeaver/icekit"
)

func TestWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("writes object successfully", func(t *testing.T) {
		a := New()
		content := "hello world"

		if err := a.Write(ctx, "data/test.txt", strings.NewReader(content)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		exists, err := a.FileExists(ctx, "data/test.txt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !exists {
			t.Error("expected object to exist")
		}
		if a.Size() != int64(len(content)) {
			t.Errorf("expected size=%d, got %d", len(content), a.Size())
		}
	})

	t.Run("overwrite adjusts size", func(t *testing.T) {
		a := New()
		_ = a.WriteBytes(ctx, "k", []byte("12345"))
		_ = a.WriteBytes(ctx, "k", []byte("12"))
		if a.Size() != 2 {
			t.Errorf("expected size=2, got %d", a.Size())
		}
		if a.FileCount() != 1 {
			t.Errorf("expected 1 object, got %d", a.FileCount())
		}
	})

	t.Run("fails on path traversal", func(t *testing.T) {
		a := New()
		err := a.Write(ctx, "../etc/passwd", strings.NewReader("x"))
		if !errors.Is(err, icekit.ErrNotAllowed) {
			t.Errorf("expected ErrNotAllowed, got %v", err)
		}
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		a := New()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if err := a.Write(cctx, "k", strings.NewReader("x")); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestRead(t *testing.T) {
	ctx := context.Background()
	a := New()
	_ = a.WriteBytes(ctx, "t/data/a.parquet", []byte("content"))

	t.Run("streams content", func(t *testing.T) {
		rc, err := a.Read(ctx, "t/data/a.parquet")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		if string(data) != "content" {
			t.Errorf("expected content, got %q", data)
		}
	})

	t.Run("missing object returns ErrNotExist", func(t *testing.T) {
		_, err := a.ReadAll(ctx, "missing")
		if !icekit.IsNotExist(err) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})
}

func TestKeysAreVerbatim(t *testing.T) {
	ctx := context.Background()
	a := New()
	_ = a.WriteBytes(ctx, "t/data/a.parquet", []byte("a"))
	_ = a.WriteBytes(ctx, "/t/data/b.parquet", []byte("b"))
	_ = a.WriteBytes(ctx, "t//data/c.parquet", []byte("c"))

	tests := []struct {
		key  string
		want bool
	}{
		{"t/data/a.parquet", true},
		{"/t/data/a.parquet", false},
		{"t/data/./a.parquet", false},
		{"t//data/a.parquet", false},
		{"/t/data/b.parquet", true},
		{"t/data/b.parquet", false},
		{"t//data/c.parquet", true},
		{"t/data/c.parquet", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			exists, err := a.FileExists(ctx, tt.key)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if exists != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.key, exists, tt.want)
			}
			_, err = a.ReadAll(ctx, tt.key)
			if (err == nil) != tt.want {
				t.Errorf("ReadAll(%q) error = %v, want found=%v", tt.key, err, tt.want)
			}
		})
	}

	t.Run("listing returns the stored keys", func(t *testing.T) {
		var got []string
		_ = a.ListKeys(ctx, "", func(key string) error {
			got = append(got, key)
			return nil
		})
		want := []string{"/t/data/b.parquet", "t//data/c.parquet", "t/data/a.parquet"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	a := New()
	_ = a.WriteBytes(ctx, "k", []byte("abc"))

	if err := a.Delete(ctx, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exists, _ := a.FileExists(ctx, "k")
	if exists {
		t.Error("expected object to be deleted")
	}
	if a.Size() != 0 {
		t.Errorf("expected size=0, got %d", a.Size())
	}
	if err := a.Delete(ctx, "k"); !icekit.IsNotExist(err) {
		t.Errorf("expected not-exist error on second delete, got %v", err)
	}
}

func TestListKeys(t *testing.T) {
	ctx := context.Background()
	a := New()
	for _, k := range []string{"t/data/b.parquet", "t/data/a.parquet", "t/metadata/v1.json", "other/x"} {
		_ = a.WriteBytes(ctx, k, []byte(k))
	}

	t.Run("lists keys under prefix in sorted order", func(t *testing.T) {
		var got []string
		err := a.ListKeys(ctx, "t/data/", func(key string) error {
			got = append(got, key)
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"t/data/a.parquet", "t/data/b.parquet"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty prefix lists everything", func(t *testing.T) {
		n := 0
		_ = a.ListKeys(ctx, "", func(string) error { n++; return nil })
		if n != 4 {
			t.Errorf("expected 4 keys, got %d", n)
		}
	})

	t.Run("callback error stops listing", func(t *testing.T) {
		stop := errors.New("stop")
		n := 0
		err := a.ListKeys(ctx, "", func(string) error { n++; return stop })
		if !errors.Is(err, stop) {
			t.Errorf("expected stop error, got %v", err)
		}
		if n != 1 {
			t.Errorf("expected listing to stop after 1 key, got %d", n)
		}
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	a := New()
	_ = a.WriteBytes(ctx, "a", []byte("1"))
	_ = a.WriteBytes(ctx, "b", []byte("2"))

	a.Clear()
	if a.FileCount() != 0 || a.Size() != 0 {
		t.Errorf("expected empty adapter, got %d objects, %d bytes", a.FileCount(), a.Size())
	}
}
