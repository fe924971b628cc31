package caixa

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("field order is insertion order", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("till", 3)
		w.Append("kind", "supply")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"till":3,"kind":"supply"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("embed strips the outer braces", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("record", "movement")
		w.Embed(json.RawMessage(`{"id":"m1","till":1}`))
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"record":"movement","id":"m1","till":1}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional skips zero values only", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 0) // an explicit zero is still written.
		w.Optional("note", "")
		w.Optional("till", 0)
		w.Optional("createdBy", "ana")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"a":0,"createdBy":"ana"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestEncodeRecordPutsDiscriminatorFirst(t *testing.T) {
	var buf bytes.Buffer
	m := Movement{ID: "m1", Till: 1, Kind: Supply, Amount: BRL(10), Day: testDay}
	if err := encodeRecord(&buf, recMovement, m); err != nil {
		t.Fatalf("encodeRecord() error = %v", err)
	}
	line := buf.String()
	if line[len(line)-1] != '\n' {
		t.Error("record line must end with a newline")
	}
	if want := `{"record":"movement","id":"m1"`; !bytes.HasPrefix(buf.Bytes(), []byte(want)) {
		t.Errorf("line = %s, want prefix %s", line, want)
	}
}
