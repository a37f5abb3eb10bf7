package vdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

var escaper = strings.NewReplacer(
	"\\", "\\\\",
	"\"", "\\\"",
	"\n", "\\n",
	"\t", "\\t",
	"\r", "\\r",
)

// Marshal encodes m in the tab-indented layout Steam writes.
func Marshal(m *Map) []byte {
	var buf bytes.Buffer
	writeMap(&buf, m, 0)
	return buf.Bytes()
}

// Encode writes m to w in the tab-indented layout Steam writes.
func Encode(w io.Writer, m *Map) error {
	_, err := w.Write(Marshal(m))
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func writeMap(buf *bytes.Buffer, m *Map, depth int) {
	indent := strings.Repeat("\t", depth)
	for _, e := range m.entries {
		switch v := e.Value.(type) {
		case *Map:
			fmt.Fprintf(buf, "%s\"%s\"\n%s{\n", indent, escaper.Replace(e.Key), indent)
			writeMap(buf, v, depth+1)
			fmt.Fprintf(buf, "%s}\n", indent)
		case string:
			fmt.Fprintf(buf, "%s\"%s\"\t\t\"%s\"\n", indent, escaper.Replace(e.Key), escaper.Replace(v))
		}
	}
}
