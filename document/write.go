package document

import (
	"strings"

	"github.com/ShtibsDev/rdn/writer"
)

// Format renders the document to a string through a writer.Writer
// configured with opts. It is the parse-then-emit convenience the
// round-trip properties of RDN §8 are phrased in terms of.
func (d *Document) Format(opts writer.Options) (string, error) {
	var sb strings.Builder
	w := writer.New(&sb, opts)
	if err := d.WriteTo(w); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteTo re-serializes the document through w (RDN §6.4's
// write-to-writer operation). The emitted text is canonical, not
// byte-identical to the source: datetimes normalize to UTC, binary
// payloads re-encode as base64 regardless of their source form (RDN
// §3.3 invariant 6), and strings re-escape through the canonical table.
// Parsing the output yields a document deeply equal to this one.
func (d *Document) WriteTo(w *writer.Writer) error {
	if err := d.Root().WriteTo(w); err != nil {
		return err
	}
	return w.Flush()
}

// WriteTo emits the subtree rooted at e through w.
func (e Element) WriteTo(w *writer.Writer) error {
	switch e.Kind() {
	case Null:
		return w.WriteNull()
	case True:
		return w.WriteBool(true)
	case False:
		return w.WriteBool(false)
	case Number, BigInteger:
		// The raw span is already a valid RDN literal (including the
		// NaN/Infinity specials and the 'n' suffix); re-formatting through
		// float64 would lose precision the source carried.
		return w.WriteRaw(e.Raw())
	case String:
		s, err := e.GetString()
		if err != nil {
			return err
		}
		return w.WriteString(s)
	case DateTime:
		t, err := e.GetDateTime()
		if err != nil {
			return err
		}
		return w.WriteDateTime(t)
	case TimeOnly:
		t, err := e.GetTimeOnly()
		if err != nil {
			return err
		}
		return w.WriteTimeOnly(t)
	case Duration:
		d, err := e.GetDuration()
		if err != nil {
			return err
		}
		return w.WriteDuration(d)
	case Binary:
		data, err := e.GetBinary()
		if err != nil {
			return err
		}
		return w.WriteBinaryBase64(data)
	case RegExp:
		pattern, flags, err := e.GetRegexp()
		if err != nil {
			return err
		}
		return w.WriteRegexp(pattern, flags)
	case Array:
		return e.writeSequence(w, w.BeginArray, w.EndArray)
	case Tuple:
		return e.writeSequence(w, w.BeginTuple, w.EndTuple)
	case Set:
		return e.writeSequence(w, w.BeginSet, w.EndSet)
	case Object:
		return e.writeObject(w)
	case Map:
		return e.writeMap(w)
	default:
		return e.invalid("cannot serialize element of kind %s", e.Kind())
	}
}

func (e Element) writeSequence(w *writer.Writer, begin, end func() error) error {
	if err := begin(); err != nil {
		return err
	}
	for child := range e.Elements() {
		if err := child.WriteTo(w); err != nil {
			return err
		}
	}
	return end()
}

func (e Element) writeObject(w *writer.Writer) error {
	if err := w.BeginObject(); err != nil {
		return err
	}
	for name, value := range e.Properties() {
		if err := w.WritePropertyName(name); err != nil {
			return err
		}
		if err := value.WriteTo(w); err != nil {
			return err
		}
	}
	return w.EndObject()
}

func (e Element) writeMap(w *writer.Writer) error {
	if err := w.BeginMap(); err != nil {
		return err
	}
	for key, value := range e.Pairs() {
		if err := key.WriteTo(w); err != nil {
			return err
		}
		if err := value.WriteTo(w); err != nil {
			return err
		}
	}
	return w.EndMap()
}
