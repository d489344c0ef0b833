package wire

import "fmt"

// Wire keys shared by every entity.
const (
	KeyExtensions = "extensions"
	KeyExtras     = "extras"
)

// Extensions maps a vendor extension name to its payload, which is never
// interpreted.
type Extensions map[string]Object

// Passthrough carries the extension and extras blocks common to all
// entities. Embed it to get both fields.
type Passthrough struct {
	Extensions Extensions
	Extras     any
}

// EncodePassthrough writes extensions and extras into obj. Nil blocks are
// omitted rather than emitted as null.
func (p Passthrough) EncodePassthrough(obj Object) {
	if p.Extensions != nil {
		ext := make(Object, len(p.Extensions))
		for name, payload := range p.Extensions {
			ext[name] = payload
		}
		obj[KeyExtensions] = ext
	}
	if p.Extras != nil {
		obj[KeyExtras] = p.Extras
	}
}

// DecodePassthrough reads extensions and extras from obj.
func DecodePassthrough(obj Object) (Passthrough, error) {
	ext, err := decodeExtensions(obj[KeyExtensions])
	if err != nil {
		return Passthrough{}, Field(KeyExtensions, err)
	}
	return Passthrough{Extensions: ext, Extras: obj[KeyExtras]}, nil
}

func decodeExtensions(v any) (Extensions, error) {
	if v == nil {
		return nil, nil
	}
	obj, err := AsObject(v)
	if err != nil {
		return nil, err
	}
	out := make(Extensions, len(obj))
	for name, payload := range obj {
		inner, ok := payload.(Object)
		if !ok {
			return nil, fmt.Errorf("%s: %w: expected object, got %s", name, ErrSchemaViolation, describe(payload))
		}
		out[name] = inner
	}
	return out, nil
}
