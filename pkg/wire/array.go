package wire

import "fmt"

// Array is an append-only root array of encoded objects. It is used for
// root arrays this module does not own, such as glTF nodes or collision
// shapes, so placeholders can be resolved into them.
type Array struct {
	Items []Object
}

// Append encodes payload and returns its index.
func (a *Array) Append(payload any) (int, error) {
	var obj Object
	switch p := payload.(type) {
	case Object:
		obj = p
	case Encoder:
		encoded, err := p.ToWire()
		if err != nil {
			return 0, err
		}
		obj = encoded
	default:
		return 0, fmt.Errorf("%w: cannot append %s to array", ErrInvalidValue, describe(payload))
	}
	a.Items = append(a.Items, obj)
	return len(a.Items) - 1, nil
}

// Len returns the number of items.
func (a *Array) Len() int {
	return len(a.Items)
}

// Wire returns the items as a wire sequence.
func (a *Array) Wire() []any {
	out := make([]any, len(a.Items))
	for i, item := range a.Items {
		out[i] = item
	}
	return out
}
