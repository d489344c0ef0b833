package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutOptionalOmitsAbsent(t *testing.T) {
	obj := Object{}
	require.NoError(t, PutOptional(obj, "mass", EncodeFloat, nil))
	assert.NotContains(t, obj, "mass")

	require.NoError(t, PutOptional(obj, "mass", EncodeFloat, Ptr(0.0)))
	assert.Equal(t, Object{"mass": 0.0}, obj, "present zero must be kept")
}

func TestPutOptionalWrapsKey(t *testing.T) {
	bad := errors.New("boom")
	err := PutOptional(Object{}, "mass", func(float64) (any, error) { return nil, bad }, Ptr(1.0))
	assert.ErrorIs(t, err, bad)
	assert.Contains(t, err.Error(), "mass")
}

func TestGetOptional(t *testing.T) {
	obj := Object{"mass": 0.0, "gravityFactor": nil, "bad": "x"}

	got, err := GetOptional(obj, "mass", DecodeFloat)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0.0, *got)

	got, err = GetOptional(obj, "missing", DecodeFloat)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = GetOptional(obj, "gravityFactor", DecodeFloat)
	require.NoError(t, err)
	assert.Nil(t, got, "null reads as absent")

	got, err = GetOptional(nil, "mass", DecodeFloat)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = GetOptional(obj, "bad", DecodeFloat)
	assert.ErrorIs(t, err, ErrMalformedPrimitive)
	assert.Contains(t, err.Error(), "bad:")
}

func TestOptionalList(t *testing.T) {
	obj := Object{}
	require.NoError(t, PutOptionalList(obj, "a", EncodeInt, nil))
	require.NoError(t, PutOptionalList(obj, "b", EncodeInt, []int{}))
	assert.NotContains(t, obj, "a")
	assert.Equal(t, []any{}, obj["b"])

	got, err := GetOptionalList(obj, "b", DecodeInt)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = GetOptionalList(obj, "a", DecodeInt)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecodeUnionFirstMatchWins(t *testing.T) {
	arms := []DecodeArm[string]{
		{Accepts: IsInteger, Decode: func(any) (string, error) { return "index", nil }},
		{Accepts: IsObject, Decode: func(any) (string, error) { return "object", nil }},
		{Accepts: func(any) bool { return true }, Decode: func(any) (string, error) { return "fallback", nil }},
	}

	got, err := DecodeUnion(3, arms...)
	require.NoError(t, err)
	assert.Equal(t, "index", got)

	got, err = DecodeUnion(Object{}, arms...)
	require.NoError(t, err)
	assert.Equal(t, "object", got)

	got, err = DecodeUnion("x", arms...)
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)

	_, err = DecodeUnion("x", arms[:2]...)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestDecodeUnionAcceptedArmErrorIsFinal(t *testing.T) {
	bad := errors.New("rejected")
	_, err := DecodeUnion(1,
		DecodeArm[int]{Accepts: IsInteger, Decode: func(any) (int, error) { return 0, bad }},
		DecodeArm[int]{Accepts: func(any) bool { return true }, Decode: func(any) (int, error) { return 7, nil }},
	)
	assert.ErrorIs(t, err, bad)
}

func TestEncodeUnion(t *testing.T) {
	arms := []EncodeArm[int]{
		{Accepts: func(i int) bool { return i >= 0 }, Encode: func(i int) (any, error) { return i, nil }},
	}
	got, err := EncodeUnion(2, arms...)
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, err = EncodeUnion(-1, arms...)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestPassthrough(t *testing.T) {
	in := Object{
		"extensions": Object{"VENDOR_thing": Object{"k": []any{1.0, "two"}}},
		"extras":     []any{"anything", nil},
	}
	p, err := DecodePassthrough(in)
	require.NoError(t, err)
	assert.Equal(t, Extensions{"VENDOR_thing": Object{"k": []any{1.0, "two"}}}, p.Extensions)
	assert.Equal(t, []any{"anything", nil}, p.Extras)

	out := Object{}
	p.EncodePassthrough(out)
	assert.Equal(t, in, out)
}

func TestPassthroughOmitsNil(t *testing.T) {
	out := Object{}
	Passthrough{}.EncodePassthrough(out)
	assert.Empty(t, out)

	p, err := DecodePassthrough(Object{"extensions": nil, "extras": nil})
	require.NoError(t, err)
	assert.Nil(t, p.Extensions)
	assert.Nil(t, p.Extras)
}

func TestPassthroughRejectsNonObjectExtension(t *testing.T) {
	_, err := DecodePassthrough(Object{"extensions": Object{"VENDOR_x": 3.0}})
	assert.ErrorIs(t, err, ErrSchemaViolation)

	_, err = DecodePassthrough(Object{"extensions": []any{}})
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

type fakeEncoder struct{ obj Object }

func (f fakeEncoder) ToWire() (Object, error) { return f.obj, nil }

func TestArrayAppend(t *testing.T) {
	var a Array
	i, err := a.Append(Object{"sphere": Object{"radius": 1.0}})
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = a.Append(fakeEncoder{Object{"type": "box"}})
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = a.Append(42)
	assert.ErrorIs(t, err, ErrInvalidValue)

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []any{Object{"sphere": Object{"radius": 1.0}}, Object{"type": "box"}}, a.Wire())
}
