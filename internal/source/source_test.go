package source

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClass struct {
	name string
	sig  string
	err  error
}

func (c stubClass) Name() string               { return c.name }
func (c stubClass) QualName() string           { return c.name }
func (c stubClass) Doc() string                { return "" }
func (c stubClass) Signature() (string, error) { return c.sig, c.err }
func (c stubClass) ConstructorDoc() string     { return "" }
func (c stubClass) Ancestors() []Ancestor      { return nil }
func (c stubClass) Properties() []Value        { return nil }
func (c stubClass) Methods() []Function        { return nil }

type stubModule struct {
	Module
	src []byte
	err error
}

func (m stubModule) Source() ([]byte, error) { return m.src, m.err }

func TestClassSignatureFallback(t *testing.T) {
	d := Dialect{ClassFallback: func(name string) string { return "class " + name + "(*args)" }}

	assert.Equal(t, "class A(x)", d.ClassSignature(stubClass{name: "A", sig: "class A(x)"}))
	assert.Equal(t, "class B(*args)", d.ClassSignature(stubClass{name: "B", err: ErrNoSource}))
	assert.Equal(t, "C", Dialect{}.ClassSignature(stubClass{name: "C", err: ErrNoSource}))
}

func TestSourceOrEmpty(t *testing.T) {
	src, err := SourceOrEmpty(stubModule{err: ErrNoSource})
	require.NoError(t, err)
	assert.Nil(t, src)

	boom := errors.New("boom")
	_, err = SourceOrEmpty(stubModule{err: boom})
	assert.ErrorIs(t, err, boom)

	src, err = SourceOrEmpty(stubModule{src: []byte("x = 1")})
	require.NoError(t, err)
	assert.Equal(t, "x = 1", string(src))
}
