package rewrite

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirkon/spanweave/internal/srctest"
)

const shapesSource = `package shapes

import (
	"context"
	it "iter"
)

type Box[T any] struct{}

func (b *Box[T]) Plain() {}
func (b *Box[T]) PlainErr() (int, error) { return 0, nil }
func (b *Box[T]) Named() (x, y int) { return }
func (b *Box[T]) Events() <-chan T { return nil }
func (b *Box[T]) Bidi() chan T { return nil }
func (b *Box[T]) BidiErr() (chan T, error) { return nil, nil }
func (b *Box[T]) Sink() chan<- T { return nil }
func (b *Box[T]) EventsErr(ctx context.Context) (<-chan error, error) { return nil, nil }
func (b *Box[T]) TwoChans() (<-chan T, <-chan T) { return nil, nil }
func (b *Box[T]) Items() it.Seq[T] { return nil }
func (b *Box[T]) Pairs() it.Seq2[string, T] { return nil }
func (b *Box[T]) Results(_ context.Context, ctx context.Context) it.Seq2[T, error] { return nil }
func (b *Box[T]) WithErr() (it.Seq[T], error) { return nil, nil }
func (Box[T]) NoName() {}
func Free(ctx context.Context) {}
`

func TestClassify(t *testing.T) {
	_, file := srctest.Parse(t, "shapes.go", shapesSource)
	names := DefaultNames()
	names.Iter = "it"

	tests := []struct {
		method string
		shape  string
		ctx    string
	}{
		{method: "Plain", shape: "plain"},
		{method: "PlainErr", shape: "plain"},
		{method: "Named", shape: "plain"},
		{method: "Events", shape: "async"},
		{method: "Bidi", shape: "plain"},
		{method: "BidiErr", shape: "plain"},
		{method: "Sink", shape: "plain"},
		{method: "EventsErr", shape: "async", ctx: "ctx"},
		{method: "TwoChans", shape: "plain"},
		{method: "Items", shape: "generator"},
		{method: "Pairs", shape: "generator"},
		{method: "Results", shape: "async generator", ctx: "ctx"},
		{method: "WithErr", shape: "plain"},
		{method: "NoName", shape: "plain"},
	}

	decls := map[string]*ast.FuncDecl{}
	for _, decl := range file.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok {
			decls[fd.Name.Name] = fd
		}
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			decl := decls[tt.method]
			require.NotNil(t, decl)

			m, ok := Describe(decl, names)
			require.True(t, ok)
			assert.Equal(t, "Box", m.Class)
			assert.Equal(t, tt.shape, m.Shape.String())
			assert.Equal(t, tt.ctx, m.Ctx)
			assert.True(t, m.HasBody())
			assert.False(t, m.Private)
		})
	}

	t.Run("free function", func(t *testing.T) {
		_, ok := Describe(decls["Free"], names)
		assert.False(t, ok)
	})

	t.Run("iter not imported", func(t *testing.T) {
		names := DefaultNames()
		names.Iter = ""
		assert.Equal(t, Plain{}, Classify(decls["Items"], names))
	})

	t.Run("shape payload", func(t *testing.T) {
		async := Classify(decls["EventsErr"], names).(Async)
		assert.True(t, async.WithError)
		assert.True(t, isErrorType(async.Elem))

		gen := Classify(decls["Pairs"], names).(Generator)
		assert.Equal(t, "string", gen.Key.(*ast.Ident).Name)
		assert.Equal(t, "T", gen.Value.(*ast.Ident).Name)

		items := Classify(decls["Items"], names).(Generator)
		assert.Nil(t, items.Key)
	})
}

func TestReceiverClass(t *testing.T) {
	_, file := srctest.Parse(t, "recv.go", `package recv

func (s *Service) A() {}
func (s Service) B() {}
func (s *Pair[K, V]) C() {}
func (s (*Paren)) D() {}
func E() {}
func (_ private) f() {}
`)

	var got []string
	for _, decl := range file.Decls {
		got = append(got, ReceiverClass(decl.(*ast.FuncDecl)))
	}
	assert.Equal(t, []string{"Service", "Service", "Pair", "Paren", "", "private"}, got)
}

func TestDescribePrivate(t *testing.T) {
	_, file := srctest.Parse(t, "priv.go", `package priv

func (s *Service) load() {}
func (s *Service) _Hidden() {}
func (s *Service) asm()
`)

	for _, decl := range file.Decls {
		m, ok := Describe(decl.(*ast.FuncDecl), DefaultNames())
		require.True(t, ok)
		assert.True(t, m.Private, m.Name)
	}

	m, _ := Describe(file.Decls[2].(*ast.FuncDecl), DefaultNames())
	assert.False(t, m.HasBody())
}
